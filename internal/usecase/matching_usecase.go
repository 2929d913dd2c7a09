package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"lastwill-backend/config"
	"lastwill-backend/internal/converter"
	"lastwill-backend/internal/delivery/dto"
	"lastwill-backend/internal/domain/entity"
	"lastwill-backend/internal/domain/repository"
	"lastwill-backend/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrClientPostalUnknown = errors.New("client postal code could not be resolved")
)

type MatchingUsecase interface {
	FindCandidates(ctx context.Context, req *dto.MatchSearchRequest) (*dto.CandidateListResponse, error)
}

type matchingUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	professionalRepo repository.ProfessionalProfileRepository
	geo              service.GeoResolver
	availability     AvailabilityUsecase
	engine           config.EngineConfig
}

func NewMatchingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	professionalRepo repository.ProfessionalProfileRepository,
	geo service.GeoResolver,
	availability AvailabilityUsecase,
	engine config.EngineConfig,
) MatchingUsecase {
	return &matchingUsecase{
		db:               db,
		log:              log,
		professionalRepo: professionalRepo,
		geo:              geo,
		availability:     availability,
		engine:           engine,
	}
}

// scoredCandidate pairs a matchable professional with its ranking inputs
type scoredCandidate struct {
	profile      entity.ProfessionalProfile
	distanceKm   float64
	earliestSlot entity.TimeWindow
}

// FindCandidates runs the matching pipeline: qualification and approval
// filtering in the query, then per-candidate geographic fit and a real
// availability probe. A candidate that cannot be resolved geographically is
// skipped, never an error for the whole search.
func (u *matchingUsecase) FindCandidates(ctx context.Context, req *dto.MatchSearchRequest) (*dto.CandidateListResponse, error) {
	clientCoords, err := u.geo.Resolve(ctx, req.PostalCode)
	if err != nil {
		if errors.Is(err, service.ErrPostalNotFound) {
			return nil, ErrClientPostalUnknown
		}
		u.log.Warnf("Failed to resolve client postal code %s: %+v", req.PostalCode, err)
		return nil, err
	}

	filter := &entity.CandidateFilter{
		Qualification: entity.Qualification(req.Qualification),
		HomeVisit:     req.HomeVisit,
	}
	profiles, err := u.professionalRepo.FindCandidates(ctx, u.db, filter)
	if err != nil {
		u.log.Warnf("Failed to query candidates: %+v", err)
		return nil, err
	}

	now := time.Now().UTC()
	lookahead := now.AddDate(0, 0, u.engine.MatchLookaheadDays)

	var candidates []scoredCandidate
	for _, profile := range profiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		radius := profile.ServiceRadiusKm(req.HomeVisit)
		if radius <= 0 {
			continue
		}
		// Coordinates are resolved at registration; a profile that never
		// resolved stays unmatchable rather than failing the search.
		if profile.Latitude == 0 && profile.Longitude == 0 {
			continue
		}

		coords := entity.Coordinates{Latitude: profile.Latitude, Longitude: profile.Longitude}
		distance := u.geo.DistanceKm(clientCoords, coords)
		if distance > radius {
			continue
		}

		slot, err := u.availability.FirstAvailableSlot(ctx, profile.UserID, now, lookahead)
		if err != nil {
			u.log.Warnf("Failed availability probe for %s, skipping: %+v", profile.UserID, err)
			continue
		}
		if slot == nil {
			continue
		}

		candidates = append(candidates, scoredCandidate{
			profile:      profile,
			distanceKm:   distance,
			earliestSlot: *slot,
		})
	}

	rankCandidates(candidates)

	if len(candidates) > u.engine.MatchMaxCandidates {
		candidates = candidates[:u.engine.MatchMaxCandidates]
	}

	responses := make([]dto.CandidateResponse, len(candidates))
	for i, c := range candidates {
		responses[i] = *converter.CandidateToResponse(&c.profile, c.distanceKm, c.earliestSlot)
	}

	return &dto.CandidateListResponse{
		Candidates: responses,
		Total:      len(responses),
	}, nil
}

// rankCandidates orders by ascending distance, ties broken by descending
// rating, then by earliest available slot.
func rankCandidates(candidates []scoredCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].distanceKm != candidates[j].distanceKm {
			return candidates[i].distanceKm < candidates[j].distanceKm
		}
		if candidates[i].profile.Rating != candidates[j].profile.Rating {
			return candidates[i].profile.Rating > candidates[j].profile.Rating
		}
		return candidates[i].earliestSlot.Start.Before(candidates[j].earliestSlot.Start)
	})
}
