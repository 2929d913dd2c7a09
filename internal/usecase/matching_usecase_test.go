package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"lastwill-backend/config"
	"lastwill-backend/internal/delivery/dto"
	"lastwill-backend/internal/domain/entity"
	"lastwill-backend/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const clientPostal = "10110"

// matchingFixture wires the matching pipeline against in-memory
// collaborators. The client sits at the fixture origin; candidate
// professionals are placed by latitude offset, each hundredth of a degree
// being roughly 1.11 km.
type matchingFixture struct {
	professionalRepo *fakeProfessionalRepo
	availabilityRepo *fakeAvailabilityRepo
	geo              *fakeGeo
	uc               MatchingUsecase
}

func newMatchingFixture(engine config.EngineConfig) *matchingFixture {
	professionalRepo := newFakeProfessionalRepo()
	availabilityRepo := newFakeAvailabilityRepo()
	appointmentRepo := newFakeAppointmentRepo()
	geo := &fakeGeo{coords: map[string]entity.Coordinates{
		clientPostal: {Latitude: -6.2088, Longitude: 106.8456},
	}}

	log := logrus.New()
	availability := NewAvailabilityUsecase(nil, log, availabilityRepo, appointmentRepo)
	uc := NewMatchingUsecase(nil, log, professionalRepo, geo, availability, engine)

	return &matchingFixture{
		professionalRepo: professionalRepo,
		availabilityRepo: availabilityRepo,
		geo:              geo,
		uc:               uc,
	}
}

// addCandidate registers an approved professional latOffset degrees north of
// the client with availability starting daysAhead days from now.
func (f *matchingFixture) addCandidate(latOffset, radiusKm, rating float64, daysAhead int) uuid.UUID {
	id := uuid.New()
	origin := f.geo.coords[clientPostal]
	f.professionalRepo.candidates = append(f.professionalRepo.candidates, entity.ProfessionalProfile{
		UserID:         id,
		Qualification:  entity.QualificationNotary,
		Latitude:       origin.Latitude + latOffset,
		Longitude:      origin.Longitude,
		OfficeRadiusKm: radiusKm,
		Rating:         rating,
		ApprovalStatus: entity.ApprovalApproved,
	})

	day := time.Now().UTC().AddDate(0, 0, daysAhead)
	f.availabilityRepo.templates[id] = []entity.TemplateInterval{
		{ProfessionalID: id, Weekday: day.Weekday(), StartTime: "09:00", EndTime: "12:00", SlotMinutes: 60},
	}
	return id
}

func defaultEngine() config.EngineConfig {
	return config.EngineConfig{MatchLookaheadDays: 14, MatchMaxCandidates: 20}
}

func searchRequest() *dto.MatchSearchRequest {
	return &dto.MatchSearchRequest{PostalCode: clientPostal, Qualification: string(entity.QualificationNotary)}
}

func TestFindCandidatesUnknownPostal(t *testing.T) {
	f := newMatchingFixture(defaultEngine())

	_, err := f.uc.FindCandidates(context.Background(), &dto.MatchSearchRequest{
		PostalCode:    "99999",
		Qualification: string(entity.QualificationNotary),
	})
	if !errors.Is(err, ErrClientPostalUnknown) {
		t.Fatalf("expected ErrClientPostalUnknown, got %v", err)
	}
}

func TestFindCandidatesRadiusFilter(t *testing.T) {
	f := newMatchingFixture(defaultEngine())

	// About 1.1 km away with room to spare
	within := f.addCandidate(0.01, 5, 4.0, 1)
	// Same distance but a service radius that cannot reach the client
	f.addCandidate(0.01, 0.5, 5.0, 1)

	result, err := f.uc.FindCandidates(context.Background(), searchRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("expected 1 candidate, got %d", result.Total)
	}
	if result.Candidates[0].ProfessionalID != within {
		t.Errorf("wrong candidate survived: %s", result.Candidates[0].ProfessionalID)
	}
}

func TestFindCandidatesRadiusBoundary(t *testing.T) {
	f := newMatchingFixture(defaultEngine())

	origin := f.geo.coords[clientPostal]
	separation := service.HaversineKm(origin, entity.Coordinates{
		Latitude:  origin.Latitude + 0.01,
		Longitude: origin.Longitude,
	})

	// A service radius of exactly the separation still reaches the client
	onEdge := f.addCandidate(0.01, separation, 4.0, 1)
	// The slightest shortfall leaves the client out of reach
	f.addCandidate(0.01, separation-0.0001, 5.0, 2)

	result, err := f.uc.FindCandidates(context.Background(), searchRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("expected only the exact-radius candidate, got %d", result.Total)
	}
	if result.Candidates[0].ProfessionalID != onEdge {
		t.Errorf("wrong candidate survived: %s", result.Candidates[0].ProfessionalID)
	}
}

func TestFindCandidatesSkipsUnresolvedCoordinates(t *testing.T) {
	f := newMatchingFixture(defaultEngine())

	id := uuid.New()
	f.professionalRepo.candidates = append(f.professionalRepo.candidates, entity.ProfessionalProfile{
		UserID:         id,
		OfficeRadiusKm: 100,
		Rating:         5.0,
		ApprovalStatus: entity.ApprovalApproved,
	})

	result, err := f.uc.FindCandidates(context.Background(), searchRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 0 {
		t.Fatalf("professional without resolved coordinates must not match, got %d", result.Total)
	}
}

func TestFindCandidatesRequiresAvailability(t *testing.T) {
	f := newMatchingFixture(defaultEngine())

	// In range but with no weekly template at all
	id := uuid.New()
	origin := f.geo.coords[clientPostal]
	f.professionalRepo.candidates = append(f.professionalRepo.candidates, entity.ProfessionalProfile{
		UserID:         id,
		Latitude:       origin.Latitude + 0.01,
		Longitude:      origin.Longitude,
		OfficeRadiusKm: 10,
		Rating:         5.0,
		ApprovalStatus: entity.ApprovalApproved,
	})

	result, err := f.uc.FindCandidates(context.Background(), searchRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 0 {
		t.Fatalf("candidate without availability must not match, got %d", result.Total)
	}
}

func TestFindCandidatesRanking(t *testing.T) {
	f := newMatchingFixture(defaultEngine())

	// Farthest
	far := f.addCandidate(0.05, 50, 5.0, 1)
	// Closest pair at the same distance, ranked by rating
	nearLow := f.addCandidate(0.01, 50, 3.0, 1)
	nearHigh := f.addCandidate(0.01, 50, 4.5, 1)
	// Same distance and rating as nearHigh, later availability
	nearHighLater := f.addCandidate(0.01, 50, 4.5, 5)

	result, err := f.uc.FindCandidates(context.Background(), searchRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 4 {
		t.Fatalf("expected 4 candidates, got %d", result.Total)
	}

	want := []uuid.UUID{nearHigh, nearHighLater, nearLow, far}
	for i, id := range want {
		if result.Candidates[i].ProfessionalID != id {
			t.Errorf("position %d: got %s, want %s", i, result.Candidates[i].ProfessionalID, id)
		}
	}

	if result.Candidates[0].EarliestSlotStart.IsZero() {
		t.Error("candidate is missing its earliest slot")
	}
	if result.Candidates[0].DistanceKm <= 0 {
		t.Error("candidate is missing its distance")
	}
}

func TestFindCandidatesCap(t *testing.T) {
	engine := defaultEngine()
	engine.MatchMaxCandidates = 2
	f := newMatchingFixture(engine)

	f.addCandidate(0.01, 50, 4.0, 1)
	f.addCandidate(0.02, 50, 4.0, 1)
	f.addCandidate(0.03, 50, 4.0, 1)

	result, err := f.uc.FindCandidates(context.Background(), searchRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Total != 2 {
		t.Fatalf("expected capped list of 2, got %d", result.Total)
	}
	// The cap keeps the best-ranked candidates
	if result.Candidates[0].DistanceKm > result.Candidates[1].DistanceKm {
		t.Error("capped list is not in rank order")
	}
}
