package usecase

import (
	"context"
	"errors"
	"time"

	"lastwill-backend/internal/domain/entity"
	"lastwill-backend/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidDateRange = errors.New("invalid date range")
)

type AvailabilityUsecase interface {
	// AvailableSlots returns a lazy iterator over the professional's
	// bookable windows in [from, to), in chronological order. An empty
	// iterator is a valid no-availability answer.
	AvailableSlots(ctx context.Context, professionalID uuid.UUID, from, to time.Time) (*SlotIterator, error)
	// FirstAvailableSlot returns the earliest bookable window in the range,
	// or nil when there is none.
	FirstAvailableSlot(ctx context.Context, professionalID uuid.UUID, from, to time.Time) (*entity.TimeWindow, error)
}

type availabilityUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	availabilityRepo repository.AvailabilityRepository
	appointmentRepo  repository.AppointmentRepository
}

func NewAvailabilityUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	availabilityRepo repository.AvailabilityRepository,
	appointmentRepo repository.AppointmentRepository,
) AvailabilityUsecase {
	return &availabilityUsecase{
		db:               db,
		log:              log,
		availabilityRepo: availabilityRepo,
		appointmentRepo:  appointmentRepo,
	}
}

// AvailableSlots loads the template, blocked dates and consumed windows for
// the range in three queries, then expands them day by day on demand.
// PENDING requests do not consume slots; only CONFIRMED and IN_PROGRESS do.
func (u *availabilityUsecase) AvailableSlots(ctx context.Context, professionalID uuid.UUID, from, to time.Time) (*SlotIterator, error) {
	if !to.After(from) {
		return nil, ErrInvalidDateRange
	}

	template, err := u.availabilityRepo.FindTemplate(ctx, u.db, professionalID)
	if err != nil {
		u.log.Warnf("Failed to load template for %s: %+v", professionalID, err)
		return nil, err
	}
	if len(template) == 0 {
		return newSlotIterator(from, to, nil, nil, nil), nil
	}

	blocked, err := u.availabilityRepo.FindBlockedDates(ctx, u.db, professionalID, from, to)
	if err != nil {
		u.log.Warnf("Failed to load blocked dates for %s: %+v", professionalID, err)
		return nil, err
	}

	busy, err := u.appointmentRepo.FindBusyWindows(ctx, u.db, professionalID, from, to)
	if err != nil {
		u.log.Warnf("Failed to load busy windows for %s: %+v", professionalID, err)
		return nil, err
	}

	return newSlotIterator(from, to, template, blocked, busy), nil
}

func (u *availabilityUsecase) FirstAvailableSlot(ctx context.Context, professionalID uuid.UUID, from, to time.Time) (*entity.TimeWindow, error) {
	it, err := u.AvailableSlots(ctx, professionalID, from, to)
	if err != nil {
		return nil, err
	}
	return it.Next(ctx)
}

// SlotIterator walks a professional's bookable windows chronologically.
// Day expansion is lazy, so abandoning the iterator early never computes
// windows past the last one consumed.
type SlotIterator struct {
	byWeekday map[time.Weekday][]entity.TemplateInterval
	blocked   []entity.BlockedDate
	busy      []entity.TimeWindow

	from  time.Time
	until time.Time
	cur   time.Time
	queue []entity.TimeWindow
}

func newSlotIterator(from, to time.Time, template []entity.TemplateInterval, blocked []entity.BlockedDate, busy []entity.TimeWindow) *SlotIterator {
	byWeekday := make(map[time.Weekday][]entity.TemplateInterval, len(template))
	for _, iv := range template {
		byWeekday[iv.Weekday] = append(byWeekday[iv.Weekday], iv)
	}
	start := from.Truncate(24 * time.Hour)
	return &SlotIterator{
		byWeekday: byWeekday,
		blocked:   blocked,
		busy:      busy,
		from:      from,
		until:     to,
		cur:       start,
	}
}

// Next returns the next bookable window, or nil when the range is
// exhausted. Honors ctx cancellation between days.
func (it *SlotIterator) Next(ctx context.Context) (*entity.TimeWindow, error) {
	for len(it.queue) == 0 && it.cur.Before(it.until) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		it.queue = it.windowsForDate(it.cur)
		it.cur = it.cur.AddDate(0, 0, 1)
	}

	if len(it.queue) == 0 {
		return nil, nil
	}

	window := it.queue[0]
	it.queue = it.queue[1:]
	return &window, nil
}

// Collect drains up to limit windows; limit <= 0 means no limit
func (it *SlotIterator) Collect(ctx context.Context, limit int) ([]entity.TimeWindow, error) {
	var windows []entity.TimeWindow
	for limit <= 0 || len(windows) < limit {
		window, err := it.Next(ctx)
		if err != nil {
			return nil, err
		}
		if window == nil {
			break
		}
		windows = append(windows, *window)
	}
	return windows, nil
}

// windowsForDate expands one calendar date. A blocked date removes the whole
// day; otherwise template slots minus busy windows, clipped to the range.
func (it *SlotIterator) windowsForDate(date time.Time) []entity.TimeWindow {
	intervals, ok := it.byWeekday[date.Weekday()]
	if !ok {
		return nil
	}

	for i := range it.blocked {
		if it.blocked[i].Covers(date) {
			return nil
		}
	}

	var windows []entity.TimeWindow
	for _, iv := range intervals {
		windows = append(windows, entity.ExpandInterval(date, iv)...)
	}
	windows = entity.FilterBusy(windows, it.busy)

	// Clip to the requested range boundaries
	clipped := windows[:0]
	for _, w := range windows {
		if !w.Start.Before(it.from) && !w.End.After(it.until) {
			clipped = append(clipped, w)
		}
	}
	entity.SortWindows(clipped)
	return clipped
}
