package usecase

import (
	"context"
	"strings"
	"time"

	"lastwill-backend/internal/delivery/http/middleware"
	"lastwill-backend/internal/domain/entity"
	"lastwill-backend/internal/service"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// actorContext seeds a context the way the auth middleware does for a
// logged-in user.
func actorContext(userID uuid.UUID, roleID int) context.Context {
	ctx := context.WithValue(context.Background(), middleware.UserIDKey, userID)
	return context.WithValue(ctx, middleware.RoleIDKey, roleID)
}

// fakeAppointmentRepo is an in-memory AppointmentRepository. The conditional
// writes are scripted through confirmRows/updateRows so tests can exercise
// both sides of a race without a database.
type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*entity.Appointment
	busy         map[uuid.UUID][]entity.TimeWindow

	confirmRows int64
	updateRows  int64

	// statusOnReread, when set, is what FindByID reports after the first
	// lookup. It simulates a concurrent transition between the guard check
	// and the conditional update.
	statusOnReread entity.AppointmentStatus
	findCalls      int
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{
		appointments: make(map[uuid.UUID]*entity.Appointment),
		busy:         make(map[uuid.UUID][]entity.TimeWindow),
	}
}

func (f *fakeAppointmentRepo) put(a *entity.Appointment) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	f.appointments[a.ID] = a
}

func (f *fakeAppointmentRepo) Create(_ context.Context, _ *gorm.DB, appointment *entity.Appointment) error {
	f.put(appointment)
	return nil
}

func (f *fakeAppointmentRepo) FindByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	stored, ok := f.appointments[id]
	if !ok {
		return nil, nil
	}
	f.findCalls++
	clone := *stored
	if f.statusOnReread != "" && f.findCalls > 1 {
		clone.Status = f.statusOnReread
	}
	return &clone, nil
}

func (f *fakeAppointmentRepo) FindByClientID(_ context.Context, _ *gorm.DB, clientID uuid.UUID) ([]entity.Appointment, error) {
	var result []entity.Appointment
	for _, a := range f.appointments {
		if a.ClientID == clientID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (f *fakeAppointmentRepo) FindByProfessionalID(_ context.Context, _ *gorm.DB, professionalID uuid.UUID) ([]entity.Appointment, error) {
	var result []entity.Appointment
	for _, a := range f.appointments {
		if a.ProfessionalID == professionalID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (f *fakeAppointmentRepo) FindBusyWindows(_ context.Context, _ *gorm.DB, professionalID uuid.UUID, _, _ time.Time) ([]entity.TimeWindow, error) {
	return f.busy[professionalID], nil
}

func (f *fakeAppointmentRepo) ConfirmIfNoConflict(_ context.Context, _ *gorm.DB, id, _ uuid.UUID, start, end time.Time) (int64, error) {
	if f.confirmRows > 0 {
		if a, ok := f.appointments[id]; ok {
			a.Status = entity.AppointmentStatusConfirmed
			a.ConfirmedStart = &start
			a.ConfirmedEnd = &end
		}
	}
	return f.confirmRows, nil
}

func (f *fakeAppointmentRepo) UpdateStatusIf(_ context.Context, _ *gorm.DB, id uuid.UUID, _ []entity.AppointmentStatus, to entity.AppointmentStatus, reason string) (int64, error) {
	if f.updateRows > 0 {
		if a, ok := f.appointments[id]; ok {
			a.Status = to
			a.CancelledReason = reason
		}
	}
	return f.updateRows, nil
}

func (f *fakeAppointmentRepo) CompleteWithWill(_ context.Context, _ *gorm.DB, id uuid.UUID, payload entity.JSON) (*entity.WillRecord, error) {
	a, ok := f.appointments[id]
	if !ok || a.Status != entity.AppointmentStatusInProgress {
		return nil, gorm.ErrRecordNotFound
	}
	a.Status = entity.AppointmentStatusCompleted
	return &entity.WillRecord{
		ID:             uuid.New(),
		AppointmentID:  id,
		ClientID:       a.ClientID,
		ProfessionalID: a.ProfessionalID,
		Payload:        payload,
		Status:         entity.WillStatusActive,
	}, nil
}

func (f *fakeAppointmentRepo) ExpireStalePending(_ context.Context, _ *gorm.DB, _ time.Time) (int64, error) {
	return 0, nil
}

// fakeAvailabilityRepo serves templates and blocked dates from memory
type fakeAvailabilityRepo struct {
	templates map[uuid.UUID][]entity.TemplateInterval
	blocked   map[uuid.UUID][]entity.BlockedDate
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{
		templates: make(map[uuid.UUID][]entity.TemplateInterval),
		blocked:   make(map[uuid.UUID][]entity.BlockedDate),
	}
}

func (f *fakeAvailabilityRepo) FindTemplate(_ context.Context, _ *gorm.DB, professionalID uuid.UUID) ([]entity.TemplateInterval, error) {
	return f.templates[professionalID], nil
}

func (f *fakeAvailabilityRepo) ReplaceTemplate(_ context.Context, _ *gorm.DB, professionalID uuid.UUID, intervals []entity.TemplateInterval) error {
	f.templates[professionalID] = intervals
	return nil
}

func (f *fakeAvailabilityRepo) CreateBlockedDate(_ context.Context, _ *gorm.DB, blocked *entity.BlockedDate) error {
	f.blocked[blocked.ProfessionalID] = append(f.blocked[blocked.ProfessionalID], *blocked)
	return nil
}

func (f *fakeAvailabilityRepo) DeleteBlockedDate(_ context.Context, _ *gorm.DB, professionalID uuid.UUID, id int) (int64, error) {
	dates := f.blocked[professionalID]
	for i := range dates {
		if dates[i].ID == id {
			f.blocked[professionalID] = append(dates[:i], dates[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeAvailabilityRepo) FindBlockedDates(_ context.Context, _ *gorm.DB, professionalID uuid.UUID, _, _ time.Time) ([]entity.BlockedDate, error) {
	return f.blocked[professionalID], nil
}

// fakeWillRepo is an in-memory WillRecordRepository
type fakeWillRepo struct {
	wills map[uuid.UUID]*entity.WillRecord

	notifications []entity.DeathNotification
}

func newFakeWillRepo() *fakeWillRepo {
	return &fakeWillRepo{wills: make(map[uuid.UUID]*entity.WillRecord)}
}

func (f *fakeWillRepo) put(w *entity.WillRecord) {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	f.wills[w.ID] = w
}

func (f *fakeWillRepo) FindByID(_ context.Context, _ *gorm.DB, id uuid.UUID) (*entity.WillRecord, error) {
	w, ok := f.wills[id]
	if !ok {
		return nil, nil
	}
	clone := *w
	return &clone, nil
}

func (f *fakeWillRepo) FindByClientID(_ context.Context, _ *gorm.DB, clientID uuid.UUID) ([]entity.WillRecord, error) {
	var result []entity.WillRecord
	for _, w := range f.wills {
		if w.ClientID == clientID {
			result = append(result, *w)
		}
	}
	return result, nil
}

func (f *fakeWillRepo) FindByAppointmentID(_ context.Context, _ *gorm.DB, appointmentID uuid.UUID) (*entity.WillRecord, error) {
	for _, w := range f.wills {
		if w.AppointmentID == appointmentID {
			clone := *w
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeWillRepo) SearchByClientName(_ context.Context, _ *gorm.DB, fullName string) ([]entity.WillRecord, error) {
	var result []entity.WillRecord
	for _, w := range f.wills {
		if strings.EqualFold(w.Client.User.FullName, fullName) {
			result = append(result, *w)
		}
	}
	return result, nil
}

func (f *fakeWillRepo) BeginExecution(_ context.Context, _ *gorm.DB, willID uuid.UUID, notification *entity.DeathNotification) (bool, error) {
	f.notifications = append(f.notifications, *notification)
	w, ok := f.wills[willID]
	if !ok {
		return false, gorm.ErrRecordNotFound
	}
	if w.Status != entity.WillStatusActive {
		return false, nil
	}
	w.Status = entity.WillStatusExecuting
	return true, nil
}

func (f *fakeWillRepo) MarkExecuted(_ context.Context, _ *gorm.DB, willID uuid.UUID) (int64, error) {
	w, ok := f.wills[willID]
	if !ok || w.Status != entity.WillStatusExecuting {
		return 0, nil
	}
	w.Status = entity.WillStatusExecuted
	return 1, nil
}

// fakeProfessionalRepo serves profiles from memory. FindCandidates returns
// the scripted candidate list; filtering correctness is the query's concern.
type fakeProfessionalRepo struct {
	profiles   map[uuid.UUID]*entity.ProfessionalProfile
	candidates []entity.ProfessionalProfile
	updateRows int64
}

func newFakeProfessionalRepo() *fakeProfessionalRepo {
	return &fakeProfessionalRepo{profiles: make(map[uuid.UUID]*entity.ProfessionalProfile)}
}

func (f *fakeProfessionalRepo) Create(_ *gorm.DB, profile *entity.ProfessionalProfile) error {
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeProfessionalRepo) FindByUserID(_ *gorm.DB, userID uuid.UUID) (*entity.ProfessionalProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (f *fakeProfessionalRepo) FindAll(_ *gorm.DB) ([]entity.ProfessionalProfile, error) {
	var result []entity.ProfessionalProfile
	for _, p := range f.profiles {
		result = append(result, *p)
	}
	return result, nil
}

func (f *fakeProfessionalRepo) FindCandidates(_ context.Context, _ *gorm.DB, _ *entity.CandidateFilter) ([]entity.ProfessionalProfile, error) {
	return f.candidates, nil
}

func (f *fakeProfessionalRepo) Update(_ *gorm.DB, profile *entity.ProfessionalProfile) error {
	f.profiles[profile.UserID] = profile
	return nil
}

func (f *fakeProfessionalRepo) UpdateApprovalStatus(_ context.Context, _ *gorm.DB, userID uuid.UUID, status entity.ApprovalStatus) (int64, error) {
	if f.updateRows > 0 {
		if p, ok := f.profiles[userID]; ok {
			p.ApprovalStatus = status
		}
	}
	return f.updateRows, nil
}

// fakeUserRepo serves users from memory
type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (f *fakeUserRepo) put(u *entity.User) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	f.users[u.ID] = u
}

func (f *fakeUserRepo) Create(_ *gorm.DB, user *entity.User) error {
	f.put(user)
	return nil
}

func (f *fakeUserRepo) FindByEmail(_ *gorm.DB, email string) (*entity.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserRepo) Update(_ *gorm.DB, user *entity.User) error {
	f.users[user.ID] = user
	return nil
}

// fakeAuditService counts recorded actions
type fakeAuditService struct {
	actions []string
}

func (f *fakeAuditService) LogAction(_ context.Context, _ *gorm.DB, _ *uuid.UUID, action string, _ string, _ string, _ interface{}) error {
	f.actions = append(f.actions, action)
	return nil
}

// fakeNotifier records deliveries synchronously
type fakeNotifier struct {
	recipients []string
	subjects   []string
}

func (f *fakeNotifier) Notify(_ context.Context, recipient, subject, _ string) {
	f.recipients = append(f.recipients, recipient)
	f.subjects = append(f.subjects, subject)
}

// fakeGeo resolves postal codes from a map and measures real great-circle
// distances so ranking tests use the production metric
type fakeGeo struct {
	coords map[string]entity.Coordinates
}

func (f *fakeGeo) Resolve(_ context.Context, postalCode string) (entity.Coordinates, error) {
	coords, ok := f.coords[postalCode]
	if !ok {
		return entity.Coordinates{}, service.ErrPostalNotFound
	}
	return coords, nil
}

func (f *fakeGeo) DistanceKm(a, b entity.Coordinates) float64 {
	return service.HaversineKm(a, b)
}
