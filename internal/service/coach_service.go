package service

import (
	"coachfit/coaching-app/internal/domain"
	"coachfit/coaching-app/internal/observability"
	"coachfit/coaching-app/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrClientNotFound        = errors.New("client user not found")
	ErrClientNotRole         = errors.New("user found but is not a client")
	ErrClientAlreadyCoached  = errors.New("client is already assigned to a coach")
	ErrClientNotManaged      = errors.New("client is not managed by this coach")
	ErrPlanNotFound          = errors.New("workout plan not found")
	ErrPlanAccessDenied      = errors.New("access denied to this plan")
	ErrPlanNotTemplate       = errors.New("plan is not a template")
	ErrTemplateArchived      = errors.New("template is archived")
	ErrCheckInNotFound       = errors.New("check-in not found")
	ErrCheckInAccessDenied   = errors.New("access denied to this check-in")
	ErrActiveCheckInExists   = errors.New("client already has an active check-in")
	ErrInvalidPlanForm       = errors.New("plan must have 1-12 weeks and 1-7 workouts per week")
	ErrScheduleNotFound      = errors.New("check-in schedule not found")
	ErrInvalidScheduleStatus = errors.New("schedule status must be ACTIVE, PAUSED, or INACTIVE")
)

// ClientOverview pairs a client with their derived training state for the
// coach dashboard.
type ClientOverview struct {
	Client        domain.User         `json:"client"`
	Plan          *domain.WorkoutPlan `json:"plan,omitempty"`
	CurrentWeek   int                 `json:"currentWeek,omitempty"`
	ActiveCheckIn *domain.CheckIn     `json:"activeCheckIn,omitempty"`
}

type CoachService interface {
	// Client management
	AddClientByEmail(ctx context.Context, coachID primitive.ObjectID, clientEmail string) (*domain.User, error)
	GetManagedClients(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)
	GetClientOverview(ctx context.Context, coachID, clientID primitive.ObjectID) (*ClientOverview, error)

	// Template management
	CreateTemplate(ctx context.Context, coachID primitive.ObjectID, form domain.PlanForm) (*domain.WorkoutPlan, error)
	GetTemplates(ctx context.Context, coachID primitive.ObjectID, includeArchived bool) ([]domain.WorkoutPlan, error)
	DuplicateTemplate(ctx context.Context, coachID, templateID primitive.ObjectID, name string) (*domain.WorkoutPlan, error)
	ArchiveTemplate(ctx context.Context, coachID, templateID primitive.ObjectID) error
	UnarchiveTemplate(ctx context.Context, coachID, templateID primitive.ObjectID) error

	// Plan assignment
	AssignPlanToClient(ctx context.Context, coachID, clientID, templateID primitive.ObjectID, startDate time.Time) (*domain.WorkoutPlan, error)

	// Check-ins
	CreateCheckIn(ctx context.Context, coachID, clientID primitive.ObjectID) (*domain.CheckIn, error)
	GetClientCheckIns(ctx context.Context, coachID, clientID primitive.ObjectID) ([]domain.CheckIn, error)
	CompleteCheckIn(ctx context.Context, coachID, checkInID primitive.ObjectID, review domain.CoachReview) (*domain.CheckIn, error)
	SetCheckInScheduleStatus(ctx context.Context, coachID, clientID primitive.ObjectID, status domain.ScheduleStatus) error
	GenerateDueCheckIns(ctx context.Context) (int, error)
}

// coachService implements the CoachService interface.
type coachService struct {
	userRepo     repository.UserRepository
	planRepo     repository.PlanRepository
	checkInRepo  repository.CheckInRepository
	scheduleRepo repository.CheckInScheduleRepository
}

// NewCoachService creates a new instance of coachService.
func NewCoachService(
	userRepo repository.UserRepository,
	planRepo repository.PlanRepository,
	checkInRepo repository.CheckInRepository,
	scheduleRepo repository.CheckInScheduleRepository,
) CoachService {
	return &coachService{
		userRepo:     userRepo,
		planRepo:     planRepo,
		checkInRepo:  checkInRepo,
		scheduleRepo: scheduleRepo,
	}
}

// === Client Management ===

// AddClientByEmail finds a client by email and puts them on the coach's roster.
func (s *coachService) AddClientByEmail(ctx context.Context, coachID primitive.ObjectID, clientEmail string) (*domain.User, error) {
	if coachID == primitive.NilObjectID || clientEmail == "" {
		return nil, errors.New("coach ID and client email are required")
	}

	client, err := s.userRepo.GetByEmail(ctx, clientEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	if client.Role != domain.RoleClient {
		return nil, ErrClientNotRole
	}

	if client.CoachID != nil && *client.CoachID != primitive.NilObjectID {
		if *client.CoachID == coachID {
			// Already on this coach's roster.
			return client, nil
		}
		return nil, ErrClientAlreadyCoached
	}

	if err := s.userRepo.AddClientIDToCoach(ctx, coachID, client.ID); err != nil {
		return nil, err
	}
	if err := s.userRepo.SetCoachForClient(ctx, client.ID, coachID); err != nil {
		return nil, err
	}

	client.CoachID = &coachID
	return client, nil
}

// GetManagedClients retrieves the list of clients on the coach's roster.
func (s *coachService) GetManagedClients(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error) {
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID is required")
	}
	clients, err := s.userRepo.GetClientsByCoachID(ctx, coachID)
	if err != nil {
		return nil, err
	}
	for i := range clients {
		clients[i].PasswordHash = ""
	}
	return clients, nil
}

// GetClientOverview assembles the coach's dashboard view of one client:
// profile, current plan with derived week number, and any active check-in.
func (s *coachService) GetClientOverview(ctx context.Context, coachID, clientID primitive.ObjectID) (*ClientOverview, error) {
	client, err := s.requireManagedClient(ctx, coachID, clientID)
	if err != nil {
		return nil, err
	}
	client.PasswordHash = ""

	overview := &ClientOverview{Client: *client}

	if client.CurrentPlanID != nil && client.PlanStartDate != nil {
		plan, err := s.planRepo.GetByID(ctx, *client.CurrentPlanID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if plan != nil {
			overview.Plan = plan
			overview.CurrentWeek = domain.CurrentWeekNumber(*client.PlanStartDate, plan.DurationWeeks, time.Now())
		}
	}

	active, err := s.checkInRepo.GetActiveByClientID(ctx, clientID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	overview.ActiveCheckIn = active

	return overview, nil
}

// requireManagedClient fetches the client and verifies the coach relationship.
func (s *coachService) requireManagedClient(ctx context.Context, coachID, clientID primitive.ObjectID) (*domain.User, error) {
	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if client.Role != domain.RoleClient {
		return nil, ErrClientNotRole
	}
	if client.CoachID == nil || *client.CoachID != coachID {
		return nil, ErrClientNotManaged
	}
	return client, nil
}

// === Template Management ===

// CreateTemplate authors a fresh plan template from the structure form.
func (s *coachService) CreateTemplate(ctx context.Context, coachID primitive.ObjectID, form domain.PlanForm) (*domain.WorkoutPlan, error) {
	if coachID == primitive.NilObjectID || form.Name == "" {
		return nil, errors.New("coach ID and plan name are required")
	}
	if form.DurationWeeks < 1 || form.DurationWeeks > 12 || form.WorkoutsPerWeek < 1 || form.WorkoutsPerWeek > 7 {
		return nil, ErrInvalidPlanForm
	}

	plan := domain.GeneratePlanStructure(form, coachID, time.Now())
	if _, err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// GetTemplates retrieves the coach's plan templates.
func (s *coachService) GetTemplates(ctx context.Context, coachID primitive.ObjectID, includeArchived bool) ([]domain.WorkoutPlan, error) {
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID is required")
	}
	return s.planRepo.GetTemplatesByCoachID(ctx, coachID, includeArchived)
}

// requireOwnedTemplate fetches a plan and verifies it is the coach's template.
func (s *coachService) requireOwnedTemplate(ctx context.Context, coachID, templateID primitive.ObjectID) (*domain.WorkoutPlan, error) {
	plan, err := s.planRepo.GetByID(ctx, templateID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	if plan.CoachID != coachID {
		return nil, ErrPlanAccessDenied
	}
	if !plan.IsTemplate {
		return nil, ErrPlanNotTemplate
	}
	return plan, nil
}

// DuplicateTemplate copies a template into a new template, optionally renamed.
func (s *coachService) DuplicateTemplate(ctx context.Context, coachID, templateID primitive.ObjectID, name string) (*domain.WorkoutPlan, error) {
	template, err := s.requireOwnedTemplate(ctx, coachID, templateID)
	if err != nil {
		return nil, err
	}

	copied := domain.CopyPlan(template, domain.CopyOptions{Name: name}, time.Now())
	if _, err := s.planRepo.Create(ctx, copied); err != nil {
		return nil, err
	}
	observability.PlansForked.WithLabelValues("template").Inc()
	return copied, nil
}

// ArchiveTemplate hides a template from the coach's library. Existing client
// instances keep running; archiving never cascades.
func (s *coachService) ArchiveTemplate(ctx context.Context, coachID, templateID primitive.ObjectID) error {
	if _, err := s.requireOwnedTemplate(ctx, coachID, templateID); err != nil {
		return err
	}
	return s.planRepo.SetArchived(ctx, templateID, coachID, true)
}

// UnarchiveTemplate restores an archived template.
func (s *coachService) UnarchiveTemplate(ctx context.Context, coachID, templateID primitive.ObjectID) error {
	if _, err := s.requireOwnedTemplate(ctx, coachID, templateID); err != nil {
		return err
	}
	return s.planRepo.SetArchived(ctx, templateID, coachID, false)
}

// === Plan Assignment ===

// AssignPlanToClient forks the template into a client instance, points the
// client at it, and ensures a weekly check-in schedule anchored at the start
// date.
func (s *coachService) AssignPlanToClient(ctx context.Context, coachID, clientID, templateID primitive.ObjectID, startDate time.Time) (*domain.WorkoutPlan, error) {
	if _, err := s.requireManagedClient(ctx, coachID, clientID); err != nil {
		return nil, err
	}
	template, err := s.requireOwnedTemplate(ctx, coachID, templateID)
	if err != nil {
		return nil, err
	}
	if template.IsArchived() {
		return nil, ErrTemplateArchived
	}
	if startDate.IsZero() {
		startDate = time.Now()
	}

	instance := domain.CopyPlan(template, domain.CopyOptions{MakeInstance: true}, time.Now())
	if _, err := s.planRepo.Create(ctx, instance); err != nil {
		return nil, err
	}
	observability.PlansForked.WithLabelValues("instance").Inc()

	if err := s.userRepo.SetCurrentPlan(ctx, clientID, instance.ID, startDate); err != nil {
		return nil, err
	}

	schedule := &domain.CheckInSchedule{
		ClientID:   clientID,
		CoachID:    coachID,
		Status:     domain.ScheduleActive,
		Cadence:    domain.CadenceWeekly,
		AnchorDate: startDate.UTC(),
	}
	if err := s.scheduleRepo.Upsert(ctx, schedule); err != nil {
		return nil, err
	}

	return instance, nil
}

// === Check-Ins ===

// CreateCheckIn opens a new pending check-in for a managed client. At most
// one active check-in per client: duplicate creation is rejected here rather
// than left to callers.
func (s *coachService) CreateCheckIn(ctx context.Context, coachID, clientID primitive.ObjectID) (*domain.CheckIn, error) {
	if _, err := s.requireManagedClient(ctx, coachID, clientID); err != nil {
		return nil, err
	}

	_, err := s.checkInRepo.GetActiveByClientID(ctx, clientID)
	if err == nil {
		return nil, ErrActiveCheckInExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	checkIn := domain.NewCheckIn(clientID, coachID, time.Now())
	if _, err := s.checkInRepo.Create(ctx, &checkIn); err != nil {
		return nil, err
	}
	observability.CheckInTransitions.WithLabelValues(string(domain.CheckInPending)).Inc()
	return &checkIn, nil
}

// GetClientCheckIns returns a managed client's check-in history, newest first.
func (s *coachService) GetClientCheckIns(ctx context.Context, coachID, clientID primitive.ObjectID) ([]domain.CheckIn, error) {
	if _, err := s.requireManagedClient(ctx, coachID, clientID); err != nil {
		return nil, err
	}
	return s.checkInRepo.GetByClientID(ctx, clientID)
}

// CompleteCheckIn records the coach's review, closing the check-in and
// stamping the client's LastCheckInDate.
func (s *coachService) CompleteCheckIn(ctx context.Context, coachID, checkInID primitive.ObjectID, review domain.CoachReview) (*domain.CheckIn, error) {
	checkIn, err := s.checkInRepo.GetByID(ctx, checkInID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCheckInNotFound
		}
		return nil, err
	}
	if checkIn.CoachID != coachID {
		return nil, ErrCheckInAccessDenied
	}

	completed, err := checkIn.WithCoachReview(review, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.checkInRepo.Update(ctx, &completed); err != nil {
		return nil, err
	}
	observability.CheckInTransitions.WithLabelValues(string(domain.CheckInCompleted)).Inc()

	if err := s.userRepo.SetLastCheckInDate(ctx, completed.ClientID, *completed.CompletedAt); err != nil {
		// The check-in itself is closed; a stale dashboard date is tolerable.
		return &completed, nil
	}
	return &completed, nil
}

// SetCheckInScheduleStatus pauses, resumes, or retires a client's schedule.
func (s *coachService) SetCheckInScheduleStatus(ctx context.Context, coachID, clientID primitive.ObjectID, status domain.ScheduleStatus) error {
	switch status {
	case domain.ScheduleActive, domain.SchedulePaused, domain.ScheduleInactive:
	default:
		return ErrInvalidScheduleStatus
	}
	if _, err := s.requireManagedClient(ctx, coachID, clientID); err != nil {
		return err
	}
	err := s.scheduleRepo.SetStatus(ctx, clientID, status)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrScheduleNotFound
	}
	return err
}

// GenerateDueCheckIns sweeps every ACTIVE schedule and creates pending
// check-ins for clients whose cadence period has elapsed. Runs at startup and
// on demand; safe to repeat since clients with an active check-in are skipped.
func (s *coachService) GenerateDueCheckIns(ctx context.Context) (int, error) {
	schedules, err := s.scheduleRepo.GetActive(ctx)
	if err != nil {
		return 0, err
	}

	now := time.Now()
	created := 0
	for _, sched := range schedules {
		due := domain.DetectDueCheckIns([]domain.CheckInSchedule{sched}, nil, now)
		if len(due) == 0 {
			continue
		}
		// Check active state against the store, not a snapshot, so the sweep
		// stays correct however long it runs.
		_, err := s.checkInRepo.GetActiveByClientID(ctx, sched.ClientID)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return created, err
		}
		checkIn := due[0]
		if _, err := s.checkInRepo.Create(ctx, &checkIn); err != nil {
			return created, err
		}
		created++
		observability.DueCheckInsGenerated.Inc()
		observability.CheckInTransitions.WithLabelValues(string(domain.CheckInPending)).Inc()
	}
	return created, nil
}
