package service

import (
	"coachfit/coaching-app/internal/domain"
	"coachfit/coaching-app/internal/observability"
	"coachfit/coaching-app/internal/repository"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrNoCurrentPlan       = errors.New("client has no current plan")
	ErrDayNotFound         = errors.New("workout day not found in current plan")
	ErrRestDayCompletion   = errors.New("rest days cannot be completed")
	ErrCheckInNotOwned     = errors.New("check-in does not belong to this client")
	ErrMeasurementNotFound = errors.New("measurement not found")
	ErrUploadURLError      = errors.New("failed to generate upload URL")
	ErrDownloadURLError    = errors.New("failed to generate download URL")
	ErrInvalidPhotoContent = errors.New("invalid or missing image content type")
)

// CurrentPlanView is the client's home screen state: the plan, the derived
// week, its calendar-projected days, and today's entry.
type CurrentPlanView struct {
	Plan        *domain.WorkoutPlan   `json:"plan"`
	CurrentWeek int                   `json:"currentWeek"`
	Days        []domain.ScheduledDay `json:"days"`
	Today       *domain.ScheduledDay  `json:"today,omitempty"`
}

// PhotoUploadResponse returns the presigned URL and the key the client
// reports back after uploading.
type PhotoUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

type ClientService interface {
	// Plan viewing
	GetCurrentPlan(ctx context.Context, clientID primitive.ObjectID) (*CurrentPlanView, error)

	// Workout tracking
	CompleteWorkout(ctx context.Context, clientID primitive.ObjectID, weekID, dayID, notes string) (*domain.WorkoutCompletion, error)

	// Check-ins
	GetActiveCheckIn(ctx context.Context, clientID primitive.ObjectID) (*domain.CheckIn, error)
	GetCheckIns(ctx context.Context, clientID primitive.ObjectID) ([]domain.CheckIn, error)
	SubmitCheckInResponse(ctx context.Context, clientID, checkInID primitive.ObjectID, resp domain.ClientResponse) (*domain.CheckIn, error)

	// Measurements
	AddMeasurement(ctx context.Context, measurement *domain.Measurement) (*domain.Measurement, error)
	GetMeasurements(ctx context.Context, clientID primitive.ObjectID) ([]domain.Measurement, error)
	RequestPhotoUploadURL(ctx context.Context, clientID, measurementID primitive.ObjectID, contentType string) (*PhotoUploadResponse, error)
	ConfirmPhotoUpload(ctx context.Context, clientID, measurementID primitive.ObjectID, objectKey string) error
	GetPhotoDownloadURL(ctx context.Context, clientID, measurementID primitive.ObjectID) (string, error)
}

// clientService implements the ClientService interface.
type clientService struct {
	userRepo        repository.UserRepository
	planRepo        repository.PlanRepository
	checkInRepo     repository.CheckInRepository
	completionRepo  repository.CompletionRepository
	measurementRepo repository.MeasurementRepository
	fileStorage     storageFileStorage
}

// storageFileStorage narrows the storage dependency to what this service uses.
type storageFileStorage interface {
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)
}

// NewClientService creates a new instance of clientService.
func NewClientService(
	userRepo repository.UserRepository,
	planRepo repository.PlanRepository,
	checkInRepo repository.CheckInRepository,
	completionRepo repository.CompletionRepository,
	measurementRepo repository.MeasurementRepository,
	fileStorage storageFileStorage,
) ClientService {
	return &clientService{
		userRepo:        userRepo,
		planRepo:        planRepo,
		checkInRepo:     checkInRepo,
		completionRepo:  completionRepo,
		measurementRepo: measurementRepo,
		fileStorage:     fileStorage,
	}
}

// === Plan Viewing ===

// GetCurrentPlan derives the client's current training week from their plan
// start date and projects it onto the calendar.
func (s *clientService) GetCurrentPlan(ctx context.Context, clientID primitive.ObjectID) (*CurrentPlanView, error) {
	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if client.CurrentPlanID == nil || client.PlanStartDate == nil {
		return nil, ErrNoCurrentPlan
	}

	plan, err := s.planRepo.GetByID(ctx, *client.CurrentPlanID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoCurrentPlan
		}
		return nil, err
	}

	now := time.Now()
	weekNumber := domain.CurrentWeekNumber(*client.PlanStartDate, plan.DurationWeeks, now)

	view := &CurrentPlanView{
		Plan:        plan,
		CurrentWeek: weekNumber,
	}

	if weekNumber >= 1 && weekNumber <= len(plan.Weeks) {
		completions, err := s.completionRepo.GetByClientAndPlan(ctx, clientID, plan.ID)
		if err != nil {
			return nil, err
		}
		view.Days = domain.WeekDays(plan.Weeks[weekNumber-1], completions, clientID, now)
		view.Today = domain.TodayWorkout(view.Days, now)
	}

	return view, nil
}

// === Workout Tracking ===

// CompleteWorkout records that the client finished a day of their current
// plan and refreshes their adherence rate.
func (s *clientService) CompleteWorkout(ctx context.Context, clientID primitive.ObjectID, weekID, dayID, notes string) (*domain.WorkoutCompletion, error) {
	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	if client.CurrentPlanID == nil {
		return nil, ErrNoCurrentPlan
	}

	plan, err := s.planRepo.GetByID(ctx, *client.CurrentPlanID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoCurrentPlan
		}
		return nil, err
	}

	_, day := plan.FindDay(weekID, dayID)
	if day == nil {
		return nil, ErrDayNotFound
	}
	if day.IsRestDay {
		return nil, ErrRestDayCompletion
	}

	completion := &domain.WorkoutCompletion{
		ClientID:    clientID,
		PlanID:      plan.ID,
		WeekID:      weekID,
		DayID:       dayID,
		CompletedAt: time.Now().UTC(),
		Notes:       notes,
	}
	if _, err := s.completionRepo.Create(ctx, completion); err != nil {
		return nil, err
	}

	// Adherence: completed workout days over workout days scheduled so far.
	if client.PlanStartDate != nil {
		if rate, ok := s.adherenceRate(ctx, client, plan); ok {
			_ = s.userRepo.SetAdherenceRate(ctx, clientID, rate)
		}
	}

	return completion, nil
}

// adherenceRate computes completions against the workout days elapsed since
// the plan started, capped at 1.
func (s *clientService) adherenceRate(ctx context.Context, client *domain.User, plan *domain.WorkoutPlan) (float64, bool) {
	completions, err := s.completionRepo.GetByClientAndPlan(ctx, client.ID, plan.ID)
	if err != nil {
		return 0, false
	}
	weeksElapsed := domain.CurrentWeekNumber(*client.PlanStartDate, plan.DurationWeeks, time.Now())
	scheduled := weeksElapsed * plan.WorkoutsPerWeek
	if scheduled == 0 {
		return 0, false
	}
	rate := float64(len(completions)) / float64(scheduled)
	if rate > 1 {
		rate = 1
	}
	return rate, true
}

// === Check-Ins ===

// GetActiveCheckIn returns the client's open check-in, or nil when none.
func (s *clientService) GetActiveCheckIn(ctx context.Context, clientID primitive.ObjectID) (*domain.CheckIn, error) {
	checkIn, err := s.checkInRepo.GetActiveByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return checkIn, nil
}

// GetCheckIns returns the client's check-in history, newest first.
func (s *clientService) GetCheckIns(ctx context.Context, clientID primitive.ObjectID) ([]domain.CheckIn, error) {
	return s.checkInRepo.GetByClientID(ctx, clientID)
}

// SubmitCheckInResponse applies the client's answers to a pending check-in.
func (s *clientService) SubmitCheckInResponse(ctx context.Context, clientID, checkInID primitive.ObjectID, resp domain.ClientResponse) (*domain.CheckIn, error) {
	checkIn, err := s.checkInRepo.GetByID(ctx, checkInID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCheckInNotFound
		}
		return nil, err
	}
	if checkIn.ClientID != clientID {
		return nil, ErrCheckInNotOwned
	}

	responded, err := checkIn.WithClientResponse(resp, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.checkInRepo.Update(ctx, &responded); err != nil {
		return nil, err
	}
	observability.CheckInTransitions.WithLabelValues(string(domain.CheckInResponded)).Inc()
	return &responded, nil
}

// === Measurements ===

// AddMeasurement records a body measurement for the client.
func (s *clientService) AddMeasurement(ctx context.Context, measurement *domain.Measurement) (*domain.Measurement, error) {
	if measurement.ClientID == primitive.NilObjectID {
		return nil, errors.New("client ID is required")
	}
	if _, err := s.measurementRepo.Create(ctx, measurement); err != nil {
		return nil, err
	}
	return measurement, nil
}

// GetMeasurements returns the client's measurement history, newest first.
func (s *clientService) GetMeasurements(ctx context.Context, clientID primitive.ObjectID) ([]domain.Measurement, error) {
	return s.measurementRepo.GetByClientID(ctx, clientID)
}

// RequestPhotoUploadURL generates a presigned URL for a progress photo.
func (s *clientService) RequestPhotoUploadURL(ctx context.Context, clientID, measurementID primitive.ObjectID, contentType string) (*PhotoUploadResponse, error) {
	if clientID == primitive.NilObjectID || measurementID == primitive.NilObjectID {
		return nil, errors.New("client ID and measurement ID are required")
	}
	if contentType == "" || !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return nil, ErrInvalidPhotoContent
	}

	if err := s.requireOwnedMeasurement(ctx, clientID, measurementID); err != nil {
		return nil, err
	}

	uniqueID := uuid.NewString()
	fileExtension := ""
	parts := strings.Split(contentType, "/")
	if len(parts) == 2 {
		fileExtension = parts[1]
	}
	objectKey := path.Join("progress-photos", clientID.Hex(), measurementID.Hex(), fmt.Sprintf("%s.%s", uniqueID, fileExtension))

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, 0)
	if err != nil {
		return nil, ErrUploadURLError
	}

	return &PhotoUploadResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
	}, nil
}

// ConfirmPhotoUpload links the uploaded object to the measurement. Called
// after the client has PUT the photo to the presigned URL.
func (s *clientService) ConfirmPhotoUpload(ctx context.Context, clientID, measurementID primitive.ObjectID, objectKey string) error {
	if objectKey == "" {
		return errors.New("object key is required")
	}
	err := s.measurementRepo.SetPhotoObjectKey(ctx, measurementID, clientID, objectKey)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrMeasurementNotFound
	}
	return err
}

// GetPhotoDownloadURL generates a temporary URL to view a progress photo.
func (s *clientService) GetPhotoDownloadURL(ctx context.Context, clientID, measurementID primitive.ObjectID) (string, error) {
	if err := s.requireOwnedMeasurement(ctx, clientID, measurementID); err != nil {
		return "", err
	}

	measurements, err := s.measurementRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return "", err
	}
	for _, m := range measurements {
		if m.ID == measurementID {
			if m.PhotoObjectKey == "" {
				return "", ErrMeasurementNotFound
			}
			url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, m.PhotoObjectKey, 0)
			if err != nil {
				return "", ErrDownloadURLError
			}
			return url, nil
		}
	}
	return "", ErrMeasurementNotFound
}

// requireOwnedMeasurement verifies the measurement exists and belongs to the
// client.
func (s *clientService) requireOwnedMeasurement(ctx context.Context, clientID, measurementID primitive.ObjectID) error {
	measurements, err := s.measurementRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return err
	}
	for _, m := range measurements {
		if m.ID == measurementID {
			return nil
		}
	}
	return ErrMeasurementNotFound
}
