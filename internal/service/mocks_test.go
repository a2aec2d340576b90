package service

import (
	"coachfit/coaching-app/internal/domain"
	"coachfit/coaching-app/internal/repository"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes for the repository interfaces. Deliberately minimal: no
// locking (tests are single-goroutine) and the same ErrNotFound contract as
// the mongo implementations.

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*domain.User{}}
}

func (r *fakeUserRepo) add(user *domain.User) *domain.User {
	if user.ID == primitive.NilObjectID {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = user
	return user
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.add(user)
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) AddClientIDToCoach(ctx context.Context, coachID, clientID primitive.ObjectID) error {
	coach, ok := r.users[coachID]
	if !ok {
		return repository.ErrNotFound
	}
	coach.ClientIDs = append(coach.ClientIDs, clientID)
	return nil
}

func (r *fakeUserRepo) GetClientsByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error) {
	coach, ok := r.users[coachID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	var clients []domain.User
	for _, id := range coach.ClientIDs {
		if c, ok := r.users[id]; ok {
			clients = append(clients, *c)
		}
	}
	return clients, nil
}

func (r *fakeUserRepo) SetCoachForClient(ctx context.Context, clientID, coachID primitive.ObjectID) error {
	client, ok := r.users[clientID]
	if !ok {
		return repository.ErrNotFound
	}
	client.CoachID = &coachID
	return nil
}

func (r *fakeUserRepo) SetCurrentPlan(ctx context.Context, clientID, planID primitive.ObjectID, startDate time.Time) error {
	client, ok := r.users[clientID]
	if !ok {
		return repository.ErrNotFound
	}
	client.CurrentPlanID = &planID
	client.PlanStartDate = &startDate
	return nil
}

func (r *fakeUserRepo) SetLastCheckInDate(ctx context.Context, clientID primitive.ObjectID, date time.Time) error {
	client, ok := r.users[clientID]
	if !ok {
		return repository.ErrNotFound
	}
	client.LastCheckInDate = &date
	return nil
}

func (r *fakeUserRepo) SetAdherenceRate(ctx context.Context, clientID primitive.ObjectID, rate float64) error {
	client, ok := r.users[clientID]
	if !ok {
		return repository.ErrNotFound
	}
	client.AdherenceRate = rate
	return nil
}

type fakePlanRepo struct {
	plans map[primitive.ObjectID]*domain.WorkoutPlan
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{plans: map[primitive.ObjectID]*domain.WorkoutPlan{}}
}

func (r *fakePlanRepo) Create(ctx context.Context, plan *domain.WorkoutPlan) (primitive.ObjectID, error) {
	if plan.ID == primitive.NilObjectID {
		plan.ID = primitive.NewObjectID()
	}
	stored := *plan
	r.plans[plan.ID] = &stored
	return plan.ID, nil
}

func (r *fakePlanRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutPlan, error) {
	p, ok := r.plans[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakePlanRepo) GetTemplatesByCoachID(ctx context.Context, coachID primitive.ObjectID, includeArchived bool) ([]domain.WorkoutPlan, error) {
	var plans []domain.WorkoutPlan
	for _, p := range r.plans {
		if p.CoachID != coachID || !p.IsTemplate {
			continue
		}
		if !includeArchived && p.IsArchived() {
			continue
		}
		plans = append(plans, *p)
	}
	return plans, nil
}

func (r *fakePlanRepo) SetArchived(ctx context.Context, planID, coachID primitive.ObjectID, archived bool) error {
	p, ok := r.plans[planID]
	if !ok || p.CoachID != coachID || !p.IsTemplate {
		return repository.ErrNotFound
	}
	if archived {
		now := time.Now().UTC()
		p.ArchivedAt = &now
	} else {
		p.ArchivedAt = nil
	}
	return nil
}

func (r *fakePlanRepo) Update(ctx context.Context, plan *domain.WorkoutPlan) error {
	if _, ok := r.plans[plan.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *plan
	r.plans[plan.ID] = &stored
	return nil
}

type fakeCheckInRepo struct {
	checkIns map[primitive.ObjectID]*domain.CheckIn
}

func newFakeCheckInRepo() *fakeCheckInRepo {
	return &fakeCheckInRepo{checkIns: map[primitive.ObjectID]*domain.CheckIn{}}
}

func (r *fakeCheckInRepo) Create(ctx context.Context, checkIn *domain.CheckIn) (primitive.ObjectID, error) {
	if checkIn.ID == primitive.NilObjectID {
		checkIn.ID = primitive.NewObjectID()
	}
	stored := *checkIn
	r.checkIns[checkIn.ID] = &stored
	return checkIn.ID, nil
}

func (r *fakeCheckInRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CheckIn, error) {
	c, ok := r.checkIns[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCheckInRepo) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.CheckIn, error) {
	var result []domain.CheckIn
	for _, c := range r.checkIns {
		if c.ClientID == clientID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (r *fakeCheckInRepo) GetActiveByClientID(ctx context.Context, clientID primitive.ObjectID) (*domain.CheckIn, error) {
	for _, c := range r.checkIns {
		if c.ClientID == clientID && c.IsActive() {
			copied := *c
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCheckInRepo) Update(ctx context.Context, checkIn *domain.CheckIn) error {
	if _, ok := r.checkIns[checkIn.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *checkIn
	r.checkIns[checkIn.ID] = &stored
	return nil
}

type fakeScheduleRepo struct {
	schedules map[primitive.ObjectID]*domain.CheckInSchedule // keyed by clientId
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{schedules: map[primitive.ObjectID]*domain.CheckInSchedule{}}
}

func (r *fakeScheduleRepo) Upsert(ctx context.Context, schedule *domain.CheckInSchedule) error {
	stored := *schedule
	if stored.ID == primitive.NilObjectID {
		stored.ID = primitive.NewObjectID()
	}
	r.schedules[schedule.ClientID] = &stored
	return nil
}

func (r *fakeScheduleRepo) GetByClientID(ctx context.Context, clientID primitive.ObjectID) (*domain.CheckInSchedule, error) {
	s, ok := r.schedules[clientID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *fakeScheduleRepo) GetActive(ctx context.Context) ([]domain.CheckInSchedule, error) {
	var result []domain.CheckInSchedule
	for _, s := range r.schedules {
		if s.Status == domain.ScheduleActive {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (r *fakeScheduleRepo) SetStatus(ctx context.Context, clientID primitive.ObjectID, status domain.ScheduleStatus) error {
	s, ok := r.schedules[clientID]
	if !ok {
		return repository.ErrNotFound
	}
	s.Status = status
	return nil
}

type fakeCompletionRepo struct {
	completions []domain.WorkoutCompletion
}

func (r *fakeCompletionRepo) Create(ctx context.Context, completion *domain.WorkoutCompletion) (primitive.ObjectID, error) {
	if completion.ID == primitive.NilObjectID {
		completion.ID = primitive.NewObjectID()
	}
	r.completions = append(r.completions, *completion)
	return completion.ID, nil
}

func (r *fakeCompletionRepo) GetByClientAndPlan(ctx context.Context, clientID, planID primitive.ObjectID) ([]domain.WorkoutCompletion, error) {
	var result []domain.WorkoutCompletion
	for _, c := range r.completions {
		if c.ClientID == clientID && c.PlanID == planID {
			result = append(result, c)
		}
	}
	return result, nil
}

type fakeMeasurementRepo struct {
	measurements []domain.Measurement
}

func (r *fakeMeasurementRepo) Create(ctx context.Context, measurement *domain.Measurement) (primitive.ObjectID, error) {
	if measurement.ID == primitive.NilObjectID {
		measurement.ID = primitive.NewObjectID()
	}
	r.measurements = append(r.measurements, *measurement)
	return measurement.ID, nil
}

func (r *fakeMeasurementRepo) GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Measurement, error) {
	var result []domain.Measurement
	for _, m := range r.measurements {
		if m.ClientID == clientID {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *fakeMeasurementRepo) SetPhotoObjectKey(ctx context.Context, measurementID, clientID primitive.ObjectID, objectKey string) error {
	for i := range r.measurements {
		if r.measurements[i].ID == measurementID && r.measurements[i].ClientID == clientID {
			r.measurements[i].PhotoObjectKey = objectKey
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeMessageRepo struct {
	messages []domain.Message
}

func (r *fakeMessageRepo) Create(ctx context.Context, message *domain.Message) (primitive.ObjectID, error) {
	if message.ID == primitive.NilObjectID {
		message.ID = primitive.NewObjectID()
	}
	if message.SentAt.IsZero() {
		message.SentAt = time.Now().UTC()
	}
	r.messages = append(r.messages, *message)
	return message.ID, nil
}

func (r *fakeMessageRepo) GetConversation(ctx context.Context, userA, userB primitive.ObjectID) ([]domain.Message, error) {
	var result []domain.Message
	for _, m := range r.messages {
		if (m.SenderID == userA && m.RecipientID == userB) || (m.SenderID == userB && m.RecipientID == userA) {
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *fakeMessageRepo) MarkRead(ctx context.Context, recipientID, senderID primitive.ObjectID) error {
	now := time.Now().UTC()
	for i := range r.messages {
		m := &r.messages[i]
		if m.RecipientID == recipientID && m.SenderID == senderID && m.ReadAt == nil {
			m.ReadAt = &now
		}
	}
	return nil
}

type fakeFileStorage struct{}

func (fakeFileStorage) GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error) {
	return "https://storage.test/upload/" + objectKey, nil
}

func (fakeFileStorage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	return "https://storage.test/download/" + objectKey, nil
}
