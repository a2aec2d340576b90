package service

import (
	"coachfit/coaching-app/internal/domain"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type coachFixture struct {
	users     *fakeUserRepo
	plans     *fakePlanRepo
	checkIns  *fakeCheckInRepo
	schedules *fakeScheduleRepo
	svc       CoachService
	coach     *domain.User
	client    *domain.User
}

func newCoachFixture(t *testing.T) *coachFixture {
	t.Helper()
	users := newFakeUserRepo()
	plans := newFakePlanRepo()
	checkIns := newFakeCheckInRepo()
	schedules := newFakeScheduleRepo()

	coach := users.add(&domain.User{Name: "Coach", Email: "coach@test.com", Role: domain.RoleCoach})
	client := users.add(&domain.User{Name: "Client", Email: "client@test.com", Role: domain.RoleClient})
	client.CoachID = &coach.ID
	coach.ClientIDs = []primitive.ObjectID{client.ID}

	return &coachFixture{
		users:     users,
		plans:     plans,
		checkIns:  checkIns,
		schedules: schedules,
		svc:       NewCoachService(users, plans, checkIns, schedules),
		coach:     coach,
		client:    client,
	}
}

func TestAddClientByEmail(t *testing.T) {
	ctx := context.Background()
	f := newCoachFixture(t)

	unattached := f.users.add(&domain.User{Name: "New", Email: "new@test.com", Role: domain.RoleClient})

	added, err := f.svc.AddClientByEmail(ctx, f.coach.ID, "new@test.com")
	require.NoError(t, err)
	require.NotNil(t, added.CoachID)
	assert.Equal(t, f.coach.ID, *added.CoachID)

	stored, err := f.users.GetByID(ctx, unattached.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CoachID)
	assert.Equal(t, f.coach.ID, *stored.CoachID)

	roster, err := f.svc.GetManagedClients(ctx, f.coach.ID)
	require.NoError(t, err)
	assert.Len(t, roster, 2)
}

func TestAddClientByEmail_Errors(t *testing.T) {
	ctx := context.Background()
	f := newCoachFixture(t)

	_, err := f.svc.AddClientByEmail(ctx, f.coach.ID, "nobody@test.com")
	assert.ErrorIs(t, err, ErrClientNotFound)

	_, err = f.svc.AddClientByEmail(ctx, f.coach.ID, "coach@test.com")
	assert.ErrorIs(t, err, ErrClientNotRole)

	otherCoach := f.users.add(&domain.User{Name: "Other", Email: "other@test.com", Role: domain.RoleCoach})
	_, err = f.svc.AddClientByEmail(ctx, otherCoach.ID, "client@test.com")
	assert.ErrorIs(t, err, ErrClientAlreadyCoached)

	// Re-adding an already managed client is a no-op, not an error.
	again, err := f.svc.AddClientByEmail(ctx, f.coach.ID, "client@test.com")
	require.NoError(t, err)
	assert.Equal(t, f.client.ID, again.ID)
}

func TestCreateTemplate(t *testing.T) {
	ctx := context.Background()
	f := newCoachFixture(t)

	plan, err := f.svc.CreateTemplate(ctx, f.coach.ID, domain.PlanForm{
		Name:            "Strength Block",
		DurationWeeks:   4,
		WorkoutsPerWeek: 3,
	})
	require.NoError(t, err)
	assert.True(t, plan.IsTemplate)
	assert.Len(t, plan.Weeks, 4)

	stored, err := f.plans.GetByID(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "Strength Block", stored.Name)

	_, err = f.svc.CreateTemplate(ctx, f.coach.ID, domain.PlanForm{
		Name:            "Too Long",
		DurationWeeks:   13,
		WorkoutsPerWeek: 3,
	})
	assert.ErrorIs(t, err, ErrInvalidPlanForm)

	_, err = f.svc.CreateTemplate(ctx, f.coach.ID, domain.PlanForm{
		Name:            "Too Dense",
		DurationWeeks:   4,
		WorkoutsPerWeek: 8,
	})
	assert.ErrorIs(t, err, ErrInvalidPlanForm)
}

func TestDuplicateTemplate(t *testing.T) {
	ctx := context.Background()
	f := newCoachFixture(t)

	template, err := f.svc.CreateTemplate(ctx, f.coach.ID, domain.PlanForm{
		Name: "Base", DurationWeeks: 2, WorkoutsPerWeek: 2,
	})
	require.NoError(t, err)

	copied, err := f.svc.DuplicateTemplate(ctx, f.coach.ID, template.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Base (Copy)", copied.Name)
	assert.True(t, copied.IsTemplate)
	assert.NotEqual(t, template.ID, copied.ID)

	renamed, err := f.svc.DuplicateTemplate(ctx, f.coach.ID, template.ID, "Base v2")
	require.NoError(t, err)
	assert.Equal(t, "Base v2", renamed.Name)

	otherCoach := f.users.add(&domain.User{Name: "Other", Email: "o@test.com", Role: domain.RoleCoach})
	_, err = f.svc.DuplicateTemplate(ctx, otherCoach.ID, template.ID, "")
	assert.ErrorIs(t, err, ErrPlanAccessDenied)
}

func TestArchiveTemplate(t *testing.T) {
	ctx := context.Background()
	f := newCoachFixture(t)

	template, err := f.svc.CreateTemplate(ctx, f.coach.ID, domain.PlanForm{
		Name: "Old Block", DurationWeeks: 2, WorkoutsPerWeek: 2,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.ArchiveTemplate(ctx, f.coach.ID, template.ID))

	visible, err := f.svc.GetTemplates(ctx, f.coach.ID, false)
	require.NoError(t, err)
	assert.Empty(t, visible)

	all, err := f.svc.GetTemplates(ctx, f.coach.ID, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, f.svc.UnarchiveTemplate(ctx, f.coach.ID, template.ID))
	visible, err = f.svc.GetTemplates(ctx, f.coach.ID, false)
	require.NoError(t, err)
	assert.Len(t, visible, 1)
}

func TestAssignPlanToClient(t *testing.T) {
	ctx := context.Background()
	f := newCoachFixture(t)

	template, err := f.svc.CreateTemplate(ctx, f.coach.ID, domain.PlanForm{
		Name: "Cut", DurationWeeks: 6, WorkoutsPerWeek: 4,
	})
	require.NoError(t, err)

	startDate := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	instance, err := f.svc.AssignPlanToClient(ctx, f.coach.ID, f.client.ID, template.ID, startDate)
	require.NoError(t, err)

	// The instance is a fork, not the template itself.
	assert.False(t, instance.IsTemplate)
	assert.NotEqual(t, template.ID, instance.ID)
	require.NotNil(t, instance.SourceTemplateID)
	assert.Equal(t, template.ID, *instance.SourceTemplateID)
	assert.Equal(t, template.Name, instance.Name)
	assert.NotEqual(t, template.Weeks[0].ID, instance.Weeks[0].ID)

	// The template is untouched.
	storedTemplate, err := f.plans.GetByID(ctx, template.ID)
	require.NoError(t, err)
	assert.True(t, storedTemplate.IsTemplate)

	// The client now points at the instance.
	client, err := f.users.GetByID(ctx, f.client.ID)
	require.NoError(t, err)
	require.NotNil(t, client.CurrentPlanID)
	assert.Equal(t, instance.ID, *client.CurrentPlanID)
	require.NotNil(t, client.PlanStartDate)
	assert.Equal(t, startDate, *client.PlanStartDate)

	// A weekly check-in schedule is anchored at the start date.
	schedule, err := f.schedules.GetByClientID(ctx, f.client.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ScheduleActive, schedule.Status)
	assert.Equal(t, domain.CadenceWeekly, schedule.Cadence)
	assert.Equal(t, startDate, schedule.AnchorDate)

	// Archiving the template afterwards does not touch the running instance.
	require.NoError(t, f.svc.ArchiveTemplate(ctx, f.coach.ID, template.ID))
	storedInstance, err := f.plans.GetByID(ctx, instance.ID)
	require.NoError(t, err)
	assert.False(t, storedInstance.IsArchived())
}

func TestAssignPlanToClient_Errors(t *testing.T) {
	ctx := context.Background()
	f := newCoachFixture(t)

	template, err := f.svc.CreateTemplate(ctx, f.coach.ID, domain.PlanForm{
		Name: "Cut", DurationWeeks: 6, WorkoutsPerWeek: 4,
	})
	require.NoError(t, err)

	stranger := f.users.add(&domain.User{Name: "Stranger", Email: "s@test.com", Role: domain.RoleClient})
	_, err = f.svc.AssignPlanToClient(ctx, f.coach.ID, stranger.ID, template.ID, time.Now())
	assert.ErrorIs(t, err, ErrClientNotManaged)

	require.NoError(t, f.svc.ArchiveTemplate(ctx, f.coach.ID, template.ID))
	_, err = f.svc.AssignPlanToClient(ctx, f.coach.ID, f.client.ID, template.ID, time.Now())
	assert.ErrorIs(t, err, ErrTemplateArchived)
}

func TestCreateCheckIn(t *testing.T) {
	ctx := context.Background()
	f := newCoachFixture(t)

	checkIn, err := f.svc.CreateCheckIn(ctx, f.coach.ID, f.client.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckInPending, checkIn.Status)
	assert.Equal(t, f.client.ID, checkIn.ClientID)

	// One active check-in per client.
	_, err = f.svc.CreateCheckIn(ctx, f.coach.ID, f.client.ID)
	assert.ErrorIs(t, err, ErrActiveCheckInExists)
}

func TestCompleteCheckIn(t *testing.T) {
	ctx := context.Background()
	f := newCoachFixture(t)

	checkIn, err := f.svc.CreateCheckIn(ctx, f.coach.ID, f.client.ID)
	require.NoError(t, err)

	// Completing a check-in the client has not answered yet is rejected.
	_, err = f.svc.CompleteCheckIn(ctx, f.coach.ID, checkIn.ID, domain.CoachReview{Response: "nice"})
	assert.ErrorIs(t, err, domain.ErrCheckInNotResponded)

	responded, err := checkIn.WithClientResponse(domain.ClientResponse{
		WorkoutFeeling: domain.FeelingAboutRight,
		BodyFeeling:    domain.BodyNormal,
	}, time.Now())
	require.NoError(t, err)
	require.NoError(t, f.checkIns.Update(ctx, &responded))

	otherCoach := f.users.add(&domain.User{Name: "Other", Email: "o@test.com", Role: domain.RoleCoach})
	_, err = f.svc.CompleteCheckIn(ctx, otherCoach.ID, checkIn.ID, domain.CoachReview{Response: "no"})
	assert.ErrorIs(t, err, ErrCheckInAccessDenied)

	completed, err := f.svc.CompleteCheckIn(ctx, f.coach.ID, checkIn.ID, domain.CoachReview{
		Response:       "Keep it up",
		PlanAdjustment: true,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.CheckInCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	client, err := f.users.GetByID(ctx, f.client.ID)
	require.NoError(t, err)
	require.NotNil(t, client.LastCheckInDate)
	assert.Equal(t, *completed.CompletedAt, *client.LastCheckInDate)

	// A completed check-in frees the client for the next one.
	_, err = f.svc.CreateCheckIn(ctx, f.coach.ID, f.client.ID)
	require.NoError(t, err)
}

func TestSetCheckInScheduleStatus(t *testing.T) {
	ctx := context.Background()
	f := newCoachFixture(t)

	err := f.svc.SetCheckInScheduleStatus(ctx, f.coach.ID, f.client.ID, "WEEKLY")
	assert.ErrorIs(t, err, ErrInvalidScheduleStatus)

	err = f.svc.SetCheckInScheduleStatus(ctx, f.coach.ID, f.client.ID, domain.SchedulePaused)
	assert.ErrorIs(t, err, ErrScheduleNotFound)

	require.NoError(t, f.schedules.Upsert(ctx, &domain.CheckInSchedule{
		ClientID:   f.client.ID,
		CoachID:    f.coach.ID,
		Status:     domain.ScheduleActive,
		Cadence:    domain.CadenceWeekly,
		AnchorDate: time.Now().UTC(),
	}))

	require.NoError(t, f.svc.SetCheckInScheduleStatus(ctx, f.coach.ID, f.client.ID, domain.SchedulePaused))
	schedule, err := f.schedules.GetByClientID(ctx, f.client.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SchedulePaused, schedule.Status)
}

func TestGenerateDueCheckIns(t *testing.T) {
	ctx := context.Background()
	f := newCoachFixture(t)

	anchor := time.Now().UTC().Add(-8 * 24 * time.Hour)
	require.NoError(t, f.schedules.Upsert(ctx, &domain.CheckInSchedule{
		ClientID:   f.client.ID,
		CoachID:    f.coach.ID,
		Status:     domain.ScheduleActive,
		Cadence:    domain.CadenceWeekly,
		AnchorDate: anchor,
	}))

	pausedClient := f.users.add(&domain.User{Name: "Paused", Email: "p@test.com", Role: domain.RoleClient})
	pausedClient.CoachID = &f.coach.ID
	require.NoError(t, f.schedules.Upsert(ctx, &domain.CheckInSchedule{
		ClientID:   pausedClient.ID,
		CoachID:    f.coach.ID,
		Status:     domain.SchedulePaused,
		Cadence:    domain.CadenceWeekly,
		AnchorDate: anchor,
	}))

	created, err := f.svc.GenerateDueCheckIns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	active, err := f.checkIns.GetActiveByClientID(ctx, f.client.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckInPending, active.Status)
	// Dated at the period boundary, not at sweep time.
	assert.Equal(t, anchor.Add(7*24*time.Hour), active.Date)

	// A second sweep finds the client busy and creates nothing.
	created, err = f.svc.GenerateDueCheckIns(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
}
