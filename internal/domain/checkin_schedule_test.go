package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func weeklySchedule(clientID, coachID primitive.ObjectID, anchor time.Time) CheckInSchedule {
	return CheckInSchedule{
		ID:         primitive.NewObjectID(),
		ClientID:   clientID,
		CoachID:    coachID,
		Status:     ScheduleActive,
		Cadence:    CadenceWeekly,
		AnchorDate: anchor,
	}
}

func TestLastDueAt(t *testing.T) {
	anchor := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	sched := weeklySchedule(primitive.NewObjectID(), primitive.NewObjectID(), anchor)

	assert.Nil(t, sched.LastDueAt(anchor.Add(3*24*time.Hour)), "no whole period elapsed")

	due := sched.LastDueAt(anchor.Add(8 * 24 * time.Hour))
	require.NotNil(t, due)
	assert.Equal(t, anchor.AddDate(0, 0, 7), *due)

	due = sched.LastDueAt(anchor.Add(17 * 24 * time.Hour))
	require.NotNil(t, due)
	assert.Equal(t, anchor.AddDate(0, 0, 14), *due, "most recent boundary, not the first")
}

func TestDetectDueCheckIns(t *testing.T) {
	coachID := primitive.NewObjectID()
	dueClient := primitive.NewObjectID()
	freshClient := primitive.NewObjectID()
	busyClient := primitive.NewObjectID()
	pausedClient := primitive.NewObjectID()

	anchor := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	now := anchor.Add(9 * 24 * time.Hour)

	paused := weeklySchedule(pausedClient, coachID, anchor)
	paused.Status = SchedulePaused

	schedules := []CheckInSchedule{
		weeklySchedule(dueClient, coachID, anchor),
		weeklySchedule(freshClient, coachID, now.Add(-2*24*time.Hour)),
		weeklySchedule(busyClient, coachID, anchor),
		paused,
	}
	existing := []CheckIn{
		NewCheckIn(busyClient, coachID, anchor), // still active
	}

	due := DetectDueCheckIns(schedules, existing, now)

	require.Len(t, due, 1)
	assert.Equal(t, dueClient, due[0].ClientID)
	assert.Equal(t, CheckInPending, due[0].Status)
	assert.Equal(t, anchor.AddDate(0, 0, 7), due[0].Date, "dated at the period boundary")
}

func TestDetectDueCheckInsOnePerClient(t *testing.T) {
	coachID := primitive.NewObjectID()
	clientID := primitive.NewObjectID()
	anchor := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	// Two schedules for the same client still yield one check-in.
	schedules := []CheckInSchedule{
		weeklySchedule(clientID, coachID, anchor),
		weeklySchedule(clientID, coachID, anchor.AddDate(0, 0, -7)),
	}

	due := DetectDueCheckIns(schedules, nil, anchor.AddDate(0, 0, 8))
	assert.Len(t, due, 1)
}

func TestDetectDueCheckInsIdempotentAfterAppend(t *testing.T) {
	coachID := primitive.NewObjectID()
	clientID := primitive.NewObjectID()
	anchor := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	now := anchor.AddDate(0, 0, 10)

	schedules := []CheckInSchedule{weeklySchedule(clientID, coachID, anchor)}

	first := DetectDueCheckIns(schedules, nil, now)
	require.Len(t, first, 1)

	// Once the generated check-in is part of the collection, a second sweep
	// produces nothing.
	second := DetectDueCheckIns(schedules, first, now)
	assert.Empty(t, second)
}
