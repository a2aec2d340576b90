package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleStatus type for check-in schedule lifecycle
type ScheduleStatus string

const (
	ScheduleActive   ScheduleStatus = "ACTIVE"
	SchedulePaused   ScheduleStatus = "PAUSED"
	ScheduleInactive ScheduleStatus = "INACTIVE"
)

// Cadence is the recurrence interval at which a schedule generates check-ins.
type Cadence string

const CadenceWeekly Cadence = "WEEKLY"

func (c Cadence) Period() time.Duration {
	// Only WEEKLY exists today; new cadences extend this switch.
	return 7 * 24 * time.Hour
}

// CheckInSchedule decouples the recurring check-in cadence from individual
// CheckIn records. One schedule per client.
type CheckInSchedule struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID   primitive.ObjectID `bson:"clientId" json:"clientId"`
	CoachID    primitive.ObjectID `bson:"coachId" json:"coachId"`
	Status     ScheduleStatus     `bson:"status" json:"status"`
	Cadence    Cadence            `bson:"cadence" json:"cadence"`
	AnchorDate time.Time          `bson:"anchorDate" json:"anchorDate"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// LastDueAt returns the most recent period boundary at or before now, or nil
// when no whole period has elapsed since the anchor.
func (s CheckInSchedule) LastDueAt(now time.Time) *time.Time {
	elapsed := now.Sub(s.AnchorDate)
	period := s.Cadence.Period()
	if elapsed < period {
		return nil
	}
	periods := int(elapsed / period)
	due := s.AnchorDate.Add(time.Duration(periods) * period)
	return &due
}

// DetectDueCheckIns synthesizes pending check-ins for every ACTIVE schedule
// whose latest period boundary has passed and whose client has no active
// check-in already. Pure: the caller appends the returned check-ins. New
// check-ins are dated at the period boundary, not at detection time, so
// history reflects the intended cadence.
func DetectDueCheckIns(schedules []CheckInSchedule, existing []CheckIn, now time.Time) []CheckIn {
	var due []CheckIn
	for _, sched := range schedules {
		if sched.Status != ScheduleActive {
			continue
		}
		dueAt := sched.LastDueAt(now)
		if dueAt == nil {
			continue
		}
		if ActiveCheckIn(sched.ClientID, existing) != nil {
			continue
		}
		checkIn := NewCheckIn(sched.ClientID, sched.CoachID, *dueAt)
		due = append(due, checkIn)
		// Guard against a second schedule for the same client in one sweep.
		existing = append(existing, checkIn)
	}
	return due
}
