package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CheckInStatus type for the check-in lifecycle
type CheckInStatus string

const (
	CheckInPending   CheckInStatus = "pending"   // created, waiting on the client
	CheckInResponded CheckInStatus = "responded" // client answered, waiting on the coach
	CheckInCompleted CheckInStatus = "completed" // terminal
)

// WorkoutFeeling captures the client's read on training difficulty.
type WorkoutFeeling string

const (
	FeelingTooEasy    WorkoutFeeling = "TOO_EASY"
	FeelingAboutRight WorkoutFeeling = "ABOUT_RIGHT"
	FeelingTooHard    WorkoutFeeling = "TOO_HARD"
)

// BodyFeeling captures how the client's body is holding up.
type BodyFeeling string

const (
	BodyGreat  BodyFeeling = "GREAT"
	BodyNormal BodyFeeling = "NORMAL"
	BodySore   BodyFeeling = "SORE"
	BodyTired  BodyFeeling = "TIRED"
)

var (
	ErrCheckInNotPending   = errors.New("check-in is not awaiting a client response")
	ErrCheckInNotResponded = errors.New("check-in is not awaiting coach review")
	ErrFlagNoteRequired    = errors.New("a note is required when flagging a workout")
)

// CheckIn represents one coach/client feedback cycle. Completed check-ins
// accumulate as append-only history; at most one check-in per client should be
// active (pending or responded) at a time, enforced by the services that
// create them.
type CheckIn struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID primitive.ObjectID `bson:"clientId" json:"clientId"`
	CoachID  primitive.ObjectID `bson:"coachId" json:"coachId"`
	Date     time.Time          `bson:"date" json:"date"`
	Status   CheckInStatus      `bson:"status" json:"status"`

	// Client response
	WorkoutFeeling     WorkoutFeeling `bson:"workoutFeeling,omitempty" json:"workoutFeeling,omitempty"`
	BodyFeeling        BodyFeeling    `bson:"bodyFeeling,omitempty" json:"bodyFeeling,omitempty"`
	ClientNotes        string         `bson:"clientNotes,omitempty" json:"clientNotes,omitempty"`
	FlaggedWorkoutID   string         `bson:"flaggedWorkoutId,omitempty" json:"flaggedWorkoutId,omitempty"`
	FlaggedWorkoutNote string         `bson:"flaggedWorkoutNote,omitempty" json:"flaggedWorkoutNote,omitempty"`
	ClientRespondedAt  *time.Time     `bson:"clientRespondedAt,omitempty" json:"clientRespondedAt,omitempty"`

	// Coach review
	CoachResponse  string     `bson:"coachResponse,omitempty" json:"coachResponse,omitempty"`
	PlanAdjustment *bool      `bson:"planAdjustment,omitempty" json:"planAdjustment,omitempty"`
	CompletedAt    *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// IsActive reports whether the check-in still needs action from either side.
func (c CheckIn) IsActive() bool {
	return c.Status == CheckInPending || c.Status == CheckInResponded
}

// NewCheckIn creates a pending check-in dated at now.
func NewCheckIn(clientID, coachID primitive.ObjectID, now time.Time) CheckIn {
	return CheckIn{
		ID:       primitive.NewObjectID(),
		ClientID: clientID,
		CoachID:  coachID,
		Date:     now.UTC(),
		Status:   CheckInPending,
	}
}

// ClientResponse carries the client's answers for a pending check-in.
type ClientResponse struct {
	WorkoutFeeling     WorkoutFeeling
	BodyFeeling        BodyFeeling
	Notes              string
	FlaggedWorkoutID   string
	FlaggedWorkoutNote string
}

// WithClientResponse returns a responded copy of the check-in. The receiver is
// unmodified; only a pending check-in may transition, and flagging a workout
// without a note is rejected.
func (c CheckIn) WithClientResponse(resp ClientResponse, now time.Time) (CheckIn, error) {
	if c.Status != CheckInPending {
		return CheckIn{}, ErrCheckInNotPending
	}
	if resp.FlaggedWorkoutID != "" && resp.FlaggedWorkoutNote == "" {
		return CheckIn{}, ErrFlagNoteRequired
	}

	respondedAt := now.UTC()
	c.Status = CheckInResponded
	c.WorkoutFeeling = resp.WorkoutFeeling
	c.BodyFeeling = resp.BodyFeeling
	c.ClientNotes = resp.Notes
	c.FlaggedWorkoutID = resp.FlaggedWorkoutID
	c.FlaggedWorkoutNote = resp.FlaggedWorkoutNote
	c.ClientRespondedAt = &respondedAt
	return c, nil
}

// CoachReview carries the coach's closing feedback.
type CoachReview struct {
	Response       string
	PlanAdjustment bool
}

// WithCoachReview returns a completed copy of the check-in. Only a responded
// check-in may transition; completed is terminal.
func (c CheckIn) WithCoachReview(review CoachReview, now time.Time) (CheckIn, error) {
	if c.Status != CheckInResponded {
		return CheckIn{}, ErrCheckInNotResponded
	}

	completedAt := now.UTC()
	c.Status = CheckInCompleted
	c.CoachResponse = review.Response
	c.PlanAdjustment = &review.PlanAdjustment
	c.CompletedAt = &completedAt
	return c, nil
}

// ActiveCheckIn returns the client's pending or responded check-in, or nil.
// If stored data holds more than one active check-in the first found wins;
// the creation paths prevent new duplicates.
func ActiveCheckIn(clientID primitive.ObjectID, checkIns []CheckIn) *CheckIn {
	for i := range checkIns {
		if checkIns[i].ClientID == clientID && checkIns[i].IsActive() {
			return &checkIns[i]
		}
	}
	return nil
}
