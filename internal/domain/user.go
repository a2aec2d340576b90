package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

const (
	RoleCoach  Role = "coach"
	RoleClient Role = "client"
)

// ClientStatus tracks whether a client is actively training.
type ClientStatus string

const (
	ClientActive ClientStatus = "active"
	ClientPaused ClientStatus = "paused"
)

// User represents a user in the system (either a Coach or a Client).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// --- Coach-specific ---
	// ObjectIDs of clients on this coach's roster.
	ClientIDs []primitive.ObjectID `bson:"clientIds,omitempty" json:"clientIds,omitempty"`

	// --- Client-specific ---
	CoachID *primitive.ObjectID `bson:"coachId,omitempty" json:"coachId,omitempty"`
	// CurrentPlanID references the client's plan instance (never a template).
	CurrentPlanID *primitive.ObjectID `bson:"currentPlanId,omitempty" json:"currentPlanId,omitempty"`
	// PlanStartDate anchors week/day derivation for the current plan.
	PlanStartDate   *time.Time   `bson:"planStartDate,omitempty" json:"planStartDate,omitempty"`
	LastCheckInDate *time.Time   `bson:"lastCheckInDate,omitempty" json:"lastCheckInDate,omitempty"`
	AdherenceRate   float64      `bson:"adherenceRate,omitempty" json:"adherenceRate,omitempty"`
	ClientStatus    ClientStatus `bson:"clientStatus,omitempty" json:"clientStatus,omitempty"`
}

func (u *User) IsCoach() bool {
	return u.Role == RoleCoach
}

func (u *User) IsClient() bool {
	return u.Role == RoleClient
}
