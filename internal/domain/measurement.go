package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Measurement is a client body measurement, optionally with a progress photo
// stored in object storage.
type Measurement struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID       primitive.ObjectID `bson:"clientId" json:"clientId"`
	TakenAt        time.Time          `bson:"takenAt" json:"takenAt"`
	WeightKG       float64            `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
	BodyFatPct     float64            `bson:"bodyFatPct,omitempty" json:"bodyFatPct,omitempty"`
	Notes          string             `bson:"notes,omitempty" json:"notes,omitempty"`
	PhotoObjectKey string             `bson:"photoObjectKey,omitempty" json:"photoObjectKey,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}
