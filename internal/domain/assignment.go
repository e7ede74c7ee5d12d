package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignmentStatus type for assignment lifecycle
type AssignmentStatus string

const (
	StatusAssigned  AssignmentStatus = "assigned"
	StatusCancelled AssignmentStatus = "cancelled"
)

// Assignment connects a Workout to a Client, as assigned by the owning Trainer.
// At most one assignment may exist per (workout, client) pair; the
// assignments collection enforces this with a unique compound index.
type Assignment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	WorkoutID  primitive.ObjectID `bson:"workoutId" json:"workoutId"` // Link to the Workout
	ClientID   primitive.ObjectID `bson:"clientId" json:"clientId"`   // Link to the Client
	AssignedAt time.Time          `bson:"assignedAt" json:"assignedAt"`
	Status     AssignmentStatus   `bson:"status" json:"status"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
