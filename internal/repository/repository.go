package repository

import (
	"context"

	"fitcoach/workout-app/internal/domain" // Import our defined domain models

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	// GetByTrainerID returns all workouts owned by the trainer, newest first.
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Workout, error)
}

// AssignmentRepository defines the interface for interacting with assignment data.
type AssignmentRepository interface {
	// Create inserts a new assignment. Returns ErrDuplicate if the
	// (workout, client) pair is already assigned.
	Create(ctx context.Context, assignment *domain.Assignment) (primitive.ObjectID, error)
	// GetByClientID returns all assignments for the client, newest-assigned first.
	GetByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.Assignment, error)
	CountByWorkoutID(ctx context.Context, workoutID primitive.ObjectID) (int64, error)
}
