package service

import (
	"context"
	"errors"

	"fitcoach/workout-app/internal/domain"
	"fitcoach/workout-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound     = errors.New("workout not found")
	ErrWorkoutAccessDenied = errors.New("you can only assign your own workouts")
	ErrClientNotFound      = errors.New("client not found")
	ErrClientNotRole       = errors.New("user is not a client")
	ErrAlreadyAssigned     = errors.New("workout already assigned to this client")
)

// WorkoutWithCount is a workout annotated with its assignment count,
// for the trainer's list view.
type WorkoutWithCount struct {
	domain.Workout
	AssignmentCount int64
}

// ClientAssignment is an assignment enriched with the workout summary
// and the owning trainer's identity, for the client's list view.
type ClientAssignment struct {
	Assignment   domain.Assignment
	Workout      domain.Workout
	TrainerID    primitive.ObjectID
	TrainerEmail string
}

// --- Service Interface ---
type WorkoutService interface {
	CreateWorkout(ctx context.Context, trainerID primitive.ObjectID, name, description string) (*domain.Workout, error)
	GetTrainerWorkouts(ctx context.Context, trainerID primitive.ObjectID) ([]WorkoutWithCount, error)
	GetClientAssignments(ctx context.Context, clientID primitive.ObjectID) ([]ClientAssignment, error)
	AssignWorkout(ctx context.Context, trainerID, workoutID, clientID primitive.ObjectID) (*domain.Assignment, *domain.Workout, *domain.User, error)
}

// --- Service Implementation ---

// workoutService implements the WorkoutService interface.
type workoutService struct {
	userRepo       repository.UserRepository
	workoutRepo    repository.WorkoutRepository
	assignmentRepo repository.AssignmentRepository
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	userRepo repository.UserRepository,
	workoutRepo repository.WorkoutRepository,
	assignmentRepo repository.AssignmentRepository,
) WorkoutService {
	return &workoutService{
		userRepo:       userRepo,
		workoutRepo:    workoutRepo,
		assignmentRepo: assignmentRepo,
	}
}

// CreateWorkout persists a new workout owned by the trainer.
// The trainer is already authenticated, so no existence check is needed.
func (s *workoutService) CreateWorkout(ctx context.Context, trainerID primitive.ObjectID, name, description string) (*domain.Workout, error) {
	if trainerID == primitive.NilObjectID || name == "" {
		return nil, errors.New("trainer ID and workout name are required")
	}

	workout := &domain.Workout{
		TrainerID:   trainerID,
		Name:        name,
		Description: description,
	}

	workoutID, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}
	workout.ID = workoutID

	return workout, nil
}

// GetTrainerWorkouts returns the trainer's workouts, newest first,
// each annotated with its assignment count.
func (s *workoutService) GetTrainerWorkouts(ctx context.Context, trainerID primitive.ObjectID) ([]WorkoutWithCount, error) {
	if trainerID == primitive.NilObjectID {
		return nil, errors.New("trainer ID is required")
	}

	workouts, err := s.workoutRepo.GetByTrainerID(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	result := make([]WorkoutWithCount, 0, len(workouts))
	for _, w := range workouts {
		count, err := s.assignmentRepo.CountByWorkoutID(ctx, w.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, WorkoutWithCount{Workout: w, AssignmentCount: count})
	}
	return result, nil
}

// GetClientAssignments returns the client's assignments, newest-assigned
// first, each carrying the workout summary and owning trainer identity.
func (s *workoutService) GetClientAssignments(ctx context.Context, clientID primitive.ObjectID) ([]ClientAssignment, error) {
	if clientID == primitive.NilObjectID {
		return nil, errors.New("client ID is required")
	}

	assignments, err := s.assignmentRepo.GetByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	// Cache workouts and trainers; a client's assignments often share both.
	workouts := make(map[primitive.ObjectID]*domain.Workout)
	trainers := make(map[primitive.ObjectID]*domain.User)

	result := make([]ClientAssignment, 0, len(assignments))
	for _, a := range assignments {
		workout, ok := workouts[a.WorkoutID]
		if !ok {
			workout, err = s.workoutRepo.GetByID(ctx, a.WorkoutID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					// Workout deleted out-of-band; skip the orphaned assignment.
					continue
				}
				return nil, err
			}
			workouts[a.WorkoutID] = workout
		}

		trainer, ok := trainers[workout.TrainerID]
		if !ok {
			trainer, err = s.userRepo.GetByID(ctx, workout.TrainerID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					continue
				}
				return nil, err
			}
			trainers[workout.TrainerID] = trainer
		}

		result = append(result, ClientAssignment{
			Assignment:   a,
			Workout:      *workout,
			TrainerID:    trainer.ID,
			TrainerEmail: trainer.Email,
		})
	}
	return result, nil
}

// AssignWorkout assigns a workout to a client on behalf of a trainer.
// Check order matters: ownership is verified before the client lookup,
// so a non-owning trainer never learns whether the client exists.
func (s *workoutService) AssignWorkout(ctx context.Context, trainerID, workoutID, clientID primitive.ObjectID) (*domain.Assignment, *domain.Workout, *domain.User, error) {
	if trainerID == primitive.NilObjectID || workoutID == primitive.NilObjectID || clientID == primitive.NilObjectID {
		return nil, nil, nil, errors.New("trainer, workout, and client IDs are required")
	}

	// 1. Verify the workout exists
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, nil, ErrWorkoutNotFound
		}
		return nil, nil, nil, err
	}

	// 2. Verify the workout belongs to this trainer
	if workout.TrainerID != trainerID {
		return nil, nil, nil, ErrWorkoutAccessDenied
	}

	// 3. Verify the client user exists
	client, err := s.userRepo.GetByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, nil, ErrClientNotFound
		}
		return nil, nil, nil, err
	}

	// 4. Verify the user actually has the client role
	if !client.IsClient() {
		return nil, nil, nil, ErrClientNotRole
	}

	// 5. Create the assignment; the unique index decides duplicates
	assignment := &domain.Assignment{
		WorkoutID: workoutID,
		ClientID:  clientID,
		Status:    domain.StatusAssigned,
	}
	assignmentID, err := s.assignmentRepo.Create(ctx, assignment)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, nil, ErrAlreadyAssigned
		}
		return nil, nil, nil, err
	}
	assignment.ID = assignmentID

	return assignment, workout, client, nil
}
