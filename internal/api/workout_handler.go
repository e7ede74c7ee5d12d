package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"fitcoach/workout-app/internal/domain"
	"fitcoach/workout-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive" // For converting ID strings
)

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- Request/Response Structs ---

type CreateWorkoutRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"required,min=1,max=500"`
}

type AssignWorkoutRequest struct {
	ClientID string `json:"clientId" binding:"required"`
}

type WorkoutResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

// WorkoutListItem is a workout in the trainer's list, with its assignment count.
type WorkoutListItem struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
	AssignmentCount int64     `json:"assignmentCount"`
}

type TrainerSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type ClientSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type WorkoutSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AssignmentResponse is returned after a successful assignment.
type AssignmentResponse struct {
	ID         string                  `json:"id"`
	AssignedAt time.Time               `json:"assignedAt"`
	Status     domain.AssignmentStatus `json:"status"`
	Workout    WorkoutSummary          `json:"workout"`
	Client     ClientSummary           `json:"client"`
}

// ClientAssignmentItem is an entry in the client's "my workouts" list.
type ClientAssignmentItem struct {
	ID         string                  `json:"id"`
	AssignedAt time.Time               `json:"assignedAt"`
	Status     domain.AssignmentStatus `json:"status"`
	Workout    struct {
		ID          string         `json:"id"`
		Name        string         `json:"name"`
		Description string         `json:"description"`
		Trainer     TrainerSummary `json:"trainer"`
	} `json:"workout"`
}

// --- Handler Methods ---

// CreateWorkout handles POST /workouts (trainer only).
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Could not identify trainer from token")
		return
	}

	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), trainerID, req.Name, req.Description)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to create workout")
		return
	}

	c.JSON(http.StatusCreated, WorkoutResponse{
		ID:          workout.ID.Hex(),
		Name:        workout.Name,
		Description: workout.Description,
		CreatedAt:   workout.CreatedAt,
	})
}

// GetTrainerWorkouts handles GET /workouts (trainer only).
func (h *WorkoutHandler) GetTrainerWorkouts(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Could not identify trainer from token")
		return
	}

	workouts, err := h.workoutService.GetTrainerWorkouts(c.Request.Context(), trainerID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch workouts")
		return
	}

	items := make([]WorkoutListItem, 0, len(workouts))
	for _, w := range workouts {
		items = append(items, WorkoutListItem{
			ID:              w.ID.Hex(),
			Name:            w.Name,
			Description:     w.Description,
			CreatedAt:       w.CreatedAt,
			UpdatedAt:       w.UpdatedAt,
			AssignmentCount: w.AssignmentCount,
		})
	}
	c.JSON(http.StatusOK, items)
}

// AssignWorkout handles POST /workouts/:id/assign (trainer only).
func (h *WorkoutHandler) AssignWorkout(c *gin.Context) {
	trainerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Could not identify trainer from token")
		return
	}

	workoutID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format")
		return
	}

	var req AssignWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	clientID, err := primitive.ObjectIDFromHex(req.ClientID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	assignment, workout, client, err := h.workoutService.AssignWorkout(c.Request.Context(), trainerID, workoutID, clientID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWorkoutNotFound), errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrWorkoutAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrClientNotRole):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrAlreadyAssigned):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to assign workout")
		}
		return
	}

	c.JSON(http.StatusCreated, AssignmentResponse{
		ID:         assignment.ID.Hex(),
		AssignedAt: assignment.AssignedAt,
		Status:     assignment.Status,
		Workout:    WorkoutSummary{ID: workout.ID.Hex(), Name: workout.Name},
		Client:     ClientSummary{ID: client.ID.Hex(), Email: client.Email},
	})
}

// GetMyWorkouts handles GET /my-workouts (client only).
func (h *WorkoutHandler) GetMyWorkouts(c *gin.Context) {
	clientID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Could not identify client from token")
		return
	}

	assignments, err := h.workoutService.GetClientAssignments(c.Request.Context(), clientID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch assigned workouts")
		return
	}

	items := make([]ClientAssignmentItem, 0, len(assignments))
	for _, a := range assignments {
		item := ClientAssignmentItem{
			ID:         a.Assignment.ID.Hex(),
			AssignedAt: a.Assignment.AssignedAt,
			Status:     a.Assignment.Status,
		}
		item.Workout.ID = a.Workout.ID.Hex()
		item.Workout.Name = a.Workout.Name
		item.Workout.Description = a.Workout.Description
		item.Workout.Trainer = TrainerSummary{ID: a.TrainerID.Hex(), Email: a.TrainerEmail}
		items = append(items, item)
	}
	c.JSON(http.StatusOK, items)
}
