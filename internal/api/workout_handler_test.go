package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fitcoach/workout-app/internal/domain"
	"fitcoach/workout-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubWorkoutService struct {
	createResult  *domain.Workout
	createErr     error
	trainerList   []service.WorkoutWithCount
	trainerErr    error
	clientList    []service.ClientAssignment
	clientErr     error
	assignResult  *domain.Assignment
	assignWorkout *domain.Workout
	assignClient  *domain.User
	assignErr     error
}

func (s *stubWorkoutService) CreateWorkout(_ context.Context, _ primitive.ObjectID, _, _ string) (*domain.Workout, error) {
	return s.createResult, s.createErr
}

func (s *stubWorkoutService) GetTrainerWorkouts(_ context.Context, _ primitive.ObjectID) ([]service.WorkoutWithCount, error) {
	return s.trainerList, s.trainerErr
}

func (s *stubWorkoutService) GetClientAssignments(_ context.Context, _ primitive.ObjectID) ([]service.ClientAssignment, error) {
	return s.clientList, s.clientErr
}

func (s *stubWorkoutService) AssignWorkout(_ context.Context, _, _, _ primitive.ObjectID) (*domain.Assignment, *domain.Workout, *domain.User, error) {
	return s.assignResult, s.assignWorkout, s.assignClient, s.assignErr
}

// newWorkoutRouter fakes an authenticated user by seeding the context keys
// AuthMiddleware would normally set.
func newWorkoutRouter(svc service.WorkoutService, userID primitive.ObjectID, role domain.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewWorkoutHandler(svc)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(ContextUserIDKey, userID.Hex())
		c.Set(ContextUserRoleKey, role)
		c.Next()
	})
	router.POST("/workouts", handler.CreateWorkout)
	router.GET("/workouts", handler.GetTrainerWorkouts)
	router.POST("/workouts/:id/assign", handler.AssignWorkout)
	router.GET("/my-workouts", handler.GetMyWorkouts)
	return router
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateWorkoutHandler(t *testing.T) {
	trainerID := primitive.NewObjectID()
	workout := &domain.Workout{
		ID:          primitive.NewObjectID(),
		TrainerID:   trainerID,
		Name:        "Leg Day",
		Description: "Squats and lunges",
		CreatedAt:   time.Now().UTC(),
	}
	router := newWorkoutRouter(&stubWorkoutService{createResult: workout}, trainerID, domain.RoleTrainer)

	w := postJSON(router, "/workouts", CreateWorkoutRequest{Name: "Leg Day", Description: "Squats and lunges"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	var resp WorkoutResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.ID != workout.ID.Hex() || resp.Name != "Leg Day" {
		t.Errorf("resp = %+v, want workout %s", resp, workout.ID.Hex())
	}
}

func TestCreateWorkoutHandlerValidation(t *testing.T) {
	router := newWorkoutRouter(&stubWorkoutService{}, primitive.NewObjectID(), domain.RoleTrainer)

	// Missing description
	w := postJSON(router, "/workouts", map[string]string{"name": "Leg Day"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestGetTrainerWorkoutsHandler(t *testing.T) {
	trainerID := primitive.NewObjectID()
	list := []service.WorkoutWithCount{
		{
			Workout:         domain.Workout{ID: primitive.NewObjectID(), TrainerID: trainerID, Name: "Leg Day"},
			AssignmentCount: 2,
		},
	}
	router := newWorkoutRouter(&stubWorkoutService{trainerList: list}, trainerID, domain.RoleTrainer)

	req := httptest.NewRequest(http.MethodGet, "/workouts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp []WorkoutListItem
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if len(resp) != 1 || resp[0].AssignmentCount != 2 {
		t.Errorf("resp = %+v, want one item with assignmentCount 2", resp)
	}
}

func TestAssignWorkoutHandlerStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"workout not found", service.ErrWorkoutNotFound, http.StatusNotFound},
		{"client not found", service.ErrClientNotFound, http.StatusNotFound},
		{"not owner", service.ErrWorkoutAccessDenied, http.StatusForbidden},
		{"wrong role", service.ErrClientNotRole, http.StatusBadRequest},
		{"already assigned", service.ErrAlreadyAssigned, http.StatusConflict},
		{"store failure", fmt.Errorf("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newWorkoutRouter(&stubWorkoutService{assignErr: tc.err}, primitive.NewObjectID(), domain.RoleTrainer)
			path := "/workouts/" + primitive.NewObjectID().Hex() + "/assign"
			w := postJSON(router, path, AssignWorkoutRequest{ClientID: primitive.NewObjectID().Hex()})
			if w.Code != tc.want {
				t.Fatalf("status = %d, want %d: %s", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestAssignWorkoutHandlerSuccess(t *testing.T) {
	trainerID := primitive.NewObjectID()
	workout := &domain.Workout{ID: primitive.NewObjectID(), TrainerID: trainerID, Name: "Leg Day"}
	client := &domain.User{ID: primitive.NewObjectID(), Email: "c@x.com", Role: domain.RoleClient}
	assignment := &domain.Assignment{
		ID:         primitive.NewObjectID(),
		WorkoutID:  workout.ID,
		ClientID:   client.ID,
		AssignedAt: time.Now().UTC(),
		Status:     domain.StatusAssigned,
	}
	svc := &stubWorkoutService{assignResult: assignment, assignWorkout: workout, assignClient: client}
	router := newWorkoutRouter(svc, trainerID, domain.RoleTrainer)

	path := "/workouts/" + workout.ID.Hex() + "/assign"
	w := postJSON(router, path, AssignWorkoutRequest{ClientID: client.ID.Hex()})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	var resp AssignmentResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.Status != domain.StatusAssigned {
		t.Errorf("status = %q, want %q", resp.Status, domain.StatusAssigned)
	}
	if resp.Workout.Name != "Leg Day" || resp.Client.Email != "c@x.com" {
		t.Errorf("resp = %+v, want workout/client summaries populated", resp)
	}
}

func TestAssignWorkoutHandlerBadIDs(t *testing.T) {
	router := newWorkoutRouter(&stubWorkoutService{}, primitive.NewObjectID(), domain.RoleTrainer)

	// Bad workout ID in path
	w := postJSON(router, "/workouts/not-an-id/assign", AssignWorkoutRequest{ClientID: primitive.NewObjectID().Hex()})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad workout ID: status = %d, want 400", w.Code)
	}

	// Bad client ID in body
	path := "/workouts/" + primitive.NewObjectID().Hex() + "/assign"
	w = postJSON(router, path, AssignWorkoutRequest{ClientID: "not-an-id"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad client ID: status = %d, want 400", w.Code)
	}
}

func TestGetMyWorkoutsHandler(t *testing.T) {
	clientID := primitive.NewObjectID()
	trainerID := primitive.NewObjectID()
	list := []service.ClientAssignment{
		{
			Assignment: domain.Assignment{
				ID:         primitive.NewObjectID(),
				AssignedAt: time.Now().UTC(),
				Status:     domain.StatusAssigned,
			},
			Workout: domain.Workout{
				ID:          primitive.NewObjectID(),
				TrainerID:   trainerID,
				Name:        "Leg Day",
				Description: "Squats and lunges",
			},
			TrainerID:    trainerID,
			TrainerEmail: "trainer@x.com",
		},
	}
	router := newWorkoutRouter(&stubWorkoutService{clientList: list}, clientID, domain.RoleClient)

	req := httptest.NewRequest(http.MethodGet, "/my-workouts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp []ClientAssignmentItem
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if len(resp) != 1 {
		t.Fatalf("len(resp) = %d, want 1", len(resp))
	}
	if resp[0].Workout.Trainer.Email != "trainer@x.com" {
		t.Errorf("trainer email = %q, want %q", resp[0].Workout.Trainer.Email, "trainer@x.com")
	}
}
