package api

import (
	"net/http"

	"fitcoach/workout-app/internal/domain" // Needed for RoleMiddleware
	"fitcoach/workout-app/internal/repository"
	"fitcoach/workout-app/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRoutes wires all HTTP routes onto the router.
// userRepo is needed by AuthMiddleware to re-check token subjects.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	userRepo repository.UserRepository,
	authService service.AuthService,
	workoutService service.WorkoutService,
) {
	authHandler := NewAuthHandler(authService)
	workoutHandler := NewWorkoutHandler(workoutService)

	router.Use(RequestIDMiddleware())

	authMiddleware := AuthMiddleware(jwtSecret, userRepo)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userID.Hex(), "role": role})
		})

		// --- Workout Routes (trainer only) ---
		workoutGroup := protected.Group("/workouts")
		workoutGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			// POST /api/v1/workouts
			workoutGroup.POST("", workoutHandler.CreateWorkout)
			// GET /api/v1/workouts
			workoutGroup.GET("", workoutHandler.GetTrainerWorkouts)
			// POST /api/v1/workouts/{id}/assign
			workoutGroup.POST("/:id/assign", workoutHandler.AssignWorkout)
		}

		// --- Client Routes ---
		// GET /api/v1/my-workouts
		protected.GET("/my-workouts", RoleMiddleware(domain.RoleClient), workoutHandler.GetMyWorkouts)
	}
}
