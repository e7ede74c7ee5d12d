package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fitcoach/workout-app/internal/domain"
	"fitcoach/workout-app/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testSecret = "test-secret-test-secret-test-secret-1234"

type stubUserRepo struct {
	byID    *domain.User
	byIDErr error
}

func (r *stubUserRepo) Create(_ context.Context, _ *domain.User) (primitive.ObjectID, error) {
	return primitive.NilObjectID, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, _ string) (*domain.User, error) {
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) GetByID(_ context.Context, _ primitive.ObjectID) (*domain.User, error) {
	return r.byID, r.byIDErr
}

func signTestToken(t *testing.T, userID primitive.ObjectID, role domain.Role, lifetime time.Duration) string {
	t.Helper()
	claims := &jwtClaims{
		UserID: userID.Hex(),
		Email:  "user@x.com",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.Hex(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(lifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return token
}

func newProtectedRouter(repo *stubUserRepo, roles ...domain.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handlers := []gin.HandlerFunc{AuthMiddleware(testSecret, repo)}
	if len(roles) > 0 {
		handlers = append(handlers, RoleMiddleware(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/protected", handlers...)
	return router
}

func doProtected(router *gin.Engine, header, value string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set(header, value)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareNoToken(t *testing.T) {
	router := newProtectedRouter(&stubUserRepo{})

	w := doProtected(router, "", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	router := newProtectedRouter(&stubUserRepo{})

	w := doProtected(router, "Authorization", "Token abc123")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthMiddlewareTamperedToken(t *testing.T) {
	userID := primitive.NewObjectID()
	router := newProtectedRouter(&stubUserRepo{byID: &domain.User{ID: userID, Role: domain.RoleTrainer}})

	token := signTestToken(t, userID, domain.RoleTrainer, time.Hour)
	w := doProtected(router, "Authorization", "Bearer "+token+"x")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	userID := primitive.NewObjectID()
	router := newProtectedRouter(&stubUserRepo{byID: &domain.User{ID: userID, Role: domain.RoleTrainer}})

	token := signTestToken(t, userID, domain.RoleTrainer, -time.Minute)
	w := doProtected(router, "Authorization", "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthMiddlewareRejectsDeletedUser(t *testing.T) {
	userID := primitive.NewObjectID()
	router := newProtectedRouter(&stubUserRepo{byIDErr: repository.ErrNotFound})

	token := signTestToken(t, userID, domain.RoleTrainer, time.Hour)
	w := doProtected(router, "Authorization", "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthMiddlewareAcceptsBearerHeader(t *testing.T) {
	userID := primitive.NewObjectID()
	router := newProtectedRouter(&stubUserRepo{byID: &domain.User{ID: userID, Role: domain.RoleTrainer}})

	token := signTestToken(t, userID, domain.RoleTrainer, time.Hour)
	w := doProtected(router, "Authorization", "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareAcceptsXAccessTokenHeader(t *testing.T) {
	userID := primitive.NewObjectID()
	router := newProtectedRouter(&stubUserRepo{byID: &domain.User{ID: userID, Role: domain.RoleTrainer}})

	token := signTestToken(t, userID, domain.RoleTrainer, time.Hour)
	w := doProtected(router, "x-access-token", token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestRoleMiddlewareForbidsWrongRole(t *testing.T) {
	userID := primitive.NewObjectID()
	router := newProtectedRouter(
		&stubUserRepo{byID: &domain.User{ID: userID, Role: domain.RoleClient}},
		domain.RoleTrainer,
	)

	token := signTestToken(t, userID, domain.RoleClient, time.Hour)
	w := doProtected(router, "Authorization", "Bearer "+token)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestRoleMiddlewareAllowsMatchingRole(t *testing.T) {
	userID := primitive.NewObjectID()
	router := newProtectedRouter(
		&stubUserRepo{byID: &domain.User{ID: userID, Role: domain.RoleClient}},
		domain.RoleTrainer, domain.RoleClient,
	)

	token := signTestToken(t, userID, domain.RoleClient, time.Hour)
	w := doProtected(router, "Authorization", "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestRoleMiddlewareWithoutAuthIsUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/role-only", RoleMiddleware(domain.RoleTrainer), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/role-only", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// Generated when absent
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected a generated X-Request-ID header")
	}

	// Echoed when present
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-42")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "req-42" {
		t.Errorf("X-Request-ID = %q, want %q", got, "req-42")
	}
}
