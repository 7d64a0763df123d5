package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/japezoa/bike-manager/internal/core/domain"
)

type nopLogger struct{}

func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

type stubIdentityService struct {
	session *domain.Session
	err     error
}

func (s *stubIdentityService) Resolve(_ context.Context, _ *domain.Identity) (*domain.Session, error) {
	return s.session, s.err
}

const testSecret = "test-secret"

func signedToken(t *testing.T, uid uuid.UUID, email string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   uid.String(),
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func authTestRouter(identity *stubIdentityService, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	tokenService := NewJWTTokenService(testSecret, nopLogger{})
	handlers := append([]gin.HandlerFunc{AuthMiddleware(tokenService, identity, nopLogger{})}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		session, _ := getSession(c)
		c.JSON(http.StatusOK, gin.H{"owner_id": session.OwnerID.String()})
	})
	router.GET("/probe", handlers...)
	return router
}

func TestAuthMiddlewareResolvesSession(t *testing.T) {
	session := &domain.Session{OwnerID: uuid.New(), Role: domain.RoleAdmin}
	router := authTestRouter(&stubIdentityService{session: session})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, uuid.New(), "admin@example.com"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if body["owner_id"] != session.OwnerID.String() {
		t.Errorf("owner_id = %s, want %s", body["owner_id"], session.OwnerID)
	}
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	router := authTestRouter(&stubIdentityService{})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddlewareBadToken(t *testing.T) {
	router := authTestRouter(&stubIdentityService{})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddlewareWrongSigningKey(t *testing.T) {
	router := authTestRouter(&stubIdentityService{})

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   uuid.New().String(),
		"email": "evil@example.com",
	})
	signed, _ := forged.SignedString([]byte("other-secret"))

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddlewareNoProfileForcesSignOut(t *testing.T) {
	router := authTestRouter(&stubIdentityService{err: domain.ErrNotFound})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, uuid.New(), "ghost@example.com"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	var body struct {
		Error   string `json:"error"`
		SignOut bool   `json:"sign_out"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !body.SignOut {
		t.Error("no-profile response must carry sign_out: true")
	}
}

func TestRequireCapabilityDeniesCustomer(t *testing.T) {
	session := &domain.Session{OwnerID: uuid.New(), Role: domain.RoleCustomer}
	router := authTestRouter(
		&stubIdentityService{session: session},
		RequireCapability(func(caps domain.Capabilities) bool { return caps.CanEditBikes }),
	)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, uuid.New(), "cliente@example.com"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestRequireCapabilityAllowsMechanicMaintenance(t *testing.T) {
	session := &domain.Session{OwnerID: uuid.New(), Role: domain.RoleMechanic}
	router := authTestRouter(
		&stubIdentityService{session: session},
		RequireCapability(func(caps domain.Capabilities) bool { return caps.CanEditMaintenances }),
	)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, uuid.New(), "mec@example.com"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRequireAdminDeniesMechanic(t *testing.T) {
	session := &domain.Session{OwnerID: uuid.New(), Role: domain.RoleMechanic}
	router := authTestRouter(&stubIdentityService{session: session}, RequireAdmin())

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, uuid.New(), "mec@example.com"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestVerifyTokenExtractsIdentity(t *testing.T) {
	svc := NewJWTTokenService(testSecret, nopLogger{})
	uid := uuid.New()

	identity, err := svc.VerifyToken(signedToken(t, uid, "maria@example.com"))
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if identity.UserID != uid {
		t.Errorf("user id = %s, want %s", identity.UserID, uid)
	}
	if identity.Email != "maria@example.com" {
		t.Errorf("email = %s", identity.Email)
	}
}

func TestVerifyTokenMissingEmail(t *testing.T) {
	svc := NewJWTTokenService(testSecret, nopLogger{})

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": uuid.New().String(),
	})
	signed, _ := token.SignedString([]byte(testSecret))

	if _, err := svc.VerifyToken(signed); err == nil {
		t.Error("token without email claim must be rejected")
	}
}
