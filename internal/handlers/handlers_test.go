package handlers_test

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"securelogin/internal/handlers"
	"securelogin/internal/middleware"
	"securelogin/internal/models"
	"securelogin/internal/ratelimit"
	"securelogin/internal/routes"
	"securelogin/internal/services"
)

// memUserRepo is an in-memory UserRepository for wiring the real services
// under httptest.
type memUserRepo struct {
	mu     sync.Mutex
	nextID int
	byID   map[int]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{nextID: 1, byID: make(map[int]*models.User)}
}

func (r *memUserRepo) Create(u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return fmt.Errorf(`pq: duplicate key value violates unique constraint "users_email_key"`)
		}
	}
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	r.nextID++
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(id int) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *memUserRepo) UpdateTwoFASecret(userID int, secret string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return sql.ErrNoRows
	}
	s := secret
	u.TwoFASecret = &s
	return nil
}

func (r *memUserRepo) Enable2FA(userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return sql.ErrNoRows
	}
	u.Is2FAEnabled = true
	return nil
}

type testEnv struct {
	router *gin.Engine
	repo   *memUserRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.JWTKey = []byte("test-secret")

	repo := newMemUserRepo()
	authService := services.NewAuthService()
	userService := services.NewUserService(repo, nil, authService)
	twoFAService := services.NewTwoFAService(repo, nil, "SecureLogin")

	router := gin.New()
	routes.SetupRoutes(
		router,
		ratelimit.NewMemoryStore(),
		handlers.NewAuthHandler(userService, authService, 8),
		handlers.NewTwoFAHandler(twoFAService),
		handlers.NewProtectedHandler(),
	)
	return &testEnv{router: router, repo: repo}
}

func (e *testEnv) do(t *testing.T, method, path, body, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	return e.doFrom(t, "10.0.0.1:52718", method, path, body, token)
}

func (e *testEnv) doFrom(t *testing.T, remoteAddr, method, path, body, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.RemoteAddr = remoteAddr
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var parsed map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	}
	return w, parsed
}

func (e *testEnv) register(t *testing.T, email, password string) int {
	t.Helper()
	w, body := e.do(t, http.MethodPost, "/auth/register",
		fmt.Sprintf(`{"email":%q,"password":%q}`, email, password), "")
	require.Equal(t, http.StatusCreated, w.Code)
	return int(body["userId"].(float64))
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	w, body := e.do(t, http.MethodPost, "/auth/login",
		fmt.Sprintf(`{"email":%q,"password":%q}`, email, password), "")
	require.Equal(t, http.StatusOK, w.Code)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}
