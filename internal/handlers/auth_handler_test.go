package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegister_CreatesUserOnce(t *testing.T) {
	env := newTestEnv(t)

	w, body := env.do(t, http.MethodPost, "/auth/register",
		`{"email":"a@x.com","password":"Secret1!pass"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "User registered.", body["message"])
	require.NotZero(t, body["userId"])

	// второй раз с тем же email — конфликт
	w, body = env.do(t, http.MethodPost, "/auth/register",
		`{"email":"a@x.com","password":"Secret1!pass"}`, "")
	require.Equal(t, http.StatusConflict, w.Code)
	require.Equal(t, "email_taken", body["error"])
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)

	cases := map[string]string{
		"missing email":    `{"password":"Secret1!pass"}`,
		"missing password": `{"email":"a@x.com"}`,
		"bad email shape":  `{"email":"not-an-email","password":"Secret1!pass"}`,
		"short password":   `{"email":"a@x.com","password":"short"}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			w, body := env.do(t, http.MethodPost, "/auth/register", payload, "")
			require.Equal(t, http.StatusBadRequest, w.Code)
			require.Equal(t, "validation_error", body["error"])
		})
	}
}

func TestLogin_Success(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@x.com", "Secret1!pass")

	w, body := env.do(t, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"Secret1!pass"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, false, body["requires2FA"])
	require.NotEmpty(t, body["token"])
}

func TestLogin_WrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@x.com", "Secret1!pass")

	w, body := env.do(t, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"WrongPass123"}`, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "invalid_credentials", body["error"])
	require.Nil(t, body["token"])
}

func TestLogin_UnknownEmail(t *testing.T) {
	env := newTestEnv(t)

	w, body := env.do(t, http.MethodPost, "/auth/login",
		`{"email":"nobody@x.com","password":"Secret1!pass"}`, "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "user_not_found", body["error"])
}

func TestProtectedMe(t *testing.T) {
	env := newTestEnv(t)
	userID := env.register(t, "a@x.com", "Secret1!pass")
	token := env.login(t, "a@x.com", "Secret1!pass")

	w, body := env.do(t, http.MethodGet, "/protected/me", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	user := body["user"].(map[string]any)
	require.Equal(t, float64(userID), user["userId"])
	require.Equal(t, "a@x.com", user["email"])

	// без токена — единый 403
	w, body = env.do(t, http.MethodGet, "/protected/me", "", "")
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, "No Access", body["message"])
}

func TestAuthRateLimit_FailedAttemptsBurnBudget(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@x.com", "Secret1!pass")

	// регистрация прошла успешно и вернула свой слот обратно
	for i := 0; i < 5; i++ {
		w, _ := env.do(t, http.MethodPost, "/auth/login",
			`{"email":"a@x.com","password":"WrongPass123"}`, "")
		require.Equal(t, http.StatusUnauthorized, w.Code, "attempt %d", i+1)
	}

	w, body := env.do(t, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"WrongPass123"}`, "")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "too_many_requests", body["error"])
	require.Equal(t, "15 minutes", body["retryAfter"])
}

func TestAuthRateLimit_SuccessfulRequestsRefunded(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "a@x.com", "Secret1!pass")

	// far more than 5 successful logins: each one refunds its slot
	for i := 0; i < 8; i++ {
		w, _ := env.do(t, http.MethodPost, "/auth/login",
			`{"email":"a@x.com","password":"Secret1!pass"}`, "")
		require.Equal(t, http.StatusOK, w.Code, "attempt %d", i+1)
	}
}

func TestAuthRateLimit_PerIP(t *testing.T) {
	env := newTestEnv(t)

	// выжигаем лимит с одного IP
	for i := 0; i < 6; i++ {
		env.do(t, http.MethodPost, "/auth/login",
			`{"email":"nobody@x.com","password":"WrongPass123"}`, "")
	}
	w, _ := env.do(t, http.MethodPost, "/auth/login",
		`{"email":"nobody@x.com","password":"WrongPass123"}`, "")
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	// другой IP не задет
	w2, body := env.doFrom(t, "10.9.9.9:40000", http.MethodPost, "/auth/login",
		`{"email":"nobody@x.com","password":"WrongPass123"}`, "")
	require.Equal(t, http.StatusNotFound, w2.Code)
	require.Equal(t, "user_not_found", body["error"])
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	w, body := env.do(t, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", body["status"])
}
