package auth_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/strata-erp/strata-reports/internal/auth"
	"github.com/strata-erp/strata-reports/internal/shared"
	_ "github.com/strata-erp/strata-reports/testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubRepo struct {
	user         *auth.User
	sessions     map[string]int64
	lastDeleted  string
	registerFail error
}

func (s *stubRepo) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	if s.user == nil || s.user.Email != email {
		return nil, shared.ErrNotFound
	}
	return s.user, nil
}

func (s *stubRepo) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	if s.registerFail != nil {
		return s.registerFail
	}
	if s.sessions == nil {
		s.sessions = make(map[string]int64)
	}
	s.sessions[id] = userID
	return nil
}

func (s *stubRepo) DeleteSession(ctx context.Context, id string) error {
	s.lastDeleted = id
	return nil
}

func newAuthRouter(t *testing.T, repo auth.Repository) (chi.Router, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })
	sessionManager := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)

	handler := auth.NewHandler(discardLogger(), auth.NewService(repo), sessionManager)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sess, err := sessionManager.Load(req.Context(), req)
			if err != nil {
				t.Fatalf("load session: %v", err)
			}
			req = req.WithContext(shared.ContextWithSession(req.Context(), sess))
			next.ServeHTTP(w, req)
			if err := sessionManager.Commit(req.Context(), w, req, sess); err != nil {
				t.Fatalf("commit session: %v", err)
			}
		})
	})
	handler.MountRoutes(r)
	return r, sessionManager
}

func activeUser(t *testing.T) *auth.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("correctpass1"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return &auth.User{ID: 7, Email: "user@test.local", Name: "Test User", PasswordHash: string(hashed), IsActive: true}
}

func postLogin(t *testing.T, router chi.Router, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func TestLoginIssuesBearerToken(t *testing.T) {
	repo := &stubRepo{user: activeUser(t)}
	router, _ := newAuthRouter(t, repo)

	res := postLogin(t, router, `{"email":"user@test.local","password":"correctpass1"}`)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Token  string `json:"token"`
			UserID int64  `json:"userId"`
		} `json:"data"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Success {
		t.Fatal("expected success envelope")
	}
	if envelope.Data.Token == "" {
		t.Fatal("expected a session token")
	}
	if envelope.Data.UserID != 7 {
		t.Fatalf("expected user 7, got %d", envelope.Data.UserID)
	}
	if repo.sessions[envelope.Data.Token] != 7 {
		t.Fatal("expected session audit record for issued token")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	router, _ := newAuthRouter(t, &stubRepo{user: activeUser(t)})

	res := postLogin(t, router, `{"email":"user@test.local","password":"wrongpass11"}`)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), `"success":false`) {
		t.Fatalf("expected failure envelope, got %s", res.Body.String())
	}
}

func TestLoginInactiveUser(t *testing.T) {
	user := activeUser(t)
	user.IsActive = false
	router, _ := newAuthRouter(t, &stubRepo{user: user})

	res := postLogin(t, router, `{"email":"user@test.local","password":"correctpass1"}`)
	if res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
}

func TestLoginValidation(t *testing.T) {
	router, _ := newAuthRouter(t, &stubRepo{})

	res := postLogin(t, router, `{"email":"not-an-email","password":"short"}`)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestLogoutDestroysSession(t *testing.T) {
	repo := &stubRepo{user: activeUser(t)}
	router, _ := newAuthRouter(t, repo)

	login := postLogin(t, router, `{"email":"user@test.local","password":"correctpass1"}`)
	var envelope struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(login.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode login: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+envelope.Data.Token)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if repo.lastDeleted != envelope.Data.Token {
		t.Fatalf("expected session %q removed, got %q", envelope.Data.Token, repo.lastDeleted)
	}

	// The token no longer resolves to a logged-in session.
	me := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	me.Header.Set("Authorization", "Bearer "+envelope.Data.Token)
	meRes := httptest.NewRecorder()
	router.ServeHTTP(meRes, me)
	if meRes.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", meRes.Code)
	}
}

func TestMeReturnsSessionContext(t *testing.T) {
	router, _ := newAuthRouter(t, &stubRepo{user: activeUser(t)})

	login := postLogin(t, router, `{"email":"user@test.local","password":"correctpass1"}`)
	var envelope struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(login.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode login: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+envelope.Data.Token)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.Code, res.Body.String())
	}
	if !strings.Contains(res.Body.String(), `"userId":"7"`) {
		t.Fatalf("expected user id in body, got %s", res.Body.String())
	}
}
