package auth_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/bendahara-app/bendahara/internal/auth"
	"github.com/bendahara-app/bendahara/internal/shared"
	"github.com/bendahara-app/bendahara/internal/view"
	_ "github.com/bendahara-app/bendahara/testing"
)

func newAuthHandler(t *testing.T, credential auth.Credential) (*auth.Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)
	csrfManager := shared.NewCSRFManager("csrfsecret")
	templates, err := view.NewEngine()
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := auth.NewHandler(logger, auth.NewService(credential), templates, sessionManager, csrfManager)
	return handler, sessionManager
}

func hashedCredential(t *testing.T, email, password string) auth.Credential {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return auth.Credential{Email: email, PasswordHash: string(hashed)}
}

func TestLoginPage(t *testing.T) {
	handler, sessionManager := newAuthHandler(t, auth.Credential{})

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	sess, err := sessionManager.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	ctx := shared.ContextWithSession(req.Context(), sess)
	req = req.WithContext(ctx)

	res := httptest.NewRecorder()
	handler.ShowLoginForTest(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "<form") {
		t.Fatalf("expected login form in body")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	handler, sessionManager := newAuthHandler(t, hashedCredential(t, "bendahara@sekolah.sch.id", "rahasia-betul"))

	_, res := postLogin(t, handler, sessionManager, "bendahara@sekolah.sch.id", "salah")

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	if !strings.Contains(res.Body.String(), "Email atau password tidak valid") {
		t.Fatalf("expected error message in response")
	}
}

func TestLoginSuccessRedirects(t *testing.T) {
	handler, sessionManager := newAuthHandler(t, hashedCredential(t, "bendahara@sekolah.sch.id", "rahasia-betul"))

	sess, res := postLogin(t, handler, sessionManager, "bendahara@sekolah.sch.id", "rahasia-betul")

	if res.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", res.Code)
	}
	if sess.User() != auth.AdminUserID {
		t.Fatalf("expected admin user in session, got %q", sess.User())
	}
}

func postLogin(t *testing.T, handler *auth.Handler, sessionManager *shared.SessionManager, email, password string) (*shared.Session, *httptest.ResponseRecorder) {
	t.Helper()

	postData := url.Values{}
	postData.Set("email", email)
	postData.Set("password", password)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(postData.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	sess, err := sessionManager.Load(context.Background(), req)
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	ctx := shared.ContextWithSession(req.Context(), sess)
	req = req.WithContext(ctx)

	res := httptest.NewRecorder()
	handler.HandleLoginForTest(res, req)
	return sess, res
}
