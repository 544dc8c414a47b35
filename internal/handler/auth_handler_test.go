package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"botdash/gateway/internal/service"
	"botdash/gateway/internal/session"
	"botdash/gateway/internal/util"
	"botdash/gateway/pkg/jwt"
	"botdash/gateway/pkg/tradeapi"
)

// nullKV is session storage that accepts everything and finds nothing.
// The reset-password flow never touches sessions, so nothing more is needed.
type nullKV struct{}

func (nullKV) Set(ctx context.Context, key string, value interface{}, _ time.Duration) error {
	return nil
}

func (nullKV) Get(ctx context.Context, key string) (string, error) {
	return "", goredis.Nil
}

func (nullKV) Del(ctx context.Context, keys ...string) error { return nil }

func newNullKV() session.KV { return nullKV{} }

type resetFixture struct {
	router   *gin.Engine
	upstream *httptest.Server
	hits     atomic.Int64
}

func newResetFixture(t *testing.T) *resetFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &resetFixture{}
	f.upstream = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message":"ok"}`))
	}))
	t.Cleanup(f.upstream.Close)

	api := tradeapi.NewClient(f.upstream.URL, nil)
	sessions := session.NewStore(newNullKV(), time.Hour)
	tokens := jwt.NewManager("test-secret", time.Hour)
	auth := service.NewAuthService(api, sessions, tokens, nil)

	h := NewAuthHandler(auth)
	f.router = gin.New()
	f.router.POST("/auth/reset-password/:token", h.ResetPassword)
	return f
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) util.Response {
	t.Helper()
	var resp util.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestResetPasswordMismatchRejectedLocally(t *testing.T) {
	f := newResetFixture(t)

	w := postJSON(t, f.router, "/auth/reset-password/abc123",
		`{"password":"supersecret","confirmPassword":"different1"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	resp := decodeResponse(t, w)
	if resp.Success {
		t.Error("response marked success")
	}
	if resp.Error == nil || resp.Error.Code != util.ErrCodeValidation {
		t.Errorf("error = %+v, want code %s", resp.Error, util.ErrCodeValidation)
	}
	if got := f.hits.Load(); got != 0 {
		t.Errorf("upstream was called %d times, want 0", got)
	}
}

func TestResetPasswordTooShort(t *testing.T) {
	f := newResetFixture(t)

	w := postJSON(t, f.router, "/auth/reset-password/abc123",
		`{"password":"short","confirmPassword":"short"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if got := f.hits.Load(); got != 0 {
		t.Errorf("upstream was called %d times, want 0", got)
	}
}

func TestResetPasswordSuccess(t *testing.T) {
	f := newResetFixture(t)

	w := postJSON(t, f.router, "/auth/reset-password/abc123",
		`{"password":"supersecret","confirmPassword":"supersecret"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := decodeResponse(t, w)
	if !resp.Success {
		t.Errorf("response not marked success: %s", w.Body.String())
	}
	if got := f.hits.Load(); got != 1 {
		t.Errorf("upstream was called %d times, want 1", got)
	}
}
