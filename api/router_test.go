package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"

	"github.com/lukeacko/worklog/api"
	"github.com/lukeacko/worklog/internal/config"
	"github.com/lukeacko/worklog/internal/transfer"
	"github.com/lukeacko/worklog/internal/worklog"
	"github.com/lukeacko/worklog/pkg/repository/mock"
)

const testSecret = "testsecret"

// newTestRouter wires the full route table against an in-memory store with
// the default roster seeded.
func newTestRouter(t *testing.T) (*mux.Router, *mock.Store, *worklog.Service) {
	t.Helper()

	store := mock.NewStore()
	svc := worklog.NewService(store, store, nil)
	if err := svc.SeedDefaults(context.Background()); err != nil {
		t.Fatalf("SeedDefaults error: %v", err)
	}
	tr, err := transfer.New(svc, nil)
	if err != nil {
		t.Fatalf("transfer.New error: %v", err)
	}

	cfg := &config.Config{
		Addr:          ":0",
		JWTSecret:     testSecret,
		APITimeout:    15 * time.Second,
		TokenDuration: time.Hour,
		Store:         config.StoreConfig{Backend: config.StoreSQLite},
	}
	return api.SetupRoutes(cfg, "test", "now", store, svc, tr), store, svc
}

func authToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "tester@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return s
}

// do runs an authenticated request against the router.
func do(t *testing.T, r *mux.Router, method, path string, body *string) *http.Response {
	t.Helper()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(*body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer "+authToken(t))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Result()
}
