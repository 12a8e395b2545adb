package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/lukeacko/worklog/api"
	"github.com/lukeacko/worklog/pkg/models"
	"github.com/lukeacko/worklog/pkg/repository/mock"
)

func TestAuthHandlers(t *testing.T) {
	secret := "testsecret"
	tokenDur := 1 * time.Hour

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	tests := []struct {
		name       string
		path       string
		body       any
		prepare    func(s *mock.Store)
		wantStatus int
		checkBody  func(t *testing.T, body []byte)
	}{
		{
			name:       "Signup_InvalidRequest",
			path:       "/signup",
			body:       "not a json",
			prepare:    func(s *mock.Store) {},
			wantStatus: http.StatusBadRequest,
			checkBody:  func(t *testing.T, b []byte) {},
		},
		{
			name:       "Signup_MissingFields_Email",
			path:       "/signup",
			body:       map[string]string{"password": "s3cret"},
			prepare:    func(s *mock.Store) {},
			wantStatus: http.StatusBadRequest,
			checkBody:  func(t *testing.T, b []byte) {},
		},
		{
			name:       "Signup_MissingFields_Password",
			path:       "/signup",
			body:       map[string]string{"email": "alice@example.com"},
			prepare:    func(s *mock.Store) {},
			wantStatus: http.StatusBadRequest,
			checkBody:  func(t *testing.T, b []byte) {},
		},
		{
			name:       "Signup_Success",
			path:       "/signup",
			body:       map[string]string{"email": "alice@example.com", "password": "s3cret"},
			prepare:    func(s *mock.Store) {},
			wantStatus: http.StatusCreated,
			checkBody: func(t *testing.T, b []byte) {
				var ar struct {
					Token string `json:"token"`
				}
				if err := json.Unmarshal(b, &ar); err != nil {
					t.Fatalf("unmarshal token: %v", err)
				}
				if ar.Token == "" {
					t.Fatalf("empty token")
				}
				if _, err := jwt.Parse(ar.Token, func(token *jwt.Token) (any, error) { return []byte(secret), nil }); err != nil {
					t.Fatalf("invalid token: %v", err)
				}
			},
		},
		{
			name: "Signup_DuplicateEmail",
			path: "/signup",
			body: map[string]string{"email": "dup@example.com", "password": "pw"},
			prepare: func(s *mock.Store) {
				if _, err := s.CreateUser(context.Background(), &models.User{Email: "dup@example.com", PasswordHash: "x"}); err != nil {
					t.Fatalf("seed user: %v", err)
				}
			},
			wantStatus: http.StatusConflict,
			checkBody:  func(t *testing.T, b []byte) {},
		},
		{
			name:       "Signin_InvalidRequest",
			path:       "/signin",
			body:       "not a json",
			prepare:    func(s *mock.Store) {},
			wantStatus: http.StatusBadRequest,
			checkBody:  func(t *testing.T, b []byte) {},
		},
		{
			name:       "Signin_UnknownEmail",
			path:       "/signin",
			body:       map[string]string{"email": "nobody@example.com", "password": "s3cret"},
			prepare:    func(s *mock.Store) {},
			wantStatus: http.StatusUnauthorized,
			checkBody:  func(t *testing.T, b []byte) {},
		},
		{
			name: "Signin_WrongPassword",
			path: "/signin",
			body: map[string]string{"email": "bob@example.com", "password": "wrong"},
			prepare: func(s *mock.Store) {
				if _, err := s.CreateUser(context.Background(), &models.User{Email: "bob@example.com", PasswordHash: string(hash)}); err != nil {
					t.Fatalf("seed user: %v", err)
				}
			},
			wantStatus: http.StatusUnauthorized,
			checkBody:  func(t *testing.T, b []byte) {},
		},
		{
			name: "Signin_Success",
			path: "/signin",
			body: map[string]string{"email": "bob@example.com", "password": "s3cret"},
			prepare: func(s *mock.Store) {
				if _, err := s.CreateUser(context.Background(), &models.User{Email: "bob@example.com", PasswordHash: string(hash)}); err != nil {
					t.Fatalf("seed user: %v", err)
				}
			},
			wantStatus: http.StatusOK,
			checkBody: func(t *testing.T, b []byte) {
				var ar struct {
					Token string `json:"token"`
				}
				if err := json.Unmarshal(b, &ar); err != nil {
					t.Fatalf("unmarshal token: %v", err)
				}
				if ar.Token == "" {
					t.Fatalf("empty token")
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := mock.NewStore()
			tc.prepare(store)
			h := api.NewAuthHandler(store, secret, tokenDur)

			var buf bytes.Buffer
			switch b := tc.body.(type) {
			case string:
				buf.WriteString(b)
			default:
				if err := json.NewEncoder(&buf).Encode(b); err != nil {
					t.Fatalf("encode body: %v", err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, tc.path, &buf)
			w := httptest.NewRecorder()
			switch tc.path {
			case "/signup":
				h.Signup(w, req)
			case "/signin":
				h.Signin(w, req)
			}

			res := w.Result()
			defer res.Body.Close()
			if res.StatusCode != tc.wantStatus {
				t.Fatalf("%s: want %d got %d", tc.name, tc.wantStatus, res.StatusCode)
			}
			tc.checkBody(t, w.Body.Bytes())
		})
	}
}
