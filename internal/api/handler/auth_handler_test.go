package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/learnhub/course-marketplace/internal/core/domain"
	"github.com/learnhub/course-marketplace/internal/core/ports"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
			if in.Username != "alice" || in.Password != "s3cretpass" || in.ConfirmPassword != "s3cretpass" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: 3, Username: in.Username, Email: in.Email, IsActive: true}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/auth/register",
		`{"username":"alice","email":"a@example.com","password":"s3cretpass","confirm_password":"s3cretpass"}`, nil)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	resp := decodeEnvelope(t, rec)
	user, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["username"] != "alice" || resp["status"] != "success" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash must not be rendered")
	}
}

func TestAuthHandler_Register_PassesServiceErrors(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUsernameTaken
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newContext(http.MethodPost, "/api/auth/register", `{"username":"bob"}`, nil)

	if err := handler.Register(c); !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestAuthHandler_Register_RejectsMalformedEmail(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{})

	c, _ := newContext(http.MethodPost, "/api/auth/register", `{"username":"bob","email":"not-an-email"}`, nil)

	if err := handler.Register(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestAuthHandler_Login_AcceptsAnyIdentifierField(t *testing.T) {
	bodies := map[string]string{
		"identifier": `{"identifier":"lee","password":"pw123456"}`,
		"username":   `{"username":"lee","password":"pw123456"}`,
		"email":      `{"email":"lee","password":"pw123456"}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			stub := &stubAuthService{
				loginFn: func(_ context.Context, identifier, password string) (string, *domain.User, error) {
					if identifier != "lee" || password != "pw123456" {
						t.Fatalf("unexpected credentials: %s/%s", identifier, password)
					}
					return "signed-token", learner, nil
				},
			}
			c, rec := newContext(http.MethodPost, "/api/auth/login", body, nil)

			if err := NewAuthHandler(stub).Login(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			data := decodeEnvelope(t, rec)["data"].(map[string]any)
			if data["token"] != "signed-token" {
				t.Fatalf("unexpected login payload: %+v", data)
			}
		})
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	c, _ := newContext(http.MethodPost, "/api/auth/login", `{"username":"lee","password":"wrong"}`, nil)

	if err := NewAuthHandler(stub).Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Self(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/api/auth/self", "", learner)

	if err := NewAuthHandler(&stubAuthService{}).Self(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["username"] != "lee" || data["balance"] != float64(50) {
		t.Fatalf("unexpected profile: %+v", data)
	}
}
