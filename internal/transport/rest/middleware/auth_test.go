package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"formpulse/internal/service"
)

func TestRequireEditorPropagatesEditorID(t *testing.T) {
	authSvc := service.NewAuthService("admin", "secret", "test-signing-key")
	login, err := authSvc.Login("admin", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	var gotID string
	h := NewAuthMiddleware(authSvc).RequireEditor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = GetEditorID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/v1/questionnaires", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotID != login.EditorID {
		t.Errorf("editor id in context = %q, want %q", gotID, login.EditorID)
	}
}

func TestRequireEditorRejectsBadCredentials(t *testing.T) {
	authSvc := service.NewAuthService("admin", "secret", "test-signing-key")
	h := NewAuthMiddleware(authSvc).RequireEditor(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached without a valid token")
	}))

	for name, header := range map[string]string{
		"missing header": "",
		"not bearer":     "Basic abc123",
		"garbage token":  "Bearer not-a-jwt",
	} {
		req := httptest.NewRequest(http.MethodPost, "/v1/questionnaires", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", name, rec.Code)
		}
	}
}

func TestGetEditorIDWithoutMiddleware(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetEditorID(req.Context()); got != "" {
		t.Errorf("editor id without middleware = %q, want empty", got)
	}
}
