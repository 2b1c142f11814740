package service

import "testing"

func TestLoginAndValidate(t *testing.T) {
	svc := NewAuthService("editor", "hunter2", "test-secret")

	if _, err := svc.Login("editor", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("Login with bad password = %v, want ErrInvalidCredentials", err)
	}

	resp, err := svc.Login("editor", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" || resp.EditorID == "" {
		t.Fatalf("empty login response: %+v", resp)
	}

	claims, err := svc.ValidateEditorToken(resp.Token)
	if err != nil {
		t.Fatalf("ValidateEditorToken: %v", err)
	}
	if claims.EditorID != resp.EditorID {
		t.Errorf("editorId = %q, want %q", claims.EditorID, resp.EditorID)
	}
}

func TestValidateRejectsForeignToken(t *testing.T) {
	issuer := NewAuthService("editor", "hunter2", "secret-a")
	verifier := NewAuthService("editor", "hunter2", "secret-b")

	resp, err := issuer.Login("editor", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if _, err := verifier.ValidateEditorToken(resp.Token); err != ErrInvalidToken {
		t.Errorf("ValidateEditorToken = %v, want ErrInvalidToken", err)
	}
}
