package verification

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRecaptchaVerify(t *testing.T) {
	var lastForm map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		lastForm = map[string]string{
			"secret":   r.PostFormValue("secret"),
			"response": r.PostFormValue("response"),
			"remoteip": r.PostFormValue("remoteip"),
		}
		if r.PostFormValue("response") == "good-token" {
			w.Write([]byte(`{"success":true}`))
			return
		}
		w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response"]}`))
	}))
	defer server.Close()

	v := NewRecaptchaVerifier("secret-key", server.URL)
	if !v.Required() {
		t.Error("production verifier must be required")
	}

	if err := v.Verify(context.Background(), "good-token", "203.0.113.9"); err != nil {
		t.Fatalf("verify good token: %v", err)
	}
	if lastForm["secret"] != "secret-key" || lastForm["remoteip"] != "203.0.113.9" {
		t.Errorf("unexpected form: %v", lastForm)
	}

	err := v.Verify(context.Background(), "bad-token", "")
	if !errors.Is(err, ErrVerificationFailed) {
		t.Errorf("expected ErrVerificationFailed, got %v", err)
	}

	// Empty tokens fail without touching the provider.
	if err := v.Verify(context.Background(), "", ""); !errors.Is(err, ErrVerificationFailed) {
		t.Errorf("expected ErrVerificationFailed for empty token, got %v", err)
	}
}

func TestNoopVerifier(t *testing.T) {
	v := NewNoopVerifier()
	if v.Required() {
		t.Error("noop verifier must not be required")
	}
	if err := v.Verify(context.Background(), "", ""); err != nil {
		t.Errorf("noop verify: %v", err)
	}
}
