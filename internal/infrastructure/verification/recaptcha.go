// Package verification provides the human-verification gate for contact
// submissions. The provider is treated as an opaque capability: verify a
// token, get a yes or an error.
package verification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrVerificationFailed indicates the provider rejected the token.
var ErrVerificationFailed = errors.New("verification failed")

// Verifier checks an opaque verification token.
type Verifier interface {
	Verify(ctx context.Context, token, remoteIP string) error
	Required() bool
}

// RecaptchaVerifier verifies tokens against the reCAPTCHA siteverify endpoint.
type RecaptchaVerifier struct {
	secret   string
	endpoint string
	client   *http.Client
}

var _ Verifier = (*RecaptchaVerifier)(nil)

// NewRecaptchaVerifier creates a verifier for the given secret and endpoint.
func NewRecaptchaVerifier(secret, endpoint string) *RecaptchaVerifier {
	return &RecaptchaVerifier{
		secret:   secret,
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Required always holds for the production verifier.
func (v *RecaptchaVerifier) Required() bool { return true }

// Verify posts the token to the siteverify endpoint and checks the result.
func (v *RecaptchaVerifier) Verify(ctx context.Context, token, remoteIP string) error {
	if token == "" {
		return ErrVerificationFailed
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build verification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("verification request failed: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Success    bool     `json:"success"`
		ErrorCodes []string `json:"error-codes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("failed to decode verification response: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("%w: %s", ErrVerificationFailed, strings.Join(result.ErrorCodes, ", "))
	}
	return nil
}

// NoopVerifier accepts every token. Used outside production configuration,
// where verification is optional.
type NoopVerifier struct{}

var _ Verifier = (*NoopVerifier)(nil)

// NewNoopVerifier creates the always-pass verifier.
func NewNoopVerifier() *NoopVerifier { return &NoopVerifier{} }

// Required never holds for the no-op verifier.
func (v *NoopVerifier) Required() bool { return false }

// Verify accepts any token.
func (v *NoopVerifier) Verify(ctx context.Context, token, remoteIP string) error { return nil }
