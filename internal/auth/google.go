package auth

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
)

// ErrInvalidAssertion is returned when a Google ID token fails any check:
// signature, issuer, audience, expiry or a missing email claim.
var ErrInvalidAssertion = errors.New("invalid google id token")

// GoogleIdentity is the verified subset of a Google ID token payload.
type GoogleIdentity struct {
	Sub   string
	Email string
	Name  string
}

// GoogleVerifier validates a Google-issued ID token and extracts the
// verified identity.
type GoogleVerifier interface {
	Verify(ctx context.Context, credential string) (GoogleIdentity, error)
}

// IDTokenVerifier verifies Google ID tokens against Google's published
// signing keys (fetched and cached by the idtoken package).
type IDTokenVerifier struct {
	audience string
}

// NewIDTokenVerifier returns a verifier requiring the given OAuth client id
// as audience.
func NewIDTokenVerifier(audience string) *IDTokenVerifier {
	return &IDTokenVerifier{audience: audience}
}

// Verify fails closed: any validation error yields ErrInvalidAssertion.
func (v *IDTokenVerifier) Verify(ctx context.Context, credential string) (GoogleIdentity, error) {
	payload, err := idtoken.Validate(ctx, credential, v.audience)
	if err != nil {
		return GoogleIdentity{}, fmt.Errorf("%w: %v", ErrInvalidAssertion, err)
	}
	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if payload.Subject == "" || email == "" {
		return GoogleIdentity{}, ErrInvalidAssertion
	}
	return GoogleIdentity{Sub: payload.Subject, Email: email, Name: name}, nil
}
