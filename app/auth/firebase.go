package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ankproject/ank-api/internal/errors"

	"github.com/coreos/go-oidc"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

const (
	firebaseIssuerPrefix = "https://securetoken.google.com/"
	firebaseKeysURL      = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"

	keysRequestTimeout = 10 * time.Second
	keysRetryWaitMin   = 200 * time.Millisecond
	keysRetryWaitMax   = 2 * time.Second
	keysRetryMax       = 3
)

// FirebaseAuthenticator verifies Firebase ID tokens issued for a single project.
type FirebaseAuthenticator struct {
	verifier *oidc.IDTokenVerifier
}

type FirebaseOption func(*firebaseOptions)

type firebaseOptions struct {
	keysURL string
	client  *http.Client
}

// WithKeysURL points key retrieval at a different JWKS endpoint.
func WithKeysURL(url string) FirebaseOption {
	return func(o *firebaseOptions) {
		o.keysURL = url
	}
}

// WithHTTPClient replaces the client used to fetch signing keys.
func WithHTTPClient(client *http.Client) FirebaseOption {
	return func(o *firebaseOptions) {
		o.client = client
	}
}

type firebaseClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// NewFirebaseAuthenticator verifies token signatures against Google's published securetoken keys.
// Keys are fetched lazily and refreshed when an unknown key id shows up.
func NewFirebaseAuthenticator(ctx context.Context, projectID string, options ...FirebaseOption) (*FirebaseAuthenticator, error) {
	if projectID == "" {
		return nil, errors.Err("firebase project id is not set")
	}
	opts := &firebaseOptions{keysURL: firebaseKeysURL}
	for _, opt := range options {
		opt(opts)
	}
	if opts.client == nil {
		opts.client = newKeysClient()
	}

	keySet := oidc.NewRemoteKeySet(oidc.ClientContext(ctx, opts.client), opts.keysURL)
	logger.WithFields(logrus.Fields{"project": projectID}).Info("verifying firebase id tokens")
	return NewFirebaseAuthenticatorWithVerifier(
		oidc.NewVerifier(FirebaseIssuer(projectID), keySet, &oidc.Config{ClientID: projectID}),
	), nil
}

// NewFirebaseAuthenticatorWithVerifier wraps a preconfigured verifier.
func NewFirebaseAuthenticatorWithVerifier(verifier *oidc.IDTokenVerifier) *FirebaseAuthenticator {
	return &FirebaseAuthenticator{verifier: verifier}
}

func newKeysClient() *http.Client {
	c := &retryablehttp.Client{
		HTTPClient: &http.Client{
			Transport: cleanhttp.DefaultPooledTransport(),
			Timeout:   keysRequestTimeout,
		},
		RetryWaitMin: keysRetryWaitMin,
		RetryWaitMax: keysRetryWaitMax,
		RetryMax:     keysRetryMax,
		Backoff:      retryablehttp.DefaultBackoff,
		CheckRetry:   retryablehttp.DefaultRetryPolicy,
		ErrorHandler: retryablehttp.PassthroughErrorHandler,
	}
	return c.StandardClient()
}

// FirebaseIssuer returns the token issuer Firebase uses for projectID.
func FirebaseIssuer(projectID string) string {
	return firebaseIssuerPrefix + projectID
}

// Authenticate verifies token and returns the identity it carries.
// The uid comes from the user_id claim and falls back to the token subject.
func (a *FirebaseAuthenticator) Authenticate(ctx context.Context, token string) (*Identity, error) {
	t, err := a.verifier.Verify(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}
	claims := firebaseClaims{}
	if err := t.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, err)
	}
	uid := claims.UserID
	if uid == "" {
		uid = t.Subject
	}
	return &Identity{UID: uid, Email: claims.Email}, nil
}
