package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// expiryBuffer is subtracted from a freshly fetched token's expires_in so a
// refresh happens slightly before the token actually stops working (spec's
// §4.1 "60-second buffer").
const expiryBuffer = 60 * time.Second

// ErrAuthenticatorFailure wraps all failures encountered while acquiring or
// refreshing an OIDC token.
var ErrAuthenticatorFailure = errors.New("authenticator failure")

// ErrNoExpiry is returned when the token endpoint omits expires_in and no
// default lifetime was configured.
var ErrNoExpiry = fmt.Errorf("%w: token endpoint did not return expires_in and no default is configured", ErrAuthenticatorFailure)

// OIDCConfig configures the client-credentials grant used to acquire CDF
// access tokens.
type OIDCConfig struct {
	ClientID     string
	ClientSecret string
	TokenURL     string

	// Resource and Audience are sent as extra token-request parameters when
	// non-empty; CDF tenants use one or the other depending on IdP.
	Resource string
	Audience string

	// Scopes is a space-separated scope list as CDF expects it; it is split
	// before being handed to the oauth2 client-credentials exchange.
	Scopes string

	// DefaultExpiresIn is used when the token response omits expires_in.
	// Zero means no default: a missing expires_in is then a hard failure.
	DefaultExpiresIn time.Duration
}

func (c OIDCConfig) endpointParams() (url1 map[string][]string) {
	params := map[string][]string{}
	if c.Resource != "" {
		params["resource"] = []string{c.Resource}
	}

	if c.Audience != "" {
		params["audience"] = []string{c.Audience}
	}

	return params
}

func (c OIDCConfig) scopes() []string {
	if c.Scopes == "" {
		return nil
	}

	return strings.Fields(c.Scopes)
}

// OIDCAuthenticator implements Source via the OAuth2 client-credentials
// grant, caching the resulting token in a TokenStore (itself a
// read-dominant RWMutex over the cached value).
//
// getToken follows the spec's read/write/recheck discipline: readers hit
// the store and return immediately on a cache hit; on a miss the caller
// takes refreshMu (serializing refreshers) and rechecks the store —
// another goroutine may have already refreshed it while the caller
// waited — before issuing a single token-endpoint request. This keeps
// concurrent callers from triggering a thundering herd of refreshes when
// the cached token expires.
type OIDCAuthenticator struct {
	cfg       OIDCConfig
	oauth     clientcredentials.Config
	store     *TokenStore
	refreshMu sync.Mutex
}

// NewOIDCAuthenticator builds an authenticator from the given configuration.
func NewOIDCAuthenticator(cfg OIDCConfig) *OIDCAuthenticator {
	return &OIDCAuthenticator{
		cfg:   cfg,
		store: NewTokenStore(),
		oauth: clientcredentials.Config{
			ClientID:       cfg.ClientID,
			ClientSecret:   cfg.ClientSecret,
			TokenURL:       cfg.TokenURL,
			Scopes:         cfg.scopes(),
			EndpointParams: cfg.endpointParams(),
			AuthStyle:      oauth2.AuthStyleInParams,
		},
	}
}

// SetHeaders implements Source, setting Authorization: Bearer <token>.
func (a *OIDCAuthenticator) SetHeaders(ctx context.Context, headers http.Header) error {
	token, err := a.GetToken(ctx, http.DefaultClient)
	if err != nil {
		return err
	}

	return setHeader(headers, "Authorization", "Bearer "+token)
}

// GetToken returns a valid cached access token, refreshing it through httpC
// if necessary. Concurrent callers observe at most one network round trip
// per cache invalidation.
func (a *OIDCAuthenticator) GetToken(ctx context.Context, httpC *http.Client) (string, error) {
	if cached := a.store.Get(); cached.Valid() {
		return cached.AccessToken, nil
	}

	a.refreshMu.Lock()
	defer a.refreshMu.Unlock()

	// Re-check: another goroutine may have refreshed while we waited for the lock.
	if cached := a.store.Get(); cached.Valid() {
		return cached.AccessToken, nil
	}

	token, err := a.fetch(ctx, httpC)
	if err != nil {
		return "", err
	}

	a.store.Set(token)

	return token.AccessToken, nil
}

func (a *OIDCAuthenticator) fetch(ctx context.Context, httpC *http.Client) (*Token, error) {
	start := time.Now()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, httpC)

	raw, err := a.oauth.Token(ctx)
	if err != nil {
		return nil, a.wrapRetrieveError(err)
	}

	lifetime, err := a.effectiveLifetime(raw, start)
	if err != nil {
		return nil, err
	}

	return &Token{
		AccessToken:  raw.AccessToken,
		RefreshToken: raw.RefreshToken,
		TokenType:    raw.TokenType,
		ExpiresAt:    start.Add(lifetime),
	}, nil
}

// effectiveLifetime computes max(0, expires_in - 60s), falling back to the
// configured default when the endpoint omitted expires_in.
func (a *OIDCAuthenticator) effectiveLifetime(raw *oauth2.Token, start time.Time) (time.Duration, error) {
	if raw.Expiry.IsZero() {
		if a.cfg.DefaultExpiresIn <= 0 {
			return 0, ErrNoExpiry
		}

		return a.cfg.DefaultExpiresIn, nil
	}

	lifetime := raw.Expiry.Sub(start) - expiryBuffer
	if lifetime < 0 {
		lifetime = 0
	}

	return lifetime, nil
}

// wrapRetrieveError turns an oauth2 token-endpoint failure into an
// AuthenticatorFailure, preferring the structured {error,
// error_description, error_uri} body the endpoint returned and falling
// back to the raw response text when that body didn't decode.
func (a *OIDCAuthenticator) wrapRetrieveError(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		if re.ErrorCode != "" {
			msg := fmt.Sprintf("%s: %s", re.ErrorCode, re.ErrorDescription)
			if re.ErrorURI != "" {
				msg += " (" + re.ErrorURI + ")"
			}

			return fmt.Errorf("%w: %s", ErrAuthenticatorFailure, msg)
		}

		return fmt.Errorf("%w: %s", ErrAuthenticatorFailure, strings.TrimSpace(string(re.Body)))
	}

	return fmt.Errorf("%w: %w", ErrAuthenticatorFailure, err)
}
