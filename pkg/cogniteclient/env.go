// Package cogniteclient is the entry point for constructing a
// pkg/cognite.Client: it resolves configuration from the environment or a
// YAML file and wires it into an OIDC, fixed-token, or custom credential
// source, mirroring the teacher's cfclient.New discovery-and-wire pattern.
package cogniteclient

import (
	"fmt"
	"os"
	"time"

	"github.com/cognitedata-community/cognite-sdk-go/internal/auth"
	"github.com/cognitedata-community/cognite-sdk-go/pkg/cognite"
)

const (
	envBaseURL      = "COGNITE_BASE_URL"
	envProject      = "COGNITE_PROJECT"
	envClientID     = "COGNITE_CLIENT_ID"
	envClientSecret = "COGNITE_CLIENT_SECRET"
	envTokenURL     = "COGNITE_TOKEN_URL"
	envResource     = "COGNITE_RESOURCE"
	envAudience     = "COGNITE_AUDIENCE"
	envScopes       = "COGNITE_SCOPES"
)

// defaultBaseURL is used when COGNITE_BASE_URL is unset, per §6.
const defaultBaseURL = "https://api.cognitedata.com/"

// EnvConfig is the environment-sourced subset of settings recognised by
// NewFromEnv, per §6's table of recognised variables.
type EnvConfig struct {
	BaseURL      string
	Project      string
	ClientID     string
	ClientSecret string
	TokenURL     string
	Resource     string
	Audience     string
	Scopes       string
}

func missingEnv(name string) *cognite.Error {
	return &cognite.Error{Kind: cognite.KindEnvMissing, Message: fmt.Sprintf("required environment variable %s is not set", name)}
}

// LoadEnvConfig reads the COGNITE_* environment variables. A missing
// COGNITE_PROJECT surfaces as EnvMissing; OIDC fields are validated by
// OIDCConfig, not here, since a caller may supply FixedToken or a custom
// Source instead of OIDC.
func LoadEnvConfig() (EnvConfig, error) {
	project := os.Getenv(envProject)
	if project == "" {
		return EnvConfig{}, missingEnv(envProject)
	}

	baseURL := os.Getenv(envBaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return EnvConfig{
		BaseURL:      baseURL,
		Project:      project,
		ClientID:     os.Getenv(envClientID),
		ClientSecret: os.Getenv(envClientSecret),
		TokenURL:     os.Getenv(envTokenURL),
		Resource:     os.Getenv(envResource),
		Audience:     os.Getenv(envAudience),
		Scopes:       os.Getenv(envScopes),
	}, nil
}

// OIDCConfig builds an auth.OIDCConfig from the loaded environment values,
// failing EnvMissing if COGNITE_CLIENT_ID, COGNITE_CLIENT_SECRET, or
// COGNITE_TOKEN_URL is absent.
func (e EnvConfig) OIDCConfig(defaultExpiresIn time.Duration) (auth.OIDCConfig, error) {
	for _, required := range []struct{ name, value string }{
		{envClientID, e.ClientID},
		{envClientSecret, e.ClientSecret},
		{envTokenURL, e.TokenURL},
	} {
		if required.value == "" {
			return auth.OIDCConfig{}, missingEnv(required.name)
		}
	}

	return auth.OIDCConfig{
		ClientID:         e.ClientID,
		ClientSecret:     e.ClientSecret,
		TokenURL:         e.TokenURL,
		Resource:         e.Resource,
		Audience:         e.Audience,
		Scopes:           e.Scopes,
		DefaultExpiresIn: defaultExpiresIn,
	}, nil
}
