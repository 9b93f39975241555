package cogniteclient

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cognitedata-community/cognite-sdk-go/internal/auth"
	"github.com/cognitedata-community/cognite-sdk-go/pkg/cognite"
)

// FileConfig is the shape of an optional on-disk YAML configuration file,
// for deployments that prefer a config file over environment variables.
// Any field left zero falls back to the matching COGNITE_* environment
// variable.
type FileConfig struct {
	BaseURL      string `yaml:"baseUrl"`
	Project      string `yaml:"project"`
	AppName      string `yaml:"appName"`
	ClientID     string `yaml:"clientId"`
	ClientSecret string `yaml:"clientSecret"`
	TokenURL     string `yaml:"tokenUrl"`
	Resource     string `yaml:"resource"`
	Audience     string `yaml:"audience"`
	Scopes       string `yaml:"scopes"`

	MaxRetries    int           `yaml:"maxRetries"`
	MaxRetryDelay time.Duration `yaml:"maxRetryDelay"`
	Timeout       time.Duration `yaml:"timeout"`
}

// LoadFileConfig reads and parses a YAML configuration file.
func LoadFileConfig(path string) (FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, &cognite.Error{Kind: cognite.KindBadConfig, Message: fmt.Sprintf("reading config file %s: %s", path, err.Error()), Cause: err}
	}

	var cfg FileConfig

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return FileConfig{}, &cognite.Error{Kind: cognite.KindBadConfig, Message: fmt.Sprintf("parsing config file %s: %s", path, err.Error()), Cause: err}
	}

	return cfg, nil
}

// Options controls how New resolves a client beyond the environment's
// defaults.
type Options struct {
	// AppName is required; it becomes the x-cdp-app header on every request.
	AppName string

	// ConfigFile, if set, is loaded with LoadFileConfig and takes
	// precedence over the corresponding environment variable for any
	// field it sets.
	ConfigFile string

	// Auth, if non-nil, is used directly instead of building an OIDC
	// authenticator from the environment/config file. This is the hook
	// for FixedToken, AuthTicket, or a caller-supplied custom Source.
	Auth auth.Source

	// DefaultExpiresIn is passed through to the OIDC authenticator when
	// Auth is nil and OIDC credentials are resolved.
	DefaultExpiresIn time.Duration

	Logger cognite.Logger
	Debug  bool
}

// New resolves configuration from the environment (optionally overridden
// by a YAML config file) and builds a cognite.Client, mirroring the
// teacher's cfclient.New entry point. New fails BadConfig if AppName is
// empty, and EnvMissing if COGNITE_PROJECT is unset or, when Options.Auth
// is nil, if COGNITE_CLIENT_ID, COGNITE_CLIENT_SECRET, or
// COGNITE_TOKEN_URL is missing after the config file is merged in.
func New(opts Options) (*cognite.Client, error) {
	if opts.AppName == "" {
		return nil, &cognite.Error{Kind: cognite.KindBadConfig, Message: "appName is required"}
	}

	env, err := LoadEnvConfig()
	if err != nil {
		return nil, err
	}

	var file FileConfig

	if opts.ConfigFile != "" {
		file, err = LoadFileConfig(opts.ConfigFile)
		if err != nil {
			return nil, err
		}

		mergeFileConfig(&env, file)
	}

	authSource := opts.Auth

	if authSource == nil {
		oidcCfg, err := env.OIDCConfig(opts.DefaultExpiresIn)
		if err != nil {
			return nil, err
		}

		authSource = auth.NewOIDCAuthenticator(oidcCfg)
	}

	return cognite.New(cognite.Config{
		BaseURL:       env.BaseURL,
		Project:       env.Project,
		AppName:       opts.AppName,
		Auth:          authSource,
		MaxRetries:    file.MaxRetries,
		MaxRetryDelay: file.MaxRetryDelay,
		Timeout:       file.Timeout,
		Logger:        opts.Logger,
		Debug:         opts.Debug,
	})
}

// NewWithFixedToken builds a client authenticating with a static bearer
// token, bypassing OIDC entirely.
func NewWithFixedToken(appName, token string) (*cognite.Client, error) {
	return New(Options{AppName: appName, Auth: auth.FixedToken{Token: token}})
}

func mergeFileConfig(env *EnvConfig, file FileConfig) {
	if file.BaseURL != "" {
		env.BaseURL = file.BaseURL
	}

	if file.Project != "" {
		env.Project = file.Project
	}

	if file.ClientID != "" {
		env.ClientID = file.ClientID
	}

	if file.ClientSecret != "" {
		env.ClientSecret = file.ClientSecret
	}

	if file.TokenURL != "" {
		env.TokenURL = file.TokenURL
	}

	if file.Resource != "" {
		env.Resource = file.Resource
	}

	if file.Audience != "" {
		env.Audience = file.Audience
	}

	if file.Scopes != "" {
		env.Scopes = file.Scopes
	}
}
