// pkg/config/config.go
//
// Configuration for iamseed runs. Values are resolved once per command from
// flags, the process environment and an optional .env file, with defaults
// that depend on the selected IAM provider.

package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iamseed_err"
	cerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	ProviderKeycloak  = "keycloak"
	ProviderFerrisKey = "ferriskey"
)

// Environment keys.
const (
	KeyProvider           = "IAM_PROVIDER"
	KeyBaseURL            = "BASE_URL"
	KeyRequestTimeout     = "REQUEST_TIMEOUT"
	KeyAdminUsername      = "ADMIN_USERNAME"
	KeyAdminPassword      = "ADMIN_PASSWORD"
	KeyAdminRealm         = "ADMIN_REALM"
	KeyAdminClientID      = "ADMIN_CLIENT_ID"
	KeyAdminClientSecret  = "ADMIN_CLIENT_SECRET"
	KeyKeycloakAuthClient = "KEYCLOAK_AUTH_CLIENT"
	KeyPerfRealm          = "PERF_REALM"
	KeyClientID           = "CLIENT_ID"
	KeyClientSecret       = "CLIENT_SECRET"
	KeyUserCount          = "USER_COUNT"
	KeyUserPassword       = "USER_PASSWORD"
	KeyUserPrefix         = "USER_PREFIX"
	KeyUserFirstName      = "USER_FIRSTNAME"
	KeyUserLastNamePrefix = "USER_LASTNAME_PREFIX"
	KeyUserEmailPrefix    = "USER_EMAIL_PREFIX"
	KeyUserEmailDomain    = "USER_EMAIL_DOMAIN"
	KeyClientsFixture     = "CLIENTS_FIXTURE"
	KeyConcurrency        = "SEED_CONCURRENCY"
	KeyTelemetryFile      = "TELEMETRY_FILE"
	KeyLogLevel           = "LOG_LEVEL"
)

// ProviderDefaults holds the values that differ between IAM backends.
type ProviderDefaults struct {
	BaseURL    string
	AdminRealm string
	PerfRealm  string
}

var providerDefaults = map[string]ProviderDefaults{
	ProviderKeycloak:  {BaseURL: "http://localhost:8080", AdminRealm: "master", PerfRealm: "perf"},
	ProviderFerrisKey: {BaseURL: "http://localhost:3333", AdminRealm: "master", PerfRealm: "perf-realm"},
}

var staticDefaults = map[string]any{
	KeyProvider:           ProviderFerrisKey,
	KeyRequestTimeout:     30,
	KeyAdminUsername:      "admin",
	KeyAdminPassword:      "admin",
	KeyKeycloakAuthClient: "admin-cli",
	KeyUserCount:          50,
	KeyUserPassword:       "perf-password",
	KeyUserPrefix:         "perf-user-",
	KeyUserFirstName:      "Perf",
	KeyUserLastNamePrefix: "User",
	KeyUserEmailPrefix:    "perf",
	KeyUserEmailDomain:    "test.local",
	KeyClientsFixture:     "data/clients.json",
	KeyConcurrency:        1,
	KeyLogLevel:           "info",
}

// Config is the resolved, validated configuration for one run.
type Config struct {
	Provider       string        `validate:"required,oneof=keycloak ferriskey"`
	BaseURL        string        `validate:"required,url"`
	RequestTimeout time.Duration `validate:"gt=0"`

	AdminUsername      string `validate:"required"`
	AdminPassword      string
	AdminRealm         string `validate:"required"`
	AdminClientID      string
	AdminClientSecret  string
	KeycloakAuthClient string `validate:"required"`

	PerfRealm    string `validate:"required"`
	ClientID     string `validate:"required"`
	ClientSecret string

	UserCount          int `validate:"gte=0"`
	UserPassword       string
	UserPrefix         string
	UserFirstName      string
	UserLastNamePrefix string
	UserEmailPrefix    string
	UserEmailDomain    string `validate:"required"`

	ClientsFixture string
	Concurrency    int `validate:"gte=1"`
	TelemetryFile  string
	LogLevel       string
}

// NewViper returns a viper instance reading the process environment with
// the static defaults registered.
func NewViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	for k, d := range staticDefaults {
		v.SetDefault(k, d)
	}
	return v
}

// DefaultsFor returns the provider-specific defaults. Unknown providers get
// the FerrisKey defaults.
func DefaultsFor(provider string) ProviderDefaults {
	if d, ok := providerDefaults[provider]; ok {
		return d
	}
	return providerDefaults[ProviderFerrisKey]
}

// Load resolves a Config from v. CLIENT_ID is generated when unset.
func Load(v *viper.Viper) (*Config, error) {
	provider := strings.ToLower(get(v, KeyProvider))
	d := DefaultsFor(provider)
	v.SetDefault(KeyBaseURL, d.BaseURL)
	v.SetDefault(KeyAdminRealm, d.AdminRealm)
	v.SetDefault(KeyPerfRealm, d.PerfRealm)

	timeout, err := getInt(v, KeyRequestTimeout)
	if err != nil {
		return nil, err
	}
	userCount, err := getInt(v, KeyUserCount)
	if err != nil {
		return nil, err
	}
	concurrency, err := getInt(v, KeyConcurrency)
	if err != nil {
		return nil, err
	}

	clientID := get(v, KeyClientID)
	if clientID == "" {
		if clientID, err = GenerateClientID(); err != nil {
			return nil, cerr.Wrap(err, "generate client id")
		}
	}

	cfg := &Config{
		Provider:           provider,
		BaseURL:            strings.TrimRight(get(v, KeyBaseURL), "/"),
		RequestTimeout:     time.Duration(timeout) * time.Second,
		AdminUsername:      get(v, KeyAdminUsername),
		AdminPassword:      get(v, KeyAdminPassword),
		AdminRealm:         get(v, KeyAdminRealm),
		AdminClientID:      get(v, KeyAdminClientID),
		AdminClientSecret:  get(v, KeyAdminClientSecret),
		KeycloakAuthClient: get(v, KeyKeycloakAuthClient),
		PerfRealm:          get(v, KeyPerfRealm),
		ClientID:           clientID,
		ClientSecret:       get(v, KeyClientSecret),
		UserCount:          userCount,
		UserPassword:       get(v, KeyUserPassword),
		UserPrefix:         get(v, KeyUserPrefix),
		UserFirstName:      get(v, KeyUserFirstName),
		UserLastNamePrefix: get(v, KeyUserLastNamePrefix),
		UserEmailPrefix:    get(v, KeyUserEmailPrefix),
		UserEmailDomain:    get(v, KeyUserEmailDomain),
		ClientsFixture:     get(v, KeyClientsFixture),
		Concurrency:        concurrency,
		TelemetryFile:      get(v, KeyTelemetryFile),
		LogLevel:           get(v, KeyLogLevel),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags on c.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if cerr.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return iamseed_err.NewValidationError(
				"invalid configuration: "+fe.Field()+" failed '"+fe.Tag()+"' check",
				err,
				"Check the matching environment variable or .env entry",
				"Run 'iamseed read config' to see the resolved values",
			)
		}
		return iamseed_err.NewValidationError("invalid configuration", err)
	}
	return nil
}

func get(v *viper.Viper, key string) string {
	return strings.TrimSpace(v.GetString(key))
}

func getInt(v *viper.Viper, key string) (int, error) {
	raw := get(v, key)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, iamseed_err.NewValidationError(
			key+" must be an integer, got '"+raw+"'",
			err,
			"Set "+key+" to a whole number",
		)
	}
	return n, nil
}

// FlagKeys maps command-line flag names onto the environment keys they override.
var FlagKeys = map[string]string{
	"provider":    KeyProvider,
	"base-url":    KeyBaseURL,
	"realm":       KeyPerfRealm,
	"fixture":     KeyClientsFixture,
	"concurrency": KeyConcurrency,
	"users":       KeyUserCount,
}
