// pkg/iam/providers/providers.go

package providers

import (
	"strings"

	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/config"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iam"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iam/ferriskey"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iam/keycloak"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iamseed_err"
	cerr "github.com/cockroachdb/errors"
)

// Names lists the supported IAM_PROVIDER values.
var Names = []string{config.ProviderKeycloak, config.ProviderFerrisKey}

// New builds the adapter selected by cfg.Provider.
func New(cfg *config.Config) (iam.Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case config.ProviderKeycloak:
		return keycloak.New(keycloak.Options{
			BaseURL:    cfg.BaseURL,
			AdminRealm: cfg.AdminRealm,
			Username:   cfg.AdminUsername,
			Password:   cfg.AdminPassword,
			AuthClient: cfg.KeycloakAuthClient,
			Timeout:    cfg.RequestTimeout,
		}), nil
	case config.ProviderFerrisKey:
		return ferriskey.New(ferriskey.Options{
			BaseURL:      cfg.BaseURL,
			AdminRealm:   cfg.AdminRealm,
			Username:     cfg.AdminUsername,
			Password:     cfg.AdminPassword,
			ClientID:     cfg.AdminClientID,
			ClientSecret: cfg.AdminClientSecret,
			Timeout:      cfg.RequestTimeout,
		}), nil
	default:
		return nil, iamseed_err.NewValidationError(
			"unknown IAM provider",
			cerr.Newf("IAM_PROVIDER=%q", cfg.Provider),
			"Set IAM_PROVIDER to one of: "+strings.Join(Names, ", "),
		)
	}
}
