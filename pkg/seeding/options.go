// pkg/seeding/options.go

package seeding

import (
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/config"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iam"
)

// NewOptions derives seeding options from the resolved configuration.
func NewOptions(cfg *config.Config) Options {
	return Options{
		BaseURL:    cfg.BaseURL,
		AdminRealm: cfg.AdminRealm,
		Realm:      cfg.PerfRealm,
		DefaultClient: iam.DefaultClientConfig{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
		},
		FixturePath:  cfg.ClientsFixture,
		UserCount:    cfg.UserCount,
		UserPassword: cfg.UserPassword,
		Naming: UserNaming{
			Prefix:         cfg.UserPrefix,
			FirstName:      cfg.UserFirstName,
			LastNamePrefix: cfg.UserLastNamePrefix,
			EmailPrefix:    cfg.UserEmailPrefix,
			EmailDomain:    cfg.UserEmailDomain,
		},
		Concurrency: cfg.Concurrency,
	}
}

// NewCleanupOptions derives cleanup options from the resolved configuration.
func NewCleanupOptions(cfg *config.Config) CleanupOptions {
	return CleanupOptions{BaseURL: cfg.BaseURL, Realm: cfg.PerfRealm}
}
