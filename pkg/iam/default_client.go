// pkg/iam/default_client.go

package iam

import (
	"context"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// DefaultClientName is the display name of the client every seeding run creates.
const DefaultClientName = "Performance Test Client"

// DefaultClientConfig is the configured identity of the default client.
type DefaultClientConfig struct {
	ClientID     string
	ClientSecret string // empty means the server generates one
}

// DefaultClient is the outcome of CreateDefaultClient. Empty fields mean the
// value could not be determined.
type DefaultClient struct {
	UUID   string
	Secret string
}

// DefaultClientDescriptor is the confidential client used by load tests for
// client_credentials and password grants.
func DefaultClientDescriptor(cfg DefaultClientConfig) ClientDescriptor {
	d := ClientDescriptor{
		FieldName:                      DefaultClientName,
		FieldClientID:                  cfg.ClientID,
		FieldClientType:                "confidential",
		FieldServiceAccountEnabled:     true,
		FieldPublicClient:              false,
		FieldProtocol:                  "openid-connect",
		FieldEnabled:                   true,
		FieldDirectAccessGrantsEnabled: true,
	}
	if cfg.ClientSecret != "" {
		d[FieldClientSecret] = cfg.ClientSecret
	}
	return d
}

// CreateDefaultClient creates the default client through p and works out its
// secret. Providers implementing SecretResolver have the secret read back
// from the server; others report the configured secret. A non-nil error
// means the client itself could not be created.
func CreateDefaultClient(ctx context.Context, p Provider, token, realm string, cfg DefaultClientConfig) (DefaultClient, error) {
	logger := otelzap.Ctx(ctx)
	desc := DefaultClientDescriptor(cfg)

	resolver, hasResolver := p.(SecretResolver)
	if hasResolver && !resolver.AcceptsClientSecret() {
		desc = desc.Without(FieldClientSecret)
	}

	uuid, err := p.CreateClient(ctx, token, realm, desc)
	if err != nil {
		return DefaultClient{}, err
	}
	if uuid == "" {
		logger.Warn("Default client UUID unknown, secret not available",
			zap.String("provider", p.Name()),
			zap.String("client_id", cfg.ClientID))
		return DefaultClient{}, nil
	}

	if !hasResolver {
		return DefaultClient{UUID: uuid, Secret: cfg.ClientSecret}, nil
	}

	secret, err := resolver.ResolveClientSecret(ctx, token, realm, uuid)
	if err != nil {
		logger.Warn("Could not resolve default client secret",
			zap.String("provider", p.Name()),
			zap.String("client_uuid", uuid),
			zap.Error(err))
		return DefaultClient{UUID: uuid}, nil
	}
	return DefaultClient{UUID: uuid, Secret: secret}, nil
}
