// pkg/config/redact.go

package config

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const mask = "********"

func redact(s string) string {
	if s == "" {
		return "(not set)"
	}
	return mask
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// Redacted returns the configuration as ordered key/value pairs with
// passwords and secrets masked.
func (c *Config) Redacted() [][2]string {
	return [][2]string{
		{KeyProvider, c.Provider},
		{KeyBaseURL, c.BaseURL},
		{KeyRequestTimeout, fmt.Sprintf("%d", int(c.RequestTimeout.Seconds()))},
		{KeyAdminUsername, c.AdminUsername},
		{KeyAdminPassword, redact(c.AdminPassword)},
		{KeyAdminRealm, c.AdminRealm},
		{KeyAdminClientID, orUnset(c.AdminClientID)},
		{KeyAdminClientSecret, redact(c.AdminClientSecret)},
		{KeyKeycloakAuthClient, c.KeycloakAuthClient},
		{KeyPerfRealm, c.PerfRealm},
		{KeyClientID, c.ClientID},
		{KeyClientSecret, redact(c.ClientSecret)},
		{KeyUserCount, fmt.Sprintf("%d", c.UserCount)},
		{KeyUserPassword, redact(c.UserPassword)},
		{KeyUserPrefix, c.UserPrefix},
		{KeyUserFirstName, c.UserFirstName},
		{KeyUserLastNamePrefix, c.UserLastNamePrefix},
		{KeyUserEmailPrefix, c.UserEmailPrefix},
		{KeyUserEmailDomain, c.UserEmailDomain},
		{KeyClientsFixture, orUnset(c.ClientsFixture)},
		{KeyConcurrency, fmt.Sprintf("%d", c.Concurrency)},
		{KeyTelemetryFile, orUnset(c.TelemetryFile)},
		{KeyLogLevel, c.LogLevel},
	}
}

// String renders Redacted as KEY=value lines.
func (c *Config) String() string {
	var sb strings.Builder
	for _, kv := range c.Redacted() {
		sb.WriteString(kv[0])
		sb.WriteString("=")
		sb.WriteString(kv[1])
		sb.WriteString("\n")
	}
	return sb.String()
}

// ZapFields returns the non-secret settings for structured logs.
func (c *Config) ZapFields() []zap.Field {
	return []zap.Field{
		zap.String("provider", c.Provider),
		zap.String("base_url", c.BaseURL),
		zap.String("admin_realm", c.AdminRealm),
		zap.String("perf_realm", c.PerfRealm),
		zap.String("client_id", c.ClientID),
		zap.Int("user_count", c.UserCount),
		zap.Int("concurrency", c.Concurrency),
		zap.Duration("request_timeout", c.RequestTimeout),
	}
}
