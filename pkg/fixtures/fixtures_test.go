package fixtures

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadClients_JSON(t *testing.T) {
	path := writeFixture(t, "clients.json", `[
		{"_comment": "confidential client", "client_id": "perf-confidential", "name": "Confidential", "public_client": false},
		{"name": "missing id"},
		{"client_id": "perf-public", "public_client": true}
	]`)

	res, err := LoadClients(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, res.Clients, 2)
	assert.Equal(t, "perf-confidential", res.Clients[0].ClientID())
	assert.NotContains(t, res.Clients[0], "_comment")
	assert.Equal(t, "perf-public", res.Clients[1].ClientID())
	assert.True(t, res.Clients[1].Bool("public_client", false))
	assert.Len(t, res.Warnings, 1)
}

func TestLoadClients_YAML(t *testing.T) {
	path := writeFixture(t, "clients.yaml", `
- client_id: perf-yaml
  name: From YAML
  service_account_enabled: true
  _note: ignored
`)

	res, err := LoadClients(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, res.Clients, 1)
	assert.Equal(t, "perf-yaml", res.Clients[0].ClientID())
	assert.True(t, res.Clients[0].Bool("service_account_enabled", false))
	assert.NotContains(t, res.Clients[0], "_note")
}

func TestLoadClients_MissingFile(t *testing.T) {
	res, err := LoadClients(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Empty(t, res.Clients)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "not found")
}

func TestLoadClients_Malformed(t *testing.T) {
	path := writeFixture(t, "clients.json", `{"client_id": "not-an-array"}`)
	_, err := LoadClients(context.Background(), path)
	assert.Error(t, err)
}
