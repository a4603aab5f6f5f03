package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeFerrisKey is a minimal in-memory FerrisKey admin API.
type fakeFerrisKey struct {
	mu     sync.Mutex
	calls  []string
	realms map[string]bool
	users  int
}

func (f *fakeFerrisKey) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)

	reply := func(status int, body string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}

	switch {
	case r.URL.Path == "/realms/master/protocol/openid-connect/token":
		reply(http.StatusOK, `{"access_token":"fk-token"}`)
	case r.Method == http.MethodPost && r.URL.Path == "/realms":
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if f.realms[body["name"]] {
			reply(http.StatusConflict, `{}`)
			return
		}
		f.realms[body["name"]] = true
		reply(http.StatusCreated, `{}`)
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/realms/"):
		name := strings.TrimPrefix(r.URL.Path, "/realms/")
		if !f.realms[name] {
			reply(http.StatusNotFound, `{}`)
			return
		}
		delete(f.realms, name)
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/clients"):
		reply(http.StatusCreated, `{"data":{"id":"client-uuid"}}`)
	case r.Method == http.MethodGet && strings.HasSuffix(r.URL.Path, "/clients/client-uuid"):
		reply(http.StatusOK, `{"data":{"id":"client-uuid","secret":"generated-secret"}}`)
	case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/users"):
		f.users++
		reply(http.StatusCreated, fmt.Sprintf(`{"id":"user-%d"}`, f.users))
	case r.Method == http.MethodPut && strings.HasSuffix(r.URL.Path, "/reset-password"):
		w.WriteHeader(http.StatusNoContent)
	default:
		reply(http.StatusNotFound, `{}`)
	}
}

func (f *fakeFerrisKey) count(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// resetFlags clears flag values left over from a previous Execute.
func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func setup(t *testing.T) (*fakeFerrisKey, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	logger.SetLogger(zaptest.NewLogger(t))

	fake := &fakeFerrisKey{realms: map[string]bool{}}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	for _, k := range []string{"IAM_PROVIDER", "PERF_REALM", "CLIENT_ID", "CLIENT_SECRET", "ADMIN_CLIENT_SECRET", "SEED_CONCURRENCY", "ADMIN_REALM"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	t.Setenv("BASE_URL", server.URL)
	t.Setenv("ADMIN_CLIENT_ID", "admin-app")
	t.Setenv("USER_COUNT", "3")
	t.Setenv("CLIENTS_FIXTURE", "")

	RegisterCommands()
	resetFlags(RootCmd)
	var out, errOut bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&errOut)
	RootCmd.SetIn(strings.NewReader(""))
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetIn(nil)
	})
	return fake, &out, &errOut
}

func TestCreateTestData(t *testing.T) {
	fake, out, _ := setup(t)

	code := Run([]string{"create", "testdata", "--realm", "load"})
	assert.Equal(t, 0, code)

	assert.True(t, fake.realms["load"])
	assert.Equal(t, 3, fake.count("POST /realms/load/users"))
	assert.Equal(t, 3, fake.count("PUT /realms/load/users/"))
	assert.Contains(t, out.String(), "Users created: 3, Skipped/Failed: 0")
	assert.Contains(t, out.String(), "Client Secret: generated-secret")
}

func TestCreateTestData_FatalAuthExitsNonZero(t *testing.T) {
	fake, _, _ := setup(t)
	require.NoError(t, os.Unsetenv("ADMIN_CLIENT_ID"))

	code := Run([]string{"create", "testdata"})
	assert.Equal(t, 1, code)
	assert.Zero(t, fake.count(""), "no HTTP calls without an admin client id")
}

func TestDeleteTestData(t *testing.T) {
	fake, out, _ := setup(t)
	fake.realms["perf-realm"] = true

	code := Run([]string{"delete", "testdata", "--yes"})
	assert.Equal(t, 0, code)
	assert.False(t, fake.realms["perf-realm"])
	assert.Contains(t, out.String(), "Realm 'perf-realm' deleted successfully")

	resetFlags(RootCmd)
	code = Run([]string{"delete", "testdata", "--yes"})
	assert.Equal(t, 0, code, "missing realm is not an error")
	assert.Contains(t, out.String(), "not found (already deleted?)")
}

func TestDeleteTestData_DeclinedMakesNoCalls(t *testing.T) {
	fake, out, _ := setup(t)
	RootCmd.SetIn(strings.NewReader("n\n"))

	code := Run([]string{"delete", "testdata"})
	assert.Equal(t, 0, code)
	assert.Zero(t, fake.count(""))
	assert.Contains(t, out.String(), "Cleanup cancelled.")
}

func TestReadConfig(t *testing.T) {
	_, out, _ := setup(t)
	t.Setenv("ADMIN_PASSWORD", "hunter2")

	code := Run([]string{"read", "config", "--provider", "keycloak"})
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "IAM_PROVIDER=keycloak")
	assert.Contains(t, out.String(), "PERF_REALM=perf\n")
	assert.NotContains(t, out.String(), "hunter2")
}

func TestRun_InvalidConfig(t *testing.T) {
	setup(t)
	code := Run([]string{"read", "config", "--provider", "okta"})
	assert.Equal(t, 1, code)
}
