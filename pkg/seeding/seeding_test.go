package seeding

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/config"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/console"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iam"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iam/iamtest"
	cerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap/zaptest"
)

var anyArg = mock.Anything

func naming() UserNaming {
	return UserNaming{
		Prefix:         "perf-user-",
		FirstName:      "Perf",
		LastNamePrefix: "User",
		EmailPrefix:    "perf",
		EmailDomain:    "test.local",
	}
}

func options(users int) Options {
	return Options{
		BaseURL:       "http://localhost:3333",
		AdminRealm:    "master",
		Realm:         "perf-realm",
		DefaultClient: iam.DefaultClientConfig{ClientID: "perf-client-abcd1234", ClientSecret: "configured"},
		FixturePath:   "",
		UserCount:     users,
		UserPassword:  "perf-password",
		Naming:        naming(),
		Concurrency:   1,
	}
}

func newReporter() (*console.Reporter, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return console.New(&out, &errOut), &out, &errOut
}

// happyPath wires auth, realm and default client expectations.
func happyPath(p *iamtest.MockProvider) {
	p.On("Authenticate", anyArg).Return("tok", nil)
	p.On("CreateRealm", anyArg, "tok", "perf-realm").Return(iam.StatusCreated, nil)
	p.On("CreateClient", anyArg, "tok", "perf-realm", mock.MatchedBy(func(d iam.ClientDescriptor) bool {
		return d.Str(iam.FieldName) == iam.DefaultClientName
	})).Return("default-uuid", nil)
}

func TestUserNaming(t *testing.T) {
	n := naming()
	assert.Equal(t, iam.UserSpec{
		Username:  "perf-user-007",
		FirstName: "Perf",
		LastName:  "User007",
		Email:     "perf007@test.local",
	}, n.User(7))
	assert.Equal(t, "perf-user-1234", n.Username(1234))
	assert.Equal(t, "perf-user-001 through perf-user-050", n.Range(50))
	assert.Equal(t, "perf-user-001", n.Range(1))
	assert.Equal(t, "none", n.Range(0))

	seen := map[string]bool{}
	for i := 1; i <= 1000; i++ {
		u := n.Username(i)
		assert.False(t, seen[u], "duplicate username %s", u)
		seen[u] = true
	}
}

func TestSeeder_CreatesUsersInOrder(t *testing.T) {
	otelzap.ReplaceGlobals(otelzap.New(zaptest.NewLogger(t)))
	p := &iamtest.MockProvider{}
	happyPath(p)

	var mu sync.Mutex
	var order []string
	p.On("CreateUser", anyArg, "tok", "perf-realm", mock.AnythingOfType("iam.UserSpec")).
		Run(func(args mock.Arguments) {
			mu.Lock()
			defer mu.Unlock()
			order = append(order, args.Get(3).(iam.UserSpec).Username)
		}).
		Return("uid", nil)
	p.On("SetUserPassword", anyArg, "tok", "perf-realm", "uid", "perf-password").Return(nil)

	out, stdout, _ := newReporter()
	sum, err := NewSeeder(p, out, options(3)).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"perf-user-001", "perf-user-002", "perf-user-003"}, order)
	p.AssertNumberOfCalls(t, "CreateUser", 3)
	p.AssertNumberOfCalls(t, "SetUserPassword", 3)
	assert.Equal(t, 3, sum.UsersCreated)
	assert.Zero(t, sum.UsersFailed)
	assert.True(t, sum.RealmOK)
	assert.Equal(t, 1, sum.ClientsCreated)
	assert.Equal(t, iam.DefaultClient{UUID: "default-uuid", Secret: "configured"}, sum.DefaultClient)

	text := stdout.String()
	assert.Contains(t, text, "  Creating users... 3/3")
	assert.Contains(t, text, "Users created: 3, Skipped/Failed: 0")
	assert.Contains(t, text, "Test users: perf-user-001 through perf-user-003")
	assert.Contains(t, text, "Client Secret: configured")
	assert.Contains(t, text, "k6 run --env BASE_URL=http://localhost:3333 --env REALM=perf-realm")
}

func TestSeeder_BatchIsolation(t *testing.T) {
	p := &iamtest.MockProvider{}
	happyPath(p)

	n := naming()
	for i := 1; i <= 10; i++ {
		u := n.User(i)
		if i == 5 {
			p.On("CreateUser", anyArg, "tok", "perf-realm", u).
				Return("", cerr.Wrap(iam.ErrAlreadyExists, "user perf-user-005")).Once()
			continue
		}
		p.On("CreateUser", anyArg, "tok", "perf-realm", u).Return("uid-"+u.Username, nil).Once()
		p.On("SetUserPassword", anyArg, "tok", "perf-realm", "uid-"+u.Username, "perf-password").Return(nil).Once()
	}

	out, stdout, _ := newReporter()
	sum, err := NewSeeder(p, out, options(10)).Run(context.Background())
	require.NoError(t, err)

	p.AssertNumberOfCalls(t, "CreateUser", 10)
	p.AssertNumberOfCalls(t, "SetUserPassword", 9)
	assert.Equal(t, 9, sum.UsersCreated)
	assert.Equal(t, 1, sum.UsersFailed)
	assert.Contains(t, stdout.String(), "  Creating users... 10/10")
	p.AssertExpectations(t)
}

func TestSeeder_PasswordFailureCountsAsFailed(t *testing.T) {
	p := &iamtest.MockProvider{}
	happyPath(p)
	p.On("CreateUser", anyArg, "tok", "perf-realm", naming().User(1)).Return("u1", nil)
	p.On("CreateUser", anyArg, "tok", "perf-realm", naming().User(2)).Return("", nil)
	p.On("SetUserPassword", anyArg, "tok", "perf-realm", "u1", "perf-password").
		Return(&iam.StatusError{Op: "set password", Code: 400})

	sum, err := NewSeeder(p, nil, options(2)).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sum.UsersCreated)
	assert.Equal(t, 2, sum.UsersFailed)
	p.AssertNumberOfCalls(t, "SetUserPassword", 1)
}

func TestSeeder_FatalAuthenticationStopsRun(t *testing.T) {
	p := &iamtest.MockProvider{}
	p.On("Authenticate", anyArg).Return("", iam.Fatalf("no access_token in response"))

	out, _, stderr := newReporter()
	sum, err := NewSeeder(p, out, options(10)).Run(context.Background())
	require.Error(t, err)
	assert.True(t, iam.IsFatal(err))
	assert.False(t, sum.RealmOK)

	p.AssertNotCalled(t, "CreateRealm", anyArg, anyArg, anyArg)
	p.AssertNotCalled(t, "CreateClient", anyArg, anyArg, anyArg, anyArg)
	p.AssertNotCalled(t, "CreateUser", anyArg, anyArg, anyArg, anyArg)
	assert.Contains(t, stderr.String(), "Failed to get admin token")
}

func TestSeeder_RealmFailureContinues(t *testing.T) {
	p := &iamtest.MockProvider{}
	p.On("Authenticate", anyArg).Return("tok", nil)
	p.On("CreateRealm", anyArg, "tok", "perf-realm").Return(iam.Status(0), &iam.StatusError{Op: "create realm", Code: 500})
	p.On("CreateClient", anyArg, "tok", "perf-realm", anyArg).Return("", &iam.StatusError{Op: "create client", Code: 404})
	p.On("CreateUser", anyArg, "tok", "perf-realm", anyArg).Return("", errors.New("realm missing"))

	out, stdout, stderr := newReporter()
	sum, err := NewSeeder(p, out, options(2)).Run(context.Background())
	require.NoError(t, err)

	assert.False(t, sum.RealmOK)
	assert.Equal(t, 1, sum.ClientsFailed)
	assert.Equal(t, 2, sum.UsersFailed)
	assert.Contains(t, stderr.String(), "Failed to create realm")
	assert.Contains(t, stdout.String(), "Client Secret: (not available)")
}

func TestSeeder_FixtureClients(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clients.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"_comment": "x", "client_id": "fixture-a"},
		{"client_id": "fixture-b"}
	]`), 0o600))

	p := &iamtest.MockProvider{}
	happyPath(p)
	p.On("CreateClient", anyArg, "tok", "perf-realm", iam.ClientDescriptor{"client_id": "fixture-a"}).Return("a-uuid", nil)
	p.On("CreateClient", anyArg, "tok", "perf-realm", iam.ClientDescriptor{"client_id": "fixture-b"}).
		Return("", &iam.StatusError{Op: "create client", Code: 500})

	opts := options(0)
	opts.FixturePath = path
	sum, err := NewSeeder(p, nil, opts).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, sum.ClientsCreated)
	assert.Equal(t, 1, sum.ClientsFailed)
	p.AssertNotCalled(t, "CreateUser", anyArg, anyArg, anyArg, anyArg)
}

func TestSeeder_MissingFixtureWarns(t *testing.T) {
	p := &iamtest.MockProvider{}
	happyPath(p)

	opts := options(0)
	opts.FixturePath = filepath.Join(t.TempDir(), "absent.json")
	out, stdout, _ := newReporter()
	sum, err := NewSeeder(p, out, opts).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.ClientsCreated)
	assert.Contains(t, stdout.String(), "clients fixture not found")
}

func TestSeeder_Concurrent(t *testing.T) {
	p := &iamtest.MockProvider{}
	happyPath(p)
	p.On("CreateUser", anyArg, "tok", "perf-realm", anyArg).Return("uid", nil)
	p.On("SetUserPassword", anyArg, "tok", "perf-realm", "uid", "perf-password").Return(nil)

	opts := options(25)
	opts.Concurrency = 4
	sum, err := NewSeeder(p, nil, opts).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 25, sum.UsersCreated)
	p.AssertNumberOfCalls(t, "CreateUser", 25)
}

func TestSeeder_CancelledStopsUserLoop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := &iamtest.MockProvider{}
	happyPath(p)
	p.On("CreateUser", anyArg, "tok", "perf-realm", anyArg).Return("uid", nil)
	p.On("SetUserPassword", anyArg, "tok", "perf-realm", "uid", "perf-password").
		Run(func(mock.Arguments) { cancel() }).
		Return(nil)

	sum, err := NewSeeder(p, nil, options(10)).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, sum.UsersCreated)
	p.AssertNumberOfCalls(t, "CreateUser", 1)
}

type stubConfirmer struct {
	answer bool
	err    error
	asked  string
}

func (s *stubConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	s.asked = prompt
	return s.answer, s.err
}

func TestCleaner_Declined(t *testing.T) {
	tests := []struct {
		name string
		conf *stubConfirmer
	}{
		{"answered no", &stubConfirmer{answer: false}},
		{"eof", &stubConfirmer{err: io.EOF}},
		{"interrupted", &stubConfirmer{err: context.Canceled}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &iamtest.MockProvider{}
			out, stdout, _ := newReporter()

			res, err := NewCleaner(p, out, tt.conf, CleanupOptions{Realm: "perf"}).Run(context.Background())
			require.NoError(t, err)
			assert.True(t, res.Cancelled)
			assert.Contains(t, tt.conf.asked, "delete the 'perf' realm")
			assert.Contains(t, stdout.String(), "Cleanup cancelled.")
			p.AssertNotCalled(t, "Authenticate", anyArg)
			p.AssertNotCalled(t, "DeleteRealm", anyArg, anyArg, anyArg)
		})
	}
}

func TestCleaner_Deletes(t *testing.T) {
	tests := []struct {
		name   string
		status iam.Status
		msg    string
	}{
		{"deleted", iam.StatusDeleted, "Realm 'perf' deleted successfully"},
		{"not found", iam.StatusNotFound, "Realm 'perf' not found (already deleted?)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &iamtest.MockProvider{}
			p.On("Authenticate", anyArg).Return("tok", nil)
			p.On("DeleteRealm", anyArg, "tok", "perf").Return(tt.status, nil)

			out, stdout, _ := newReporter()
			res, err := NewCleaner(p, out, &stubConfirmer{answer: true}, CleanupOptions{Realm: "perf"}).Run(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.status, res.Status)
			assert.NoError(t, res.Err)
			assert.Contains(t, stdout.String(), tt.msg)
			assert.Contains(t, stdout.String(), "=== Cleanup Complete ===")
		})
	}
}

func TestCleaner_DeleteFailureIsReported(t *testing.T) {
	p := &iamtest.MockProvider{}
	p.On("Authenticate", anyArg).Return("tok", nil)
	p.On("DeleteRealm", anyArg, "tok", "perf").Return(iam.Status(0), &iam.StatusError{Op: "delete realm", Code: 403})

	out, _, stderr := newReporter()
	res, err := NewCleaner(p, out, &stubConfirmer{answer: true}, CleanupOptions{Realm: "perf"}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 403, iam.StatusCode(res.Err))
	assert.Contains(t, stderr.String(), "Failed to delete realm")
}

func TestCleaner_FatalAuthentication(t *testing.T) {
	p := &iamtest.MockProvider{}
	p.On("Authenticate", anyArg).Return("", iam.Fatalf("ADMIN_CLIENT_ID is required"))

	_, err := NewCleaner(p, nil, &stubConfirmer{answer: true}, CleanupOptions{Realm: "perf"}).Run(context.Background())
	require.Error(t, err)
	assert.True(t, iam.IsFatal(err))
	p.AssertNotCalled(t, "DeleteRealm", anyArg, anyArg, anyArg)
}

func TestNewOptions(t *testing.T) {
	cfg := &config.Config{
		BaseURL:            "http://localhost:8080",
		AdminRealm:         "master",
		PerfRealm:          "perf",
		ClientID:           "perf-client-x",
		ClientsFixture:     "data/clients.json",
		UserCount:          5,
		UserPassword:       "pw",
		UserPrefix:         "load-",
		UserFirstName:      "Load",
		UserLastNamePrefix: "Tester",
		UserEmailPrefix:    "load",
		UserEmailDomain:    "example.test",
		Concurrency:        2,
	}

	opts := NewOptions(cfg)
	assert.Equal(t, "perf", opts.Realm)
	assert.Equal(t, "perf-client-x", opts.DefaultClient.ClientID)
	assert.Empty(t, opts.DefaultClient.ClientSecret)
	assert.Equal(t, "load005@example.test", opts.Naming.User(5).Email)
	assert.Equal(t, 2, opts.Concurrency)
	assert.Equal(t, CleanupOptions{BaseURL: "http://localhost:8080", Realm: "perf"}, NewCleanupOptions(cfg))
}
