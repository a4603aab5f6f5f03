// pkg/seeding/seeder.go
//
// Seeder drives one seeding run:
//
//	authenticate -> create realm -> create clients -> create users -> report
//
// Only authentication can stop the run. Every later step is attempted even
// when an earlier one failed, and each client and user is independent of the
// others.

package seeding

import (
	"context"
	"sync/atomic"

	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/console"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/fixtures"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iam"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/telemetry"
	cerr "github.com/cockroachdb/errors"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options is everything a seeding run needs besides the provider.
type Options struct {
	BaseURL       string
	AdminRealm    string
	Realm         string
	DefaultClient iam.DefaultClientConfig
	FixturePath   string
	UserCount     int
	UserPassword  string
	Naming        UserNaming
	Concurrency   int
}

// Summary is the aggregate outcome of a run.
type Summary struct {
	Realm          string
	RealmOK        bool
	ClientsCreated int
	ClientsFailed  int
	DefaultClient  iam.DefaultClient
	UsersCreated   int
	UsersFailed    int
}

// Seeder provisions a realm, clients and users through a Provider.
type Seeder struct {
	provider iam.Provider
	out      *console.Reporter
	opts     Options
}

// NewSeeder returns a Seeder. A nil reporter discards console output.
func NewSeeder(p iam.Provider, out *console.Reporter, opts Options) *Seeder {
	if out == nil {
		out = console.Discard()
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Seeder{provider: p, out: out, opts: opts}
}

// Run executes the seeding sequence. The returned error is non-nil only when
// authentication failed or ctx was cancelled; partial failures are reported
// in the Summary.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	logger := otelzap.Ctx(ctx)
	sum := &Summary{Realm: s.opts.Realm}

	s.out.Success("=== %s Performance Test Data Seeding ===", s.provider.Name())
	s.out.Line("Base URL: %s", s.opts.BaseURL)
	s.out.Line("Admin Realm: %s", s.opts.AdminRealm)
	s.out.Line("Perf Realm: %s", s.opts.Realm)
	s.out.Line("User Count: %d", s.opts.UserCount)
	s.out.Blank()

	logger.Info("🚀 Starting seeding run",
		zap.String("provider", s.provider.Name()),
		zap.String("realm", s.opts.Realm),
		zap.Int("user_count", s.opts.UserCount),
		zap.Int("concurrency", s.opts.Concurrency))

	s.out.Warning("Step 1: Authenticating as admin...")
	token, err := authenticate(ctx, s.provider, s.out)
	if err != nil {
		return sum, err
	}
	s.out.Blank()

	s.out.Warning("Step 2: Creating performance test realm...")
	sum.RealmOK = s.createRealm(ctx, token)
	s.out.Blank()

	s.out.Warning("Step 3: Creating test clients...")
	s.createClients(ctx, token, sum)
	s.out.Blank()

	s.out.Warning("Step 4: Creating test users (%d users)...", s.opts.UserCount)
	if err := s.createUsers(ctx, token, sum); err != nil {
		s.out.Warning("Seeding interrupted: %d users created, %d failed", sum.UsersCreated, sum.UsersFailed)
		return sum, err
	}
	s.out.Success("Users created: %d, Skipped/Failed: %d", sum.UsersCreated, sum.UsersFailed)
	s.out.Blank()

	s.report(sum)

	logger.Info("✅ Seeding run finished",
		zap.Bool("realm_ok", sum.RealmOK),
		zap.Int("clients_created", sum.ClientsCreated),
		zap.Int("clients_failed", sum.ClientsFailed),
		zap.Int("users_created", sum.UsersCreated),
		zap.Int("users_failed", sum.UsersFailed))
	return sum, nil
}

// authenticate is shared by seeding and cleanup.
func authenticate(ctx context.Context, p iam.Provider, out *console.Reporter) (string, error) {
	ctx, span := telemetry.Start(ctx, "iam.authenticate", attribute.String("provider", p.Name()))
	defer span.End()

	out.Warning("Getting admin access token...")
	token, err := p.Authenticate(ctx)
	if err != nil {
		out.Error("Failed to get admin token: %v", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "authentication failed")
		otelzap.Ctx(ctx).Error("❌ Authentication failed", zap.String("provider", p.Name()), zap.Error(err))
		return "", iam.Fatal(cerr.Wrap(err, "authenticate"))
	}
	out.Success("Authentication successful")
	return token, nil
}

func (s *Seeder) createRealm(ctx context.Context, token string) bool {
	ctx, span := telemetry.Start(ctx, "seed.create_realm", attribute.String("realm", s.opts.Realm))
	defer span.End()

	realm := s.opts.Realm
	s.out.Warning("Creating realm: %s...", realm)
	status, err := s.provider.CreateRealm(ctx, token, realm)
	if err != nil {
		s.out.Error("Failed to create realm: %v", err)
		span.RecordError(err)
		otelzap.Ctx(ctx).Warn("Realm creation failed, continuing", zap.String("realm", realm), zap.Error(err))
		return false
	}
	span.SetAttributes(attribute.String("status", status.String()))
	if status == iam.StatusExisted {
		s.out.Warning("Realm '%s' already exists", realm)
	} else {
		s.out.Success("Realm '%s' created successfully", realm)
	}
	return true
}

func (s *Seeder) createClients(ctx context.Context, token string, sum *Summary) {
	ctx, span := telemetry.Start(ctx, "seed.create_clients")
	defer span.End()
	logger := otelzap.Ctx(ctx)
	realm := s.opts.Realm

	clientID := s.opts.DefaultClient.ClientID
	s.out.Warning("Creating client: %s...", clientID)
	dc, err := iam.CreateDefaultClient(ctx, s.provider, token, realm, s.opts.DefaultClient)
	if err != nil {
		sum.ClientsFailed++
		s.out.Error("Failed to create client '%s': %v", clientID, err)
		logger.Warn("Default client creation failed", zap.String("client_id", clientID), zap.Error(err))
	} else {
		sum.ClientsCreated++
		sum.DefaultClient = dc
		s.clientOK(clientID, dc.UUID)
		if dc.Secret != "" {
			s.out.Success("Client secret retrieved successfully")
		} else {
			s.out.Warning("Client secret not available")
		}
	}

	res, err := fixtures.LoadClients(ctx, s.opts.FixturePath)
	if err != nil {
		s.out.Error("Failed to load clients fixture: %v", err)
		logger.Warn("Fixture load failed", zap.String("path", s.opts.FixturePath), zap.Error(err))
		res = &fixtures.Result{}
	}
	for _, w := range res.Warnings {
		s.out.Warning("%s", w)
	}

	for _, c := range res.Clients {
		id := c.ClientID()
		s.out.Warning("Creating client: %s...", id)
		uuid, err := s.provider.CreateClient(ctx, token, realm, c)
		if err != nil {
			sum.ClientsFailed++
			s.out.Error("Failed to create client '%s': %v", id, err)
			logger.Warn("Client creation failed", zap.String("client_id", id), zap.Error(err))
			continue
		}
		sum.ClientsCreated++
		s.clientOK(id, uuid)
	}

	span.SetAttributes(
		attribute.Int("clients_created", sum.ClientsCreated),
		attribute.Int("clients_failed", sum.ClientsFailed))
}

func (s *Seeder) clientOK(clientID, uuid string) {
	if uuid == "" {
		s.out.Warning("Client '%s' accepted but no UUID was returned (it may already exist)", clientID)
		return
	}
	s.out.Success("Client '%s' created successfully", clientID)
}

func (s *Seeder) createUsers(ctx context.Context, token string, sum *Summary) error {
	ctx, span := telemetry.Start(ctx, "seed.create_users",
		attribute.Int("user_count", s.opts.UserCount),
		attribute.Int("concurrency", s.opts.Concurrency))
	defer span.End()

	var created, failed atomic.Int64
	seedOne := func(ctx context.Context, i int) {
		if s.seedUser(ctx, token, i) {
			created.Add(1)
		} else {
			failed.Add(1)
		}
	}

	var err error
	if s.opts.Concurrency == 1 {
		for i := 1; i <= s.opts.UserCount; i++ {
			if err = ctx.Err(); err != nil {
				break
			}
			s.progress(i)
			seedOne(ctx, i)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(s.opts.Concurrency)
		for i := 1; i <= s.opts.UserCount; i++ {
			if err = ctx.Err(); err != nil {
				break
			}
			g.Go(func() error {
				s.progress(i)
				seedOne(ctx, i)
				return nil
			})
		}
		_ = g.Wait()
	}

	sum.UsersCreated = int(created.Load())
	sum.UsersFailed = int(failed.Load())
	span.SetAttributes(
		attribute.Int("users_created", sum.UsersCreated),
		attribute.Int("users_failed", sum.UsersFailed))
	if err != nil {
		span.RecordError(err)
	}
	return err
}

func (s *Seeder) progress(i int) {
	if i%10 == 0 || i == s.opts.UserCount {
		s.out.Line("  Creating users... %d/%d", i, s.opts.UserCount)
	}
}

// seedUser creates user i and sets its password. A user counts as seeded
// only when both calls succeed; a user whose password could not be set is
// left in place on the server.
func (s *Seeder) seedUser(ctx context.Context, token string, i int) bool {
	logger := otelzap.Ctx(ctx)
	u := s.opts.Naming.User(i)

	id, err := s.provider.CreateUser(ctx, token, s.opts.Realm, u)
	if err != nil {
		logger.Debug("User creation failed", zap.String("username", u.Username), zap.Error(err))
		return false
	}
	if id == "" {
		logger.Debug("User created without an id, password not set", zap.String("username", u.Username))
		return false
	}
	if err := s.provider.SetUserPassword(ctx, token, s.opts.Realm, id, s.opts.UserPassword); err != nil {
		logger.Warn("Password set failed, user left without password",
			zap.String("username", u.Username), zap.String("user_id", id), zap.Error(err))
		return false
	}
	return true
}

func (s *Seeder) report(sum *Summary) {
	secret := sum.DefaultClient.Secret
	if secret == "" {
		secret = "(not available)"
	}

	s.out.Success("=== Seeding Complete ===")
	s.out.Blank()
	s.out.Line("Test configuration:")
	s.out.Line("  Realm: %s", s.opts.Realm)
	s.out.Line("  Client ID: %s", s.opts.DefaultClient.ClientID)
	s.out.Line("  Client Secret: %s", secret)
	s.out.Line("  Test users: %s", s.opts.Naming.Range(s.opts.UserCount))
	s.out.Line("  User password: %s", s.opts.UserPassword)
	s.out.Blank()
	s.out.Line("To run tests:")
	s.out.Line("  k6 run --env BASE_URL=%s --env REALM=%s --env CLIENT_ID=%s --env CLIENT_SECRET=%s k6/scenarios/token_client_credentials.js",
		s.opts.BaseURL, s.opts.Realm, s.opts.DefaultClient.ClientID, secret)
}
