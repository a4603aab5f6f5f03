// cmd/create/testdata.go

package create

import (
	"context"
	"strconv"

	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/cli"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/config"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/console"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iam"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iam/providers"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iamseed_cli"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iamseed_err"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iamseed_io"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/seeding"
	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// CreateTestDataCmd seeds a realm, clients and users for load testing.
var CreateTestDataCmd = &cobra.Command{
	Use:     "testdata",
	Aliases: []string{"test-data", "seed"},
	Short:   "Seed a realm, clients and users for performance testing",
	Long: `Authenticate as the admin user, create the performance realm, create the
default confidential client plus any clients listed in the fixture file, then
create USER_COUNT users and set their passwords.

Individual failures are reported and skipped; only a failed admin login stops
the run.

Examples:
  # FerrisKey (default provider)
  ADMIN_CLIENT_ID=admin-app iamseed create testdata

  # Keycloak with 500 users, 8 at a time
  iamseed create testdata --provider keycloak --users 500 --concurrency 8`,
	Args: cobra.NoArgs,
	RunE: iamseed_cli.Wrap(runCreateTestData),
}

func init() {
	cli.AddStringFlag(CreateTestDataCmd, "provider", "p", "", "IAM provider: keycloak or ferriskey (env IAM_PROVIDER)", false)
	cli.AddStringFlag(CreateTestDataCmd, "base-url", "", "", "IAM server URL (env BASE_URL)", false)
	cli.AddStringFlag(CreateTestDataCmd, "realm", "r", "", "Realm to seed (env PERF_REALM)", false)
	cli.AddStringFlag(CreateTestDataCmd, "fixture", "f", "", "Clients fixture file, JSON or YAML (env CLIENTS_FIXTURE)", false)
	cli.AddIntFlag(CreateTestDataCmd, "users", "n", 0, "Number of users to create (env USER_COUNT)")
	cli.AddIntFlag(CreateTestDataCmd, "concurrency", "c", 0, "Users created in parallel (env SEED_CONCURRENCY)")
}

func runCreateTestData(rc *iamseed_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	logger := otelzap.Ctx(rc.Ctx)

	v := config.NewViper()
	if err := cli.BindFlagsToViper(cmd, v, config.FlagKeys); err != nil {
		return cerr.Wrap(err, "bind flags")
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	logger.Info("Resolved configuration", cfg.ZapFields()...)

	provider, err := providers.New(cfg)
	if err != nil {
		return err
	}
	rc.Attributes["provider"] = provider.Name()
	rc.Attributes["realm"] = cfg.PerfRealm

	out := console.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
	sum, err := seeding.NewSeeder(provider, out, seeding.NewOptions(cfg)).Run(rc.Ctx)
	if sum != nil {
		rc.Attributes["users_created"] = strconv.Itoa(sum.UsersCreated)
		rc.Attributes["users_failed"] = strconv.Itoa(sum.UsersFailed)
		rc.Attributes["clients_created"] = strconv.Itoa(sum.ClientsCreated)
		rc.Attributes["clients_failed"] = strconv.Itoa(sum.ClientsFailed)
	}

	switch {
	case err == nil:
		return nil
	case iam.IsFatal(err):
		return iamseed_err.NewAuthenticationError("admin authentication failed", err,
			"Check ADMIN_USERNAME/ADMIN_PASSWORD and ADMIN_REALM",
			"For FerrisKey, set ADMIN_CLIENT_ID (and ADMIN_CLIENT_SECRET for a confidential client)",
			"Check that BASE_URL points at the IAM server: "+cfg.BaseURL)
	case cerr.Is(err, context.Canceled):
		logger.Warn("Seeding interrupted", zap.Error(err))
		return iamseed_err.NewExpectedError(cerr.Wrap(err, "seeding interrupted"))
	default:
		return err
	}
}
