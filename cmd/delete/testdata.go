// cmd/delete/testdata.go

package delete

import (
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/cli"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/config"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/console"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iam"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iam/providers"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iamseed_cli"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iamseed_err"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iamseed_io"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/interaction"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/seeding"
	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// DeleteTestDataCmd removes the performance realm and everything in it.
var DeleteTestDataCmd = &cobra.Command{
	Use:     "testdata",
	Aliases: []string{"test-data"},
	Short:   "Delete the performance test realm",
	Long: `Ask for confirmation, authenticate as the admin user and delete the
performance realm with all of its clients and users. A realm that does not
exist is reported and treated as already cleaned up.

Examples:
  iamseed delete testdata
  iamseed delete testdata --provider keycloak --yes`,
	Args: cobra.NoArgs,
	RunE: iamseed_cli.Wrap(runDeleteTestData),
}

func init() {
	cli.AddStringFlag(DeleteTestDataCmd, "provider", "p", "", "IAM provider: keycloak or ferriskey (env IAM_PROVIDER)", false)
	cli.AddStringFlag(DeleteTestDataCmd, "base-url", "", "", "IAM server URL (env BASE_URL)", false)
	cli.AddStringFlag(DeleteTestDataCmd, "realm", "r", "", "Realm to delete (env PERF_REALM)", false)
	cli.AddBoolFlag(DeleteTestDataCmd, "yes", "y", false, "Skip the confirmation prompt")
}

func runDeleteTestData(rc *iamseed_io.RuntimeContext, cmd *cobra.Command, args []string) error {
	logger := otelzap.Ctx(rc.Ctx)

	v := config.NewViper()
	if err := cli.BindFlagsToViper(cmd, v, config.FlagKeys); err != nil {
		return cerr.Wrap(err, "bind flags")
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	provider, err := providers.New(cfg)
	if err != nil {
		return err
	}
	rc.Attributes["provider"] = provider.Name()
	rc.Attributes["realm"] = cfg.PerfRealm

	var confirmer seeding.Confirmer = &interaction.PromptConfirmer{In: cmd.InOrStdin(), Out: cmd.ErrOrStderr()}
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		confirmer = interaction.AssumeYes{}
	} else if !interaction.IsInteractive() {
		logger.Debug("stdin is not a terminal; pass --yes to skip the prompt")
	}

	out := console.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
	res, err := seeding.NewCleaner(provider, out, confirmer, seeding.NewCleanupOptions(cfg)).Run(rc.Ctx)
	if err != nil {
		if iam.IsFatal(err) {
			return iamseed_err.NewAuthenticationError("admin authentication failed", err,
				"Check ADMIN_USERNAME/ADMIN_PASSWORD and ADMIN_REALM",
				"For FerrisKey, set ADMIN_CLIENT_ID (and ADMIN_CLIENT_SECRET for a confidential client)")
		}
		return err
	}

	switch {
	case res.Cancelled:
		rc.Attributes["outcome"] = "cancelled"
	case res.Err != nil:
		rc.Attributes["outcome"] = "delete_failed"
		logger.Warn("Realm was not deleted", zap.String("realm", res.Realm), zap.Error(res.Err))
	default:
		rc.Attributes["outcome"] = res.Status.String()
	}
	return nil
}
