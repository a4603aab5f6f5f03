// cmd/read/config.go

package read

import (
	"fmt"

	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/cli"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/config"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iamseed_cli"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iamseed_io"
	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

// ReadConfigCmd prints the resolved configuration with secrets masked.
var ReadConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the resolved configuration (secrets masked)",
	Long: `Resolve configuration exactly as 'create testdata' would (flags, environment,
.env file, provider defaults) and print it. Passwords and secrets are masked.
CLIENT_ID is shown as generated for this invocation when it is not set.`,
	Args: cobra.NoArgs,
	RunE: iamseed_cli.Wrap(func(rc *iamseed_io.RuntimeContext, cmd *cobra.Command, args []string) error {
		v := config.NewViper()
		if err := cli.BindFlagsToViper(cmd, v, config.FlagKeys); err != nil {
			return cerr.Wrap(err, "bind flags")
		}
		cfg, err := config.Load(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), cfg.String())
		return err
	}),
}

func init() {
	cli.AddStringFlag(ReadConfigCmd, "provider", "p", "", "IAM provider: keycloak or ferriskey (env IAM_PROVIDER)", false)
}
