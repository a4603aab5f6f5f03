// pkg/iamseed_cli/wrap.go

package iamseed_cli

import (
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iamseed_err"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iamseed_io"
	cerr "github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Wrap ensures panic recovery, telemetry and logging around a command handler.
func Wrap(fn func(rc *iamseed_io.RuntimeContext, cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		rc := iamseed_io.NewContext(cmd.Context(), cmd.Name())
		defer rc.End(&err)
		defer rc.HandlePanic(&err)

		rc.Log.Debug("Command execution started",
			zap.String("path", cmd.CommandPath()),
			zap.Strings("args", args))

		err = fn(rc, cmd, args)
		if err != nil && !iamseed_err.IsExpectedUserError(err) {
			err = cerr.WithStack(err)
		}
		return err
	}
}
