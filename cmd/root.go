/* cmd/root.go */

package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/CodeMonkeyCybersecurity/iamseed/cmd/create"
	"github.com/CodeMonkeyCybersecurity/iamseed/cmd/delete"
	"github.com/CodeMonkeyCybersecurity/iamseed/cmd/read"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/iamseed_err"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/iamseed/pkg/telemetry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var registerOnce sync.Once

// RootCmd is the base command for iamseed.
var RootCmd = &cobra.Command{
	Use:   "iamseed",
	Short: "Seed and clean up IAM test data for performance testing",
	Long: `iamseed provisions a realm, OAuth2 clients and a batch of users with passwords
on a Keycloak or FerrisKey server, so load tests have something to log in with,
and removes them again afterwards.

Configuration is read from the environment and an optional .env file in the
working directory. Flags override both.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// HelpCmd wraps help so that it can be invoked like a normal command.
var HelpCmd = &cobra.Command{
	Use:   "help [command]",
	Short: "Help about any command",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return RootCmd.Help()
		}
		c, _, err := RootCmd.Find(args)
		if err != nil || c == nil {
			return iamseed_err.NewExpectedError(fmt.Errorf("command not found: %s", strings.Join(args, " ")))
		}
		return c.Help()
	},
}

// RegisterCommands adds all subcommands to the root command.
func RegisterCommands() {
	registerOnce.Do(func() {
		RootCmd.SetHelpCommand(HelpCmd)
		for _, subCmd := range []*cobra.Command{
			create.CreateCmd,
			delete.DeleteCmd,
			read.ReadCmd,
		} {
			RootCmd.AddCommand(subCmd)
		}
	})
}

// Run executes the command tree with args and returns the process exit code.
func Run(args []string) int {
	RegisterCommands()
	RootCmd.SetArgs(args)

	err := RootCmd.Execute()
	if err != nil {
		iamseed_err.PrintError("iamseed", err)
	}
	return iamseed_err.GetExitCode(err)
}

// Execute initializes telemetry, runs the root command and exits.
func Execute() {
	log := logger.L()
	if err := telemetry.Init("iamseed", os.Getenv("TELEMETRY_FILE")); err != nil {
		log.Warn("Telemetry disabled", zap.Error(err))
	}

	code := Run(os.Args[1:])

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := telemetry.Shutdown(ctx); err != nil {
		log.Warn("Failed to flush telemetry", zap.Error(err))
	}
	if err := logger.Sync(); err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  Failed to flush logs: %v\n", err)
	}
	os.Exit(code)
}
