// cmd/create/create.go

package create

import (
	"github.com/spf13/cobra"
)

// CreateCmd is the root command for create operations.
var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create resources on the IAM server",
	Long:  `Create provisions test data (realm, clients, users) on the configured IAM server.`,
}

func init() {
	CreateCmd.AddCommand(CreateTestDataCmd)
}
