// cmd/delete/delete.go

package delete

import (
	"github.com/spf13/cobra"
)

// DeleteCmd is the root command for delete operations.
var DeleteCmd = &cobra.Command{
	Use:     "delete",
	Aliases: []string{"remove", "rm"},
	Short:   "Delete resources from the IAM server",
}

func init() {
	DeleteCmd.AddCommand(DeleteTestDataCmd)
}
