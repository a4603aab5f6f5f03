// cmd/read/read.go

package read

import (
	"github.com/spf13/cobra"
)

// ReadCmd represents the base read command.
var ReadCmd = &cobra.Command{
	Use:     "read",
	Aliases: []string{"inspect", "show"},
	Short:   "Read local iamseed state",
}

func init() {
	ReadCmd.AddCommand(ReadConfigCmd)
}
