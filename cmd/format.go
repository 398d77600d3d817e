package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	formatStdin bool
	formatCheck bool
)

var formatCmd = &cobra.Command{
	Use:   "format [files...]",
	Short: "Format Ash source files (not implemented by the build engine)",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(os.Stderr, "ash format is not implemented by the build engine")
		os.Exit(1)
		return nil
	},
}

func init() {
	formatCmd.Flags().BoolVar(&formatStdin, "stdin", false, "read source from stdin")
	formatCmd.Flags().BoolVar(&formatCheck, "check", false, "check formatting without writing")
	rootCmd.AddCommand(formatCmd)
}
