package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	newDescription string
	newTemplate    string
)

var newCmd = &cobra.Command{
	Use:   "new <name>",
	Short: "Scaffold a new Ash project (not implemented by the build engine)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(os.Stderr, "ash new is not implemented by the build engine")
		os.Exit(1)
		return nil
	},
}

func init() {
	newCmd.Flags().StringVar(&newDescription, "description", "", "project description")
	newCmd.Flags().StringVar(&newTemplate, "template", "lib", "project template")
	rootCmd.AddCommand(newCmd)
}
