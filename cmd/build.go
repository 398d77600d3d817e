package cmd

import (
	"os"

	"github.com/spf13/cobra"

	ashErrors "github.com/ash-lang/ashc/internal/errors"
	"github.com/ash-lang/ashc/internal/orchestrate"
)

var (
	buildDoc   bool
	buildWatch bool
)

var buildCmd = &cobra.Command{
	Use:   "build [path]",
	Short: "Compile an Ash project",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := projectDir()
		if len(args) == 1 {
			root = args[0]
		}

		err := orchestrate.Build(orchestrate.Options{
			Root:  root,
			Doc:   buildDoc,
			Watch: buildWatch,
		})
		if err != nil {
			ashErrors.PrettyPrint(os.Stderr, err)
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	buildCmd.Flags().BoolVar(&buildDoc, "doc", false, "also generate documentation (not implemented)")
	buildCmd.Flags().BoolVar(&buildWatch, "watch", false, "recompile on filesystem changes")
	rootCmd.AddCommand(buildCmd)
}
