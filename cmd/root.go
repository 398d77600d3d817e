package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ash-lang/ashc/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "ash",
	Short: "Build tool for the Ash language",
	Long:  "Discovers, compiles, and watches an Ash project, emitting Erlang source for the BEAM runtime.",
}

// Execute runs the root command; the subcommands register themselves in
// their init functions. It is called exactly once by main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "path to the project manifest's directory (default: current directory)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose logging output")

	_ = viper.BindPFlag("projectDir", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	viper.AutomaticEnv()
	logging.SetVerbose(viper.GetBool("verbose"))
}

func projectDir() string {
	if dir := viper.GetString("projectDir"); dir != "" {
		return dir
	}
	return "."
}
