/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/zhice/internal/config"
	"github.com/josephgoksu/zhice/internal/logger"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// version is the application version.
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "zhice",
	Short: "zhice turns a goal into a phased plan and tracks your progress.",
	Long: `zhice asks a language model to break a goal into phases and tasks,
then lets you check tasks off from the command line, a terminal UI,
or an AI assistant over MCP.

Get started:
  zhice new --goal "Learn data analysis" --duration "12 weeks"
  zhice show
  zhice toggle 1 1`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetCommand(cmd.CommandPath())
		logger.Setup(os.Stderr, logger.Options{
			Verbose: viper.GetBool(config.KeyVerbose),
			JSON:    viper.GetBool(config.KeyJSON),
		})
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	defer logger.HandlePanic()
	logger.SetVersion(version)

	if err := rootCmd.Execute(); err != nil {
		PrintError(userMessage(err), err)
		os.Exit(1)
	}
}

// GetVersion returns the application version.
func GetVersion() string {
	return version
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.zhice/.zhice.yaml or $HOME/.zhice.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().Bool("json", false, "output machine-readable JSON")
	bindPersistentFlags()
}

// bindPersistentFlags binds the global flags to Viper.
func bindPersistentFlags() {
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag(config.KeyVerbose, rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag(config.KeyJSON, rootCmd.PersistentFlags().Lookup("json"))
}
