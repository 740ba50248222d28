package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/detourdev/detour/cmd/detour/commands"
	"github.com/detourdev/detour/internal/config"
	"github.com/detourdev/detour/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:     "detour",
	Short:   "Run a command against another branch's content, safely",
	Version: "v0.1.0",
	Long: `Detour fetches a remote branch, checks it out on a throwaway local branch,
runs your command against its content, and puts the repository back exactly
where it started. The original checkout is restored even when the command
fails.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Detour - safe temporary checkouts")
		fmt.Println("Run 'detour --help' for usage information")
	},
}

func init() {
	// Disable automatic error printing to avoid duplicate error messages
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging (shorthand for --log-level=debug)")
	rootCmd.PersistentFlags().Bool("plain", false, "Disable colors and symbols in output")

	// Configure logger before running any commands
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(commands.NewExecCmd())
	rootCmd.AddCommand(commands.NewStatusCmd())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if err := config.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}

	// Bind command line flags to Viper
	if err := viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind log-level flag: %v\n", err)
	}
	if err := viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format")); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to bind log-format flag: %v\n", err)
	}

	config.LoadFromEnv()
	if plain, _ := rootCmd.PersistentFlags().GetBool("plain"); plain {
		config.Global.Plain = true
	}

	// Handle debug flag override
	if debug, _ := rootCmd.PersistentFlags().GetBool("debug"); debug || config.IsDebug() {
		viper.Set("logging.level", "debug")
	}

	logger.Configure(logger.Config{
		Level:  config.GetString("logging.level"),
		Format: config.GetString("logging.format"),
		Output: os.Stderr,
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		var exitErr *commands.ExitCodeError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
