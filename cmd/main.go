package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/richinsley/goshaderfx/logging"
	"github.com/richinsley/goshaderfx/options"
)

var (
	configPath string
	verbosity  int
)

var rootCmd = &cobra.Command{
	Use:           "goshaderfx",
	Short:         "Procedural shader effects in a desktop window",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		switch {
		case verbosity >= 2:
			logging.SetLevel(logging.Debug)
		case verbosity == 1:
			logging.SetLevel(logging.Info)
		default:
			logging.SetLevel(logging.Warning)
		}
	},
}

func init() {
	// GL and GLFW calls must stay on the main thread.
	runtime.LockOSThread()

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "page config file (YAML); the built-in page when empty")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "log verbosity (-v info, -vv debug)")

	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(listCmd)
}

// loadConfig reads the page named by --config.
func loadConfig() (*options.Config, error) {
	if configPath == "" {
		return options.Default(), nil
	}
	return options.Load(configPath)
}

func main() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		logging.Sync()
		os.Exit(1)
	}
}
