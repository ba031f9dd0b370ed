package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/tmg29/tmg29/internal/config"
)

// globalFlags holds the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	verbose    bool
	logFile    string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "tmg29",
		Short:         "Bridge a Thrustmaster wheel to host software as a Logitech G29",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(flags)
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "config.yaml", "path to config file")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "write logs to this file instead of stderr")

	root.AddCommand(
		newRunCmd(flags),
		newDiscoverCmd(flags),
		newCalibrateCmd(flags),
		newTestCmd(flags),
		newConfigCmd(flags),
		newFFBTestCmd(flags),
	)
	return root
}

func setupLogging(flags *globalFlags) error {
	log.SetFlags(log.Ldate | log.Ltime)
	if flags.verbose {
		log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	}
	if flags.logFile == "" {
		return nil
	}
	f, err := openLogFile(flags.logFile)
	if err != nil {
		return err
	}
	log.SetOutput(f)
	return nil
}

func loadConfig(flags *globalFlags) (*config.Config, error) {
	return config.LoadConfig(flags.configPath)
}
