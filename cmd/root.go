// Package cmd holds the stego command line tree.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"steganography/config"
	"steganography/logger"
)

type app struct {
	v          *viper.Viper
	configFile string
	cfg        *config.Config
}

// NewRootCmd builds the command tree. Configuration and logging are resolved
// before any subcommand runs.
func NewRootCmd() *cobra.Command {
	a := &app{
		v:   viper.New(),
		cfg: config.DefaultConfig(),
	}

	rootCmd := &cobra.Command{
		Use:   "stego",
		Short: "Hide text files inside images and recover them",
		Long: `stego embeds the bytes of a text file into the least significant bits
of an image's color channels, and recovers them again from the result.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.v, a.configFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return logger.Setup(cfg.Log)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "path to a config file (yaml, toml or json)")
	flags.String("log-level", config.DefaultLogLevel, "log level: trace, debug, info, warn or error")
	flags.String("log-format", config.DefaultLogFormat, "log format: console or json")
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", flags.Lookup("log-format"))

	rootCmd.AddCommand(
		newHideCmd(),
		newRecoverCmd(),
		newCapacityCmd(),
		newServeCmd(a),
	)
	return rootCmd
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}
