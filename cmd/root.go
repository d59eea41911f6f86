// Package cmd provides the entrypoint for the lambda-http-server cli.
package cmd

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/isometry/lambda-http-server/internal/config"
	"github.com/isometry/lambda-http-server/internal/helpers"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	configFilePath string
	logger         *slog.Logger
	logOutput      io.Writer = os.Stderr
)

// New returns the root command for the lambda-http-server.
func New() *cobra.Command {
	return newRoot(os.Args[1:])
}

func newRoot(args []string) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "lambda-http-server",
		Short:        "Serve a Lambda function URL handler over HTTP",
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logger = helpers.NewLogger(logOutput,
				config.Global.Logging.Format,
				slog.LevelWarn-slog.Level(config.Global.Logging.Verbosity*4),
				config.Global.Logging.CallerTrace)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, args)
		},
	}

	// Root command flags
	cmd.PersistentFlags().StringVarP(&configFilePath, "config", "c", "config.yaml", "path to the configuration file")

	// Configuration loading & defaults. The file is read before the remaining flags are registered so that
	// it provides their defaults.
	if err := errors.Join(
		config.SetDefaults(),
		config.LoadFromFile(preParseConfigPath(args)),
	); err != nil {
		panic(err)
	}

	// Dynamic flags
	setupDynamicFlags(cmd)

	// Subcommands
	cmd.AddCommand(
		cmdServe(),
		cmdHandlers(),
	)

	cmd.SetArgs(args)
	return cmd
}

func preParseConfigPath(args []string) string {
	fs := pflag.NewFlagSet("config", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)
	path := fs.StringP("config", "c", "config.yaml", "")
	_ = fs.Parse(args)
	return *path
}

func setupDynamicFlags(cmd *cobra.Command) {
	// flags of a previously built root must not shadow the environment
	viper.Reset()
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(replacer)

	bindEnvMap(cmd, envMapString)
	bindEnvMap(cmd, envMapBool)
	bindEnvMap(cmd, envMapCount)

	bindEnvMap(cmd, svcEnvMapString)
	bindEnvMap(cmd, svcEnvMapInt)
	bindEnvMap(cmd, svcEnvMapBool)
	bindEnvMap(cmd, svcEnvMapDuration)
	bindEnvMap(cmd, svcEnvMapStringSlice)
	bindEnvMap(cmd, svcEnvMapStringMap)
}
