package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/bgraf/coordextract/config"
	"github.com/bgraf/coordextract/logging"
	"github.com/bgraf/coordextract/pipeline"
	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "coordextract",
	Short: "Extract GPX points and convert them to MGRS",
	Long: `coordextract reads waypoints, trackpoints and routepoints from GPX files,
converts their coordinates to the Military Grid Reference System and writes
the points as JSON or YAML.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(cmd.ErrOrStderr(), config.LogLevel(), config.LogFormat())
		if used := viper.ConfigFileUsed(); used != "" {
			slog.Debug("using config file", slog.String("file", used))
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		kind := pipeline.Classify(err)
		fmt.Fprintf(os.Stderr, "%s: %s\n", kind.Name, err)
		stop()
		os.Exit(kind.ExitCode)
	}
}

func init() {
	var err error

	cobra.OnInitialize(initConfig)
	config.SetDefaults(viper.GetViper())

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.coordextract.yaml)")

	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	err = viper.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	if err != nil {
		panic(err)
	}

	rootCmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
	err = viper.BindPFlag(config.KeyLogFormat, rootCmd.PersistentFlags().Lookup("log-format"))
	if err != nil {
		panic(err)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in the working directory, then in home directory with name ".coordextract" (without extension).
		if dir, err := os.Getwd(); err == nil {
			viper.AddConfigPath(dir)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".coordextract")
	}

	viper.SetEnvPrefix("coordextract")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// A missing config file is fine; a broken one is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "reading config:", err)
			os.Exit(1)
		}
	}
}
