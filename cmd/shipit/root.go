package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lucas-albers-lz4/shipit/pkg/log"
)

// BinaryVersion is set at build time via ldflags.
var BinaryVersion = "dev"

// Global flag variables
var (
	cfgFile  string
	logLevel string
)

// AppFs defines the filesystem interface to use, allows mocking in tests.
var AppFs = afero.NewOsFs()

// SetFs replaces the current filesystem with the provided one and returns a
// function to restore it. This is primarily used for testing.
func SetFs(newFs afero.Fs) func() {
	oldFs := AppFs
	AppFs = newFs
	return func() { AppFs = oldFs }
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "shipit",
	Short:   "Publish container images and Helm charts from CI",
	Version: BinaryVersion,
	Long: `shipit resolves a version string into a deterministic set of container
image tags and a single Helm chart version, discovers the Helm chart(s) in the
repository, and publishes the image and chart(s) to an OCI registry in order.`,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		level, err := log.ParseLevel(viper.GetString("log-level"))
		if err != nil {
			log.Warn("Invalid log level, using info", "value", viper.GetString("log-level"))
		}
		log.SetLevel(level)
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .shipit.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "set log level (debug, info, warn, error)")
	if err := viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		cobra.CheckErr(fmt.Errorf("failed to bind log-level flag: %w", err))
	}

	rootCmd.AddCommand(newPublishCmd())
}

// initConfig reads in the config file and SHIPIT_* environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".shipit")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("SHIPIT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Debug("Using config file", "path", viper.ConfigFileUsed())
	}
}
