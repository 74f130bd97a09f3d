package main

import (
	"fmt"
	"os"

	logging "github.com/ipfs/go-log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "gostblind",
	Short: "Collective blind signatures over GOST R 34.10-94 domain parameters",
	Long: `gostblind generates GOST R 34.10-94 discrete-log domain parameters,
issues signing keys and produces collective blind signatures with them.

A typical round trip:

  gostblind params --bits 1024 --out group.params
  gostblind keygen --params group.params --count 3 --out signer
  gostblind sign --params group.params --keys signer1.key,signer2.key,signer3.key \
      --in contract.pdf --sig contract.sig --record contract.rec
  gostblind verify --in contract.pdf --sig contract.sig --record contract.rec`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			if err := logging.SetLogLevel("gostblind", "debug"); err != nil {
				fmt.Fprintln(os.Stderr, "could not raise log level:", err)
			}
		}
	},
}

// Execute runs the root command and exits non-zero on any error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output while running")
}

// initConfig reads in a config file and ENV variables if set.
func initConfig() {
	viper.SetConfigName(".gostblind")
	viper.AddConfigPath("$HOME")
	viper.SetEnvPrefix("gostblind")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintln(os.Stderr, "using config file:", viper.ConfigFileUsed())
	}
}
