// Package main is the anytomd command-line client for the conversion service.
package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JaimeStill/anytomarkdown/pkg/client"
)

const (
	defaultServer  = "http://localhost:8787"
	defaultTimeout = 5 * time.Minute
)

var rootCmd = &cobra.Command{
	Use:   "anytomd",
	Short: "Convert documents to Markdown through an AnyToMarkdown service",
	Long: `anytomd uploads PDFs, images, spreadsheets, HTML, XML, and CSV files to an
AnyToMarkdown service and prints or saves the Markdown it returns.

The service address is taken from --server, the ANYTOMD_SERVER environment
variable, or the "server" key of anytomd.yaml.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./anytomd.yaml or ~/.config/anytomd/config.yaml)")
	rootCmd.PersistentFlags().String("server", defaultServer, "conversion service base URL")
	rootCmd.PersistentFlags().Duration("timeout", defaultTimeout, "request timeout")

	viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server"))
	viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("anytomd")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "anytomd"))
		}
	}

	viper.SetEnvPrefix("ANYTOMD")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func newClient() *client.Client {
	timeout := viper.GetDuration("timeout")
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return client.New(
		viper.GetString("server"),
		client.WithHTTPClient(&http.Client{Timeout: timeout}),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
