package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/darwin256/comick-uploader/pkg/config"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "comick-uploader",
	Short: "Batch upload manga chapters to comick.io",
	Long:  "Scan a directory of chapter folders and upload them in parallel, with retries, duplicate skipping, and a live progress board",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "uploader.toml", "config file with flag defaults")

	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(groupsCmd)
	rootCmd.AddCommand(historyCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file, falling back to defaults on any problem.
func loadConfig() config.Config {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Printf("⚠️  %v (using defaults)\n", err)
	}
	return cfg
}
