package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sidecomm",
	Short: "Sidecomm bridges a notebook kernel and its sidecar UI",
	Long:  `Sidecomm keeps form cell widgets and variable explorer data in sync between a kernel process and an external sidecar panel over a comm channel.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
}
