package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/sidecomm"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of sidecomm",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sidecomm version %s\n", strings.TrimSpace(sidecomm.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
