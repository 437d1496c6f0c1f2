package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// set at build time
var (
	ReleaseVersion = "dev"
	ReleaseDate    = "unknown"
	ReleaseCommit  = "unknown"
)

var VersionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Print version and exit",
	Long:    ``,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("version: %s, released: %s, commit: %s\n",
			ReleaseVersion, ReleaseDate, ReleaseCommit)
	},
}
