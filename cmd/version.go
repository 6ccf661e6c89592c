package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

// NewVersionCommand prints the client version.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the bizhub client version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("bizhub %s\n", Version)
		},
	}
}
