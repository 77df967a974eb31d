package cli

import (
	"fmt"
	"os"

	"github.com/fieldmark-ai/fieldmark/internal/embedded"
	"github.com/spf13/cobra"
)

// NewVersionCmd creates a new version command
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of Fieldmark",
		Long:  `Print the version number of the Fieldmark CLI.`,
		Run: func(cmd *cobra.Command, args []string) {
			// Get version from environment variable or use default
			version := os.Getenv("FIELDMARK_VERSION")
			if version == "" {
				version = embedded.DefaultVersion
			}
			fmt.Printf("Fieldmark CLI %s\n", version)
		},
	}

	return cmd
}
