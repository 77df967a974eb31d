package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewRootCmd creates a new root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fieldmark",
		Short: "Fieldmark CLI",
		Long:  `Fieldmark resolves human-readable field identifiers into concrete element locators using per-screen selector patterns.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// A local .env may carry FIELDMARK_* settings; absence is fine
			_ = godotenv.Load()

			// Check if debug flag is set
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				// Set the environment variable for debug logging
				_ = os.Setenv("FIELDMARK_LOG", "DEBUG")
			}

			// Initialize logging after potentially setting the debug env var
			InitLogging()
		},
	}

	// Add persistent flags
	cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	// Add subcommands
	cmd.AddCommand(
		NewResolveCmd(),
		NewValidateCmd(),
		NewPatternsCmd(),
		NewVersionCmd(),
	)

	return cmd
}
