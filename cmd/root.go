package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the waclerk application
var rootCmd = &cobra.Command{
	Use:   "waclerk",
	Short: "WhatsApp assistant for scheduling, file filing and Meet links",
	Long: `waclerk turns a WhatsApp Business number into a personal assistant.
Incoming messages are classified with OpenAI and answered with a Google Meet
link, a calendar reminder, or a Drive upload confirmation.

It can run as:
  - A webhook server for the WhatsApp Business Cloud API (default)
  - An MCP (Model Context Protocol) server for AI assistants
  - A one-shot CLI for uploading files into the shared Drive folder`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "waclerk version %s\n" .Version}}`)

	// If no subcommand is provided, run the webhook server by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMCPCmd())
	rootCmd.AddCommand(newUploadCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
