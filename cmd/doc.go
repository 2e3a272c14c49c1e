// Package cmd implements the command-line interface for waclerk.
//
// This package provides the following commands:
//   - serve: Start the WhatsApp webhook server
//   - mcp: Start the MCP server to provide tools for AI assistants
//   - upload: Upload a local file to the shared Drive folder
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The serve command is the default command when no subcommand is specified.
package cmd
