// Package drive_tools provides MCP (Model Context Protocol) tools for the
// shared Drive folder.
//
// This package exposes the document archive to MCP clients (like AI
// assistants) through a set of tools covering the folder the WhatsApp bot
// files uploads into.
//
// Available tools:
//   - drive_list_files: List and search files in the shared folder
//   - drive_get_file: Get metadata for a specific file
//   - drive_upload_file: Upload text content as a file (write mode only)
//   - drive_create_folder: Create a folder (write mode only)
package drive_tools
