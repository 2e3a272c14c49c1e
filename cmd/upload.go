package cmd

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jorin/waclerk/internal/config"
	"github.com/jorin/waclerk/internal/drive"
	"github.com/jorin/waclerk/internal/logging"
	"github.com/jorin/waclerk/internal/server"
)

func newUploadCmd() *cobra.Command {
	var (
		folderID string
		name     string
	)

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a local file to the shared Drive folder",
		Long: `Upload a local file to Google Drive without going through WhatsApp.

The file lands in the configured shared folder unless --folder overrides it.
The MIME type is derived from the file extension.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(args[0], folderID, name)
		},
	}

	cmd.Flags().StringVar(&folderID, "folder", "", "Destination folder ID (defaults to the configured shared folder)")
	cmd.Flags().StringVar(&name, "name", "", "File name in Drive (defaults to the local file name)")

	return cmd
}

func runUpload(path, folderID, name string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Google.CredentialsJSON == "" {
		return fmt.Errorf("GOOGLE_CALENDAR_CREDENTIALS is required for uploads")
	}

	logger, closeLogs, err := logging.Setup(logging.Options{
		Level:    cfg.LogLevel,
		FilePath: cfg.LogFile,
	})
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() { _ = closeLogs() }()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	if name == "" {
		name = filepath.Base(path)
	}
	if folderID == "" {
		folderID = cfg.Google.SharedFolderID
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	sc, err := server.NewServerContext(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() { _ = sc.Shutdown() }()

	client, err := sc.DriveClient()
	if err != nil {
		return fmt.Errorf("failed to create Drive client: %w", err)
	}

	info, err := client.UploadFile(ctx, name, f, &drive.UploadOptions{
		MimeType:     mimeType,
		ParentFolder: folderID,
	})
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	fmt.Printf("Uploaded %s (%s)\n", info.Name, info.MimeType)
	fmt.Printf("  File:   %s\n", info.Link())
	if folderID != "" {
		fmt.Printf("  Folder: %s\n", drive.FolderLink(folderID))
	}

	return nil
}
