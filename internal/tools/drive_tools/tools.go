package drive_tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/jorin/waclerk/internal/drive"
	"github.com/jorin/waclerk/internal/instrumentation"
	"github.com/jorin/waclerk/internal/server"
	"github.com/jorin/waclerk/internal/tools/common"
)

// RegisterDriveTools registers all Drive-related tools with the MCP server
func RegisterDriveTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// List files tool (read-only, always available)
	listFilesTool := mcp.NewTool("drive_list_files",
		mcp.WithDescription("List files in the shared Drive folder"),
		mcp.WithString("query",
			mcp.Description("Optional name filter, matches files whose name contains the value"),
		),
		mcp.WithNumber("pageSize",
			mcp.Description("Maximum number of files to return (default: 20)"),
		),
	)

	s.AddTool(listFilesTool, common.InstrumentedToolHandlerWithService(
		"drive_list_files", instrumentation.ServiceDrive, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListFiles(ctx, request, sc)
		}))

	// Get file tool (read-only, always available)
	getFileTool := mcp.NewTool("drive_get_file",
		mcp.WithDescription("Get metadata for a file stored in Drive"),
		mcp.WithString("fileId",
			mcp.Required(),
			mcp.Description("The ID of the file"),
		),
	)

	s.AddTool(getFileTool, common.InstrumentedToolHandlerWithService(
		"drive_get_file", instrumentation.ServiceDrive, instrumentation.OperationGet, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetFile(ctx, request, sc)
		}))

	if !readOnly {
		// Upload file tool
		uploadFileTool := mcp.NewTool("drive_upload_file",
			mcp.WithDescription("Upload text content as a file into the shared Drive folder"),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("File name, including extension"),
			),
			mcp.WithString("content",
				mcp.Required(),
				mcp.Description("File content"),
			),
			mcp.WithString("mimeType",
				mcp.Description("MIME type of the content (default: text/plain)"),
			),
		)

		s.AddTool(uploadFileTool, common.InstrumentedToolHandlerWithService(
			"drive_upload_file", instrumentation.ServiceDrive, instrumentation.OperationUpload, sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleUploadFile(ctx, request, sc)
			}))

		// Create folder tool
		createFolderTool := mcp.NewTool("drive_create_folder",
			mcp.WithDescription("Create a folder in Drive"),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Folder name"),
			),
			mcp.WithString("parentFolderId",
				mcp.Description("Parent folder ID. Defaults to the configured shared folder."),
			),
		)

		s.AddTool(createFolderTool, common.InstrumentedToolHandlerWithService(
			"drive_create_folder", instrumentation.ServiceDrive, instrumentation.OperationCreate, sc,
			func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return handleCreateFolder(ctx, request, sc)
			}))
	}

	return nil
}

func handleListFiles(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	options := &drive.ListOptions{
		FolderID:   sc.Config().Google.SharedFolderID,
		MaxResults: 20,
		OrderBy:    "modifiedTime desc",
	}
	if query, ok := args["query"].(string); ok && query != "" {
		options.Query = fmt.Sprintf("name contains '%s'", strings.ReplaceAll(query, "'", `\'`))
	}
	if pageSize, ok := args["pageSize"].(float64); ok && pageSize > 0 {
		options.MaxResults = int(pageSize)
	}

	client, err := sc.DriveClient()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	files, _, err := client.ListFiles(ctx, options)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list files: %v", err)), nil
	}

	if len(files) == 0 {
		return mcp.NewToolResultText("No files found"), nil
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Found %d file(s):\n\n", len(files)))
	for i, f := range files {
		result.WriteString(fmt.Sprintf("%d. %s\n", i+1, f.Name))
		result.WriteString(fmt.Sprintf("   ID: %s\n", f.ID))
		result.WriteString(fmt.Sprintf("   Type: %s\n", f.MimeType))
		if link := f.Link(); link != "" {
			result.WriteString(fmt.Sprintf("   Link: %s\n", link))
		}
		result.WriteString("\n")
	}

	return mcp.NewToolResultText(result.String()), nil
}

func handleGetFile(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	fileID, ok := args["fileId"].(string)
	if !ok || fileID == "" {
		return mcp.NewToolResultError("fileId is required"), nil
	}

	client, err := sc.DriveClient()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	f, err := client.GetFile(ctx, fileID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get file: %v", err)), nil
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("File: %s\n", f.Name))
	result.WriteString(fmt.Sprintf("ID: %s\n", f.ID))
	result.WriteString(fmt.Sprintf("Type: %s\n", f.MimeType))
	if f.Size > 0 {
		result.WriteString(fmt.Sprintf("Size: %d bytes\n", f.Size))
	}
	if link := f.Link(); link != "" {
		result.WriteString(fmt.Sprintf("Link: %s\n", link))
	}

	return mcp.NewToolResultText(result.String()), nil
}

func handleUploadFile(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	name, ok := args["name"].(string)
	if !ok || name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	content, ok := args["content"].(string)
	if !ok || content == "" {
		return mcp.NewToolResultError("content is required"), nil
	}

	mimeType := "text/plain"
	if mt, ok := args["mimeType"].(string); ok && mt != "" {
		mimeType = mt
	}

	client, err := sc.DriveClient()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	options := &drive.UploadOptions{
		MimeType:     mimeType,
		ParentFolder: sc.Config().Google.SharedFolderID,
	}

	f, err := client.UploadFile(ctx, name, strings.NewReader(content), options)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to upload file: %v", err)), nil
	}

	result := fmt.Sprintf("Successfully uploaded file: %s\n", f.Name)
	result += fmt.Sprintf("ID: %s\n", f.ID)
	if link := f.Link(); link != "" {
		result += fmt.Sprintf("Link: %s\n", link)
	}

	return mcp.NewToolResultText(result), nil
}

func handleCreateFolder(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	name, ok := args["name"].(string)
	if !ok || name == "" {
		return mcp.NewToolResultError("name is required"), nil
	}

	parentFolder := sc.Config().Google.SharedFolderID
	if parent, ok := args["parentFolderId"].(string); ok && parent != "" {
		parentFolder = parent
	}

	client, err := sc.DriveClient()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	f, err := client.CreateFolder(ctx, name, parentFolder)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create folder: %v", err)), nil
	}

	result := fmt.Sprintf("Successfully created folder: %s\n", f.Name)
	result += fmt.Sprintf("ID: %s\n", f.ID)
	result += fmt.Sprintf("Link: %s\n", drive.FolderLink(f.ID))

	return mcp.NewToolResultText(result), nil
}
