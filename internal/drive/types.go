package drive

import (
	"fmt"
	"time"
)

// FileInfo represents metadata about a Drive file or folder
type FileInfo struct {
	ID           string
	Name         string
	MimeType     string
	Size         int64
	CreatedTime  time.Time
	ModifiedTime time.Time
	WebViewLink  string
	Parents      []string
	Trashed      bool
}

// IsFolder reports whether the file is a Drive folder.
func (f *FileInfo) IsFolder() bool {
	return f.MimeType == FolderMimeType
}

// Link returns the user-facing view link for the file, falling back to the
// canonical /file/d/ URL when the API response carried none.
func (f *FileInfo) Link() string {
	if f.WebViewLink != "" {
		return f.WebViewLink
	}
	return fmt.Sprintf("https://drive.google.com/file/d/%s/view", f.ID)
}

// FolderLink returns the view link for a folder ID.
func FolderLink(folderID string) string {
	return fmt.Sprintf("https://drive.google.com/drive/folders/%s", folderID)
}

// UploadOptions controls file upload behavior
type UploadOptions struct {
	// ParentFolder is the destination folder ID. Empty uploads into the
	// service account's own Drive.
	ParentFolder string

	// MimeType of the content. Empty lets Drive sniff it.
	MimeType string

	// Description is attached to the file metadata.
	Description string
}

// ListOptions controls file listing
type ListOptions struct {
	// Query is a Drive search expression, e.g. "name contains 'invoice'".
	Query string

	// FolderID restricts results to children of the folder.
	FolderID string

	// MaxResults caps the page size.
	MaxResults int

	// OrderBy is a Drive ordering expression, e.g. "modifiedTime desc".
	OrderBy string

	// PageToken continues a previous listing.
	PageToken string
}
