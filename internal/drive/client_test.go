package drive

import (
	"testing"
	"time"

	drive "google.golang.org/api/drive/v3"
)

func TestConvertToFileInfo(t *testing.T) {
	driveFile := &drive.File{
		Id:           "file123",
		Name:         "lease.pdf",
		MimeType:     "application/pdf",
		Size:         2048,
		CreatedTime:  "2026-01-01T10:00:00Z",
		ModifiedTime: "2026-01-02T15:30:00Z",
		WebViewLink:  "https://drive.google.com/file/d/file123/view",
		Parents:      []string{"folder1"},
	}

	fileInfo := convertToFileInfo(driveFile)

	if fileInfo.ID != "file123" {
		t.Errorf("Expected ID file123, got %s", fileInfo.ID)
	}
	if fileInfo.Name != "lease.pdf" {
		t.Errorf("Expected Name lease.pdf, got %s", fileInfo.Name)
	}
	if fileInfo.Size != 2048 {
		t.Errorf("Expected Size 2048, got %d", fileInfo.Size)
	}
	if len(fileInfo.Parents) != 1 || fileInfo.Parents[0] != "folder1" {
		t.Errorf("Expected parents [folder1], got %v", fileInfo.Parents)
	}

	wantCreated, _ := time.Parse(time.RFC3339, "2026-01-01T10:00:00Z")
	if !fileInfo.CreatedTime.Equal(wantCreated) {
		t.Errorf("Expected CreatedTime %v, got %v", wantCreated, fileInfo.CreatedTime)
	}
}

func TestConvertToFileInfoBadTimestamps(t *testing.T) {
	fileInfo := convertToFileInfo(&drive.File{
		Id:           "file456",
		CreatedTime:  "not-a-time",
		ModifiedTime: "",
	})

	if !fileInfo.CreatedTime.IsZero() {
		t.Errorf("Expected zero CreatedTime for invalid input, got %v", fileInfo.CreatedTime)
	}
	if !fileInfo.ModifiedTime.IsZero() {
		t.Errorf("Expected zero ModifiedTime for empty input, got %v", fileInfo.ModifiedTime)
	}
}

func TestFileInfoIsFolder(t *testing.T) {
	folder := &FileInfo{MimeType: FolderMimeType}
	if !folder.IsFolder() {
		t.Error("Expected folder MIME type to be detected")
	}

	file := &FileInfo{MimeType: "application/pdf"}
	if file.IsFolder() {
		t.Error("Expected pdf not to be a folder")
	}
}

func TestFileInfoLink(t *testing.T) {
	withLink := &FileInfo{ID: "abc", WebViewLink: "https://drive.google.com/file/d/abc/view?usp=drivesdk"}
	if withLink.Link() != withLink.WebViewLink {
		t.Errorf("Expected WebViewLink to be preferred, got %s", withLink.Link())
	}

	withoutLink := &FileInfo{ID: "abc"}
	want := "https://drive.google.com/file/d/abc/view"
	if withoutLink.Link() != want {
		t.Errorf("Expected fallback %s, got %s", want, withoutLink.Link())
	}
}

func TestFolderLink(t *testing.T) {
	want := "https://drive.google.com/drive/folders/xyz"
	if FolderLink("xyz") != want {
		t.Errorf("Expected %s, got %s", want, FolderLink("xyz"))
	}
}
