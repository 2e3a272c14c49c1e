// Package drive provides a client for filing documents in Google Drive.
//
// The client wraps google.golang.org/api/drive/v3 for the operations the
// assistant needs: uploading a received document into the shared folder,
// creating folders, and listing or deleting filed documents. FileInfo is the
// domain type used when building reply messages; it carries the web links
// users receive.
package drive
