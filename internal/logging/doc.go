// Package logging provides structured logging for waclerk on top of log/slog.
//
// It offers:
//   - Setup of the process-wide logger: a human-readable console handler plus
//     a rotating JSON file handler (10 MB per file, 5 backups)
//   - Consistent attribute helpers (operation, service, intent, status, error)
//   - Anonymization helpers so WhatsApp IDs and tokens never leak into logs
//
// All packages log through slog.
package logging
