package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	drive "google.golang.org/api/drive/v3"
)

// OAuth scopes requested per service.
var (
	// CalendarScopes grants full calendar access for event scheduling.
	CalendarScopes = []string{calendar.CalendarScope}

	// DriveScopes grants access to files the service account created or
	// was handed (drive.file), which is all document filing needs.
	DriveScopes = []string{drive.DriveFileScope}
)

// Credentials wraps a parsed service-account key.
type Credentials struct {
	raw   []byte
	email string
}

// serviceAccountKey is the subset of the key blob needed for validation.
type serviceAccountKey struct {
	Type        string `json:"type"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}

// ParseCredentials validates a service-account JSON blob. The blob usually
// arrives minified through the environment with escaped newlines in the
// private key; the JSON decoder restores them.
func ParseCredentials(credentialsJSON string) (*Credentials, error) {
	if credentialsJSON == "" {
		return nil, fmt.Errorf("credentials JSON is empty")
	}

	var key serviceAccountKey
	if err := json.Unmarshal([]byte(credentialsJSON), &key); err != nil {
		return nil, fmt.Errorf("failed to parse credentials JSON: %w", err)
	}
	if key.Type != "service_account" {
		return nil, fmt.Errorf("credentials type is %q, want service_account", key.Type)
	}
	if key.ClientEmail == "" {
		return nil, fmt.Errorf("credentials are missing client_email")
	}
	if key.PrivateKey == "" {
		return nil, fmt.Errorf("credentials are missing private_key")
	}

	return &Credentials{
		raw:   []byte(credentialsJSON),
		email: key.ClientEmail,
	}, nil
}

// Email returns the service account's client email.
func (c *Credentials) Email() string {
	return c.email
}

// TokenSource returns an OAuth2 token source for the given scopes.
func (c *Credentials) TokenSource(ctx context.Context, scopes ...string) (oauth2.TokenSource, error) {
	creds, err := google.CredentialsFromJSON(ctx, c.raw, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to build credentials for scopes %v: %w", scopes, err)
	}
	return creds.TokenSource, nil
}

// HTTPClient returns an HTTP client authorized for the given scopes.
// The client is pinned to HTTP/1.1; the Google API endpoints intermittently
// reset long-lived HTTP/2 streams.
func (c *Credentials) HTTPClient(ctx context.Context, scopes ...string) (*http.Client, error) {
	ts, err := c.TokenSource(ctx, scopes...)
	if err != nil {
		return nil, err
	}

	client := oauth2.NewClient(ctx, ts)
	if transport, ok := client.Transport.(*oauth2.Transport); ok {
		transport.Base = &http.Transport{
			ForceAttemptHTTP2: false,
		}
	}
	return client, nil
}
