package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/jorin/waclerk/internal/logging"
)

// DefaultGraphURL is the base URL of the Meta Graph API.
const DefaultGraphURL = "https://graph.facebook.com"

// requestTimeout bounds every Graph API call.
const requestTimeout = 10 * time.Second

// maxDownloadSize caps media downloads at 100 MB.
const maxDownloadSize = 100 << 20

// Client provides access to the WhatsApp Business Cloud API
type Client struct {
	httpClient    *http.Client
	baseURL       string
	accessToken   string
	phoneNumberID string
	version       string
}

// NewClient creates a WhatsApp client for the given Graph API credentials.
func NewClient(accessToken, phoneNumberID, version string) (*Client, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("accessToken cannot be empty")
	}
	if phoneNumberID == "" {
		return nil, fmt.Errorf("phoneNumberID cannot be empty")
	}
	if version == "" {
		version = "v21.0"
	}

	return &Client{
		httpClient:    &http.Client{Timeout: requestTimeout},
		baseURL:       DefaultGraphURL,
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		version:       version,
	}, nil
}

// SetBaseURL overrides the Graph API endpoint, used in tests.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// textMessage is the outbound payload for a plain text reply.
type textMessage struct {
	MessagingProduct string   `json:"messaging_product"`
	RecipientType    string   `json:"recipient_type"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

type textBody struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

// SendText sends a text message to the given wa_id. The body is formatted
// for WhatsApp before sending.
func (c *Client) SendText(ctx context.Context, to string, body string) error {
	if to == "" {
		return &WhatsAppError{
			Op:  "send",
			Err: fmt.Errorf("recipient cannot be empty"),
		}
	}
	if body == "" {
		return &WhatsAppError{
			Op:        "send",
			Recipient: logging.AnonymizeWaID(to),
			Err:       fmt.Errorf("message body cannot be empty"),
		}
	}

	payload, err := json.Marshal(textMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text:             textBody{PreviewURL: false, Body: FormatForWhatsApp(body)},
	})
	if err != nil {
		return &WhatsAppError{Op: "send", Recipient: logging.AnonymizeWaID(to), Err: err}
	}

	url := fmt.Sprintf("%s/%s/%s/messages", c.baseURL, c.version, c.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return &WhatsAppError{Op: "send", Recipient: logging.AnonymizeWaID(to), Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &WhatsAppError{
			Op:        "send",
			Recipient: logging.AnonymizeWaID(to),
			Err:       fmt.Errorf("request failed: %w", err),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &WhatsAppError{
			Op:        "send",
			Recipient: logging.AnonymizeWaID(to),
			Err:       fmt.Errorf("graph API returned %d: %s", resp.StatusCode, detail),
		}
	}

	return nil
}

// ResolveMedia looks up the download URL and metadata for a media ID.
// The returned URL is short-lived and must be fetched with the same
// access token.
func (c *Client) ResolveMedia(ctx context.Context, mediaID string) (*MediaInfo, error) {
	if mediaID == "" {
		return nil, &WhatsAppError{
			Op:  "media",
			Err: fmt.Errorf("mediaID cannot be empty"),
		}
	}

	url := fmt.Sprintf("%s/%s/%s", c.baseURL, c.version, mediaID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &WhatsAppError{Op: "media", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &WhatsAppError{
			Op:  "media",
			Err: fmt.Errorf("request failed: %w", err),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &WhatsAppError{
			Op:  "media",
			Err: fmt.Errorf("graph API returned %d: %s", resp.StatusCode, detail),
		}
	}

	var info MediaInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, &WhatsAppError{
			Op:  "media",
			Err: fmt.Errorf("failed to decode media info: %w", err),
		}
	}

	return &info, nil
}

// DownloadMedia fetches the media behind a media ID into a temporary file
// and returns its path. The caller is responsible for removing the file.
func (c *Client) DownloadMedia(ctx context.Context, mediaID string, filename string) (string, error) {
	info, err := c.ResolveMedia(ctx, mediaID)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, info.URL, nil)
	if err != nil {
		return "", &WhatsAppError{Op: "download", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &WhatsAppError{
			Op:  "download",
			Err: fmt.Errorf("request failed: %w", err),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &WhatsAppError{
			Op:  "download",
			Err: fmt.Errorf("media server returned %d", resp.StatusCode),
		}
	}

	dir, err := os.MkdirTemp("", "waclerk-media-")
	if err != nil {
		return "", &WhatsAppError{Op: "download", Err: err}
	}

	if filename == "" {
		filename = mediaID
	}
	// Media filenames come from untrusted input
	path := filepath.Join(dir, filepath.Base(filename))

	out, err := os.Create(path)
	if err != nil {
		os.RemoveAll(dir)
		return "", &WhatsAppError{Op: "download", Err: err}
	}

	if _, err := io.Copy(out, io.LimitReader(resp.Body, maxDownloadSize)); err != nil {
		out.Close()
		os.RemoveAll(dir)
		return "", &WhatsAppError{
			Op:  "download",
			Err: fmt.Errorf("failed to write media: %w", err),
		}
	}
	if err := out.Close(); err != nil {
		os.RemoveAll(dir)
		return "", &WhatsAppError{Op: "download", Err: err}
	}

	return path, nil
}
