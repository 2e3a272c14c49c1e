package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/jorin/waclerk/internal/instrumentation"
	"github.com/jorin/waclerk/internal/logging"
	"github.com/jorin/waclerk/internal/openai"
	"github.com/jorin/waclerk/internal/whatsapp"
)

const (
	// maxWebhookBody caps the request body read before JSON decoding.
	maxWebhookBody = 1 << 20

	// defaultHandleTimeout bounds the processing of one message after the
	// webhook request has been acknowledged.
	defaultHandleTimeout = 2 * time.Minute

	// DefaultReadHeaderTimeout is the read header timeout for the webhook server.
	DefaultReadHeaderTimeout = 10 * time.Second

	// DefaultIdleTimeout is the idle timeout for the webhook server.
	DefaultIdleTimeout = 60 * time.Second
)

// WebhookServer receives WhatsApp Cloud API deliveries and dispatches them
// to the responder. Message processing is detached from the request so Meta
// gets its 200 immediately.
type WebhookServer struct {
	sc            *ServerContext
	logger        *slog.Logger
	metrics       *instrumentation.Metrics
	audit         *instrumentation.AuditLogger
	handleTimeout time.Duration

	httpServer *http.Server
}

// WebhookOption configures the webhook server.
type WebhookOption func(*WebhookServer)

// WithMetrics attaches a metrics recorder.
func WithMetrics(m *instrumentation.Metrics) WebhookOption {
	return func(s *WebhookServer) { s.metrics = m }
}

// WithAuditLogger attaches an audit logger.
func WithAuditLogger(al *instrumentation.AuditLogger) WebhookOption {
	return func(s *WebhookServer) { s.audit = al }
}

// WithHandleTimeout overrides the per-message processing timeout.
func WithHandleTimeout(d time.Duration) WebhookOption {
	return func(s *WebhookServer) { s.handleTimeout = d }
}

// NewWebhookServer creates a webhook server over the given server context.
func NewWebhookServer(sc *ServerContext, opts ...WebhookOption) (*WebhookServer, error) {
	if sc == nil {
		return nil, fmt.Errorf("server context cannot be nil")
	}

	s := &WebhookServer{
		sc:            sc,
		logger:        sc.Logger(),
		metrics:       &instrumentation.Metrics{},
		handleTimeout: defaultHandleTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.audit == nil {
		s.audit = instrumentation.NewAuditLogger(s.logger)
	}
	return s, nil
}

// Handler returns the HTTP handler with the webhook and health routes.
func (s *WebhookServer) Handler(health *HealthChecker) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", s.handleWebhook)
	if health != nil {
		health.RegisterHealthEndpoints(mux)
	}
	return mux
}

// Start runs the webhook server on the given address in a blocking manner.
func (s *WebhookServer) Start(addr string, health *HealthChecker) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(health),
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		IdleTimeout:       DefaultIdleTimeout,
	}

	s.logger.Info("starting webhook server", "addr", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the webhook server.
func (s *WebhookServer) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		s.logger.Info("shutting down webhook server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *WebhookServer) handleWebhook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var status int

	switch r.Method {
	case http.MethodGet:
		status = s.handleVerification(w, r)
	case http.MethodPost:
		status = s.handleDelivery(w, r)
	default:
		status = http.StatusMethodNotAllowed
		w.WriteHeader(status)
	}

	s.metrics.RecordHTTPRequest(r.Context(), r.Method, "/webhook", status, time.Since(start))
}

// handleVerification answers Meta's subscription handshake: echo
// hub.challenge when the verify token matches, 403 otherwise.
func (s *WebhookServer) handleVerification(w http.ResponseWriter, r *http.Request) int {
	q := r.URL.Query()
	mode := q.Get("hub.mode")
	token := q.Get("hub.verify_token")
	challenge := q.Get("hub.challenge")

	if mode == "" || token == "" {
		s.logger.Info("webhook verification missing parameters")
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "message": "Missing parameters"})
		return http.StatusBadRequest
	}

	if mode != "subscribe" || subtle.ConstantTimeCompare([]byte(token), []byte(s.sc.Config().WhatsApp.VerifyToken)) != 1 {
		s.logger.Info("webhook verification failed")
		writeJSON(w, http.StatusForbidden, map[string]string{"status": "error", "message": "Verification failed"})
		return http.StatusForbidden
	}

	s.logger.Info("webhook verified")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, challenge)
	return http.StatusOK
}

// handleDelivery validates and acknowledges a webhook POST. Valid messages
// are processed in the background; Meta always gets its 200 up front.
func (s *WebhookServer) handleDelivery(w http.ResponseWriter, r *http.Request) int {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody+1))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "message": "Failed to read body"})
		return http.StatusBadRequest
	}
	if len(body) > maxWebhookBody {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"status": "error", "message": "Body too large"})
		return http.StatusRequestEntityTooLarge
	}

	if secret := s.sc.Config().WhatsApp.AppSecret; secret != "" {
		if !whatsapp.VerifySignature(body, r.Header.Get("X-Hub-Signature-256"), secret) {
			s.logger.Warn("webhook signature verification failed")
			writeJSON(w, http.StatusForbidden, map[string]string{"status": "error", "message": "Invalid signature"})
			return http.StatusForbidden
		}
	}

	var payload whatsapp.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "message": "Invalid JSON provided"})
		return http.StatusBadRequest
	}

	if !payload.IsValidPayload() {
		if len(payload.Entry) > 0 {
			// Status updates and other non-message deliveries are acknowledged
			// without processing.
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
			return http.StatusOK
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"status": "error", "message": "Not a WhatsApp API event"})
		return http.StatusNotFound
	}

	msg, contact := payload.FirstMessage()

	// Detach from the request context so slow downstream APIs don't stall
	// Meta's delivery or trigger redelivery.
	go s.processMessage(msg, contact)

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	return http.StatusOK
}

// processMessage runs the full classify/act/reply pipeline for one message.
func (s *WebhookServer) processMessage(msg *whatsapp.Message, contact *whatsapp.Contact) {
	ctx, cancel := context.WithTimeout(s.sc.Context(), s.handleTimeout)
	defer cancel()

	ctx, span := instrumentation.StartMessageSpan(ctx, msg.Type)
	defer span.End()

	waID := msg.From
	if contact != nil && contact.WaID != "" {
		waID = contact.WaID
	}

	logger := s.logger.With(logging.UserHash(waID))
	s.metrics.RecordMessageReceived(ctx, msg.Type)

	record := instrumentation.NewActionRecord("message_handled").
		WithUser(waID).
		WithSpanContext(ctx)

	reply, intent, err := s.dispatch(ctx, logger, waID, msg)
	record.WithMessage(msg.Type, string(intent))
	s.metrics.RecordIntent(ctx, string(intent))
	s.metrics.RecordMessageHandled(ctx, time.Since(record.StartTime))

	if err != nil {
		instrumentation.SetSpanError(span, err)
		s.audit.LogAction(record.CompleteWithError(err))
		return
	}

	if sendErr := s.sendReply(ctx, waID, reply); sendErr != nil {
		logger.ErrorContext(ctx, "failed to send reply", logging.Err(sendErr))
		s.metrics.RecordReplySent(ctx, instrumentation.StatusError)
		instrumentation.SetSpanError(span, sendErr)
		s.audit.LogAction(record.CompleteWithError(sendErr))
		return
	}

	s.metrics.RecordReplySent(ctx, instrumentation.StatusSuccess)
	instrumentation.SetSpanSuccess(span)
	s.audit.LogAction(record.CompleteSuccess())
}

// dispatch routes a message by type and returns the reply text.
func (s *WebhookServer) dispatch(ctx context.Context, logger *slog.Logger, waID string, msg *whatsapp.Message) (string, openai.Intent, error) {
	responder, err := s.sc.Responder()
	if err != nil {
		return "", "", fmt.Errorf("responder unavailable: %w", err)
	}

	switch {
	case msg.Document != nil:
		path, err := s.downloadAttachment(ctx, logger, msg.Document)
		if err != nil {
			logger.ErrorContext(ctx, "attachment download failed", logging.Err(err))
			path = ""
		}
		if path != "" {
			defer os.RemoveAll(filepath.Dir(path))
		}
		reply, intent := responder.HandleDocument(ctx, waID, msg.Document.Caption, path)
		return reply, intent, nil

	case msg.Text != nil:
		reply, intent := responder.HandleText(ctx, waID, msg.Text.Body)
		return reply, intent, nil

	default:
		return "", "", errors.New("unsupported message type: " + msg.Type)
	}
}

// downloadAttachment fetches the document behind a media ID.
func (s *WebhookServer) downloadAttachment(ctx context.Context, logger *slog.Logger, doc *whatsapp.Document) (string, error) {
	client, err := s.sc.WhatsAppClient()
	if err != nil {
		return "", err
	}

	path, err := client.DownloadMedia(ctx, doc.ID, doc.Filename)
	if err != nil {
		return "", err
	}

	logger.InfoContext(ctx, "attachment downloaded", "filename", filepath.Base(path))
	return path, nil
}

// sendReply delivers the reply text to the sender.
func (s *WebhookServer) sendReply(ctx context.Context, waID string, reply string) error {
	if reply == "" {
		return nil
	}

	client, err := s.sc.WhatsAppClient()
	if err != nil {
		return err
	}

	start := time.Now()
	sendErr := client.SendText(ctx, waID, reply)
	status := instrumentation.StatusSuccess
	if sendErr != nil {
		status = instrumentation.StatusError
	}
	s.metrics.RecordServiceCall(ctx, instrumentation.ServiceWhatsApp, instrumentation.OperationSend, status, time.Since(start))
	return sendErr
}

func writeJSON(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
