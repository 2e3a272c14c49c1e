package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jorin/waclerk/internal/bot"
	"github.com/jorin/waclerk/internal/calendar"
	"github.com/jorin/waclerk/internal/config"
	"github.com/jorin/waclerk/internal/drive"
	"github.com/jorin/waclerk/internal/google"
	"github.com/jorin/waclerk/internal/instrumentation"
	"github.com/jorin/waclerk/internal/meet"
	"github.com/jorin/waclerk/internal/openai"
	"github.com/jorin/waclerk/internal/whatsapp"
)

// ServerContext holds the shared state of the webhook and MCP servers.
// Service clients are created lazily on first use and cached.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    *config.Config
	logger *slog.Logger

	creds          *google.Credentials
	calendarClient *calendar.Client
	driveClient    *drive.Client
	meetProvider   *meet.Provider
	aiClient       *openai.Client
	waClient       *whatsapp.Client
	responder      *bot.Responder

	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context from the loaded configuration.
func NewServerContext(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*ServerContext, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	shutdownCtx, cancel := context.WithCancel(ctx)

	return &ServerContext{
		ctx:    shutdownCtx,
		cancel: cancel,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the loaded configuration.
func (sc *ServerContext) Config() *config.Config {
	return sc.cfg
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// SetInstrumentation attaches the metrics recorder and audit logger. Both
// may be nil when observability is disabled.
func (sc *ServerContext) SetInstrumentation(m *instrumentation.Metrics, a *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
	sc.auditLogger = a
}

// Metrics returns the metrics recorder, or nil when not configured.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// AuditLogger returns the audit logger, or nil when not configured.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// credentials parses the service-account credentials once and caches them.
// Callers must hold sc.mu.
func (sc *ServerContext) credentials() (*google.Credentials, error) {
	if sc.creds != nil {
		return sc.creds, nil
	}

	creds, err := google.ParseCredentials(sc.cfg.Google.CredentialsJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Google credentials: %w", err)
	}
	sc.creds = creds
	return creds, nil
}

// CalendarClient returns the Calendar client, creating it on first use.
func (sc *ServerContext) CalendarClient() (*calendar.Client, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.calendarClientLocked()
}

// calendarClientLocked builds the cached Calendar client. Callers must
// hold sc.mu.
func (sc *ServerContext) calendarClientLocked() (*calendar.Client, error) {
	if sc.calendarClient != nil {
		return sc.calendarClient, nil
	}

	creds, err := sc.credentials()
	if err != nil {
		return nil, err
	}

	client, err := calendar.NewClient(sc.ctx, creds, sc.cfg.Google.CalendarID)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar client: %w", err)
	}

	sc.calendarClient = client
	return client, nil
}

// DriveClient returns the Drive client, creating it on first use.
func (sc *ServerContext) DriveClient() (*drive.Client, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.driveClient != nil {
		return sc.driveClient, nil
	}

	creds, err := sc.credentials()
	if err != nil {
		return nil, err
	}

	client, err := drive.NewClient(sc.ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive client: %w", err)
	}

	sc.driveClient = client
	return client, nil
}

// MeetProvider returns the Meet link provider, creating it on first use.
// The Calendar client backs the fallback path for generated links.
func (sc *ServerContext) MeetProvider() (*meet.Provider, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.meetProvider != nil {
		return sc.meetProvider, nil
	}

	var creator meet.ConferenceCreator
	if cal, err := sc.calendarClientLocked(); err != nil {
		// Pool-only provider still works without calendar access
		sc.logger.Warn("meet fallback unavailable", "error", err)
	} else {
		creator = cal
	}

	sc.meetProvider = meet.NewProvider(sc.cfg.Meet.LinksFile, creator)
	return sc.meetProvider, nil
}

// OpenAIClient returns the OpenAI client, creating it on first use.
func (sc *ServerContext) OpenAIClient() (*openai.Client, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.aiClient != nil {
		return sc.aiClient, nil
	}

	client, err := openai.NewClient(sc.cfg.OpenAI.APIKey, sc.cfg.OpenAI.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	if m := sc.metrics; m != nil {
		client.OnUsage = func(promptTokens, completionTokens int) {
			m.RecordOpenAITokens(sc.ctx, promptTokens, completionTokens)
		}
	}

	sc.aiClient = client
	return client, nil
}

// WhatsAppClient returns the WhatsApp client, creating it on first use.
func (sc *ServerContext) WhatsAppClient() (*whatsapp.Client, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.waClient != nil {
		return sc.waClient, nil
	}

	client, err := whatsapp.NewClient(
		sc.cfg.WhatsApp.AccessToken,
		sc.cfg.WhatsApp.PhoneNumberID,
		sc.cfg.WhatsApp.APIVersion,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create WhatsApp client: %w", err)
	}

	sc.waClient = client
	return client, nil
}

// Responder returns the message responder wired over the lazily-created
// service clients.
func (sc *ServerContext) Responder() (*bot.Responder, error) {
	sc.mu.RLock()
	if sc.responder != nil {
		defer sc.mu.RUnlock()
		return sc.responder, nil
	}
	sc.mu.RUnlock()

	ai, err := sc.OpenAIClient()
	if err != nil {
		return nil, err
	}

	cal, err := sc.CalendarClient()
	if err != nil {
		sc.logger.Warn("calendar unavailable", "error", err)
		cal = nil
	}

	drv, err := sc.DriveClient()
	if err != nil {
		sc.logger.Warn("drive unavailable", "error", err)
		drv = nil
	}

	meetProvider, err := sc.MeetProvider()
	if err != nil {
		meetProvider = nil
	}

	opts := bot.Options{
		Location:       sc.cfg.Location(),
		EventDuration:  sc.cfg.EventDuration,
		SharedFolderID: sc.cfg.Google.SharedFolderID,
	}
	if m := sc.Metrics(); m != nil {
		opts.Metrics = m
	}

	var calIface bot.EventScheduler
	if cal != nil {
		calIface = cal
	}
	var drvIface bot.FileUploader
	if drv != nil {
		drvIface = drv
	}
	var meetIface bot.MeetLinker
	if meetProvider != nil {
		meetIface = meetProvider
	}

	responder, err := bot.NewResponder(ai, calIface, drvIface, meetIface, opts, sc.logger)
	if err != nil {
		return nil, err
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.responder == nil {
		sc.responder = responder
	}
	return sc.responder, nil
}

// SetResponder sets the responder, used in tests.
func (sc *ServerContext) SetResponder(r *bot.Responder) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.responder = r
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
