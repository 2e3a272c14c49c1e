// Package server provides the webhook server, health endpoints, and the
// metrics server for the waclerk application.
//
// # Key Components
//
// ServerContext manages the external service clients (Calendar, Drive, Meet,
// OpenAI, WhatsApp) with lazy initialization and caching, and carries the
// shutdown state shared by all servers.
//
// WebhookServer terminates the WhatsApp Cloud API webhook:
//   - GET /webhook answers Meta's subscription handshake
//   - POST /webhook validates the X-Hub-Signature-256 header, acknowledges
//     the delivery immediately, and processes the message detached from the
//     request so Meta never retries because of slow downstream APIs
//
// HealthChecker exposes /healthz, /readyz, and /healthz/detailed for
// Kubernetes probes.
//
// MetricsServer serves Prometheus metrics on a dedicated port, isolated
// from the webhook traffic.
package server
