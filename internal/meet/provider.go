package meet

import (
	"bufio"
	"context"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"sync"
	"time"
)

// ConferenceCreator generates a Meet link through the Calendar API.
// Implemented by *calendar.Client.
type ConferenceCreator interface {
	CreateMeetConference(ctx context.Context, summary string) (string, error)
}

// MeetError represents an error during Meet link provisioning
type MeetError struct {
	// Op is the operation that failed (e.g., "pool", "generate")
	Op string

	// Err is the underlying error
	Err error
}

// Error implements the error interface
func (e *MeetError) Error() string {
	return fmt.Sprintf("meet %s: %v", e.Op, e.Err)
}

// Unwrap implements the errors.Unwrap interface
func (e *MeetError) Unwrap() error {
	return e.Err
}

// Provider hands out Meet links from the pool file, generating one via the
// Calendar API when the pool is exhausted.
type Provider struct {
	linksFile string
	fallback  ConferenceCreator

	mu  sync.Mutex
	rng *rand.Rand
}

// NewProvider creates a Provider reading from linksFile. fallback may be nil,
// in which case an empty pool is an error.
func NewProvider(linksFile string, fallback ConferenceCreator) *Provider {
	return &Provider{
		linksFile: linksFile,
		fallback:  fallback,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Link returns a Meet link, preferring the pool file.
func (p *Provider) Link(ctx context.Context) (string, error) {
	link, poolErr := p.fromPool()
	if poolErr == nil {
		return link, nil
	}

	if p.fallback == nil {
		return "", &MeetError{Op: "pool", Err: poolErr}
	}

	generated, err := p.fallback.CreateMeetConference(ctx, "Meet link requested via WhatsApp")
	if err != nil {
		return "", &MeetError{Op: "generate", Err: err}
	}
	return generated, nil
}

// fromPool picks a random link from the pool file.
func (p *Provider) fromPool() (string, error) {
	if p.linksFile == "" {
		return "", fmt.Errorf("no links file configured")
	}

	f, err := os.Open(p.linksFile)
	if err != nil {
		return "", fmt.Errorf("failed to open links file: %w", err)
	}
	defer f.Close()

	var links []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			links = append(links, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("failed to read links file: %w", err)
	}

	if len(links) == 0 {
		return "", fmt.Errorf("no links available in %s", p.linksFile)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return links[p.rng.Intn(len(links))], nil
}
