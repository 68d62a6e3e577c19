package providers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

// ErrUpstream marks any failure of the remote completion service: transport
// errors, error statuses, and responses without content
var ErrUpstream = errors.New("upstream completion failed")

// Request is a single system+user completion
type Request struct {
	Model       string
	System      string
	User        string
	Temperature float64
	MaxTokens   int
	// JSON asks the provider to constrain output to a JSON object
	JSON bool
}

// Provider defines the interface for a chat-completion provider
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Registry maps provider names to implementations
type Registry struct {
	providers map[string]Provider
}

func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

func (r *Registry) Register(name string, p Provider) {
	r.providers[strings.ToLower(name)] = p
}

// Get returns the provider registered under name
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unsupported provider: %s (available: %s)", name, strings.Join(r.Names(), ", "))
	}
	return p, nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type retrying struct {
	next     Provider
	attempts uint
	delay    time.Duration
}

// WithAttempts wraps p so each completion is tried up to attempts times.
// Values of 0 or 1 return p unchanged: one attempt per request.
func WithAttempts(p Provider, attempts uint) Provider {
	if attempts <= 1 {
		return p
	}
	return &retrying{next: p, attempts: attempts, delay: 500 * time.Millisecond}
}

func (r *retrying) Complete(ctx context.Context, req Request) (string, error) {
	return retry.DoWithData(
		func() (string, error) {
			return r.next.Complete(ctx, req)
		},
		retry.Attempts(r.attempts),
		retry.Context(ctx),
		retry.Delay(r.delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("Retrying completion", "attempt", n+1, "err", err)
		}),
	)
}
