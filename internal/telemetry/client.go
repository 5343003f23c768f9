package telemetry

import (
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/posthog/posthog-go"
)

// Client records usage events. PlanApp only needs Track.
type Client interface {
	Track(event string, properties map[string]any)
	Close() error
}

// Properties is the shape of event properties.
type Properties = map[string]any

// enqueuer is the slice of posthog.Client used here; tests substitute it.
type enqueuer interface {
	io.Closer
	Enqueue(msg posthog.Message) error
}

// ClientConfig configures NewPostHogClient.
type ClientConfig struct {
	// APIKey is the PostHog project key. Empty means nothing is ever sent.
	APIKey string
	// Version is reported as cli_version on every event.
	Version string
	// Config carries the opt-in choice and the anonymous id.
	Config *Config
	// Endpoint overrides the PostHog host, for self-hosted instances.
	Endpoint string
}

// PostHogClient sends events to PostHog in the background.
type PostHogClient struct {
	mu     sync.Mutex
	sink   enqueuer // nil when there is no key
	cfg    *Config
	common map[string]any
}

// NewPostHogClient builds a client. Without an API key or config the client
// is valid but inert.
func NewPostHogClient(cc ClientConfig) (*PostHogClient, error) {
	if cc.APIKey == "" || cc.Config == nil {
		return newClient(nil, cc.Config, cc.Version), nil
	}

	sink, err := posthog.NewWithConfig(cc.APIKey, posthog.Config{
		Endpoint:  cc.Endpoint,
		BatchSize: 10,
		Interval:  time.Second,
		Logger:    silentLogger{},
	})
	if err != nil {
		return nil, err
	}
	return newClient(sink, cc.Config, cc.Version), nil
}

func newClient(sink enqueuer, cfg *Config, version string) *PostHogClient {
	return &PostHogClient{
		sink: sink,
		cfg:  cfg,
		common: map[string]any{
			"os":          runtime.GOOS,
			"arch":        runtime.GOARCH,
			"cli_version": version,
			// Events are never attached to a person profile.
			"$process_person_profile": false,
		},
	}
}

// Track queues event unless telemetry is off or the client is closed.
func (c *PostHogClient) Track(event string, properties map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sink == nil || !c.cfg.IsEnabled() {
		return
	}

	props := posthog.NewProperties()
	for k, v := range properties {
		props.Set(k, v)
	}
	for k, v := range c.common {
		props.Set(k, v)
	}
	_ = c.sink.Enqueue(posthog.Capture{
		DistinctId: c.cfg.AnonymousID,
		Event:      event,
		Properties: props,
	})
}

// Close flushes queued events. Later calls to Track and Close do nothing.
func (c *PostHogClient) Close() error {
	c.mu.Lock()
	sink := c.sink
	c.sink = nil
	c.mu.Unlock()
	if sink == nil {
		return nil
	}
	return sink.Close()
}

// NoopClient discards everything.
type NoopClient struct{}

func (NoopClient) Track(string, map[string]any) {}
func (NoopClient) Close() error                 { return nil }

// silentLogger keeps the PostHog SDK off stdout and stderr, which the MCP
// stdio transport and the TUI own.
type silentLogger struct{}

func (silentLogger) Debugf(string, ...interface{}) {}
func (silentLogger) Logf(string, ...interface{})   {}
func (silentLogger) Warnf(string, ...interface{})  {}
func (silentLogger) Errorf(string, ...interface{}) {}
