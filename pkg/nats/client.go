package nats

import (
	"fmt"
	"time"

	natsgo "github.com/nats-io/nats.go"
)

// Config holds the connection settings for NATS.
type Config struct {
	URL  string
	Name string
}

// Connect opens a NATS connection that keeps reconnecting in the background.
func Connect(cfg Config) (*natsgo.Conn, error) {
	nc, err := natsgo.Connect(cfg.URL,
		natsgo.Name(cfg.Name),
		natsgo.Timeout(5*time.Second),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats at %s: %w", cfg.URL, err)
	}
	return nc, nil
}
