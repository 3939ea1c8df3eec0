package config

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// ConnectNATS dials the broker with reconnect handling.
func ConnectNATS(cfg NATSConfig, log *zap.SugaredLogger) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("bingo-rooms"),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warnw("disconnected from nats", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Infow("reconnected to nats", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			log.Infow("nats connection closed")
		}),
		nats.Timeout(10 * time.Second),
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to nats %s: %w", cfg.URL, err)
	}
	return nc, nil
}
