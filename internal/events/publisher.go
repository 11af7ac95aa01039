// Package events publishes connection lifecycle notifications over NATS so
// sibling services (billing, onboarding checklists) can react to ad platform
// links without polling this service.
package events

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/niaga-platform/service-ads-insights/internal/domain/ads"
)

// Event subjects
const (
	SubjectConnectionConnected    = "ads.connection.connected"
	SubjectConnectionDisconnected = "ads.connection.disconnected"
)

// ConnectionEvent describes a platform link change for one shop.
type ConnectionEvent struct {
	ShopID      string    `json:"shop_id"`
	Platform    string    `json:"platform"`
	AccountID   string    `json:"account_id,omitempty"`
	AccountName string    `json:"account_name,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Publisher handles publishing events to NATS. A nil connection turns every
// publish into a no-op, which keeps local development free of a broker.
type Publisher struct {
	nc     *nats.Conn
	logger *zap.Logger
}

// NewPublisher creates a new NATS publisher.
func NewPublisher(nc *nats.Conn, logger *zap.Logger) *Publisher {
	return &Publisher{nc: nc, logger: logger}
}

// PublishConnected announces a completed platform connection.
func (p *Publisher) PublishConnected(shopID string, platform ads.Platform, accountID, accountName string) {
	p.publish(SubjectConnectionConnected, &ConnectionEvent{
		ShopID:      shopID,
		Platform:    string(platform),
		AccountID:   accountID,
		AccountName: accountName,
		Timestamp:   time.Now(),
	})
}

// PublishDisconnected announces a severed platform connection.
func (p *Publisher) PublishDisconnected(shopID string, platform ads.Platform) {
	p.publish(SubjectConnectionDisconnected, &ConnectionEvent{
		ShopID:    shopID,
		Platform:  string(platform),
		Timestamp: time.Now(),
	})
}

// publish is fire-and-forget: a broken broker must never fail the HTTP
// request that triggered the event.
func (p *Publisher) publish(subject string, event *ConnectionEvent) {
	if p.nc == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal connection event", zap.Error(err))
		return
	}
	if err := p.nc.Publish(subject, data); err != nil {
		p.logger.Warn("Failed to publish connection event",
			zap.String("subject", subject),
			zap.String("shop_id", event.ShopID),
			zap.Error(err),
		)
		return
	}
	p.logger.Debug("Published connection event",
		zap.String("subject", subject),
		zap.String("shop_id", event.ShopID),
		zap.String("platform", event.Platform),
	)
}
