package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/redis/rueidis"
)

// RedisPublisher fans change events out to other instances over a Redis channel.
type RedisPublisher struct {
	client  rueidis.Client
	channel string
	origin  string
}

// NewRedisClient connects to the Redis server at addr.
func NewRedisClient(addr string) (rueidis.Client, error) {
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{addr},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}
	return client, nil
}

// NewRedisPublisher creates a publisher; origin must match the local Bus origin.
func NewRedisPublisher(client rueidis.Client, channel, origin string) *RedisPublisher {
	return &RedisPublisher{client: client, channel: channel, origin: origin}
}

// Publish sends event to the shared channel.
func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	if event.Origin == "" {
		event.Origin = p.origin
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", event.ID, err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cmd := p.client.B().Publish().Channel(p.channel).Message(string(payload)).Build()
	if err := p.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("failed to publish event %s: %w", event.ID, err)
	}
	return nil
}

// Listen relays events published by other instances into bus until ctx ends.
func (p *RedisPublisher) Listen(ctx context.Context, bus *Bus) error {
	log := logger.New("events").Function("Listen")
	log.Info("Listening for remote events", "channel", p.channel)

	err := p.client.Receive(ctx, p.client.B().Subscribe().Channel(p.channel).Build(), func(msg rueidis.PubSubMessage) {
		p.relay(bus, msg.Message)
	})
	if err != nil && ctx.Err() == nil {
		return log.Err("failed to listen to channel", err, "channel", p.channel)
	}
	return nil
}

// relay decodes payload and hands it to bus, dropping events this instance sent.
func (p *RedisPublisher) relay(bus *Bus, payload string) bool {
	var event Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		logger.New("events").Function("relay").Er("failed to unmarshal event", err, "channel", p.channel)
		return false
	}
	if event.Origin == p.origin {
		return false
	}
	bus.deliver(event)
	return true
}
