package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	itemEventChannelPrefix   = "gcn:item:events:"   // Pub/Sub channel per item: gcn:item:events:{item_id}
	threadEventChannelPrefix = "gcn:thread:events:" // Pub/Sub channel per thread: gcn:thread:events:{thread_id}
)

// Event is the envelope published on item and thread channels.
type Event struct {
	Type      string          `json:"type"`
	ItemID    string          `json:"itemId,omitempty"`
	ThreadID  string          `json:"threadId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Publisher fans out lifecycle and messaging events over Redis Pub/Sub.
// Publishing is best-effort: a failure is logged and never fails the write
// that triggered it.
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// PublishItemEvent announces an item lifecycle change on the item's channel.
func (p *Publisher) PublishItemEvent(ctx context.Context, itemID, eventType string, payload any) {
	p.publish(ctx, ItemChannel(itemID), Event{Type: eventType, ItemID: itemID}, payload)
}

// PublishThreadEvent announces a new message on the thread's channel.
func (p *Publisher) PublishThreadEvent(ctx context.Context, threadID, eventType string, payload any) {
	p.publish(ctx, ThreadChannel(threadID), Event{Type: eventType, ThreadID: threadID}, payload)
}

func (p *Publisher) publish(ctx context.Context, channel string, ev Event, payload any) {
	if p == nil || p.client == nil {
		return
	}

	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			log.Printf("[warn] operation=publish_event channel=%s error=%v", channel, err)
			return
		}
		ev.Payload = b
	}
	ev.Timestamp = time.Now().UTC()

	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[warn] operation=publish_event channel=%s error=%v", channel, err)
		return
	}

	if err := p.client.Publish(ctx, channel, data).Err(); err != nil {
		log.Printf("[warn] operation=publish_event channel=%s error=%v", channel, err)
	}
}

// SubscribeThread opens a subscription on the thread's event channel. The
// caller owns the returned PubSub and must Close it on teardown.
func (p *Publisher) SubscribeThread(ctx context.Context, threadID string) *redis.PubSub {
	return p.client.Subscribe(ctx, ThreadChannel(threadID))
}

// SubscribeItem opens a subscription on the item's event channel.
func (p *Publisher) SubscribeItem(ctx context.Context, itemID string) *redis.PubSub {
	return p.client.Subscribe(ctx, ItemChannel(itemID))
}

func ItemChannel(itemID string) string {
	return fmt.Sprintf("%s%s", itemEventChannelPrefix, itemID)
}

func ThreadChannel(threadID string) string {
	return fmt.Sprintf("%s%s", threadEventChannelPrefix, threadID)
}
