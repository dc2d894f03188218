package pubsub

import (
	"context"
	"encoding/json"
	"time"

	"cloud.google.com/go/pubsub"
	"photo-store/infrastructure/logger"
)

// IEventPublisher emits storefront events (catalog connected, photos listed,
// renditions served) for downstream consumers.
type IEventPublisher interface {
	Publish(ctx context.Context, eventType string, payload map[string]interface{}) (string, error)
}

type EventPublisher struct {
	PubSubClient *pubsub.Client
	TopicName    string
}

func NewEventPublisher(pubSubClient *pubsub.Client, topicName string) IEventPublisher {
	return &EventPublisher{
		PubSubClient: pubSubClient,
		TopicName:    topicName,
	}
}

func (p *EventPublisher) Publish(
	ctx context.Context,
	eventType string,
	payload map[string]interface{},
) (string, error) {
	if p.PubSubClient == nil {
		logger.GetLogger().WithField("event_type", eventType).Debug("PubSub client is nil - skipping event publish")
		return "", nil
	}

	body := map[string]interface{}{
		"event_type":  eventType,
		"occurred_at": time.Now().UTC().Format(time.RFC3339),
		"payload":     payload,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	topic := p.PubSubClient.Topic(p.TopicName)

	// Create the topic if it doesn't exist.
	exists, err := topic.Exists(ctx)
	if err != nil {
		return "", err
	}
	if !exists {
		logger.GetLogger().WithField("topic", p.TopicName).Info("Topic doesn't exist - creating it")
		if _, err = p.PubSubClient.CreateTopic(ctx, p.TopicName); err != nil {
			return "", err
		}
	}

	serverId, err := topic.Publish(ctx, &pubsub.Message{Data: data}).Get(ctx)
	if err != nil {
		return "", err
	}

	logger.GetLogger().WithField("server ID", serverId).Info("Event published")
	return serverId, nil
}
