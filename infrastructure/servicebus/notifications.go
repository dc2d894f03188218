package servicebus

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
	"photo-store/infrastructure/logger"
)

// INotifier delivers operational notifications (account connected or
// disconnected) to the back-office queue.
type INotifier interface {
	NotifyConnectionChange(ctx context.Context, connected bool) error
}

type Notifier struct {
	AzservicebusClient *azservicebus.Client
	Queue              string
}

func NewNotifier(azServiceBusClient *azservicebus.Client, queue string) INotifier {
	return &Notifier{AzservicebusClient: azServiceBusClient, Queue: queue}
}

func (n *Notifier) NotifyConnectionChange(ctx context.Context, connected bool) error {
	if n.AzservicebusClient == nil {
		logger.GetLogger().Debug("Service Bus client is nil - skipping notification")
		return nil
	}

	sender, err := n.AzservicebusClient.NewSender(n.Queue, nil)
	if err != nil {
		logger.GetLogger().
			WithField("error", err).
			Error("Error while making new sender service bus.")
		return err
	}
	defer func(sender *azservicebus.Sender, ctx context.Context) {
		err := sender.Close(ctx)
		if err != nil {
			logger.GetLogger().
				WithField("error", err).
				Error("Error while closing sender.")
		}
	}(sender, ctx)

	body, err := json.Marshal(map[string]interface{}{
		"event":       "lightroom_connection_change",
		"connected":   connected,
		"occurred_at": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	sbMessage := &azservicebus.Message{Body: body}
	if err := sender.SendMessage(ctx, sbMessage, nil); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while sending message.")
		return err
	}
	return nil
}
