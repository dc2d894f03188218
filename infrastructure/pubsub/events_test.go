package pubsub_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"photo-store/infrastructure/pubsub"
)

// TestNewEventPublisher tests the creation of a new EventPublisher
func TestNewEventPublisher(t *testing.T) {
	publisher := pubsub.NewEventPublisher(nil, "storefront-events")
	assert.NotNil(t, publisher)
}

// TestEventPublisher_NilClient verifies a nil client degrades to a no-op
func TestEventPublisher_NilClient(t *testing.T) {
	publisher := pubsub.NewEventPublisher(nil, "storefront-events")

	id, err := publisher.Publish(context.Background(), "account.connected", map[string]interface{}{"user": "maria"})

	assert.NoError(t, err)
	assert.Empty(t, id)
}
