package event_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/lifepolicy/internal/event"
)

func TestNewPublisher_DeclaresDurableQueue(t *testing.T) {
	ctrl := gomock.NewController(t)
	ch := event.NewMockChannel(ctrl)

	ch.EXPECT().
		QueueDeclare(event.DefaultQueue, true, false, false, false, gomock.Nil()).
		Return(amqp.Queue{Name: event.DefaultQueue}, nil)

	_, err := event.NewPublisher(ch, event.DefaultQueue)
	require.NoError(t, err)
}

func TestNewPublisher_DeclareError(t *testing.T) {
	ctrl := gomock.NewController(t)
	ch := event.NewMockChannel(ctrl)

	ch.EXPECT().
		QueueDeclare(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(amqp.Queue{}, errors.New("channel closed"))

	_, err := event.NewPublisher(ch, event.DefaultQueue)
	assert.Error(t, err)
}

func TestPublisher_Publish(t *testing.T) {
	ctrl := gomock.NewController(t)
	ch := event.NewMockChannel(ctrl)

	ch.EXPECT().
		QueueDeclare(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(amqp.Queue{}, nil)

	e := event.New(event.PolicyCancelled, 12, "POL-2026-42", time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC))

	ch.EXPECT().
		PublishWithContext(gomock.Any(), "", event.DefaultQueue, false, false, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, _ string, _, _ bool, msg amqp.Publishing) error {
			assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
			assert.Equal(t, "application/json", msg.ContentType)
			assert.Equal(t, e.ID.String(), msg.MessageId)

			var body map[string]any
			require.NoError(t, json.Unmarshal(msg.Body, &body))
			assert.Equal(t, "policy.cancelled", body["type"])
			assert.Equal(t, "POL-2026-42", body["policy_number"])
			assert.EqualValues(t, 12, body["policy_id"])

			return nil
		})

	p, err := event.NewPublisher(ch, event.DefaultQueue)
	require.NoError(t, err)

	assert.NoError(t, p.Publish(context.Background(), e))
}
