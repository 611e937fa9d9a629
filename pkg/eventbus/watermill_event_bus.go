package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/orbithq/orbit/pkg/events"
)

type WatermillEventBus struct {
	publisher     message.Publisher
	subscriber    message.Subscriber
	subscriptions map[events.EventType]EventHandler
}

func NewWatermillEventBus(pub message.Publisher, sub message.Subscriber) *WatermillEventBus {
	return &WatermillEventBus{
		publisher:     pub,
		subscriber:    sub,
		subscriptions: make(map[events.EventType]EventHandler),
	}
}

func (eb *WatermillEventBus) GenerateID() string {
	return watermill.NewULID()
}

func (eb *WatermillEventBus) Publish(ctx context.Context, key string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage("msg-"+eb.GenerateID(), payload)
	msg.Metadata.Set(events.EventMetadataKey, key)
	msg.Metadata.Set(events.EventTypeMetadataKey, string(event.GetType()))

	return eb.publisher.Publish(events.Topic, msg)
}

func (eb *WatermillEventBus) Handle(eventType events.EventType, handler EventHandler) error {
	if _, exists := eb.subscriptions[eventType]; exists {
		return fmt.Errorf("handler already registered for event type %s", eventType)
	}

	eb.subscriptions[eventType] = handler

	return nil
}

func (eb *WatermillEventBus) Subscribe(ctx context.Context) error {
	messages, err := eb.subscriber.Subscribe(ctx, events.Topic)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			eventType := events.EventType(msg.Metadata.Get(events.EventTypeMetadataKey))

			handler, exists := eb.subscriptions[eventType]
			if !exists {
				msg.Ack()

				continue
			}

			event := newEvent(eventType)
			if event == nil {
				msg.Ack()

				continue
			}

			if err := json.Unmarshal(msg.Payload, event); err != nil {
				msg.Nack()

				continue
			}

			if err := handler(ctx, event); err != nil {
				msg.Nack()

				continue
			}

			msg.Ack()
		}
	}()

	return nil
}

// newEvent returns an empty event of the given type for decoding, or nil for
// unknown types.
func newEvent(eventType events.EventType) any {
	switch eventType {
	case events.WorkflowsSetEvent:
		return &events.SetWorkflows{}
	case events.WorkflowAddedEvent:
		return &events.AddWorkflow{}
	case events.WorkflowDeletedEvent:
		return &events.DeleteWorkflow{}
	case events.WorkflowActivatedEvent:
		return &events.SetActiveWorkflow{}
	case events.WorkflowCompletedEvent:
		return &events.MarkWorkflowCompleted{}
	case events.TaskAddedEvent:
		return &events.AddTask{}
	case events.TaskRemovedEvent:
		return &events.RemoveTask{}
	case events.TaskStatusUpdatedEvent:
		return &events.UpdateTaskStatus{}
	case events.TaskConfigUpdatedEvent:
		return &events.UpdateTaskConfig{}
	case events.TaskPositionUpdatedEvent:
		return &events.UpdateTaskPosition{}
	case events.NoteAddedEvent:
		return &events.AddNote{}
	case events.NoteUpdatedEvent:
		return &events.UpdateNote{}
	case events.NoteDeletedEvent:
		return &events.DeleteNote{}
	default:
		return nil
	}
}

func (eb *WatermillEventBus) Close() error {
	if err := eb.publisher.Close(); err != nil {
		return err
	}

	return eb.subscriber.Close()
}
