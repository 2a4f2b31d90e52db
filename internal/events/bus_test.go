package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexsohr/autodoc/internal/forge"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ch, unsub := Subscribe[GenerationRequested](bus, 1)
	defer unsub()

	req := GenerationRequested{
		RunID:      "run-1",
		Trigger:    TriggerWebhook,
		Repository: forge.Repository{FullName: "acme/widgets"},
	}
	require.NoError(t, bus.Publish(context.Background(), req))

	select {
	case got := <-ch:
		assert.Equal(t, "run-1", got.RunID)
		assert.Equal(t, TriggerWebhook, got.Trigger)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestBusTypedRouting(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	genCh, unsubGen := Subscribe[GenerationRequested](bus, 1)
	defer unsubGen()
	doneCh, unsubDone := Subscribe[RunCompleted](bus, 1)
	defer unsubDone()

	require.NoError(t, bus.Publish(context.Background(), RunCompleted{RunID: "run-2", Status: "ok"}))

	select {
	case got := <-doneCh:
		assert.Equal(t, "run-2", got.RunID)
	case <-time.After(time.Second):
		t.Fatal("completion event not delivered")
	}

	select {
	case unexpected := <-genCh:
		t.Fatalf("generation subscriber received %v", unexpected)
	default:
	}
}

func TestBusPublishBlocksUntilDeliveredOrCanceled(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	_, unsub := Subscribe[RunCompleted](bus, 0)
	defer unsub()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := bus.Publish(ctx, RunCompleted{RunID: "stuck"})
	require.Error(t, err)
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ch, unsub := Subscribe[RunCompleted](bus, 1)
	assert.Equal(t, 1, SubscriberCount[RunCompleted](bus))

	unsub()
	assert.Equal(t, 0, SubscriberCount[RunCompleted](bus))

	_, open := <-ch
	assert.False(t, open)
}

func TestBusCloseRejectsPublish(t *testing.T) {
	bus := NewBus()
	ch, _ := Subscribe[RunCompleted](bus, 1)

	bus.Close()

	_, open := <-ch
	assert.False(t, open)
	assert.Error(t, bus.Publish(context.Background(), RunCompleted{}))
}

func TestBusValidation(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	assert.Error(t, bus.Publish(context.Background(), nil))
}
