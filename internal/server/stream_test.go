package server

import (
	"testing"
	"time"
)

func TestBroadcastDeliversToSubscriber(t *testing.T) {
	eb := NewEventBroadcaster()
	ch := eb.Subscribe("job-1")
	defer eb.Unsubscribe("job-1", ch)

	eb.Broadcast(ProgressEvent{JobID: "job-1", State: StateRunning, TilesDone: 1, TilesTotal: 4})

	select {
	case evt := <-ch:
		if evt.TilesDone != 1 {
			t.Errorf("received event TilesDone = %d, want 1", evt.TilesDone)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast event")
	}
}

func TestSubscribeReplaysLastEvent(t *testing.T) {
	eb := NewEventBroadcaster()
	eb.Broadcast(ProgressEvent{JobID: "job-1", State: StateCompleted, TilesDone: 4, TilesTotal: 4})

	ch := eb.Subscribe("job-1")
	defer eb.Unsubscribe("job-1", ch)

	select {
	case evt := <-ch:
		if evt.State != StateCompleted {
			t.Errorf("replayed event state = %v, want %v", evt.State, StateCompleted)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for replayed event")
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	eb := NewEventBroadcaster()
	ch := eb.Subscribe("job-1")
	eb.Unsubscribe("job-1", ch)

	if _, ok := <-ch; ok {
		t.Error("channel should be closed after Unsubscribe")
	}
}

func TestBroadcastWithNoSubscribersDoesNotPanic(t *testing.T) {
	eb := NewEventBroadcaster()
	eb.Broadcast(ProgressEvent{JobID: "job-none", State: StateRunning})
}

func TestCleanupJobClosesAllSubscribers(t *testing.T) {
	eb := NewEventBroadcaster()
	ch1 := eb.Subscribe("job-1")
	ch2 := eb.Subscribe("job-1")

	eb.CleanupJob("job-1")

	if _, ok := <-ch1; ok {
		t.Error("ch1 should be closed after CleanupJob")
	}
	if _, ok := <-ch2; ok {
		t.Error("ch2 should be closed after CleanupJob")
	}
}
