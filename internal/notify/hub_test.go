package notify

import (
	"context"
	"testing"

	"github.com/gofiber/websocket/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/scstore/catalog/internal/domain"
	"github.com/scstore/catalog/internal/observability"
)

func TestHubSubscriptionBookkeeping(t *testing.T) {
	t.Parallel()

	metrics := observability.NewMetrics()
	hub := NewHub(nil, metrics)

	first := &websocket.Conn{}
	second := &websocket.Conn{}

	hub.Subscribe("job-1", first)
	hub.Subscribe("job-1", second)
	hub.Subscribe("job-2", first)

	if got := hub.SubscriberCount("job-1"); got != 2 {
		t.Fatalf("SubscriberCount(job-1) = %d, want 2", got)
	}
	if got := hub.SubscriberCount("job-2"); got != 1 {
		t.Fatalf("SubscriberCount(job-2) = %d, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.ProgressSubscribersGauge()); got != 3 {
		t.Fatalf("subscriber gauge = %v, want 3", got)
	}

	hub.Unsubscribe("job-1", first)
	hub.Unsubscribe("job-1", first)

	if got := hub.SubscriberCount("job-1"); got != 1 {
		t.Fatalf("SubscriberCount(job-1) after unsubscribe = %d, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.ProgressSubscribersGauge()); got != 2 {
		t.Fatalf("subscriber gauge after duplicate unsubscribe = %v, want 2", got)
	}
}

func TestHubPublishWithoutSubscribers(t *testing.T) {
	t.Parallel()

	hub := NewHub(nil, nil)

	snapshot := domain.ProgressSnapshot{JobID: "job-1", Status: domain.JobStatusProcessing}
	if err := hub.Publish(context.Background(), "job-1", snapshot); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
}
