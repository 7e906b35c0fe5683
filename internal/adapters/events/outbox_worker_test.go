package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/carebridge/marketplace/internal/ports"
)

type stubOutbox struct {
	mu           sync.Mutex
	records      []ports.OutboxRecord
	published    []uuid.UUID
	failed       []uuid.UUID
	deadLettered []uuid.UUID
	claimTokens  map[uuid.UUID]string
}

func (s *stubOutbox) Enqueue(context.Context, ports.OutboxEvent) error { return nil }

func (s *stubOutbox) ClaimUnpublished(_ context.Context, batchSize int, claimToken string, _ time.Time) ([]ports.OutboxRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.records
	if len(out) > batchSize {
		out = out[:batchSize]
	}
	if s.claimTokens == nil {
		s.claimTokens = make(map[uuid.UUID]string)
	}
	for _, rec := range out {
		s.claimTokens[rec.OutboxID] = claimToken
	}
	return out, nil
}

func (s *stubOutbox) MarkPublished(_ context.Context, outboxID uuid.UUID, claimToken string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.claimTokens[outboxID] != claimToken {
		return errors.New("claim token mismatch")
	}
	s.published = append(s.published, outboxID)
	return nil
}

func (s *stubOutbox) MarkFailed(_ context.Context, outboxID uuid.UUID, claimToken, _ string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.claimTokens[outboxID] != claimToken {
		return errors.New("claim token mismatch")
	}
	s.failed = append(s.failed, outboxID)
	return nil
}

func (s *stubOutbox) MarkDeadLettered(_ context.Context, outboxID uuid.UUID, claimToken, _ string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.claimTokens[outboxID] != claimToken {
		return errors.New("claim token mismatch")
	}
	s.deadLettered = append(s.deadLettered, outboxID)
	return nil
}

type stubPublisher struct {
	mu        sync.Mutex
	fail      bool
	published []string
}

func (s *stubPublisher) Publish(_ context.Context, eventType string, _ []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("broker unavailable")
	}
	s.published = append(s.published, eventType)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func record(eventType string, retries int) ports.OutboxRecord {
	return ports.OutboxRecord{
		OutboxID:   uuid.New(),
		EventType:  eventType,
		Payload:    []byte(`{}`),
		RetryCount: retries,
	}
}

func TestProcessOncePublishesClaimedBatch(t *testing.T) {
	t.Parallel()

	outbox := &stubOutbox{records: []ports.OutboxRecord{
		record("user.registered", 0),
		record("document.uploaded", 0),
	}}
	publisher := &stubPublisher{}
	worker := NewOutboxWorker(testLogger(), outbox, publisher, 0, 0, 0, 0)

	if err := worker.processOnce(context.Background()); err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if len(outbox.published) != 2 || len(outbox.failed) != 0 || len(outbox.deadLettered) != 0 {
		t.Fatalf("unexpected marks: published=%d failed=%d dlq=%d",
			len(outbox.published), len(outbox.failed), len(outbox.deadLettered))
	}
	if len(publisher.published) != 2 || publisher.published[0] != "user.registered" {
		t.Fatalf("unexpected publishes: %v", publisher.published)
	}
}

func TestProcessOnceSchedulesRetryOnFailure(t *testing.T) {
	t.Parallel()

	rec := record("user.registered", 0)
	outbox := &stubOutbox{records: []ports.OutboxRecord{rec}}
	worker := NewOutboxWorker(testLogger(), outbox, &stubPublisher{fail: true}, 0, 0, 0, 5)

	if err := worker.processOnce(context.Background()); err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if len(outbox.failed) != 1 || outbox.failed[0] != rec.OutboxID {
		t.Fatalf("expected one retry mark, got %v", outbox.failed)
	}
	if len(outbox.deadLettered) != 0 {
		t.Fatalf("first failure must not dead letter")
	}
}

func TestProcessOnceDeadLettersAtThreshold(t *testing.T) {
	t.Parallel()

	// One record fails its final attempt, one is already over the threshold.
	exhausting := record("user.registered", 4)
	exhausted := record("document.uploaded", 5)
	outbox := &stubOutbox{records: []ports.OutboxRecord{exhausting, exhausted}}
	publisher := &stubPublisher{fail: true}
	worker := NewOutboxWorker(testLogger(), outbox, publisher, 0, 0, 0, 5)

	if err := worker.processOnce(context.Background()); err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if len(outbox.deadLettered) != 2 {
		t.Fatalf("expected both records dead lettered, got %v", outbox.deadLettered)
	}
	if len(outbox.failed) != 0 {
		t.Fatalf("final attempts must not schedule retries: %v", outbox.failed)
	}
}

func TestNewOutboxWorkerDefaults(t *testing.T) {
	t.Parallel()

	worker := NewOutboxWorker(testLogger(), &stubOutbox{}, &stubPublisher{}, 0, 0, 0, 0)
	if worker.interval != 2*time.Second || worker.batchSize != 100 ||
		worker.claimTTL != 30*time.Second || worker.maxRetries != 5 {
		t.Fatalf("defaults not applied: %+v", worker)
	}
}
