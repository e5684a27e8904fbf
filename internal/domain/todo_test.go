package domain

import (
	"testing"
	"time"
)

func TestSetCompleted(t *testing.T) {
	now := time.Now()
	todo := &Todo{Title: "write report", Priority: PriorityMedium}

	todo.SetCompleted(true, now)
	if !todo.IsCompleted {
		t.Error("expected todo to be completed")
	}
	if todo.CompletedAt == nil || !todo.CompletedAt.Equal(now) {
		t.Errorf("expected completed_at %v, got %v", now, todo.CompletedAt)
	}

	todo.SetCompleted(false, now.Add(time.Minute))
	if todo.IsCompleted {
		t.Error("expected todo to be incomplete")
	}
	if todo.CompletedAt != nil {
		t.Errorf("expected completed_at to be cleared, got %v", todo.CompletedAt)
	}
}

func TestSetCompletedIdempotent(t *testing.T) {
	first := time.Now()
	second := first.Add(time.Hour)

	todo := &Todo{Title: "x"}
	todo.SetCompleted(true, first)
	todo.SetCompleted(true, second)

	// Re-completing refreshes the timestamp; the invariant holds either way.
	if todo.CompletedAt == nil || !todo.CompletedAt.Equal(second) {
		t.Errorf("expected completed_at %v, got %v", second, todo.CompletedAt)
	}
}
