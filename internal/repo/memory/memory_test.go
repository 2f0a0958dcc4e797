package memory

import (
	"context"
	"testing"

	"github.com/hamed0406/availwatch/internal/domain"
)

func TestMemoryStore_EmptyThenRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New()

	snap, err := s.Load(ctx)
	if err != nil || snap != nil {
		t.Fatalf("expected nil, got %+v err=%v", snap, err)
	}

	want := domain.ResultSet{{
		Server: domain.Server{Code: "160sk1", Name: "KS-1"},
		Zone:   domain.Zone{Code: "gra", Location: "Gravelines"},
		Status: "available",
	}}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	snap, err = s.Load(ctx)
	if err != nil || snap == nil {
		t.Fatalf("Load: %+v err=%v", snap, err)
	}
	if !snap.Results.Equal(want) {
		t.Fatalf("round trip mismatch: %+v", snap.Results)
	}
	if snap.SavedAt.IsZero() {
		t.Fatalf("expected SavedAt to be set")
	}

	// mutating the loaded copy must not touch the store
	snap.Results[0].Status = "changed"
	again, _ := s.Load(ctx)
	if again.Results[0].Status != "available" {
		t.Fatalf("store leaked its backing slice")
	}
}

func TestMemoryStore_EmptySet(t *testing.T) {
	ctx := context.Background()
	s := New()
	if err := s.Save(ctx, nil); err != nil {
		t.Fatalf("Save: %v", err)
	}
	snap, err := s.Load(ctx)
	if err != nil || snap == nil {
		t.Fatalf("empty set must still be a snapshot: %+v err=%v", snap, err)
	}
	if len(snap.Results) != 0 {
		t.Fatalf("want empty, got %+v", snap.Results)
	}
}
