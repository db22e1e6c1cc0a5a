package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/tagcloud/pkg/errors"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("database file was not created: %v", err)
	}
}

func TestRecordAndGet(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	e, err := s.Record(ctx, Entry{
		Source:    "words.txt",
		Algorithm: "spiral",
		Width:     800,
		Height:    600,
		Words:     42,
		Placed:    40,
		Dropped:   2,
		Outputs:   "cloud.png",
		Duration:  1500 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Record() failed: %v", err)
	}
	if e.ID == "" {
		t.Fatal("Record() did not assign an ID")
	}
	if e.CreatedAt.IsZero() {
		t.Fatal("Record() did not set CreatedAt")
	}

	got, err := s.Get(ctx, e.ID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.Source != "words.txt" || got.Placed != 40 || got.Dropped != 2 || got.Duration != 1500*time.Millisecond {
		t.Errorf("Get() = %+v", got)
	}
	if !got.CreatedAt.Equal(e.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, e.CreatedAt)
	}
}

func TestGetMissing(t *testing.T) {
	s := openTemp(t)
	_, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, errors.ErrCodeRecordNotFound) {
		t.Errorf("Get() error = %v, want RECORD_NOT_FOUND", err)
	}
}

func TestRecentOrderAndLimit(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range 5 {
		if _, err := s.Record(ctx, Entry{Source: string(rune('a' + i)), Algorithm: "spiral", CreatedAt: base.Add(time.Duration(i) * time.Minute)}); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := s.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent() failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Recent(3) returned %d entries", len(entries))
	}
	for i, want := range []string{"e", "d", "c"} {
		if entries[i].Source != want {
			t.Errorf("entries[%d].Source = %q, want %q", i, entries[i].Source, want)
		}
	}

	all, _ := s.Recent(ctx, 0)
	if len(all) != 5 {
		t.Errorf("Recent(0) returned %d entries, want 5", len(all))
	}
}

func TestClear(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	for range 3 {
		if _, err := s.Record(ctx, Entry{Source: "x", Algorithm: "rows"}); err != nil {
			t.Fatal(err)
		}
	}
	n, err := s.Clear(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("Clear() = %d, want 3", n)
	}
	if entries, _ := s.Recent(ctx, 10); len(entries) != 0 {
		t.Errorf("Recent() after Clear = %d entries", len(entries))
	}
}

func TestInMemory(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if _, err := s.Record(context.Background(), Entry{Source: "mem", Algorithm: "spiral"}); err != nil {
		t.Fatal(err)
	}
	entries, err := s.Recent(context.Background(), 1)
	if err != nil || len(entries) != 1 {
		t.Fatalf("Recent() = %v, %v", entries, err)
	}
}
