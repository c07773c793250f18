package speaker

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgnsrekt/sayline/internal/queue"
)

func drain(q *queue.Queue) []string {
	var items []string
	for {
		item, ok := q.Dequeue()
		if !ok {
			return items
		}
		items = append(items, item)
	}
}

// TestFeedSliceOrderAndClose checks that the one-shot source preserves
// order and closes the queue.
func TestFeedSliceOrderAndClose(t *testing.T) {
	q := queue.New(4)
	go FeedSlice(q, []string{"a", "b", "c"})

	got := drain(q)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Item %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	if !q.Closed() {
		t.Error("Expected queue closed after slice source finished")
	}
}

// TestFeedReaderSkipsBlankLines checks line splitting and blank filtering.
func TestFeedReaderSkipsBlankLines(t *testing.T) {
	q := queue.New(8)
	input := "first line\n\n  \nsecond line\r\nthird line"

	go func() {
		if err := FeedReader(context.Background(), q, strings.NewReader(input)); err != nil {
			t.Errorf("FeedReader failed: %v", err)
		}
	}()

	got := drain(q)
	want := []string{"first line", "second line", "third line"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Line %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

// TestFeedReaderStopsWhenQueueCloses checks that a closed queue ends the
// source instead of erroring.
func TestFeedReaderStopsWhenQueueCloses(t *testing.T) {
	q := queue.New(1)
	q.Close()

	err := FeedReader(context.Background(), q, strings.NewReader("line\n"))
	if err != nil {
		t.Errorf("Expected nil after queue close, got %v", err)
	}
}

// TestFeedFileSpeaksAppendedLines checks the follow source picks up lines
// appended after it starts and ignores pre-existing content.
func TestFeedFileSpeaksAppendedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "followed.log")
	if err := os.WriteFile(path, []byte("old line\n"), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	q := queue.New(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srcDone := make(chan error, 1)
	go func() {
		srcDone <- FeedFile(ctx, q, path)
	}()

	// Let the watcher attach before appending.
	time.Sleep(100 * time.Millisecond)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open for append failed: %v", err)
	}
	if _, err := f.WriteString("new line one\nnew line two\n"); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	f.Close()

	want := []string{"new line one", "new line two"}
	for i, expected := range want {
		got := make(chan string, 1)
		go func() {
			if item, ok := q.Dequeue(); ok {
				got <- item
			}
		}()
		select {
		case item := <-got:
			if item != expected {
				t.Errorf("Line %d: expected %q, got %q", i, expected, item)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("Timed out waiting for appended line %d", i)
		}
	}

	cancel()
	select {
	case err := <-srcDone:
		if err != nil {
			t.Errorf("FeedFile failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("FeedFile did not stop after cancellation")
	}
}
