package speaker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/dgnsrekt/sayline/internal/queue"
)

// FeedSlice enqueues a fixed list of items and closes the queue. This is
// the one-shot source.
func FeedSlice(q *queue.Queue, items []string) {
	defer q.Close()
	for _, item := range items {
		if err := q.Enqueue(item); err != nil {
			return
		}
	}
}

// FeedReader enqueues lines read from r until EOF, then closes the queue.
// Blank lines are dropped; there is nothing to speak in them.
func FeedReader(ctx context.Context, q *queue.Queue, r io.Reader) error {
	defer q.Close()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := q.Enqueue(line); err != nil {
			if errors.Is(err, queue.ErrQueueClosed) {
				return nil
			}
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("unable to read input: %w", err)
	}
	return nil
}

// FeedFile tails path, enqueueing lines appended to it, until ctx is
// cancelled. Existing content is skipped; only new lines are spoken.
func FeedFile(ctx context.Context, q *queue.Queue, path string) error {
	defer q.Close()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("unable to open file: %w", err)
	}
	defer f.Close() //nolint:errcheck

	offset, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return fmt.Errorf("unable to seek: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("unable to create watcher: %w", err)
	}
	defer watcher.Close() //nolint:errcheck

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("unable to watch file: %w", err)
	}

	log.Debug("following file", "path", path, "offset", offset)

	// Partial trailing line carried between reads.
	var pending strings.Builder

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				log.Warn("followed file went away", "path", path)
				return nil
			}
			if !event.Has(fsnotify.Write) {
				continue
			}

			// Truncation rewinds to the new end of file.
			info, err := f.Stat()
			if err != nil {
				return fmt.Errorf("unable to stat file: %w", err)
			}
			if info.Size() < offset {
				offset = info.Size()
				if _, err := f.Seek(offset, io.SeekStart); err != nil {
					return fmt.Errorf("unable to seek: %w", err)
				}
				pending.Reset()
				continue
			}

			n, err := feedNewData(f, q, &pending)
			offset += n
			if err != nil {
				if errors.Is(err, queue.ErrQueueClosed) {
					return nil
				}
				return err
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watcher error", "error", err)
		}
	}
}

// feedNewData reads everything currently available from f and enqueues the
// complete lines, keeping any trailing partial line in pending.
func feedNewData(f *os.File, q *queue.Queue, pending *strings.Builder) (int64, error) {
	var total int64
	buf := make([]byte, 32*1024)
	for {
		n, err := f.Read(buf)
		total += int64(n)
		if n > 0 {
			pending.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, fmt.Errorf("unable to read file: %w", err)
		}
	}

	text := pending.String()
	pending.Reset()

	for {
		idx := strings.IndexByte(text, '\n')
		if idx < 0 {
			pending.WriteString(text)
			return total, nil
		}
		line := strings.TrimRight(text[:idx], "\r")
		text = text[idx+1:]
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := q.Enqueue(line); err != nil {
			return total, err
		}
	}
}
