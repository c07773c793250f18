// Package speaker runs the speech worker loop: one goroutine that owns
// the TTS engine, drains the item queue in order, and speaks or saves
// each line until the input ends or shutdown is requested.
package speaker

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/dgnsrekt/sayline/internal/audio"
	"github.com/dgnsrekt/sayline/internal/cache"
	"github.com/dgnsrekt/sayline/internal/queue"
	"github.com/dgnsrekt/sayline/tts"
)

// Config holds the per-run worker settings.
type Config struct {
	// Engine settings passed to Engine.Initialize.
	Engine tts.EngineConfig

	// OutputPath, when set, renders each item to a WAV file instead of
	// playing it. Item n > 1 gets a numbered sibling of the path.
	OutputPath string

	// Interval paces items: at most one item per interval.
	Interval time.Duration

	// Echo prints each item to Out before speaking it.
	Echo bool

	// Out is where echoed items go. Defaults to os.Stdout.
	Out io.Writer

	// Style renders an echoed line, e.g. with terminal colors.
	Style func(string) string
}

// Stats summarizes one worker run.
type Stats struct {
	Spoken  int
	Saved   int
	Skipped int
}

// Worker owns the engine and player for the duration of one run. The
// engine is acquired inside Run and released on every exit path; no
// other goroutine may touch it.
type Worker struct {
	engine tts.Engine
	player audio.Player
	cache  *cache.DiskCache // optional
	queue  *queue.Queue
	config Config

	// stopRequested latches true once and is checked between items.
	stopRequested atomic.Bool

	mu    sync.Mutex
	stats Stats
}

// NewWorker wires a worker. cache may be nil to disable caching.
func NewWorker(engine tts.Engine, player audio.Player, c *cache.DiskCache, q *queue.Queue, config Config) *Worker {
	if config.Out == nil {
		config.Out = os.Stdout
	}
	return &Worker{
		engine: engine,
		player: player,
		cache:  c,
		queue:  q,
		config: config,
	}
}

// RequestStop latches the shutdown flag. The worker finishes the item in
// flight and then exits; the flag is never reset within a run.
func (w *Worker) RequestStop() {
	w.stopRequested.Store(true)
}

// Stats returns a snapshot of the run statistics.
func (w *Worker) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Run executes the speech worker loop. It returns a *tts.InitError when
// the engine cannot be acquired; per-item synthesis failures are logged
// and skipped. Cancelling ctx requests cooperative shutdown.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.engine.Initialize(w.config.Engine); err != nil {
		return tts.NewInitError(w.engine.Name(), err)
	}
	defer func() {
		if err := w.engine.Shutdown(); err != nil {
			log.Warn("engine shutdown failed", "engine", w.engine.Name(), "error", err)
		}
	}()

	w.player.SetVolume(w.config.Engine.Volume)

	// Cancellation must also unblock a Dequeue that is waiting on a live
	// source with no pending items.
	stop := context.AfterFunc(ctx, func() {
		w.RequestStop()
		w.queue.Close()
	})
	defer stop()

	var limiter *rate.Limiter
	if w.config.Interval > 0 {
		limiter = rate.NewLimiter(rate.Every(w.config.Interval), 1)
	}

	index := 0
	for {
		if w.stopRequested.Load() {
			log.Info("shutdown requested, stopping speech worker")
			break
		}

		item, ok := w.queue.Dequeue()
		if !ok {
			break
		}
		if w.stopRequested.Load() {
			log.Info("shutdown requested, stopping speech worker")
			break
		}

		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				break
			}
		}

		index++
		w.echo(item)

		if err := w.processItem(index, item); err != nil {
			if !tts.IsRecoverable(err) {
				return err
			}
			log.Warn("skipping item", "index", index, "error", err)
			w.mu.Lock()
			w.stats.Skipped++
			w.mu.Unlock()
		}
	}
	return nil
}

// processItem synthesizes one item and either saves or plays it.
func (w *Worker) processItem(index int, text string) error {
	a, err := w.synthesize(text)
	if err != nil {
		return err
	}

	if w.config.OutputPath != "" {
		path := outputPath(w.config.OutputPath, index)
		if err := audio.WriteWAVFile(path, a); err != nil {
			return err
		}
		log.Info("saved audio", "path", path, "duration", a.Duration.Round(time.Millisecond))
		w.mu.Lock()
		w.stats.Saved++
		w.mu.Unlock()
		return nil
	}

	if err := w.player.Play(a); err != nil {
		return fmt.Errorf("playback failed: %w", err)
	}
	w.mu.Lock()
	w.stats.Spoken++
	w.mu.Unlock()
	return nil
}

// synthesize runs the engine, going through the cache when enabled.
func (w *Worker) synthesize(text string) (*tts.Audio, error) {
	var key string
	if w.cache != nil {
		key = cache.Key(w.engine.Name(), w.config.Engine.Voice, w.config.Engine.Rate, text)
		if a, ok := w.cache.Get(key); ok {
			log.Debug("cache hit", "key", key[:8])
			return a, nil
		}
	}

	a, err := w.engine.Synthesize(text)
	if err != nil {
		return nil, tts.NewSynthesisError(w.engine.Name(), text, err)
	}

	if w.cache != nil {
		if err := w.cache.Put(key, a); err != nil {
			log.Warn("failed to cache audio", "error", err)
		}
	}
	return a, nil
}

// echo prints the item before it is spoken.
func (w *Worker) echo(item string) {
	if !w.config.Echo {
		return
	}
	line := item
	if w.config.Style != nil {
		line = w.config.Style(item)
	}
	fmt.Fprintln(w.config.Out, line)
}

// outputPath numbers sibling files past the first item so every item maps
// to exactly one file.
func outputPath(base string, index int) string {
	if index <= 1 {
		return base
	}
	ext := filepath.Ext(base)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(base, ext), index, ext)
}
