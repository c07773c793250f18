package speaker

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/charmbracelet/log"
)

// Lifecycle translates interrupt and termination signals into context
// cancellation. The worker observes the cancellation between items and
// exits cooperatively; nothing is killed forcibly.
type Lifecycle struct {
	ctx    context.Context
	cancel context.CancelFunc
	sigCh  chan os.Signal
	once   sync.Once
}

// NewLifecycle registers the signal handler and starts monitoring.
func NewLifecycle(parent context.Context) *Lifecycle {
	ctx, cancel := context.WithCancel(parent)
	l := &Lifecycle{
		ctx:    ctx,
		cancel: cancel,
		sigCh:  make(chan os.Signal, 1),
	}

	signal.Notify(l.sigCh, syscall.SIGINT, syscall.SIGTERM)
	go l.monitorSignals()
	return l
}

// Context returns the context cancelled on shutdown.
func (l *Lifecycle) Context() context.Context {
	return l.ctx
}

// Shutdown requests shutdown programmatically. Safe to call more than once.
func (l *Lifecycle) Shutdown() {
	l.once.Do(func() {
		l.cancel()
	})
}

// monitorSignals waits for a signal or programmatic shutdown.
func (l *Lifecycle) monitorSignals() {
	defer signal.Stop(l.sigCh)

	select {
	case sig := <-l.sigCh:
		log.Info("received shutdown signal", "signal", sig)
		l.Shutdown()
	case <-l.ctx.Done():
	}
}
