package viewer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tOgg1/reel/internal/events"
	"github.com/tOgg1/reel/internal/gesture"
	"github.com/tOgg1/reel/internal/logging"
	"github.com/tOgg1/reel/internal/navigator"
)

// Viewer errors.
var (
	ErrViewerRunning = errors.New("viewer already running")
	ErrViewerStopped = errors.New("viewer not running")
)

// DefaultTickInterval is the frame and timer poll interval.
const DefaultTickInterval = 16 * time.Millisecond

// Viewer owns a Session and serializes every input through one FIFO,
// drained by a single consumer goroutine. Inputs return as soon as they are
// queued; their effects are observable through Snapshot and subscriptions.
type Viewer struct {
	session  *Session
	interval time.Duration
	logger   zerolog.Logger

	mu       sync.Mutex
	running  bool
	run      uint64
	queue    []func(*Session)
	snapshot navigator.State
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	wake chan struct{}
}

// New builds a Viewer over a new Session. A non-positive interval uses
// DefaultTickInterval.
func New(opts Options, interval time.Duration) (*Viewer, error) {
	session, err := NewSession(opts)
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	logger := logging.Component("viewer-loop")
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Viewer{
		session:  session,
		interval: interval,
		logger:   logger,
		snapshot: session.State(),
		wake:     make(chan struct{}, 1),
	}, nil
}

// Start launches the consumer loop. It returns ErrViewerRunning if the loop
// is already running.
func (v *Viewer) Start(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.running {
		return ErrViewerRunning
	}
	ctx, v.cancel = context.WithCancel(ctx)
	v.running = true
	v.run++

	v.logger.Debug().Dur("tick_interval", v.interval).Msg("viewer loop starting")
	v.wg.Add(1)
	go v.runLoop(ctx, v.run)
	return nil
}

// Stop halts the consumer loop and waits for it to exit. Queued inputs that
// were not yet folded are dropped. It returns ErrViewerStopped once the loop
// has stopped, including when the Start context was cancelled.
func (v *Viewer) Stop() error {
	v.mu.Lock()
	if !v.running {
		v.mu.Unlock()
		return ErrViewerStopped
	}
	v.cancel()
	v.running = false
	v.mu.Unlock()

	v.wg.Wait()

	v.mu.Lock()
	dropped := len(v.queue)
	v.queue = nil
	v.mu.Unlock()
	v.logger.Debug().Int("dropped", dropped).Msg("viewer loop stopped")
	return nil
}

// IsRunning reports whether the consumer loop is running.
func (v *Viewer) IsRunning() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.running
}

// Snapshot returns the state after the most recent fold.
func (v *Viewer) Snapshot() navigator.State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshot
}

// Show queues a programmatic show(userID).
func (v *Viewer) Show(userID string, animated bool) error {
	return v.enqueue(func(s *Session) { s.Show(userID, animated) })
}

// Pointer queues a raw pointer event.
func (v *Viewer) Pointer(ev gesture.PointerEvent) error {
	return v.enqueue(func(s *Session) { s.Pointer(ev) })
}

// Command queues a programmatic navigation command.
func (v *Viewer) Command(cmd Command) error {
	return v.enqueue(func(s *Session) { s.Command(cmd) })
}

// Close queues a close request.
func (v *Viewer) Close() error {
	return v.enqueue(func(s *Session) { s.Close() })
}

// Resize queues a viewport change.
func (v *Viewer) Resize(geometry navigator.Geometry) error {
	return v.enqueue(func(s *Session) { s.Resize(geometry) })
}

// Subscribe registers a handler. Handlers run on the consumer goroutine and
// must not block.
func (v *Viewer) Subscribe(filter events.Filter, handler events.EventHandler) (string, error) {
	return v.session.Subscribe(filter, handler)
}

// Unsubscribe removes a subscription.
func (v *Viewer) Unsubscribe(id string) error {
	return v.session.Unsubscribe(id)
}

func (v *Viewer) enqueue(step func(*Session)) error {
	v.mu.Lock()
	if !v.running {
		v.mu.Unlock()
		return ErrViewerStopped
	}
	v.queue = append(v.queue, step)
	v.mu.Unlock()

	select {
	case v.wake <- struct{}{}:
	default:
	}
	return nil
}

func (v *Viewer) runLoop(ctx context.Context, run uint64) {
	defer v.wg.Done()
	defer v.halt(run)

	ticker := time.NewTicker(v.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-v.wake:
			v.drain()
		case <-ticker.C:
			v.drain()
			v.session.Tick()
			v.publishSnapshot()
		}
	}
}

// halt marks the viewer stopped when the loop of the given run exits on its
// own, so later inputs are refused instead of queued forever. A newer run
// started after Stop is left alone.
func (v *Viewer) halt(run uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.running || v.run != run {
		return
	}
	v.running = false
	v.cancel()
	if dropped := len(v.queue); dropped > 0 {
		v.logger.Debug().Int("dropped", dropped).Msg("viewer context done")
	}
	v.queue = nil
}

// drain folds every queued input in arrival order.
func (v *Viewer) drain() {
	for {
		v.mu.Lock()
		batch := v.queue
		v.queue = nil
		v.mu.Unlock()

		if len(batch) == 0 {
			return
		}
		for _, step := range batch {
			step(v.session)
		}
		v.publishSnapshot()
	}
}

func (v *Viewer) publishSnapshot() {
	state := v.session.State()
	v.mu.Lock()
	v.snapshot = state
	v.mu.Unlock()
}
