package history

import (
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"
)

// Watcher reloads the store when the state database file changes on disk,
// e.g. when another cmdeck process records a use. Events are rate-limited:
// SQLite in WAL mode touches the file several times per write.
type Watcher struct {
	store    *Store
	fsw      *fsnotify.Watcher
	limiter  *rate.Limiter
	reloadCh chan struct{}

	closeCh   chan struct{}
	closeOnce sync.Once

	// Tracks when this process saved, to ignore self-triggered changes.
	saveMu   sync.RWMutex
	lastSave time.Time
}

// ignoreWindow is the time window after NotifySave during which file events
// are treated as self-triggered and dropped.
const ignoreWindow = 2 * time.Second

// NewWatcher watches dbPath for external modifications. The returned
// watcher signals ReloadChannel after each reload so the UI can re-score.
func NewWatcher(store *Store, dbPath string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dbPath); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{
		store:    store,
		fsw:      fsw,
		limiter:  rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		reloadCh: make(chan struct{}, 1),
		closeCh:  make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// NotifySave marks a local write so the watcher does not reload in response
// to our own persistence.
func (w *Watcher) NotifySave() {
	w.saveMu.Lock()
	w.lastSave = time.Now()
	w.saveMu.Unlock()
}

// ReloadChannel receives one signal per completed external reload.
func (w *Watcher) ReloadChannel() <-chan struct{} {
	return w.reloadCh
}

// Close stops the watcher. Safe to call multiple times.
func (w *Watcher) Close() {
	w.closeOnce.Do(func() {
		close(w.closeCh)
		_ = w.fsw.Close()
	})
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.closeCh:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.handleChange()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warn("watch_error", slog.String("error", err.Error()))
		}
	}
}

func (w *Watcher) handleChange() {
	w.saveMu.RLock()
	selfSave := time.Since(w.lastSave) < ignoreWindow
	w.saveMu.RUnlock()
	if selfSave {
		return
	}
	if !w.limiter.Allow() {
		return
	}

	if err := w.store.Reload(); err != nil {
		log.Warn("reload_failed", slog.String("error", err.Error()))
		return
	}
	// Non-blocking send (drop if consumer hasn't read yet)
	select {
	case w.reloadCh <- struct{}{}:
	default:
	}
}
