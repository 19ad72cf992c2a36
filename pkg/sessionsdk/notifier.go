package sessionsdk

import (
	"context"
	"sync"
)

// Subscribe registers a callback invoked with the new snapshot after every
// committed session change. The returned function unsubscribes; it is safe
// to call at any time, from any goroutine, including inside the callback
// itself.
func (m *Manager) Subscribe(fn func(Snapshot)) func() {
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.subMu.Lock()
			defer m.subMu.Unlock()
			delete(m.subs, id)
		})
	}
}

// notify fans a snapshot out to subscribers. Callbacks run without any lock
// held, so they may subscribe or unsubscribe freely; a subscriber removed
// between the copy and its turn is skipped.
func (m *Manager) notify(snap Snapshot) {
	m.subMu.Lock()
	ids := make([]int, 0, len(m.subs))
	for id := range m.subs {
		ids = append(ids, id)
	}
	m.subMu.Unlock()

	for _, id := range ids {
		m.subMu.Lock()
		fn, ok := m.subs[id]
		m.subMu.Unlock()
		if ok {
			fn(snap)
		}
	}
}

// Watch consumes the directory's session change stream, re-deriving the
// session on every reported change. This is how consumers observe external
// sign-outs and token refreshes without polling. Watch blocks until the
// context is cancelled or the stream ends; the caller typically runs it in
// its own goroutine.
func (m *Manager) Watch(ctx context.Context) error {
	events, stop, err := m.directory.Events(ctx)
	if err != nil {
		return err
	}
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case _, ok := <-events:
			if !ok {
				return nil
			}
			m.Restore(ctx)
		}
	}
}
