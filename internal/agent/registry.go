package agent

import (
	"context"
	"fmt"
	"sync"
)

// Registry tracks the running loop per user and owns their cancellation.
// Safe for concurrent use.
type Registry struct {
	mu      sync.Mutex
	running map[string]*handle
}

type handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{running: make(map[string]*handle)}
}

// Start launches the loop for a user in its own goroutine. Starting a user
// who already has a running loop is an error.
func (r *Registry) Start(ctx context.Context, user string, loop *Loop) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.running[user]; ok {
		return fmt.Errorf("agent already running for %s", user)
	}

	loopCtx, cancel := context.WithCancel(ctx)
	h := &handle{cancel: cancel, done: make(chan struct{})}
	r.running[user] = h

	go func() {
		defer close(h.done)
		loop.Run(loopCtx)

		r.mu.Lock()
		if r.running[user] == h {
			delete(r.running, user)
		}
		r.mu.Unlock()
	}()

	return nil
}

// Stop cancels a user's loop and waits for it to exit. Returns false when no
// loop was running for the user.
func (r *Registry) Stop(user string) bool {
	r.mu.Lock()
	h, ok := r.running[user]
	r.mu.Unlock()
	if !ok {
		return false
	}

	h.cancel()
	<-h.done
	return true
}

// StopAll cancels every running loop and waits for all of them to exit.
func (r *Registry) StopAll() {
	r.mu.Lock()
	handles := make([]*handle, 0, len(r.running))
	for _, h := range r.running {
		handles = append(handles, h)
	}
	r.mu.Unlock()

	for _, h := range handles {
		h.cancel()
	}
	for _, h := range handles {
		<-h.done
	}
}

// Running returns the number of active loops.
func (r *Registry) Running() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.running)
}

// IsRunning reports whether a loop is active for the user.
func (r *Registry) IsRunning(user string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.running[user]
	return ok
}
