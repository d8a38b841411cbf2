// Package events allows goroutines to register for and receive the
// event messages the chain emits while it runs.
package events

import (
	"fmt"
	"sync"
)

// messageBuffer gives a slow receiver room before messages are dropped.
// A websocket send can take a while.
const messageBuffer = 100

// Events maintains a mapping of unique ids and channels so goroutines
// can register for and receive events.
type Events struct {
	mu          sync.RWMutex
	subscribers map[string]chan string
}

// New constructs an Events value for registering and receiving events.
func New() *Events {
	return &Events{
		subscribers: make(map[string]chan string),
	}
}

// Acquire takes a unique id and returns a channel that can be used to
// receive events. Calling Acquire twice with the same id returns the
// same channel.
func (evt *Events) Acquire(id string) chan string {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.subscribers[id]
	if exists {
		return ch
	}

	evt.subscribers[id] = make(chan string, messageBuffer)
	return evt.subscribers[id]
}

// Release closes and removes the channel that was provided by the call
// to Acquire.
func (evt *Events) Release(id string) error {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	ch, exists := evt.subscribers[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(evt.subscribers, id)
	close(ch)

	return nil
}

// Send formats a message and delivers it to every registered channel.
// Send does not block waiting for a receiver on any given channel; a
// subscriber with a full buffer misses the message.
func (evt *Events) Send(v string, args ...any) {
	evt.mu.RLock()
	defer evt.mu.RUnlock()

	s := fmt.Sprintf(v, args...)

	for _, ch := range evt.subscribers {
		select {
		case ch <- s:
		default:
		}
	}
}

// Shutdown closes and removes all channels that were provided by calls
// to Acquire.
func (evt *Events) Shutdown() {
	evt.mu.Lock()
	defer evt.mu.Unlock()

	for id, ch := range evt.subscribers {
		delete(evt.subscribers, id)
		close(ch)
	}
}
