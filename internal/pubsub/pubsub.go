// Package pubsub provides a small typed publisher for run event streams. It
// trades delivery guarantees for liveness: a subscriber that stops draining
// its channel loses events rather than stalling the run.
package pubsub

import "sync"

const DefaultSubscriberBufSize = 64

type Publisher[T any] struct {
	mu     sync.Mutex
	subs   map[chan T]struct{}
	closed bool
}

func NewPublisher[T any]() *Publisher[T] {
	return &Publisher[T]{subs: make(map[chan T]struct{})}
}

// Subscribe registers a new buffered receiver. Subscribing to a closed
// publisher yields an already-closed channel.
func (p *Publisher[T]) Subscribe() <-chan T {
	return p.SubscribeBufSize(DefaultSubscriberBufSize)
}

func (p *Publisher[T]) SubscribeBufSize(bufSize int) <-chan T {
	ch := make(chan T, bufSize)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		close(ch)
		return ch
	}
	p.subs[ch] = struct{}{}
	return ch
}

// Publish sends the value to every subscriber without blocking; subscribers
// with full buffers miss this value.
func (p *Publisher[T]) Publish(v T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	for ch := range p.subs {
		select {
		case ch <- v:
		default:
		}
	}
}

// Close idempotently shuts down the publisher, closing all subscriber
// channels once any buffered events have been drained by their receivers.
func (p *Publisher[T]) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	for ch := range p.subs {
		close(ch)
		delete(p.subs, ch)
	}
}
