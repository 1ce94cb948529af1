package sse

import (
	"context"
	"io"
	"log"
	"sync"
	"time"
)

type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	StatusError        Status = "error"
)

// StreamOpener opens the upstream event stream for a named channel.
type StreamOpener interface {
	OpenStream(ctx context.Context, channel string) (io.ReadCloser, error)
}

// KeepAlive is probed periodically while a stream is connected.
type KeepAlive interface {
	Ping(ctx context.Context) error
}

const (
	defaultRetryDelay        = 5 * time.Second
	defaultKeepAliveInterval = 5 * time.Second
)

// Subscription owns the full lifecycle of one logical stream: at most one
// live connection, at most one pending reconnect timer, and a keep-alive
// probe that runs only while connected. Close is final; no reconnect fires
// after teardown.
type Subscription struct {
	channel   string
	opener    StreamOpener
	handler   func(Event)
	onStatus  func(Status)
	keepAlive KeepAlive

	retryDelay        time.Duration
	keepAliveInterval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	retry  *time.Timer
	status Status
	closed bool
	gen    int
}

type Option func(*Subscription)

// WithKeepAlive probes ka every interval while the stream is connected.
func WithKeepAlive(ka KeepAlive, interval time.Duration) Option {
	return func(s *Subscription) {
		s.keepAlive = ka
		s.keepAliveInterval = interval
	}
}

// WithRetryDelay overrides the fixed reconnect delay.
func WithRetryDelay(d time.Duration) Option {
	return func(s *Subscription) { s.retryDelay = d }
}

// WithStatusFunc registers a status-change callback. It is invoked with the
// subscription lock held and must not call back into the subscription.
func WithStatusFunc(fn func(Status)) Option {
	return func(s *Subscription) { s.onStatus = fn }
}

func NewSubscription(channel string, opener StreamOpener, handler func(Event), opts ...Option) *Subscription {
	s := &Subscription{
		channel:           channel,
		opener:            opener,
		handler:           handler,
		retryDelay:        defaultRetryDelay,
		keepAliveInterval: defaultKeepAliveInterval,
		status:            StatusDisconnected,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens the stream, first closing any prior connection and pending
// retry so the same logical subscriber never holds two connections.
func (s *Subscription) Start() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.retry != nil {
		s.retry.Stop()
		s.retry = nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.gen++
	gen := s.gen
	s.setStatusLocked(StatusConnecting)
	s.mu.Unlock()

	go s.run(ctx, gen)
}

func (s *Subscription) run(ctx context.Context, gen int) {
	body, err := s.opener.OpenStream(ctx, s.channel)
	if err != nil {
		log.Printf("sse: open %s: %v", s.channel, err)
		s.connectionLost(gen)
		return
	}
	defer body.Close()

	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.setStatusLocked(StatusConnected)
	s.mu.Unlock()

	// Unblock the decoder when the connection is torn down.
	go func() {
		<-ctx.Done()
		body.Close()
	}()

	s.runKeepAlive(ctx)

	dec := NewDecoder(body)
	for {
		ev, err := dec.Next()
		if err != nil {
			if ctx.Err() != nil {
				return // deliberate close, not a transport failure
			}
			if err != io.EOF {
				log.Printf("sse: read %s: %v", s.channel, err)
			}
			s.connectionLost(gen)
			return
		}
		s.handler(ev)
	}
}

func (s *Subscription) runKeepAlive(ctx context.Context) {
	if s.keepAlive == nil {
		return
	}
	go func() {
		t := time.NewTicker(s.keepAliveInterval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if err := s.keepAlive.Ping(ctx); err != nil && ctx.Err() == nil {
					log.Printf("sse: keep-alive %s: %v", s.channel, err)
				}
			}
		}
	}()
}

// connectionLost marks the subscription errored and schedules one retry.
// The generation guard keeps a stale connection's goroutine from touching
// state after a newer Start, and the nil check on the timer guarantees two
// back-to-back failures never stack a second retry.
func (s *Subscription) connectionLost(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		return
	}
	s.setStatusLocked(StatusError)
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.retry != nil {
		return
	}
	s.retry = time.AfterFunc(s.retryDelay, func() {
		s.mu.Lock()
		s.retry = nil
		closed := s.closed
		s.mu.Unlock()
		if !closed {
			s.Start()
		}
	})
}

// Close tears down the connection and any pending retry. Idempotent.
func (s *Subscription) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	if s.retry != nil {
		s.retry.Stop()
		s.retry = nil
	}
	s.setStatusLocked(StatusDisconnected)
}

func (s *Subscription) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Subscription) setStatusLocked(st Status) {
	if s.status == st {
		return
	}
	s.status = st
	if s.onStatus != nil {
		s.onStatus(st)
	}
}
