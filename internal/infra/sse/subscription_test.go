package sse

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeOpener scripts the outcome of each OpenStream call. A nil entry
// means "fail"; a non-nil entry is handed out as the stream body. Once
// the script is exhausted the last entry repeats.
type fakeOpener struct {
	mu      sync.Mutex
	script  []func() (io.ReadCloser, error)
	opens   int
	channel string
}

func (f *fakeOpener) OpenStream(ctx context.Context, channel string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channel = channel
	i := f.opens
	f.opens++
	if i >= len(f.script) {
		i = len(f.script) - 1
	}
	return f.script[i]()
}

func (f *fakeOpener) openCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens
}

func failOpen() (io.ReadCloser, error) {
	return nil, errors.New("connection refused")
}

// trackedPipe is a blocking stream body that records whether it was closed.
type trackedPipe struct {
	r      *io.PipeReader
	w      *io.PipeWriter
	closed chan struct{}
	once   sync.Once
}

func newTrackedPipe() *trackedPipe {
	r, w := io.Pipe()
	return &trackedPipe{r: r, w: w, closed: make(chan struct{})}
}

func (p *trackedPipe) Read(b []byte) (int, error) { return p.r.Read(b) }

func (p *trackedPipe) Close() error {
	p.once.Do(func() { close(p.closed) })
	return p.r.Close()
}

func (p *trackedPipe) serve() (io.ReadCloser, error) { return p, nil }

func statusRecorder(buf int) (func(Status), chan Status) {
	ch := make(chan Status, buf)
	return func(st Status) {
		select {
		case ch <- st:
		default:
		}
	}, ch
}

func waitStatus(t *testing.T, ch chan Status, want Status) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case st := <-ch:
			if st == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for status %q", want)
		}
	}
}

func TestSubscription_DeliversEvents(t *testing.T) {
	pipe := newTrackedPipe()
	opener := &fakeOpener{script: []func() (io.ReadCloser, error){pipe.serve}}

	events := make(chan Event, 8)
	onStatus, statuses := statusRecorder(8)

	sub := NewSubscription("new-orders", opener, func(ev Event) { events <- ev }, WithStatusFunc(onStatus))
	defer sub.Close()

	sub.Start()
	waitStatus(t, statuses, StatusConnected)
	assert.Equal(t, "new-orders", opener.channel)

	go pipe.w.Write([]byte("event: orderCreated\ndata: {\"id\":7}\n\n"))

	select {
	case ev := <-events:
		assert.Equal(t, "orderCreated", ev.Name)
		assert.Equal(t, `{"id":7}`, ev.Data)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestSubscription_RestartKeepsSingleConnection(t *testing.T) {
	first := newTrackedPipe()
	second := newTrackedPipe()
	opener := &fakeOpener{script: []func() (io.ReadCloser, error){first.serve, second.serve}}

	onStatus, statuses := statusRecorder(16)
	sub := NewSubscription("new-orders", opener, func(Event) {}, WithStatusFunc(onStatus))
	defer sub.Close()

	sub.Start()
	waitStatus(t, statuses, StatusConnected)

	sub.Start()
	waitStatus(t, statuses, StatusConnected)

	select {
	case <-first.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("first connection was not closed by the second Start")
	}
	assert.Equal(t, 2, opener.openCount())

	select {
	case <-second.closed:
		t.Fatal("second connection should still be live")
	default:
	}
}

func TestSubscription_ReconnectsAfterFailure(t *testing.T) {
	pipe := newTrackedPipe()
	opener := &fakeOpener{script: []func() (io.ReadCloser, error){failOpen, pipe.serve}}

	onStatus, statuses := statusRecorder(16)
	sub := NewSubscription("new-orders", opener, func(Event) {},
		WithStatusFunc(onStatus), WithRetryDelay(10*time.Millisecond))
	defer sub.Close()

	sub.Start()
	waitStatus(t, statuses, StatusError)
	waitStatus(t, statuses, StatusConnected)
	assert.Equal(t, 2, opener.openCount())
}

func TestSubscription_SinglePendingRetry(t *testing.T) {
	opener := &fakeOpener{script: []func() (io.ReadCloser, error){failOpen}}

	sub := NewSubscription("new-orders", opener, func(Event) {}, WithRetryDelay(time.Hour))
	defer sub.Close()

	sub.Start()

	deadline := time.After(2 * time.Second)
	for {
		sub.mu.Lock()
		pending := sub.retry != nil
		sub.mu.Unlock()
		if pending {
			break
		}
		select {
		case <-deadline:
			t.Fatal("retry was never scheduled")
		case <-time.After(time.Millisecond):
		}
	}

	sub.mu.Lock()
	timer := sub.retry
	gen := sub.gen
	sub.mu.Unlock()

	// A second failure report for the same generation must not stack
	// another timer.
	sub.connectionLost(gen)

	sub.mu.Lock()
	assert.Same(t, timer, sub.retry)
	sub.mu.Unlock()
	assert.Equal(t, 1, opener.openCount())
}

func TestSubscription_StaleGenerationIgnored(t *testing.T) {
	pipe := newTrackedPipe()
	opener := &fakeOpener{script: []func() (io.ReadCloser, error){pipe.serve}}

	onStatus, statuses := statusRecorder(16)
	sub := NewSubscription("new-orders", opener, func(Event) {},
		WithStatusFunc(onStatus), WithRetryDelay(time.Hour))
	defer sub.Close()

	sub.Start()
	waitStatus(t, statuses, StatusConnected)

	sub.mu.Lock()
	gen := sub.gen
	sub.mu.Unlock()

	sub.connectionLost(gen - 1)

	assert.Equal(t, StatusConnected, sub.Status())
	sub.mu.Lock()
	assert.Nil(t, sub.retry)
	sub.mu.Unlock()
}

func TestSubscription_NoReconnectAfterClose(t *testing.T) {
	opener := &fakeOpener{script: []func() (io.ReadCloser, error){failOpen}}

	onStatus, statuses := statusRecorder(16)
	sub := NewSubscription("new-orders", opener, func(Event) {},
		WithStatusFunc(onStatus), WithRetryDelay(5*time.Millisecond))

	sub.Start()
	waitStatus(t, statuses, StatusError)

	sub.Close()
	opens := opener.openCount()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, opens, opener.openCount())
	assert.Equal(t, StatusDisconnected, sub.Status())

	// Start after Close is a no-op.
	sub.Start()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, opens, opener.openCount())
}

type pingCounter struct {
	mu    sync.Mutex
	count int
}

func (p *pingCounter) Ping(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.count++
	return nil
}

func (p *pingCounter) pings() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

func TestSubscription_KeepAliveRunsWhileConnected(t *testing.T) {
	pipe := newTrackedPipe()
	opener := &fakeOpener{script: []func() (io.ReadCloser, error){pipe.serve}}
	ka := &pingCounter{}

	onStatus, statuses := statusRecorder(16)
	sub := NewSubscription("new-orders", opener, func(Event) {},
		WithStatusFunc(onStatus), WithKeepAlive(ka, 5*time.Millisecond))

	sub.Start()
	waitStatus(t, statuses, StatusConnected)

	deadline := time.After(2 * time.Second)
	for ka.pings() == 0 {
		select {
		case <-deadline:
			t.Fatal("keep-alive never pinged")
		case <-time.After(time.Millisecond):
		}
	}

	sub.Close()
	time.Sleep(20 * time.Millisecond)
	after := ka.pings()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, ka.pings())
}
