package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/staynest/auction-service/internal/domain"
	"github.com/staynest/auction-service/internal/infrastructure/metrics"
)

// Gateway records every outbound call and can be told to fail selectively.
// Transfer failures are keyed by recipient so one leg of a disbursement can
// fail while the others complete.
type Gateway struct {
	mu sync.Mutex

	AuthorizeCalls []domain.AuthorizeRequest
	CaptureCalls   []domain.CaptureRequest
	TransferCalls  []domain.TransferRequest
	RefundCalls    []domain.RefundRequest

	AuthorizeErr   error
	CaptureErr     error
	RefundErr      error
	TransferErrFor map[string]error

	// OnCapture runs after a successful capture is recorded, letting a test
	// interleave state changes between the capture and its follow-up writes.
	OnCapture func()
}

func (g *Gateway) Authorize(_ context.Context, req domain.AuthorizeRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.AuthorizeCalls = append(g.AuthorizeCalls, req)
	if g.AuthorizeErr != nil {
		return "", g.AuthorizeErr
	}
	return fmt.Sprintf("auth-%d", len(g.AuthorizeCalls)), nil
}

func (g *Gateway) Capture(_ context.Context, req domain.CaptureRequest) (string, string, error) {
	g.mu.Lock()
	g.CaptureCalls = append(g.CaptureCalls, req)
	captureErr := g.CaptureErr
	n := len(g.CaptureCalls)
	hook := g.OnCapture
	g.mu.Unlock()
	if captureErr != nil {
		return "", "", captureErr
	}
	if hook != nil {
		hook()
	}
	return fmt.Sprintf("gwpay-%d", n), `{"result":"captured"}`, nil
}

func (g *Gateway) Transfer(_ context.Context, req domain.TransferRequest) (string, string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.TransferCalls = append(g.TransferCalls, req)
	if err := g.TransferErrFor[req.RecipientID]; err != nil {
		return "", "", err
	}
	return fmt.Sprintf("transfer-%d", len(g.TransferCalls)), `{"result":"transferred"}`, nil
}

func (g *Gateway) Refund(_ context.Context, req domain.RefundRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.RefundCalls = append(g.RefundCalls, req)
	if g.RefundErr != nil {
		return "", g.RefundErr
	}
	return fmt.Sprintf("refund-%d", len(g.RefundCalls)), nil
}

// Transfers returns a snapshot of the transfer calls. Disbursement runs
// transfers from goroutines, so tests read through the lock.
func (g *Gateway) Transfers() []domain.TransferRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]domain.TransferRequest, len(g.TransferCalls))
	copy(out, g.TransferCalls)
	return out
}

// Publisher collects published events in order.
type Publisher struct {
	mu     sync.Mutex
	Events []domain.AuctionEvent
	Err    error
}

func (p *Publisher) PublishAuctionEvent(_ context.Context, event domain.AuctionEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Events = append(p.Events, event)
	return nil
}

// CountOf reports how many events of the given type were published.
func (p *Publisher) CountOf(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.Events {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

// ManualClock is a settable clock for exercising deadlines and windows.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewManualClock(now time.Time) *ManualClock {
	return &ManualClock{now: now}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var (
	metricsOnce   sync.Once
	sharedMetrics *metrics.AuctionMetrics
)

// Metrics returns a process-wide metrics instance. The vectors register in
// the default Prometheus registry, so constructing a second set in the same
// test binary would panic.
func Metrics() *metrics.AuctionMetrics {
	metricsOnce.Do(func() {
		sharedMetrics = metrics.NewAuctionMetrics()
	})
	return sharedMetrics
}
