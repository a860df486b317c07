package agent

import (
	"context"
	"sync"
	"time"

	"wellness-ai-agent/pkg/logx"
)

// Pacer enforces a minimum spacing between consecutive outbound model
// calls, process-wide. Its entire purpose is to throttle the total call
// rate regardless of which request triggered it, so the last-call
// timestamp is shared state guarded by a mutex.
type Pacer struct {
	mu       sync.Mutex
	last     time.Time
	interval time.Duration
}

func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{interval: interval}
}

// Wait blocks until at least the configured interval has passed since the
// previous call, or the context is cancelled. The slot is claimed before
// sleeping so concurrent callers queue up rather than stampede.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil || p.interval <= 0 {
		return nil
	}

	p.mu.Lock()
	now := time.Now()
	next := p.last.Add(p.interval)
	if next.Before(now) {
		next = now
	}
	p.last = next
	p.mu.Unlock()

	wait := time.Until(next)
	if wait <= 0 {
		return nil
	}
	logx.Debug().Dur("wait", wait).Msg("rate limiting outbound model call")

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
