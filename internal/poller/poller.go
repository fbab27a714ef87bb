package poller

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/preston-bernstein/matchday-service/internal/app/bets"
	"github.com/preston-bernstein/matchday-service/internal/logging"
)

const defaultInterval = 30 * time.Minute

// Sweeper runs one settlement sweep over every user.
type Sweeper interface {
	RunSettlementSweep(ctx context.Context) (bets.SweepReport, error)
}

// Poller runs the settlement sweep on an interval.
type Poller struct {
	sweeper  Sweeper
	logger   *slog.Logger
	interval time.Duration
	now      func() time.Time

	ticker   *time.Ticker
	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the sweep loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
	LastReport          bets.SweepReport
}

// IsReady reports whether the loop has had a recent success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < 3
}

// New constructs a Poller with sane defaults.
func New(sweeper Sweeper, logger *slog.Logger, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		sweeper:  sweeper,
		logger:   logger,
		interval: interval,
		now:      time.Now,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Start begins sweeping until the context is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	ticker := time.NewTicker(p.interval)
	p.ticker = ticker
	p.startMu.Unlock()

	go func() {
		defer close(p.stopped)
		logging.Info(p.logger, "settlement poller started", slog.Int64(logging.FieldDurationMS, p.interval.Milliseconds()))
		// Settle whatever finished while the process was down.
		p.sweepOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				p.stopTicker()
				logging.Info(p.logger, "settlement poller stopped")
				return
			case <-p.done:
				p.stopTicker()
				logging.Info(p.logger, "settlement poller stopped")
				return
			case <-ticker.C:
				p.sweepOnce(ctx)
			}
		}
	}()
}

// Stop halts the loop and waits for a running sweep to finish or ctx to end.
func (p *Poller) Stop(ctx context.Context) error {
	p.stopOnce.Do(func() {
		close(p.done)
		p.stopTicker()
	})

	p.startMu.Lock()
	started := p.started
	p.startMu.Unlock()
	if !started {
		return nil
	}
	select {
	case <-p.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Poller) sweepOnce(ctx context.Context) {
	start := p.now()
	p.recordAttempt(start)
	report, err := p.sweeper.RunSettlementSweep(ctx)
	if err != nil {
		logging.Error(p.logger, "settlement sweep failed", err, slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()))
		p.recordFailure(err, start, nil)
		return
	}
	if report.SourceOutage() {
		err := &bets.Error{Kind: bets.KindSourceUnavailable, Message: "fixture source unavailable for " + strings.Join(report.FailedKeys, ", ")}
		logging.Warn(p.logger, "settlement sweep settled nothing, source unavailable",
			slog.Int(logging.FieldCount, len(report.FailedKeys)),
			slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()),
		)
		p.recordFailure(err, start, &report)
		return
	}
	p.recordSuccess(start, report)
}

func (p *Poller) stopTicker() {
	p.startMu.Lock()
	defer p.startMu.Unlock()
	if p.ticker != nil {
		p.ticker.Stop()
	}
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time, report bets.SweepReport) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
	p.status.LastReport = report
}

func (p *Poller) recordFailure(err error, at time.Time, report *bets.SweepReport) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
	if report != nil {
		p.status.LastReport = *report
	}
}

// Status returns a snapshot of the loop's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}
