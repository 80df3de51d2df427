package services

import (
	"auction-settlement/internal/domain"
	"auction-settlement/pkg/logger"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrPassInProgress = errors.New("settlement pass already in progress")
	ErrNotLeader      = errors.New("instance is not the settlement leader")
)

type passRunner interface {
	RunSettlementPass(ctx context.Context, now time.Time) (*domain.PassResult, error)
}

// PassSummary is the serialisable form of a PassResult.
type PassSummary struct {
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Processed  int               `json:"processed"`
	Sold       int               `json:"sold"`
	Ended      int               `json:"ended"`
	Skipped    int               `json:"skipped"`
	Failed     int               `json:"failed"`
	Errors     map[string]string `json:"errors,omitempty"`
}

func NewPassSummary(result *domain.PassResult) *PassSummary {
	if result == nil {
		return nil
	}
	summary := &PassSummary{
		StartedAt:  result.StartedAt,
		FinishedAt: result.FinishedAt,
		Processed:  result.Processed,
		Sold:       result.Sold,
		Ended:      result.Ended,
		Skipped:    result.Skipped,
		Failed:     len(result.Errors),
	}
	if len(result.Errors) > 0 {
		summary.Errors = make(map[string]string, len(result.Errors))
		for _, e := range result.Errors {
			summary.Errors[e.AuctionID] = e.Err.Error()
		}
	}
	return summary
}

type JobStatus struct {
	Running             bool         `json:"running"`
	LastStartedAt       *time.Time   `json:"last_started_at,omitempty"`
	LastFinishedAt      *time.Time   `json:"last_finished_at,omitempty"`
	LastResult          *PassSummary `json:"last_result,omitempty"`
	LastError           string       `json:"last_error,omitempty"`
	ConsecutiveFailures int          `json:"consecutive_failures"`
	TotalPasses         int          `json:"total_passes"`
}

// SettlementJob wraps a settlement pass with the non-overlap guard, the
// leadership check and failure bookkeeping. A failed pass is not retried
// here; the next trigger runs it again.
type SettlementJob struct {
	engine      passRunner
	leader      domain.LeaderElection
	instanceID  string
	clock       domain.Clock
	passTimeout time.Duration
	log         logger.Logger

	runMu sync.Mutex

	statusMu sync.RWMutex
	status   JobStatus
}

// NewSettlementJob builds a job. leader may be nil for a single-instance
// deployment.
func NewSettlementJob(engine passRunner, leader domain.LeaderElection, instanceID string,
	clock domain.Clock, passTimeout time.Duration, log logger.Logger) *SettlementJob {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &SettlementJob{
		engine:      engine,
		leader:      leader,
		instanceID:  instanceID,
		clock:       clock,
		passTimeout: passTimeout,
		log:         log,
	}
}

// Run executes one settlement pass. It returns ErrPassInProgress when another
// pass holds the lock and ErrNotLeader when this instance does not own the
// leader lease.
func (j *SettlementJob) Run(ctx context.Context) (result *domain.PassResult, err error) {
	if !j.runMu.TryLock() {
		j.log.Info("Settlement pass skipped, previous pass still running")
		return nil, ErrPassInProgress
	}
	defer j.runMu.Unlock()

	if j.leader != nil {
		isLeader, lerr := j.leader.IsLeader(ctx, j.instanceID)
		if lerr != nil {
			j.log.Warn("Failed to check leadership", "instance_id", j.instanceID, "error", lerr)
			err = fmt.Errorf("check leadership: %w", lerr)
			j.markStarted(j.clock.Now())
			j.markFinished(nil, err)
			return nil, err
		}
		if !isLeader {
			j.log.Debug("Not the settlement leader, skipping pass", "instance_id", j.instanceID)
			return nil, ErrNotLeader
		}
	}

	now := j.clock.Now()
	j.markStarted(now)

	passCtx := ctx
	if j.passTimeout > 0 {
		var cancel context.CancelFunc
		passCtx, cancel = context.WithTimeout(ctx, j.passTimeout)
		defer cancel()
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("settlement pass panicked: %v", r)
		}
		j.markFinished(result, err)
	}()

	result, err = j.engine.RunSettlementPass(passCtx, now)
	return result, err
}

func (j *SettlementJob) Status() JobStatus {
	j.statusMu.RLock()
	defer j.statusMu.RUnlock()
	return j.status
}

func (j *SettlementJob) markStarted(now time.Time) {
	j.statusMu.Lock()
	defer j.statusMu.Unlock()
	j.status.Running = true
	j.status.LastStartedAt = &now
}

func (j *SettlementJob) markFinished(result *domain.PassResult, err error) {
	finished := j.clock.Now()

	j.statusMu.Lock()
	defer j.statusMu.Unlock()
	j.status.Running = false
	j.status.LastFinishedAt = &finished
	j.status.TotalPasses++
	if result != nil {
		j.status.LastResult = NewPassSummary(result)
	}

	if err != nil {
		j.status.LastError = err.Error()
		j.status.ConsecutiveFailures++
		j.log.Error("Settlement pass failed", "error", err,
			"consecutive_failures", j.status.ConsecutiveFailures)
		return
	}

	j.status.LastError = ""
	j.status.ConsecutiveFailures = 0
	if result == nil {
		return
	}

	for _, ae := range result.Errors {
		j.log.Warn("Auction not settled, will retry next pass", "auction_id", ae.AuctionID, "error", ae.Err)
	}
	j.log.Info("Settlement pass completed", "processed", result.Processed, "sold", result.Sold,
		"ended", result.Ended, "skipped", result.Skipped, "failed", len(result.Errors))
}
