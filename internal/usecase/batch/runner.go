// Package batch recomputes the match graph over every pair of users.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync/atomic"
	"time"

	"github.com/gdugdh24/devmatch-backend/internal/domain"
	"github.com/gdugdh24/devmatch-backend/internal/domain/compatibility"
	"github.com/gdugdh24/devmatch-backend/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeUpdated
	OutcomeSkippedContacts
	OutcomeBelowThreshold
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	case OutcomeSkippedContacts:
		return "skipped_contacts"
	case OutcomeBelowThreshold:
		return "below_threshold"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Report summarizes one run. Pairs counts the pairs finished by this run,
// so a resumed run reports only what it did itself.
type Report struct {
	RunID           string        `json:"run_id"`
	Users           int           `json:"users"`
	Pairs           int64         `json:"pairs"`
	Created         int64         `json:"created"`
	Updated         int64         `json:"updated"`
	SkippedContacts int64         `json:"skipped_contacts"`
	BelowThreshold  int64         `json:"below_threshold"`
	Failed          int64         `json:"failed"`
	ResumedFrom     int64         `json:"resumed_from"`
	Duration        time.Duration `json:"duration"`
}

func (r *Report) record(o Outcome) {
	r.Pairs++
	switch o {
	case OutcomeCreated:
		r.Created++
	case OutcomeUpdated:
		r.Updated++
	case OutcomeSkippedContacts:
		r.SkippedContacts++
	case OutcomeBelowThreshold:
		r.BelowThreshold++
	case OutcomeFailed:
		r.Failed++
	}
}

// Observer receives run events, typically to export metrics.
type Observer interface {
	PairProcessed(outcome Outcome)
	CheckpointSaved(pairIndex int64)
	RunFinished(report *Report, err error)
}

type nopObserver struct{}

func (nopObserver) PairProcessed(Outcome)      {}
func (nopObserver) CheckpointSaved(int64)      {}
func (nopObserver) RunFinished(*Report, error) {}

type Options struct {
	// Workers defaults to GOMAXPROCS.
	Workers int
	// CheckpointEvery saves progress after that many finished pairs. Zero
	// saves only when a run is interrupted.
	CheckpointEvery int64
	// StoreRPS caps match store writes per second. Zero means unlimited.
	StoreRPS   float64
	StoreBurst int
	// Resume continues from a saved checkpoint taken over the same number
	// of users.
	Resume bool
}

type Option func(*Runner)

func WithCheckpoints(repo repository.CheckpointRepository) Option {
	return func(r *Runner) { r.checkpoints = repo }
}

func WithObserver(o Observer) Option {
	return func(r *Runner) {
		if o != nil {
			r.observer = o
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

type Runner struct {
	profiles    repository.ProfileRepository
	matches     repository.MatchRepository
	checkpoints repository.CheckpointRepository
	observer    Observer
	limiter     *rate.Limiter
	logger      *zap.Logger
	opts        Options
	now         func() time.Time

	running atomic.Bool
}

func NewRunner(
	profiles repository.ProfileRepository,
	matches repository.MatchRepository,
	logger *zap.Logger,
	opts Options,
	extra ...Option,
) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Runner{
		profiles: profiles,
		matches:  matches,
		observer: nopObserver{},
		logger:   logger.Named("batch"),
		opts:     opts,
		now:      time.Now,
	}
	if opts.StoreRPS > 0 {
		burst := opts.StoreBurst
		if burst < 1 {
			burst = 1
		}
		r.limiter = rate.NewLimiter(rate.Limit(opts.StoreRPS), burst)
	}
	for _, o := range extra {
		o(r)
	}
	return r
}

// Run scores every pair once and upserts the eligible ones. Only one run
// may be active per Runner; a concurrent call gets domain.ErrBatchInProgress.
// When ctx is cancelled the partial report is returned with ctx's error.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if !r.running.CompareAndSwap(false, true) {
		return nil, domain.ErrBatchInProgress
	}
	defer r.running.Store(false)

	started := r.now()
	report := &Report{RunID: uuid.NewString()}

	err := r.run(ctx, report)
	report.Duration = r.now().Sub(started)
	r.observer.RunFinished(report, err)

	fields := []zap.Field{
		zap.String("run_id", report.RunID),
		zap.Int64("pairs", report.Pairs),
		zap.Int64("created", report.Created),
		zap.Int64("updated", report.Updated),
		zap.Int64("skipped_contacts", report.SkippedContacts),
		zap.Int64("below_threshold", report.BelowThreshold),
		zap.Int64("failed", report.Failed),
		zap.Duration("duration", report.Duration),
	}
	if err != nil {
		r.logger.Warn("batch run stopped", append(fields, zap.Error(err))...)
		return report, err
	}
	r.logger.Info("batch run finished", fields...)
	return report, nil
}

func (r *Runner) run(ctx context.Context, report *Report) error {
	profiles, err := r.profiles.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i].ID < profiles[j].ID })

	features := make([]*compatibility.Features, len(profiles))
	for i, p := range profiles {
		features[i] = compatibility.Extract(p)
	}

	n := len(profiles)
	total := PairCount(n)
	start := r.resumePoint(ctx, n, total)
	report.Users = n
	report.ResumedFrom = start

	r.logger.Info("batch run started",
		zap.String("run_id", report.RunID),
		zap.Int("users", n),
		zap.Int64("total_pairs", total),
		zap.Int64("resume_from", start),
		zap.Int("workers", r.opts.Workers),
	)

	pool := NewWorkerPool(r.opts.Workers, r.opts.Workers*2)
	results := pool.Run(ctx)

	go func() {
		defer pool.Close()
		for p := range generatePairs(ctx, n, start) {
			a, b, index := features[p.i], features[p.j], p.index
			task := func(ctx context.Context) Result {
				return r.processPair(ctx, index, a, b)
			}
			if !pool.Submit(ctx, task) {
				return
			}
		}
	}()

	tracker := newProgress(start)
	var sinceSave int64
	for res := range results {
		// Interrupted pairs are left for the next run.
		if res.Err != nil && ctx.Err() != nil {
			continue
		}
		report.record(res.Outcome)
		r.observer.PairProcessed(res.Outcome)
		tracker.mark(res.Index)

		sinceSave++
		if r.opts.CheckpointEvery > 0 && sinceSave >= r.opts.CheckpointEvery {
			r.saveCheckpoint(ctx, report, tracker.watermark())
			sinceSave = 0
		}
	}

	if err := ctx.Err(); err != nil {
		if tracker.watermark() >= start {
			r.saveCheckpoint(context.WithoutCancel(ctx), report, tracker.watermark())
		}
		return err
	}

	if r.checkpoints != nil {
		if err := r.checkpoints.Clear(ctx); err != nil {
			r.logger.Warn("failed to clear checkpoint", zap.Error(err))
		}
	}
	return nil
}

func (r *Runner) processPair(ctx context.Context, index int64, a, b *compatibility.Features) (res Result) {
	res.Index = index
	key := domain.NewPairKey(a.Profile.ID, b.Profile.ID)

	defer func() {
		if v := recover(); v != nil {
			res.Outcome = OutcomeFailed
			res.Err = fmt.Errorf("pair %s panicked: %v", key, v)
			r.logger.Error("pair failed", zap.String("pair", key.String()), zap.Int64("index", index), zap.Error(res.Err))
		}
	}()

	// A snapshot with a repeated id must never produce a self-match.
	if a.Profile.ID == b.Profile.ID {
		res.Outcome = OutcomeFailed
		res.Err = fmt.Errorf("pair %s: %w: same user on both sides", key, domain.ErrInvalidInput)
		r.logger.Warn("pair failed", zap.String("pair", key.String()), zap.Int64("index", index), zap.Error(res.Err))
		return res
	}

	if a.Profile.IsConnectedTo(b.Profile) {
		res.Outcome = OutcomeSkippedContacts
		return res
	}

	score := compatibility.Evaluate(a, b)
	if !score.Eligible() {
		res.Outcome = OutcomeBelowThreshold
		return res
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			res.Outcome, res.Err = OutcomeFailed, err
			return res
		}
	}

	_, created, err := r.matches.Upsert(ctx, score.ScoreUpdate(key, r.now()))
	if err != nil {
		res.Outcome, res.Err = OutcomeFailed, err
		if ctx.Err() == nil {
			r.logger.Warn("pair failed",
				zap.String("pair", key.String()),
				zap.Int64("index", index),
				zap.Int("score", score.Overall),
				zap.Error(err),
			)
		}
		return res
	}

	if created {
		res.Outcome = OutcomeCreated
	} else {
		res.Outcome = OutcomeUpdated
	}
	return res
}

func (r *Runner) resumePoint(ctx context.Context, users int, total int64) int64 {
	if !r.opts.Resume || r.checkpoints == nil {
		return 0
	}

	cp, err := r.checkpoints.Load(ctx)
	switch {
	case errors.Is(err, domain.ErrCheckpointNotFound):
		return 0
	case err != nil:
		r.logger.Warn("failed to load checkpoint, starting from scratch", zap.Error(err))
		return 0
	case cp.UserCount != users:
		r.logger.Info("checkpoint ignored, user count changed",
			zap.Int("checkpoint_users", cp.UserCount),
			zap.Int("users", users),
		)
		return 0
	}

	next := cp.PairIndex + 1
	if next < 0 {
		return 0
	}
	if next > total {
		return total
	}
	return next
}

func (r *Runner) saveCheckpoint(ctx context.Context, report *Report, watermark int64) {
	if r.checkpoints == nil || watermark < 0 {
		return
	}
	cp := &domain.Checkpoint{
		RunID:     report.RunID,
		UserCount: report.Users,
		PairIndex: watermark,
		UpdatedAt: r.now(),
	}
	if err := r.checkpoints.Save(ctx, cp); err != nil {
		r.logger.Warn("failed to save checkpoint", zap.Int64("pair_index", watermark), zap.Error(err))
		return
	}
	r.observer.CheckpointSaved(watermark)
	r.logger.Debug("checkpoint saved", zap.Int64("pair_index", watermark))
}
