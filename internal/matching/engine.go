// Package matching ranks a batch of candidates for a seeker. It filters on
// hard constraints, scores the eligible pairs concurrently and annotates each
// match with risk, connections and conversation starters.
package matching

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"runtime"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/affinity/internal/connections"
	"github.com/spigell/affinity/internal/filtering"
	"github.com/spigell/affinity/internal/geo"
	"github.com/spigell/affinity/internal/logger"
	"github.com/spigell/affinity/internal/profile"
	"github.com/spigell/affinity/internal/risk"
	"github.com/spigell/affinity/internal/scoring"
)

// Engine is safe for concurrent use. It keeps no state between batches.
type Engine struct {
	cfg         Config
	workers     int
	filters     *filtering.Filtering
	risk        *risk.Analyzer
	connections *connections.Generator
	metrics     *Metrics
	logger      *zap.Logger
}

type options struct {
	metrics     *Metrics
	frequencies connections.FrequencyTable
}

type Option func(*options)

// WithMetrics records batch metrics on m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithFrequencies sets the interest population frequencies used to detect
// rare shared interests.
func WithFrequencies(t connections.FrequencyTable) Option {
	return func(o *options) { o.frequencies = t }
}

func New(cfg Config, log *zap.Logger, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid matching config: %w", err)
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	log = logger.WithFields(log).Named("matching")

	analyzer, err := risk.New(risk.Config{
		SignificanceThreshold: cfg.RiskSignificanceThreshold,
		LifestyleIncrement:    cfg.LifestyleIncrement,
		Rules:                 cfg.RiskRules,
	})
	if err != nil {
		return nil, fmt.Errorf("risk analyzer: %w", err)
	}

	gen, err := connections.New(connections.Config{
		RarityThreshold: cfg.RarityThreshold,
		Frequencies:     o.frequencies,
	})
	if err != nil {
		return nil, fmt.Errorf("connections generator: %w", err)
	}

	filters := filtering.Default(filtering.Config{
		MaxDistanceKm: cfg.MaxDistanceKm,
		MaxAgeGap:     cfg.MaxAgeGap,
	}, log)
	for _, name := range cfg.SkipFilters {
		if err := filters.DisableByName(strings.TrimSpace(name), "skipped by configuration"); err != nil {
			return nil, fmt.Errorf("skip-filters: %w", err)
		}
	}
	if err := filters.Validate(); err != nil {
		return nil, fmt.Errorf("filters: %w", err)
	}

	workers := cfg.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	return &Engine{
		cfg:         cfg,
		workers:     workers,
		filters:     filters,
		risk:        analyzer,
		connections: gen,
		metrics:     o.metrics,
		logger:      log,
	}, nil
}

// Filters describes the configured hard-constraint steps.
func (e *Engine) Filters() []filtering.Status {
	return e.filters.Describe()
}

// evaluation is the per-candidate slot written by exactly one goroutine.
type evaluation struct {
	result    *MatchResult
	exclusion *Exclusion
	err       error
	abandoned bool
}

// FindMatches ranks candidates for seeker.
//
// Invalid profiles fail the whole batch before any scoring. A candidate with
// malformed coordinates is reported in Outcome.Rejected and the batch goes
// on. When ctx is cancelled the completed matches are returned together with
// an error wrapping ctx.Err(), and the unfinished candidates are listed in
// Outcome.Abandoned.
func (e *Engine) FindMatches(ctx context.Context, seeker *profile.UserProfile, candidates []*profile.UserProfile) (*Outcome, error) {
	started := time.Now()
	defer func() { e.metrics.recordBatch(time.Since(started)) }()

	if err := validateBatch(seeker, candidates); err != nil {
		return nil, err
	}

	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	batchID := uuid.NewString()
	batchLog := logger.WithFields(e.logger, zap.String(logger.FieldBatch, batchID))
	log := batchLog.With(logger.PairFields(seeker.ID, "")...)
	log.Info("matching batch started", zap.Int("candidates", len(candidates)))

	outcome := newOutcome(batchID)

	located := make([]*profile.UserProfile, 0, len(candidates))
	for _, c := range candidates {
		if err := profile.ValidateLocation(c); err != nil {
			batchLog.Warn("candidate rejected", append(logger.PairFields(seeker.ID, c.ID), zap.Error(err))...)
			outcome.Rejected = append(outcome.Rejected, newCandidateError(c.ID, err))
			continue
		}
		located = append(located, c)
	}
	e.metrics.recordCandidates(outcomeRejected, len(outcome.Rejected))

	eligible, rejections, steps, err := e.filters.RunFilters(ctx, seeker, located)
	if err != nil {
		outcome.Abandoned = ids(located)
		e.metrics.recordCandidates(outcomeAbandoned, len(located))
		return outcome, fmt.Errorf("batch %s: %w", batchID, err)
	}
	outcome.Steps = steps
	for _, r := range rejections {
		outcome.Excluded = append(outcome.Excluded, Exclusion{
			CandidateID: r.CandidateID,
			Stage:       r.Filter,
			Reason:      r.Reason,
		})
	}
	e.metrics.recordCandidates(outcomeFiltered, len(rejections))

	evaluations := e.evaluateAll(ctx, batchLog, seeker, eligible)
	e.collect(outcome, eligible, evaluations)

	slices.SortStableFunc(outcome.Matches, compareResults)

	log.Info("matching batch finished",
		zap.Int("matches", len(outcome.Matches)),
		zap.Int("excluded", len(outcome.Excluded)),
		zap.Int("rejected", len(outcome.Rejected)),
		zap.Int("abandoned", len(outcome.Abandoned)),
		zap.Duration("elapsed", time.Since(started)),
	)

	if len(outcome.Abandoned) > 0 {
		return outcome, fmt.Errorf("batch %s interrupted: %w", batchID, context.Cause(ctx))
	}

	return outcome, nil
}

func (e *Engine) evaluateAll(ctx context.Context, log *zap.Logger, seeker *profile.UserProfile, eligible []*profile.UserProfile) []evaluation {
	evaluations := make([]evaluation, len(eligible))

	var g errgroup.Group
	g.SetLimit(e.workers)

	for i, c := range eligible {
		if ctx.Err() != nil {
			evaluations[i] = evaluation{abandoned: true}
			continue
		}
		g.Go(func() error {
			evaluations[i] = e.evaluate(ctx, log, seeker, c)
			return nil
		})
	}

	// evaluate never returns an error to the group; failures live in the slots.
	_ = g.Wait()

	return evaluations
}

func (e *Engine) collect(outcome *Outcome, eligible []*profile.UserProfile, evaluations []evaluation) {
	for i, ev := range evaluations {
		id := eligible[i].ID
		switch {
		case ev.abandoned:
			outcome.Abandoned = append(outcome.Abandoned, id)
			e.metrics.recordCandidates(outcomeAbandoned, 1)
		case ev.err != nil:
			outcome.Rejected = append(outcome.Rejected, newCandidateError(id, ev.err))
			e.metrics.recordCandidates(outcomeRejected, 1)
		case ev.exclusion != nil:
			outcome.Excluded = append(outcome.Excluded, *ev.exclusion)
			e.metrics.recordCandidates(outcomeExcluded, 1)
		case ev.result != nil:
			outcome.Matches = append(outcome.Matches, *ev.result)
			e.metrics.recordCandidates(outcomeMatched, 1)
			e.metrics.recordScore(ev.result.Score)
		}
	}
}

func (e *Engine) evaluate(ctx context.Context, log *zap.Logger, seeker, candidate *profile.UserProfile) evaluation {
	if ctx.Err() != nil {
		return evaluation{abandoned: true}
	}

	log = log.With(logger.PairFields(seeker.ID, candidate.ID)...)

	distance := geo.Distance(seeker.Coordinates(), candidate.Coordinates())
	gap := filtering.AgeGap(seeker, candidate)
	base := scoring.BaseCompatibility(gap, distance, e.cfg.Decay)

	lowConfidence := false
	personality, err := scoring.Personality(scoring.SubjectOf(seeker), scoring.SubjectOf(candidate))
	if err != nil {
		if !errors.Is(err, scoring.ErrInsufficientConfidence) {
			return evaluation{err: fmt.Errorf("personality score: %w", err)}
		}

		lowConf := &InsufficientConfidenceError{CandidateID: candidate.ID}
		if e.cfg.LowConfidencePolicy == PolicyExclude {
			log.Debug("candidate excluded", zap.Error(lowConf))
			return evaluation{exclusion: &Exclusion{
				CandidateID: candidate.ID,
				Stage:       StageLowConfidence,
				Reason:      scoring.ErrInsufficientConfidence.Error(),
				Err:         lowConf,
			}}
		}

		log.Debug("neutral personality score substituted", zap.Error(lowConf))
		lowConfidence = true
		personality.Score = NeutralPersonality
	}

	if ctx.Err() != nil {
		return evaluation{abandoned: true}
	}

	analysis, err := e.risk.Analyze(seeker, candidate)
	if err != nil {
		return evaluation{err: fmt.Errorf("risk analysis: %w", err)}
	}

	if ctx.Err() != nil {
		return evaluation{abandoned: true}
	}

	score := e.cfg.BaseWeight*base + e.cfg.PersonalityWeight*personality.Score
	score = min(max(score, 0), 1)

	result := &MatchResult{
		Candidate: candidate,
		Score:     score,
		Breakdown: Breakdown{
			Base:        base,
			Personality: personality.Score,
			MBTI:        personality.Of(profile.FrameworkMBTI),
			BigFive:     personality.Of(profile.FrameworkBigFive),
			Values:      personality.Of(profile.FrameworkValues),
			DistanceKm:  distance,
			AgeGap:      gap,
		},
		UniqueConnections:    e.connections.Connections(seeker, candidate),
		ConversationStarters: e.connections.ConversationStarters(seeker, candidate),
		Risk:                 analysis,
		LowConfidence:        lowConfidence,
	}

	log.Debug("candidate scored",
		zap.Float64("score", score),
		zap.Float64("base", base),
		zap.Float64("personality", personality.Score),
		zap.Float64("risk_level", analysis.Level),
	)

	return evaluation{result: result}
}

// validateBatch checks the seeker and every candidate before any work is
// done. Only the seeker's coordinates are fatal here.
func validateBatch(seeker *profile.UserProfile, candidates []*profile.UserProfile) error {
	var errs []error

	if err := profile.Validate(seeker); err != nil {
		return fmt.Errorf("seeker: %w", err)
	}
	if err := profile.ValidateLocation(seeker); err != nil {
		return fmt.Errorf("seeker: %w", err)
	}

	for i, c := range candidates {
		if err := profile.Validate(c); err != nil {
			errs = append(errs, fmt.Errorf("candidate #%d: %w", i, err))
		}
	}

	return errors.Join(errs...)
}

func compareResults(a, b MatchResult) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	return cmp.Compare(a.Candidate.ID, b.Candidate.ID)
}

func ids(users []*profile.UserProfile) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}
