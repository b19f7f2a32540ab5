package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/naphat-v/visawatch/internal/domain"
	"github.com/naphat-v/visawatch/internal/observability"
	"go.uber.org/zap"
)

// RunRequest describes one pipeline invocation. Both triggers build one of
// these and funnel into the same Run.
type RunRequest struct {
	Trigger domain.Trigger
	Mode    domain.TargetKind
	// ReplyToken addresses the triggering conversation turn; only used in
	// reply mode.
	ReplyToken string
}

// Pipeline runs query -> compose -> deliver sequentially and aggregates
// per-record outcomes into a run summary. Runs share no mutable state, so
// overlapping scheduled and inbound runs are safe (at the cost of possible
// duplicate sends; nothing tracks already-notified records).
type Pipeline struct {
	eligibility *Eligibility
	dispatcher  *Dispatcher
	logger      *zap.Logger
	metrics     *observability.Metrics
	now         func() time.Time
	newRunID    func() string
}

func NewPipeline(eligibility *Eligibility, dispatcher *Dispatcher, logger *zap.Logger) (*Pipeline, error) {
	if eligibility == nil {
		return nil, fmt.Errorf("eligibility selector is required")
	}
	if dispatcher == nil {
		return nil, fmt.Errorf("dispatcher is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Pipeline{
		eligibility: eligibility,
		dispatcher:  dispatcher,
		logger:      logger,
		now:         time.Now,
		newRunID:    uuid.NewString,
	}, nil
}

func (p *Pipeline) SetMetrics(metrics *observability.Metrics) {
	if p == nil {
		return
	}
	p.metrics = metrics
	p.dispatcher.SetMetrics(metrics)
}

// Run executes one full reminder pass. It never returns an error: a failed
// query degrades to an empty selection and failed deliveries become Failed
// outcomes, so no failure inside a run can reach the trigger layer.
func (p *Pipeline) Run(ctx context.Context, req RunRequest) domain.RunSummary {
	if ctx == nil {
		ctx = context.Background()
	}

	start := p.now()
	summary := domain.RunSummary{
		RunID:     p.newRunID(),
		Trigger:   req.Trigger,
		StartedAt: start,
	}

	ctx = observability.WithRunID(ctx, summary.RunID)
	logger := observability.WithContextLogger(p.logger, ctx)

	logger.Info("reminder run started",
		zap.String("trigger", req.Trigger.String()),
		zap.String("mode", req.Mode.String()),
	)

	records, window, err := p.eligibility.SelectDue(ctx)
	if err != nil {
		summary.QueryFailed = true
		logger.Error("eligibility query failed, continuing with empty selection", zap.Error(err))
	}

	if p.metrics != nil {
		p.metrics.SetDueRecordsLastRun(len(records))
	}

	// Deliveries run one at a time so record N+1 starts only after record
	// N's outcome is known; no outcome depends on another's.
	for i := range records {
		record := records[i]
		msg := ComposeReminder(record, composeModeFor(req.Mode))
		outcome := p.dispatcher.Deliver(ctx, msg, targetFor(req, record))
		summary.Outcomes = append(summary.Outcomes, outcome)
	}

	summary.Duration = p.now().Sub(start)

	if p.metrics != nil {
		p.metrics.IncReminderRun(req.Trigger.String())
	}

	logger.Info("reminder run finished",
		zap.String("trigger", req.Trigger.String()),
		zap.Bool("queryFailed", summary.QueryFailed),
		zap.Time("windowUpper", window.UpperBound),
		zap.Int("due", len(records)),
		zap.Int("sent", summary.SentCount()),
		zap.Int("failed", summary.FailedCount()),
		zap.Duration("duration", summary.Duration),
	)

	return summary
}

func composeModeFor(mode domain.TargetKind) ComposeMode {
	if mode == domain.TargetReply {
		return ComposeText
	}
	return ComposeCard
}

func targetFor(req RunRequest, record domain.Passport) domain.Target {
	if req.Mode == domain.TargetReply {
		return domain.ReplyTarget(req.ReplyToken)
	}
	return domain.PushTarget(record.LineUserID)
}
