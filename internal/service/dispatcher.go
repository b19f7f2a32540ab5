package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/naphat-v/visawatch/internal/domain"
	"github.com/naphat-v/visawatch/internal/gateway"
	"github.com/naphat-v/visawatch/internal/observability"
	"github.com/naphat-v/visawatch/internal/ratelimit"
	"go.uber.org/zap"
)

// Dispatcher sends one composed payload to one target. Every failure is
// contained in the returned outcome; a bad recipient never aborts the batch.
type Dispatcher struct {
	gateway gateway.Gateway
	limiter ratelimit.RateLimiter
	logger  *zap.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

func NewDispatcher(gw gateway.Gateway, limiter ratelimit.RateLimiter, logger *zap.Logger) (*Dispatcher, error) {
	if gw == nil {
		return nil, fmt.Errorf("messaging gateway is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Dispatcher{
		gateway: gw,
		limiter: limiter,
		logger:  logger,
		now:     time.Now,
	}, nil
}

func (d *Dispatcher) SetMetrics(metrics *observability.Metrics) {
	if d == nil {
		return
	}
	d.metrics = metrics
}

// Deliver attempts one send and reports the outcome. No retry happens here;
// a later run re-selects failed records through the rolling window.
func (d *Dispatcher) Deliver(ctx context.Context, msg ComposedMessage, target domain.Target) domain.DeliveryOutcome {
	if ctx == nil {
		ctx = context.Background()
	}

	outcome := domain.DeliveryOutcome{
		PassportID: msg.PassportID,
		Recipient:  targetAddress(target),
		Status:     domain.DeliverySent,
	}

	channel := target.Kind.String()

	sendErr := d.validateTarget(target)
	if sendErr == nil && d.limiter != nil {
		sendErr = d.limiter.Wait(ctx, channel)
	}

	if sendErr == nil {
		sendStart := d.now()
		switch target.Kind {
		case domain.TargetReply:
			sendErr = d.gateway.ReplyMessage(ctx, target.ReplyToken, msg.Messages)
		default:
			sendErr = d.gateway.PushMessage(ctx, target.Recipient, msg.Messages)
		}
		if d.metrics != nil {
			d.metrics.ObserveReminderSendDuration(channel, d.now().Sub(sendStart))
		}
	}

	if sendErr != nil {
		outcome.Status = domain.DeliveryFailed
		outcome.FailureReason = sendErr.Error()

		d.logger.Warn("reminder delivery failed",
			zap.String("passportId", msg.PassportID),
			zap.String("channel", channel),
			zap.Bool("transient", gateway.IsTransient(sendErr)),
			zap.Error(sendErr),
		)
		if d.metrics != nil {
			d.metrics.IncReminderFailed(channel, failureLabel(sendErr))
		}
		return outcome
	}

	d.logger.Info("reminder delivered",
		zap.String("passportId", msg.PassportID),
		zap.String("channel", channel),
	)
	if d.metrics != nil {
		d.metrics.IncReminderSent(channel)
	}
	return outcome
}

func (d *Dispatcher) validateTarget(target domain.Target) error {
	switch target.Kind {
	case domain.TargetPush:
		if strings.TrimSpace(target.Recipient) == "" {
			return fmt.Errorf("missing recipient")
		}
	case domain.TargetReply:
		if strings.TrimSpace(target.ReplyToken) == "" {
			return fmt.Errorf("missing reply token")
		}
	default:
		return fmt.Errorf("unknown target kind %q", target.Kind)
	}
	return nil
}

func targetAddress(target domain.Target) string {
	if target.Kind == domain.TargetReply {
		return target.ReplyToken
	}
	return target.Recipient
}

func failureLabel(err error) string {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "missing recipient"):
		return "missing_recipient"
	case strings.Contains(msg, "missing reply token"):
		return "missing_reply_token"
	case gateway.IsTransient(err):
		return "transient_send_error"
	default:
		return "permanent_send_error"
	}
}
