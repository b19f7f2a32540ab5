package handler

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/naphat-v/visawatch/internal/config"
	"github.com/naphat-v/visawatch/internal/domain"
	"github.com/naphat-v/visawatch/internal/gateway"
	"github.com/naphat-v/visawatch/internal/service"
	"go.uber.org/zap"
)

// ReminderRunner is the pipeline entry point shared by both triggers.
type ReminderRunner interface {
	Run(ctx context.Context, req service.RunRequest) domain.RunSummary
}

// SignatureValidator checks the platform signature over the raw webhook body.
type SignatureValidator interface {
	ValidateSignature(body []byte, signature string) bool
}

// WebhookHandler accepts inbound platform events and starts a reminder run
// when a text message matches the trigger keyword. The HTTP acknowledgement
// never waits for deliveries: runs are detached onto a background context.
type WebhookHandler struct {
	runner      ReminderRunner
	validator   SignatureValidator
	keyword     string
	inboundMode string
	logger      *zap.Logger
	detach      func(fn func())
}

func NewWebhookHandler(
	runner ReminderRunner,
	validator SignatureValidator,
	keyword string,
	inboundMode string,
	logger *zap.Logger,
) (*WebhookHandler, error) {
	if runner == nil {
		return nil, fmt.Errorf("reminder runner is required")
	}
	if validator == nil {
		return nil, fmt.Errorf("signature validator is required")
	}
	if keyword == "" {
		return nil, fmt.Errorf("trigger keyword is required")
	}
	if inboundMode != config.InboundModeReply && inboundMode != config.InboundModePushAll {
		return nil, fmt.Errorf("unknown inbound delivery mode %q", inboundMode)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &WebhookHandler{
		runner:      runner,
		validator:   validator,
		keyword:     keyword,
		inboundMode: inboundMode,
		logger:      logger,
		detach:      func(fn func()) { go fn() },
	}, nil
}

func RegisterWebhookRoutes(router fiber.Router, h *WebhookHandler) error {
	if h == nil {
		return fmt.Errorf("webhook handler is required")
	}
	router.Post("/webhook", h.HandleWebhook)
	return nil
}

func (h *WebhookHandler) HandleWebhook(c *fiber.Ctx) error {
	body := c.Body()

	if !h.validator.ValidateSignature(body, c.Get(gateway.SignatureHeader)) {
		h.logger.Warn("webhook signature rejected")
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "invalid signature",
		})
	}

	var req gateway.WebhookRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.logger.Error("webhook body parse failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"status": "error",
		})
	}

	started := 0
	for i := range req.Events {
		event := req.Events[i]
		if !event.IsTriggerText(h.keyword) {
			continue
		}

		runReq := service.RunRequest{
			Trigger: domain.TriggerInbound,
			Mode:    domain.TargetPush,
		}
		if h.inboundMode == config.InboundModeReply {
			runReq.Mode = domain.TargetReply
			runReq.ReplyToken = event.ReplyToken
		}

		started++
		h.detach(func() {
			h.runner.Run(context.Background(), runReq)
		})
	}

	if started > 0 {
		h.logger.Info("inbound trigger accepted", zap.Int("runs", started))
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "success",
	})
}
