package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/hawala-bot/internal/adapter/cache"
	"github.com/seu-repo/hawala-bot/internal/domain"
	"github.com/seu-repo/hawala-bot/internal/observability/telemetry"
	"github.com/seu-repo/hawala-bot/internal/ports"
	"github.com/seu-repo/hawala-bot/internal/service/resolver"
)

// webhookPayload mirrors the slice of the Meta webhook notification this bot
// cares about; everything else in the payload is ignored.
type webhookPayload struct {
	Object string `json:"object"`
	Entry  []struct {
		Changes []struct {
			Value struct {
				Messages []inboundMessage `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

type inboundMessage struct {
	From  string `json:"from"`
	ID    string `json:"id"`
	Type  string `json:"type"`
	Text  *struct {
		Body string `json:"body"`
	} `json:"text"`
	Audio *struct {
		ID string `json:"id"`
	} `json:"audio"`
}

type WebhookHandler struct {
	verifyToken string
	resolver    *resolver.Service
	messenger   ports.Messenger
	deduper     *cache.MessageDeduper
	log         *zap.Logger
}

func NewWebhookHandler(
	verifyToken string,
	resolver *resolver.Service,
	messenger ports.Messenger,
	deduper *cache.MessageDeduper,
	log *zap.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		verifyToken: verifyToken,
		resolver:    resolver,
		messenger:   messenger,
		deduper:     deduper,
		log:         log,
	}
}

// Verify answers Meta's webhook subscription handshake.
func (h *WebhookHandler) Verify(c *fiber.Ctx) error {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "" || token == "" {
		h.log.Warn("Webhook verification failed: missing parameters")
		return c.SendStatus(fiber.StatusBadRequest)
	}
	if mode != "subscribe" || token != h.verifyToken {
		h.log.Warn("Webhook verification failed: token mismatch")
		return c.SendStatus(fiber.StatusForbidden)
	}

	h.log.Info("Webhook verified")
	return c.SendString(challenge)
}

// Receive handles one webhook notification. The notification is always
// acknowledged with 200 once it parses as a WhatsApp event, regardless of
// how processing or reply delivery went: Meta retries non-200 responses and
// a retried transfer message must not be processed twice.
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	var payload webhookPayload
	if err := c.BodyParser(&payload); err != nil {
		h.log.Warn("Webhook body did not parse", zap.Error(err))
		return c.SendStatus(fiber.StatusBadRequest)
	}

	if payload.Object != "whatsapp_business_account" {
		h.log.Warn("Received non-WhatsApp notification", zap.String("object", payload.Object))
		return c.SendStatus(fiber.StatusNotFound)
	}

	raw, ok := firstMessage(payload)
	if !ok {
		h.log.Debug("Webhook carried no messages")
		return c.JSON(fiber.Map{"status": "received"})
	}

	if h.deduper != nil && h.deduper.Seen(c.Context(), raw.ID) {
		h.log.Info("Skipping already processed message", zap.String("message_id", raw.ID))
		return c.JSON(fiber.Map{"status": "duplicate"})
	}

	msg := toDomain(raw)
	h.log.Info("Processing message",
		zap.String("message_id", msg.MessageID),
		zap.String("sender", msg.SenderID),
		zap.String("type", string(msg.Type)),
	)

	replyText, handled := h.resolver.HandleMessage(c.Context(), msg)
	if !handled {
		return c.JSON(fiber.Map{"status": "ignored", "reason": "Unsupported message type"})
	}

	if replyText != "" {
		if err := h.messenger.SendText(c.Context(), msg.SenderID, replyText); err != nil {
			telemetry.RepliesTotal.WithLabelValues("failed").Inc()
			h.log.Error("Failed to send reply",
				zap.String("message_id", msg.MessageID),
				zap.String("sender", msg.SenderID),
				zap.Error(err),
			)
		} else {
			telemetry.RepliesTotal.WithLabelValues("sent").Inc()
		}
	}

	return c.JSON(fiber.Map{"status": "received"})
}

func firstMessage(payload webhookPayload) (inboundMessage, bool) {
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if len(change.Value.Messages) > 0 {
				return change.Value.Messages[0], true
			}
		}
	}
	return inboundMessage{}, false
}

func toDomain(raw inboundMessage) domain.InboundMessage {
	msg := domain.InboundMessage{
		SenderID:  raw.From,
		MessageID: raw.ID,
		Type:      domain.MessageType(raw.Type),
	}
	if raw.Text != nil {
		msg.Text = raw.Text.Body
	}
	if raw.Audio != nil {
		msg.MediaID = raw.Audio.ID
	}
	return msg
}
