// Package resolver drives one inbound message through the pipeline:
// transcription for voice, the NLU oracle for intent, then dispatch to the
// matching use case. Every path ends in a fixed reply template; nothing in
// here panics or propagates an error to the transport.
package resolver

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/seu-repo/hawala-bot/internal/domain"
	"github.com/seu-repo/hawala-bot/internal/observability/telemetry"
	"github.com/seu-repo/hawala-bot/internal/ports"
	"github.com/seu-repo/hawala-bot/internal/reply"
)

type Service struct {
	oracle      ports.Oracle
	transcriber ports.Transcriber
	ledger      ports.LedgerService
	log         *zap.Logger
}

func NewService(oracle ports.Oracle, transcriber ports.Transcriber, ledger ports.LedgerService, log *zap.Logger) *Service {
	return &Service{
		oracle:      oracle,
		transcriber: transcriber,
		ledger:      ledger,
		log:         log,
	}
}

// HandleMessage processes one inbound message to completion and returns the
// reply text. The second return is false when the message type is
// unsupported: such messages are acknowledged upstream but get no reply.
func (s *Service) HandleMessage(ctx context.Context, msg domain.InboundMessage) (string, bool) {
	telemetry.InboundMessagesTotal.WithLabelValues(string(msg.Type)).Inc()

	var text string
	switch msg.Type {
	case domain.MessageTypeText:
		text = msg.Text

	case domain.MessageTypeAudio:
		transcribed, err := s.transcriber.Transcribe(ctx, msg.MediaID)
		if err != nil {
			s.log.Warn("Transcription failed",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
			return reply.TranscriptionFailed(), true
		}
		text = transcribed

	default:
		s.log.Warn("Ignoring unsupported message type",
			zap.String("type", string(msg.Type)),
			zap.String("sender", msg.SenderID),
		)
		return "", false
	}

	if strings.TrimSpace(text) == "" {
		s.log.Error("No text content to resolve", zap.String("message_id", msg.MessageID))
		return reply.GenericError(), true
	}

	return s.dispatch(ctx, msg, text), true
}

func (s *Service) dispatch(ctx context.Context, msg domain.InboundMessage, text string) string {
	result, err := s.oracle.ResolveIntent(ctx, text)
	if err != nil || result == nil {
		s.log.Error("Oracle resolution failed unexpectedly",
			zap.String("message_id", msg.MessageID),
			zap.Error(err),
		)
		return reply.GenericError()
	}

	s.log.Info("Intent resolved",
		zap.String("message_id", msg.MessageID),
		zap.String("intent", string(result.Kind)),
	)

	switch result.Kind {
	case domain.IntentRecordTransfer:
		if result.Record == nil {
			telemetry.IntentsTotal.WithLabelValues(string(result.Kind), "malformed").Inc()
			s.log.Error("Record intent without payload", zap.String("message_id", msg.MessageID))
			return reply.GenericError()
		}
		telemetry.IntentsTotal.WithLabelValues(string(result.Kind), "dispatched").Inc()
		return s.ledger.RecordTransfer(ctx, result.Record, msg.SenderID, text)

	case domain.IntentQueryBranchTotal:
		if result.Query == nil {
			telemetry.IntentsTotal.WithLabelValues(string(result.Kind), "malformed").Inc()
			s.log.Error("Query intent without payload", zap.String("message_id", msg.MessageID))
			return reply.GenericError()
		}
		telemetry.IntentsTotal.WithLabelValues(string(result.Kind), "dispatched").Inc()
		return s.ledger.QueryBranchTotal(ctx, result.Query)

	case domain.IntentOracleUnavailable:
		telemetry.IntentsTotal.WithLabelValues(string(result.Kind), "unavailable").Inc()
		return reply.ServiceDown()

	case domain.IntentUnclear, domain.IntentMalformedResponse:
		telemetry.IntentsTotal.WithLabelValues(string(result.Kind), "not_understood").Inc()
		s.log.Warn("Oracle had no actionable instruction",
			zap.String("message_id", msg.MessageID),
			zap.String("kind", string(result.Kind)),
			zap.String("text", text),
		)
		return reply.CouldNotUnderstand()

	default:
		telemetry.IntentsTotal.WithLabelValues(string(result.Kind), "unhandled").Inc()
		s.log.Error("Unhandled intent kind", zap.String("kind", string(result.Kind)))
		return reply.CouldNotUnderstand()
	}
}
