package ports

import (
	"context"
	"time"

	"github.com/seu-repo/hawala-bot/internal/domain"
)

// Oracle is the external NLU service that turns free text into a structured
// intent via function calling. Transport failures are reported inside the
// IntentResult (OracleUnavailable), not as an error: the error return is
// reserved for programming mistakes such as empty input.
type Oracle interface {
	ResolveIntent(ctx context.Context, text string) (*domain.IntentResult, error)
}

// Transcriber converts a voice message, identified by its media handle, into
// plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaID string) (string, error)
}

// SpeechToText converts a raw audio payload into plain text.
type SpeechToText interface {
	TranscribeAudio(ctx context.Context, audio []byte) (string, error)
}

// MediaStore fetches media attachments from the messaging platform.
type MediaStore interface {
	DownloadMedia(ctx context.Context, mediaID string) ([]byte, error)
}

// Messenger delivers replies to the end user.
type Messenger interface {
	SendText(ctx context.Context, recipientID, text string) error
}

// LedgerService exposes the two business operations triggered by resolved
// intents. Both return the user-facing reply text; failures are folded into
// the fixed reply templates, never surfaced as errors.
type LedgerService interface {
	RecordTransfer(ctx context.Context, intent *domain.RecordTransferIntent, recordedBy, originalText string) string
	QueryBranchTotal(ctx context.Context, intent *domain.QueryBranchTotalIntent) string
}

// AlertSender notifies operators about conditions that must never reach the
// end user, such as a canonical branch missing from the database.
type AlertSender interface {
	Send(ctx context.Context, subject, body string) error
}

type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}
