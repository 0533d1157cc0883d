package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/hawala-bot/internal/ports"
)

// MessageDeduper remembers which webhook message IDs have already been
// processed. Meta redelivers webhooks when the 200 is slow or lost, and a
// redelivered transfer message must not create a second ledger row.
//
// The deduper fails open: a cache outage means a message is processed, never
// dropped.
type MessageDeduper struct {
	cache ports.Cache
	ttl   time.Duration
	log   *zap.Logger
}

func NewMessageDeduper(cache ports.Cache, ttl time.Duration, log *zap.Logger) *MessageDeduper {
	return &MessageDeduper{
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

// Seen reports whether the message ID was already processed and marks it as
// processed for the configured TTL.
func (d *MessageDeduper) Seen(ctx context.Context, messageID string) bool {
	if d.cache == nil || messageID == "" {
		return false
	}

	key := "msg:" + messageID
	if _, err := d.cache.Get(ctx, key); err == nil {
		return true
	}

	if err := d.cache.Set(ctx, key, "1", d.ttl); err != nil {
		d.log.Warn("Message dedup cache write failed", zap.String("message_id", messageID), zap.Error(err))
	}
	return false
}
