// Package transcriber turns a voice message into text: download the media
// from the messaging platform, then run speech to text.
package transcriber

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/seu-repo/hawala-bot/internal/ports"
)

type Service struct {
	media ports.MediaStore
	stt   ports.SpeechToText
	log   *zap.Logger
}

func NewService(media ports.MediaStore, stt ports.SpeechToText, log *zap.Logger) ports.Transcriber {
	return &Service{
		media: media,
		stt:   stt,
		log:   log,
	}
}

func (s *Service) Transcribe(ctx context.Context, mediaID string) (string, error) {
	audio, err := s.media.DownloadMedia(ctx, mediaID)
	if err != nil {
		return "", fmt.Errorf("transcriber: fetch media %s: %w", mediaID, err)
	}

	text, err := s.stt.TranscribeAudio(ctx, audio)
	if err != nil {
		return "", fmt.Errorf("transcriber: speech to text: %w", err)
	}

	s.log.Info("Voice message transcribed", zap.String("media_id", mediaID))
	return text, nil
}
