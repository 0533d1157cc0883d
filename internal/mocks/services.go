package mocks

import (
	"context"

	"github.com/seu-repo/hawala-bot/internal/domain"
)

// MockOracle is a mock implementation of Oracle
type MockOracle struct {
	ResolveIntentFunc func(ctx context.Context, text string) (*domain.IntentResult, error)
}

func (m *MockOracle) ResolveIntent(ctx context.Context, text string) (*domain.IntentResult, error) {
	if m.ResolveIntentFunc != nil {
		return m.ResolveIntentFunc(ctx, text)
	}
	return &domain.IntentResult{Kind: domain.IntentUnclear}, nil
}

// MockTranscriber is a mock implementation of Transcriber
type MockTranscriber struct {
	TranscribeFunc func(ctx context.Context, mediaID string) (string, error)
}

func (m *MockTranscriber) Transcribe(ctx context.Context, mediaID string) (string, error) {
	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, mediaID)
	}
	return "", nil
}

// MockSpeechToText is a mock implementation of SpeechToText
type MockSpeechToText struct {
	TranscribeAudioFunc func(ctx context.Context, audio []byte) (string, error)
}

func (m *MockSpeechToText) TranscribeAudio(ctx context.Context, audio []byte) (string, error) {
	if m.TranscribeAudioFunc != nil {
		return m.TranscribeAudioFunc(ctx, audio)
	}
	return "", nil
}

// MockMediaStore is a mock implementation of MediaStore
type MockMediaStore struct {
	DownloadMediaFunc func(ctx context.Context, mediaID string) ([]byte, error)
}

func (m *MockMediaStore) DownloadMedia(ctx context.Context, mediaID string) ([]byte, error) {
	if m.DownloadMediaFunc != nil {
		return m.DownloadMediaFunc(ctx, mediaID)
	}
	return nil, nil
}

// MockMessenger is a mock implementation of Messenger
type MockMessenger struct {
	SendTextFunc func(ctx context.Context, recipientID, text string) error
}

func (m *MockMessenger) SendText(ctx context.Context, recipientID, text string) error {
	if m.SendTextFunc != nil {
		return m.SendTextFunc(ctx, recipientID, text)
	}
	return nil
}

// MockLedgerService is a mock implementation of LedgerService
type MockLedgerService struct {
	RecordTransferFunc   func(ctx context.Context, intent *domain.RecordTransferIntent, recordedBy, originalText string) string
	QueryBranchTotalFunc func(ctx context.Context, intent *domain.QueryBranchTotalIntent) string
}

func (m *MockLedgerService) RecordTransfer(ctx context.Context, intent *domain.RecordTransferIntent, recordedBy, originalText string) string {
	if m.RecordTransferFunc != nil {
		return m.RecordTransferFunc(ctx, intent, recordedBy, originalText)
	}
	return ""
}

func (m *MockLedgerService) QueryBranchTotal(ctx context.Context, intent *domain.QueryBranchTotalIntent) string {
	if m.QueryBranchTotalFunc != nil {
		return m.QueryBranchTotalFunc(ctx, intent)
	}
	return ""
}

// MockAlertSender is a mock implementation of AlertSender
type MockAlertSender struct {
	SendFunc func(ctx context.Context, subject, body string) error
}

func (m *MockAlertSender) Send(ctx context.Context, subject, body string) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, subject, body)
	}
	return nil
}
