// Package ledger implements the two business operations of the bot:
// recording a transfer between branches and computing a branch's total
// outgoing transfers for the current day.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/hawala-bot/internal/adapter/queue"
	"github.com/seu-repo/hawala-bot/internal/domain"
	"github.com/seu-repo/hawala-bot/internal/observability/telemetry"
	"github.com/seu-repo/hawala-bot/internal/ports"
	"github.com/seu-repo/hawala-bot/internal/reply"
)

// ErrBranchDesync marks the case where a name passed strict normalization
// but has no row in the database. That is a bootstrap bug, not user input.
var ErrBranchDesync = errors.New("branch directory out of sync with database")

const transferRecordedSubject = "transfer.recorded"

type Service struct {
	directory       *domain.Directory
	branches        ports.BranchRepository
	transfers       ports.TransferRepository
	events          queue.MessageQueue
	alerts          ports.AlertSender
	defaultCurrency string
	log             *zap.Logger
}

func NewService(
	directory *domain.Directory,
	branches ports.BranchRepository,
	transfers ports.TransferRepository,
	events queue.MessageQueue,
	alerts ports.AlertSender,
	defaultCurrency string,
	log *zap.Logger,
) ports.LedgerService {
	return &Service{
		directory:       directory,
		branches:        branches,
		transfers:       transfers,
		events:          events,
		alerts:          alerts,
		defaultCurrency: defaultCurrency,
		log:             log,
	}
}

// RecordTransfer validates the extracted entities in a fixed order and, when
// everything holds, persists the transfer. The first failing check decides
// the reply; no ledger write happens on any validation failure.
func (s *Service) RecordTransfer(ctx context.Context, intent *domain.RecordTransferIntent, recordedBy, originalText string) string {
	var missing []string
	if intent.Amount == nil || *intent.Amount <= 0 {
		missing = append(missing, reply.FieldAmount)
	}
	if intent.SourceBranch == "" {
		missing = append(missing, reply.FieldSourceBranch)
	}
	if intent.DestinationBranch == "" {
		missing = append(missing, reply.FieldDestinationBranch)
	}
	if len(missing) > 0 {
		s.log.Warn("Transfer rejected: missing or invalid fields", zap.Strings("fields", missing))
		return reply.MissingTransferFields(missing)
	}

	source, ok := s.directory.Normalize(intent.SourceBranch)
	if !ok {
		s.log.Warn("Transfer rejected: unknown source branch", zap.String("raw", intent.SourceBranch))
		return reply.BranchNotFound(intent.SourceBranch, s.directory.List())
	}
	destination, ok := s.directory.Normalize(intent.DestinationBranch)
	if !ok {
		s.log.Warn("Transfer rejected: unknown destination branch", zap.String("raw", intent.DestinationBranch))
		return reply.BranchNotFound(intent.DestinationBranch, s.directory.List())
	}

	if source == destination {
		s.log.Warn("Transfer rejected: source equals destination", zap.String("branch", source))
		return reply.SelfTransferRejected()
	}

	currency := intent.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}

	sourceBranch, err := s.lookupBranch(ctx, source)
	if err != nil {
		s.internalError(ctx, err)
		return reply.GenericError()
	}
	destBranch, err := s.lookupBranch(ctx, destination)
	if err != nil {
		s.internalError(ctx, err)
		return reply.GenericError()
	}

	transfer := &domain.Transfer{
		Amount:              *intent.Amount,
		Currency:            currency,
		SourceBranchID:      sourceBranch.ID,
		DestinationBranchID: destBranch.ID,
	}
	if recordedBy != "" {
		transfer.RecordedBy = &recordedBy
	}
	if originalText != "" {
		transfer.OriginalText = &originalText
	}

	if err := s.transfers.Create(ctx, transfer); err != nil {
		s.internalError(ctx, fmt.Errorf("create transfer: %w", err))
		return reply.GenericError()
	}

	telemetry.TransfersRecordedTotal.Inc()
	s.log.Info("Transfer recorded",
		zap.Uint("transfer_id", transfer.ID),
		zap.Float64("amount", transfer.Amount),
		zap.String("currency", currency),
		zap.String("source", source),
		zap.String("destination", destination),
	)

	s.publishRecorded(transfer, source, destination)

	return reply.TransferConfirmed(*intent.Amount, currency, source, destination)
}

// QueryBranchTotal computes the current-day outgoing total for one branch.
// Date ranges other than "today" are accepted but treated as today.
func (s *Service) QueryBranchTotal(ctx context.Context, intent *domain.QueryBranchTotalIntent) string {
	if intent.Branch == "" {
		s.log.Warn("Query rejected: missing branch entity")
		return reply.MissingQueryBranch()
	}

	branch, ok := s.directory.Normalize(intent.Branch)
	if !ok {
		s.log.Warn("Query rejected: unknown branch", zap.String("raw", intent.Branch))
		return reply.BranchNotFound(intent.Branch, s.directory.List())
	}

	if intent.DateRange != "" && intent.DateRange != "today" {
		s.log.Info("Unsupported date range requested, proceeding with today",
			zap.String("date_range", intent.DateRange),
		)
	}

	target, err := s.lookupBranch(ctx, branch)
	if err != nil {
		s.internalError(ctx, err)
		return reply.GenericError()
	}

	total, err := s.transfers.SumFromBranchToday(ctx, target.ID)
	if err != nil {
		s.internalError(ctx, fmt.Errorf("sum transfers: %w", err))
		return reply.GenericError()
	}

	if total > 0 {
		return reply.QueryResult(branch, total, s.defaultCurrency)
	}
	return reply.QueryNoResult(branch)
}

// lookupBranch resolves a canonical name to its database row. Absence after
// successful normalization means the seed and the directory diverged.
func (s *Service) lookupBranch(ctx context.Context, name string) (*domain.Branch, error) {
	branch, err := s.branches.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("find branch %q: %w", name, err)
	}
	if branch == nil {
		return nil, fmt.Errorf("branch %q: %w", name, ErrBranchDesync)
	}
	return branch, nil
}

func (s *Service) internalError(ctx context.Context, err error) {
	s.log.Error("Ledger operation failed", zap.Error(err))
	if errors.Is(err, ErrBranchDesync) && s.alerts != nil {
		s.alerts.Send(ctx, "hawala-bot: branch directory desync", err.Error())
	}
}

func (s *Service) publishRecorded(transfer *domain.Transfer, source, destination string) {
	if s.events == nil {
		return
	}

	event := domain.TransferRecordedEvent{
		EventID:     uuid.NewString(),
		TransferID:  transfer.ID,
		Amount:      transfer.Amount,
		Currency:    transfer.Currency,
		Source:      source,
		Destination: destination,
		RecordedAt:  time.Now(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Error("Failed to marshal transfer event", zap.Error(err))
		return
	}
	if err := s.events.Publish(transferRecordedSubject, payload); err != nil {
		s.log.Error("Failed to publish transfer event", zap.Error(err))
	}
}
