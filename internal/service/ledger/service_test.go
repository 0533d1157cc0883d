package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/hawala-bot/internal/domain"
	"github.com/seu-repo/hawala-bot/internal/mocks"
	"github.com/seu-repo/hawala-bot/internal/ports"
	"github.com/seu-repo/hawala-bot/internal/reply"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func testDirectory() *domain.Directory {
	return domain.NewDirectory([]string{"السلالم", "المدينة", "الصويفية", "المركز الرئيسي"})
}

func seededBranchRepo() *mocks.MockBranchRepository {
	rows := map[string]*domain.Branch{
		"السلالم":         {ID: 1, Name: "السلالم"},
		"المدينة":         {ID: 2, Name: "المدينة"},
		"الصويفية":        {ID: 3, Name: "الصويفية"},
		"المركز الرئيسي": {ID: 4, Name: "المركز الرئيسي"},
	}
	return &mocks.MockBranchRepository{
		FindByNameFunc: func(ctx context.Context, name string) (*domain.Branch, error) {
			return rows[name], nil
		},
	}
}

func amount(v float64) *float64 { return &v }

func newTestService(branches ports.BranchRepository, transfers ports.TransferRepository, events *mocks.MockMessageQueue, alerts ports.AlertSender) ports.LedgerService {
	// A nil *MockMessageQueue must not reach the interface parameter, or the
	// service would see a non-nil queue.
	if events == nil {
		return NewService(testDirectory(), branches, transfers, nil, alerts, "JOD", newTestLogger())
	}
	return NewService(testDirectory(), branches, transfers, events, alerts, "JOD", newTestLogger())
}

func TestRecordTransfer_Success(t *testing.T) {
	ctx := context.Background()

	var created *domain.Transfer
	transfers := &mocks.MockTransferRepository{
		CreateFunc: func(ctx context.Context, transfer *domain.Transfer) error {
			transfer.ID = 42
			created = transfer
			return nil
		},
	}
	events := mocks.NewMockMessageQueue()
	service := newTestService(seededBranchRepo(), transfers, events, nil)

	intent := &domain.RecordTransferIntent{
		Amount:            amount(500),
		Currency:          "JOD",
		SourceBranch:      "السلالم",
		DestinationBranch: "المدينة",
	}

	got := service.RecordTransfer(ctx, intent, "9627XXXXXXXX", "حول 500 من السلالم للمدينة")

	want := reply.TransferConfirmed(500, "JOD", "السلالم", "المدينة")
	if got != want {
		t.Errorf("reply = %q, want %q", got, want)
	}
	if created == nil {
		t.Fatal("transfer was not persisted")
	}
	if created.SourceBranchID != 1 || created.DestinationBranchID != 2 {
		t.Errorf("wrong branch ids: source %d destination %d", created.SourceBranchID, created.DestinationBranchID)
	}
	if created.RecordedBy == nil || *created.RecordedBy != "9627XXXXXXXX" {
		t.Error("sender not attached to transfer")
	}
	if created.OriginalText == nil || *created.OriginalText == "" {
		t.Error("original text not attached to transfer")
	}

	published := events.PublishedMessages["transfer.recorded"]
	if len(published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(published))
	}
	var event domain.TransferRecordedEvent
	if err := json.Unmarshal(published[0], &event); err != nil {
		t.Fatalf("event payload not valid JSON: %v", err)
	}
	if event.TransferID != 42 || event.Amount != 500 {
		t.Errorf("unexpected event payload: %+v", event)
	}
	if event.EventID == "" {
		t.Error("event id not assigned")
	}
}

func TestRecordTransfer_QualifierPrefixedBranches(t *testing.T) {
	ctx := context.Background()

	var created *domain.Transfer
	transfers := &mocks.MockTransferRepository{
		CreateFunc: func(ctx context.Context, transfer *domain.Transfer) error {
			created = transfer
			return nil
		},
	}
	service := newTestService(seededBranchRepo(), transfers, nil, nil)

	intent := &domain.RecordTransferIntent{
		Amount:            amount(200),
		SourceBranch:      "فرع الصويفية",
		DestinationBranch: " فرع المركز الرئيسي ",
	}

	got := service.RecordTransfer(ctx, intent, "", "")

	if !strings.Contains(got, "الصويفية") || !strings.Contains(got, "المركز الرئيسي") {
		t.Errorf("expected canonical names in reply, got %q", got)
	}
	if created == nil {
		t.Fatal("transfer was not persisted")
	}
	if created.SourceBranchID != 3 || created.DestinationBranchID != 4 {
		t.Errorf("qualifier not stripped before lookup: source %d destination %d", created.SourceBranchID, created.DestinationBranchID)
	}
	if created.RecordedBy != nil {
		t.Error("empty sender must stay nil")
	}
}

func TestRecordTransfer_DefaultCurrencyApplied(t *testing.T) {
	ctx := context.Background()

	var created *domain.Transfer
	transfers := &mocks.MockTransferRepository{
		CreateFunc: func(ctx context.Context, transfer *domain.Transfer) error {
			created = transfer
			return nil
		},
	}
	service := newTestService(seededBranchRepo(), transfers, nil, nil)

	intent := &domain.RecordTransferIntent{
		Amount:            amount(100),
		SourceBranch:      "السلالم",
		DestinationBranch: "المدينة",
	}

	got := service.RecordTransfer(ctx, intent, "", "")

	if created == nil {
		t.Fatal("transfer was not persisted")
	}
	if created.Currency != "JOD" {
		t.Errorf("expected default currency JOD, got %q", created.Currency)
	}
	if !strings.Contains(got, "JOD") {
		t.Errorf("expected currency in reply, got %q", got)
	}
}

func TestRecordTransfer_MissingFields(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		intent *domain.RecordTransferIntent
		want   string
	}{
		{
			"no amount",
			&domain.RecordTransferIntent{SourceBranch: "السلالم", DestinationBranch: "المدينة"},
			reply.MissingTransferFields([]string{reply.FieldAmount}),
		},
		{
			"zero amount",
			&domain.RecordTransferIntent{Amount: amount(0), SourceBranch: "السلالم", DestinationBranch: "المدينة"},
			reply.MissingTransferFields([]string{reply.FieldAmount}),
		},
		{
			"negative amount",
			&domain.RecordTransferIntent{Amount: amount(-50), SourceBranch: "السلالم", DestinationBranch: "المدينة"},
			reply.MissingTransferFields([]string{reply.FieldAmount}),
		},
		{
			"no source",
			&domain.RecordTransferIntent{Amount: amount(100), DestinationBranch: "المدينة"},
			reply.MissingTransferFields([]string{reply.FieldSourceBranch}),
		},
		{
			"no destination",
			&domain.RecordTransferIntent{Amount: amount(100), SourceBranch: "السلالم"},
			reply.MissingTransferFields([]string{reply.FieldDestinationBranch}),
		},
		{
			"everything missing",
			&domain.RecordTransferIntent{},
			reply.MissingTransferFields([]string{reply.FieldAmount, reply.FieldSourceBranch, reply.FieldDestinationBranch}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transfers := &mocks.MockTransferRepository{
				CreateFunc: func(ctx context.Context, transfer *domain.Transfer) error {
					t.Fatal("no write may happen on a rejected transfer")
					return nil
				},
			}
			service := newTestService(seededBranchRepo(), transfers, nil, nil)

			if got := service.RecordTransfer(ctx, tt.intent, "", ""); got != tt.want {
				t.Errorf("reply = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecordTransfer_UnknownBranch(t *testing.T) {
	ctx := context.Background()

	transfers := &mocks.MockTransferRepository{
		CreateFunc: func(ctx context.Context, transfer *domain.Transfer) error {
			t.Fatal("no write may happen for an unknown branch")
			return nil
		},
	}
	service := newTestService(seededBranchRepo(), transfers, nil, nil)

	intent := &domain.RecordTransferIntent{
		Amount:            amount(300),
		SourceBranch:      "العبدلي",
		DestinationBranch: "المدينة",
	}

	got := service.RecordTransfer(ctx, intent, "", "")

	if !strings.Contains(got, "'العبدلي'") {
		t.Errorf("expected raw value echoed in reply, got %q", got)
	}
	if !strings.Contains(got, "السلالم") {
		t.Errorf("expected known branch list in reply, got %q", got)
	}
}

func TestRecordTransfer_UnknownDestinationAfterValidSource(t *testing.T) {
	ctx := context.Background()

	service := newTestService(seededBranchRepo(), &mocks.MockTransferRepository{}, nil, nil)

	intent := &domain.RecordTransferIntent{
		Amount:            amount(300),
		SourceBranch:      "السلالم",
		DestinationBranch: "فرع الزرقاء",
	}

	got := service.RecordTransfer(ctx, intent, "", "")

	if !strings.Contains(got, "'فرع الزرقاء'") {
		t.Errorf("expected the raw destination in the reply, got %q", got)
	}
}

func TestRecordTransfer_SelfTransferRejected(t *testing.T) {
	ctx := context.Background()

	transfers := &mocks.MockTransferRepository{
		CreateFunc: func(ctx context.Context, transfer *domain.Transfer) error {
			t.Fatal("no write may happen for a self transfer")
			return nil
		},
	}
	service := newTestService(seededBranchRepo(), transfers, nil, nil)

	// Qualifier and spacing differ but both resolve to the same branch.
	intent := &domain.RecordTransferIntent{
		Amount:            amount(100),
		SourceBranch:      "فرع السلالم",
		DestinationBranch: " السلالم ",
	}

	if got := service.RecordTransfer(ctx, intent, "", ""); got != reply.SelfTransferRejected() {
		t.Errorf("reply = %q, want self-transfer rejection", got)
	}
}

func TestRecordTransfer_BranchDesyncAlertsOperators(t *testing.T) {
	ctx := context.Background()

	// Directory knows the branch, database does not.
	branches := &mocks.MockBranchRepository{
		FindByNameFunc: func(ctx context.Context, name string) (*domain.Branch, error) {
			return nil, nil
		},
	}
	alerted := false
	alerts := &mocks.MockAlertSender{
		SendFunc: func(ctx context.Context, subject, body string) error {
			alerted = true
			return nil
		},
	}
	service := newTestService(branches, &mocks.MockTransferRepository{}, nil, alerts)

	intent := &domain.RecordTransferIntent{
		Amount:            amount(100),
		SourceBranch:      "السلالم",
		DestinationBranch: "المدينة",
	}

	if got := service.RecordTransfer(ctx, intent, "", ""); got != reply.GenericError() {
		t.Errorf("reply = %q, want generic error", got)
	}
	if !alerted {
		t.Error("expected an operator alert on directory desync")
	}
}

func TestRecordTransfer_PersistenceFailure(t *testing.T) {
	ctx := context.Background()

	transfers := &mocks.MockTransferRepository{
		CreateFunc: func(ctx context.Context, transfer *domain.Transfer) error {
			return errors.New("connection reset")
		},
	}
	events := mocks.NewMockMessageQueue()
	service := newTestService(seededBranchRepo(), transfers, events, nil)

	intent := &domain.RecordTransferIntent{
		Amount:            amount(100),
		SourceBranch:      "السلالم",
		DestinationBranch: "المدينة",
	}

	if got := service.RecordTransfer(ctx, intent, "", ""); got != reply.GenericError() {
		t.Errorf("reply = %q, want generic error", got)
	}
	if len(events.PublishedMessages) != 0 {
		t.Error("no event may be published for a failed write")
	}
}

func TestRecordTransfer_PublishFailureDoesNotAffectReply(t *testing.T) {
	ctx := context.Background()

	transfers := &mocks.MockTransferRepository{}
	events := mocks.NewMockMessageQueue()
	events.PublishFunc = func(subject string, data []byte) error {
		return errors.New("broker down")
	}
	service := newTestService(seededBranchRepo(), transfers, events, nil)

	intent := &domain.RecordTransferIntent{
		Amount:            amount(100),
		SourceBranch:      "السلالم",
		DestinationBranch: "المدينة",
	}

	got := service.RecordTransfer(ctx, intent, "", "")
	if got != reply.TransferConfirmed(100, "JOD", "السلالم", "المدينة") {
		t.Errorf("a broker failure must not break the confirmation, got %q", got)
	}
}

func TestQueryBranchTotal_WithTransfers(t *testing.T) {
	ctx := context.Background()

	transfers := &mocks.MockTransferRepository{
		SumFromBranchTodayFunc: func(ctx context.Context, branchID uint) (float64, error) {
			if branchID != 1 {
				t.Errorf("expected branch id 1, got %d", branchID)
			}
			return 1250.5, nil
		},
	}
	service := newTestService(seededBranchRepo(), transfers, nil, nil)

	got := service.QueryBranchTotal(ctx, &domain.QueryBranchTotalIntent{Branch: "فرع السلالم"})

	want := reply.QueryResult("السلالم", 1250.5, "JOD")
	if got != want {
		t.Errorf("reply = %q, want %q", got, want)
	}
}

func TestQueryBranchTotal_NoTransfers(t *testing.T) {
	ctx := context.Background()

	transfers := &mocks.MockTransferRepository{
		SumFromBranchTodayFunc: func(ctx context.Context, branchID uint) (float64, error) {
			return 0, nil
		},
	}
	service := newTestService(seededBranchRepo(), transfers, nil, nil)

	got := service.QueryBranchTotal(ctx, &domain.QueryBranchTotalIntent{Branch: "المدينة"})

	if got != reply.QueryNoResult("المدينة") {
		t.Errorf("reply = %q, want no-result message", got)
	}
}

func TestQueryBranchTotal_MissingBranch(t *testing.T) {
	ctx := context.Background()

	branches := &mocks.MockBranchRepository{
		FindByNameFunc: func(ctx context.Context, name string) (*domain.Branch, error) {
			t.Fatal("repository must not be touched without a branch entity")
			return nil, nil
		},
	}
	service := newTestService(branches, &mocks.MockTransferRepository{}, nil, nil)

	if got := service.QueryBranchTotal(ctx, &domain.QueryBranchTotalIntent{}); got != reply.MissingQueryBranch() {
		t.Errorf("reply = %q, want missing-branch message", got)
	}
}

func TestQueryBranchTotal_UnknownBranch(t *testing.T) {
	ctx := context.Background()

	service := newTestService(seededBranchRepo(), &mocks.MockTransferRepository{}, nil, nil)

	got := service.QueryBranchTotal(ctx, &domain.QueryBranchTotalIntent{Branch: "اربد"})

	if !strings.Contains(got, "'اربد'") {
		t.Errorf("expected raw value echoed in reply, got %q", got)
	}
}

func TestQueryBranchTotal_UnsupportedDateRangeFallsBackToToday(t *testing.T) {
	ctx := context.Background()

	called := false
	transfers := &mocks.MockTransferRepository{
		SumFromBranchTodayFunc: func(ctx context.Context, branchID uint) (float64, error) {
			called = true
			return 90, nil
		},
	}
	service := newTestService(seededBranchRepo(), transfers, nil, nil)

	got := service.QueryBranchTotal(ctx, &domain.QueryBranchTotalIntent{Branch: "السلالم", DateRange: "this week"})

	if !called {
		t.Fatal("expected a today query despite the unsupported range")
	}
	if got != reply.QueryResult("السلالم", 90, "JOD") {
		t.Errorf("reply = %q, want today's total", got)
	}
}

// memoryBranchRepository is an in-memory BranchRepository backed by a map.
type memoryBranchRepository struct {
	rows map[string]*domain.Branch
}

func newMemoryBranchRepository() *memoryBranchRepository {
	return &memoryBranchRepository{rows: make(map[string]*domain.Branch)}
}

func (r *memoryBranchRepository) FindByName(ctx context.Context, name string) (*domain.Branch, error) {
	if branch, ok := r.rows[name]; ok {
		return branch, nil
	}
	return nil, nil
}

func (r *memoryBranchRepository) SeedIfEmpty(ctx context.Context, names []string) error {
	if len(r.rows) > 0 {
		return nil
	}
	for i, name := range names {
		r.rows[name] = &domain.Branch{ID: uint(i + 1), Name: name, IsActive: true}
	}
	return nil
}

// memoryTransferRepository is an in-memory TransferRepository backed by a
// slice, with server-assigned IDs and timestamps like the real one.
type memoryTransferRepository struct {
	nextID    uint
	transfers []domain.Transfer
}

func newMemoryTransferRepository() *memoryTransferRepository {
	return &memoryTransferRepository{nextID: 1}
}

func (r *memoryTransferRepository) Create(ctx context.Context, transfer *domain.Transfer) error {
	transfer.ID = r.nextID
	transfer.Timestamp = time.Now()
	r.nextID++
	r.transfers = append(r.transfers, *transfer)
	return nil
}

func (r *memoryTransferRepository) SumFromBranchToday(ctx context.Context, branchID uint) (float64, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var total float64
	for _, t := range r.transfers {
		if t.SourceBranchID == branchID && !t.Timestamp.Before(startOfDay) {
			total += t.Amount
		}
	}
	return total, nil
}

func TestRecordThenQueryRoundTrip(t *testing.T) {
	ctx := context.Background()

	branches := newMemoryBranchRepository()
	if err := branches.SeedIfEmpty(ctx, testDirectory().List()); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	transfers := newMemoryTransferRepository()
	service := NewService(testDirectory(), branches, transfers, nil, nil, "JOD", newTestLogger())

	recorded := service.RecordTransfer(ctx, &domain.RecordTransferIntent{
		Amount:            amount(350),
		SourceBranch:      "السلالم",
		DestinationBranch: "المدينة",
	}, "9627XXXXXXXX", "حول 350 من السلالم للمدينة")

	if recorded != reply.TransferConfirmed(350, "JOD", "السلالم", "المدينة") {
		t.Fatalf("record reply = %q, want confirmation", recorded)
	}

	// The query right after must see the amount just recorded.
	queried := service.QueryBranchTotal(ctx, &domain.QueryBranchTotalIntent{Branch: "السلالم"})
	if queried != reply.QueryResult("السلالم", 350, "JOD") {
		t.Errorf("query reply = %q, want total 350", queried)
	}

	// The destination branch sent nothing; only outgoing transfers count.
	queried = service.QueryBranchTotal(ctx, &domain.QueryBranchTotalIntent{Branch: "المدينة"})
	if queried != reply.QueryNoResult("المدينة") {
		t.Errorf("destination query reply = %q, want no-result", queried)
	}

	// A second transfer from the same source accumulates.
	service.RecordTransfer(ctx, &domain.RecordTransferIntent{
		Amount:            amount(150),
		SourceBranch:      "السلالم",
		DestinationBranch: "الصويفية",
	}, "", "")

	queried = service.QueryBranchTotal(ctx, &domain.QueryBranchTotalIntent{Branch: "السلالم"})
	if queried != reply.QueryResult("السلالم", 500, "JOD") {
		t.Errorf("accumulated query reply = %q, want total 500", queried)
	}
}

func TestQueryBranchTotal_RepositoryFailure(t *testing.T) {
	ctx := context.Background()

	transfers := &mocks.MockTransferRepository{
		SumFromBranchTodayFunc: func(ctx context.Context, branchID uint) (float64, error) {
			return 0, errors.New("connection reset")
		},
	}
	service := newTestService(seededBranchRepo(), transfers, nil, nil)

	if got := service.QueryBranchTotal(ctx, &domain.QueryBranchTotalIntent{Branch: "السلالم"}); got != reply.GenericError() {
		t.Errorf("reply = %q, want generic error", got)
	}
}
