package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/evraktakip/evraktakip/internal/domain"
	"github.com/evraktakip/evraktakip/internal/infrastructure/metrics"
)

// DocumentUseCase handles document lifecycle business logic.
type DocumentUseCase struct {
	docRepo      DocumentRepository
	historyRepo  HistoryRepository
	customerRepo CustomerRepository
	actors       ActorDirectory
	notifier     Notifier
	idGen        IDGenerator
	logger       zerolog.Logger
	metrics      *metrics.Metrics
}

// NewDocumentUseCase creates a new DocumentUseCase.
func NewDocumentUseCase(
	docRepo DocumentRepository,
	historyRepo HistoryRepository,
	customerRepo CustomerRepository,
	actors ActorDirectory,
	notifier Notifier,
	idGen IDGenerator,
	logger zerolog.Logger,
	metrics *metrics.Metrics,
) *DocumentUseCase {
	return &DocumentUseCase{
		docRepo:      docRepo,
		historyRepo:  historyRepo,
		customerRepo: customerRepo,
		actors:       actors,
		notifier:     notifier,
		idGen:        idGen,
		logger:       logger,
		metrics:      metrics,
	}
}

// CreateDocumentInput represents input for creating a document.
type CreateDocumentInput struct {
	Kind         string
	Number       string
	Amount       decimal.Decimal
	Currency     string
	ExchangeRate *decimal.Decimal
	IssueDate    *time.Time
	DueDate      time.Time
	BankID       *string
	BankName     string
	Drawer       string
	CustomerID   *string
	Notes        string
	Actor        string
}

// CreateDocument inserts a new document in the portfolio status and records
// the creation event in the history trail.
func (uc *DocumentUseCase) CreateDocument(ctx context.Context, input CreateDocumentInput) (*domain.Document, error) {
	kind, ok := domain.ParseDocumentKind(input.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: unknown document kind %q", domain.ErrValidation, input.Kind)
	}

	number := strings.TrimSpace(input.Number)

	exists, err := uc.docRepo.ExistsByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateNumber, number)
	}

	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = domain.BaseCurrency
	}

	rate := input.ExchangeRate
	if currency == domain.BaseCurrency {
		rate = nil
	}

	now := time.Now().UTC()
	doc := &domain.Document{
		ID:           uc.idGen.Generate(),
		Kind:         kind,
		Number:       number,
		Amount:       input.Amount,
		Currency:     currency,
		ExchangeRate: rate,
		IssueDate:    input.IssueDate,
		DueDate:      input.DueDate,
		BankID:       input.BankID,
		BankName:     domain.Truncate(input.BankName, domain.MaxBankNameLength),
		Drawer:       domain.Truncate(input.Drawer, domain.MaxDrawerNameLength),
		CustomerID:   input.CustomerID,
		Notes:        domain.Truncate(input.Notes, domain.MaxNotesLength),
		Status:       domain.StatusInPortfolio,
		CreatedBy:    input.Actor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	if err := uc.docRepo.Create(ctx, doc); err != nil {
		return nil, err
	}

	entry := &domain.StatusEntry{
		ID:         uc.idGen.Generate(),
		DocumentID: doc.ID,
		FromStatus: nil,
		ToStatus:   doc.Status,
		Note:       "Evrak oluşturuldu",
		ActorID:    input.Actor,
		CreatedAt:  now,
	}
	if err := uc.historyRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.DocumentsCreated.Inc()
	}

	return doc, nil
}

// GetDocument retrieves a document with its customer and bank attached.
func (uc *DocumentUseCase) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	return uc.docRepo.GetByIDWithRelations(ctx, id)
}

// ListDocuments lists documents matching the filter.
func (uc *DocumentUseCase) ListDocuments(ctx context.Context, filter DocumentFilter) ([]*domain.Document, error) {
	if filter.Limit <= 0 {
		filter.Limit = DefaultPageSize
	}
	if filter.Limit > MaxPageSize {
		filter.Limit = MaxPageSize
	}

	return uc.docRepo.List(ctx, filter)
}

// UpdateDocumentInput carries the mutable document fields. Status is never
// updated here; only Transition touches it.
type UpdateDocumentInput struct {
	Amount       *decimal.Decimal
	Currency     *string
	ExchangeRate *decimal.Decimal
	IssueDate    *time.Time
	DueDate      *time.Time
	BankID       *string
	BankName     *string
	Drawer       *string
	CustomerID   *string
	Notes        *string
}

// UpdateDocument applies field updates to a document.
func (uc *DocumentUseCase) UpdateDocument(ctx context.Context, id string, input UpdateDocumentInput) (*domain.Document, error) {
	doc, err := uc.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Amount != nil {
		doc.Amount = *input.Amount
	}
	if input.Currency != nil {
		doc.Currency = strings.ToUpper(strings.TrimSpace(*input.Currency))
	}
	if input.ExchangeRate != nil {
		doc.ExchangeRate = input.ExchangeRate
	}
	if doc.Currency == domain.BaseCurrency {
		doc.ExchangeRate = nil
	}
	if input.IssueDate != nil {
		doc.IssueDate = input.IssueDate
	}
	if input.DueDate != nil {
		doc.DueDate = *input.DueDate
	}
	if input.BankID != nil {
		doc.BankID = input.BankID
	}
	if input.BankName != nil {
		doc.BankName = domain.Truncate(*input.BankName, domain.MaxBankNameLength)
	}
	if input.Drawer != nil {
		doc.Drawer = domain.Truncate(*input.Drawer, domain.MaxDrawerNameLength)
	}
	if input.CustomerID != nil {
		doc.CustomerID = input.CustomerID
	}
	if input.Notes != nil {
		doc.Notes = domain.Truncate(*input.Notes, domain.MaxNotesLength)
	}
	doc.UpdatedAt = time.Now().UTC()

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	if err := uc.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// DeleteDocument removes a document. History entries are children of the
// document; they are only removed when cascade is set, otherwise the delete
// is refused.
func (uc *DocumentUseCase) DeleteDocument(ctx context.Context, id string, cascade bool) error {
	if _, err := uc.docRepo.GetByID(ctx, id); err != nil {
		return err
	}

	entries, err := uc.historyRepo.ListByDocument(ctx, id)
	if err != nil {
		return err
	}

	if len(entries) > 0 {
		if !cascade {
			return fmt.Errorf("%w: delete with cascade to remove them", domain.ErrDocumentHasHistory)
		}
		if err := uc.historyRepo.DeleteByDocument(ctx, id); err != nil {
			return err
		}
	}

	return uc.docRepo.Delete(ctx, id)
}

// TransitionResult is the outcome of a successful status transition.
type TransitionResult struct {
	Document     *domain.Document
	HistoryEntry *domain.StatusEntry
	Message      string
}

// Transition moves a document to a new status, appends a history entry and
// dispatches a best-effort notification. The notification can never fail the
// transition.
func (uc *DocumentUseCase) Transition(ctx context.Context, id string, newStatus domain.DocumentStatus, note, actor string) (*TransitionResult, error) {
	doc, err := uc.docRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := domain.CheckTransition(doc.Status, newStatus); err != nil {
		if uc.metrics != nil {
			uc.metrics.TransitionErrors.WithLabelValues(transitionErrorReason(err)).Inc()
		}
		return nil, err
	}

	now := time.Now().UTC()
	if err := uc.docRepo.UpdateStatus(ctx, id, newStatus, now); err != nil {
		return nil, err
	}

	prev := doc.Status
	entry := &domain.StatusEntry{
		ID:         uc.idGen.Generate(),
		DocumentID: id,
		FromStatus: &prev,
		ToStatus:   newStatus,
		Note:       note,
		ActorID:    actor,
		CreatedAt:  now,
	}
	if err := uc.historyRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	updated, err := uc.docRepo.GetByIDWithRelations(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.StatusTransitions.WithLabelValues(string(prev), string(newStatus)).Inc()
	}

	uc.notifyTransition(ctx, updated, prev, newStatus, actor)

	return &TransitionResult{
		Document:     updated,
		HistoryEntry: entry,
		Message:      fmt.Sprintf("Evrak durumu güncellendi: %s -> %s", prev, newStatus),
	}, nil
}

// notifyTransition sends the transition message to every configured
// recipient. Failures are logged and swallowed.
func (uc *DocumentUseCase) notifyTransition(ctx context.Context, doc *domain.Document, from, to domain.DocumentStatus, actor string) {
	if uc.notifier == nil || !uc.notifier.Enabled() {
		return
	}

	recipients := uc.notifier.Recipients()
	if len(recipients) == 0 {
		return
	}

	text := composeTransitionMessage(doc, from, to, actor)

	for _, recipient := range recipients {
		if err := uc.notifier.Send(ctx, recipient, text); err != nil {
			if uc.metrics != nil {
				uc.metrics.NotificationsFailed.Inc()
			}
			uc.logger.Warn().
				Err(err).
				Str("document_id", doc.ID).
				Str("recipient", recipient).
				Msg("transition notification failed")
			continue
		}
		if uc.metrics != nil {
			uc.metrics.NotificationsSent.Inc()
		}
	}
}

// transitionErrorReason maps rejection errors to a bounded metric label.
func transitionErrorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrSameStatus):
		return "same_status"
	case errors.Is(err, domain.ErrTerminalStatus):
		return "terminal_status"
	case errors.Is(err, domain.ErrTransitionNotAllowed):
		return "not_allowed"
	default:
		return "other"
	}
}

func composeTransitionMessage(doc *domain.Document, from, to domain.DocumentStatus, actor string) string {
	kindName := "Çek"
	if doc.Kind == domain.KindNote {
		kindName = "Senet"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s No: %s\n", kindName, doc.Number)
	if doc.Customer != nil {
		fmt.Fprintf(&b, "Cari: %s\n", doc.Customer.Name)
	}
	fmt.Fprintf(&b, "Durum: %s -> %s\n", from, to)
	fmt.Fprintf(&b, "Tutar: %s %s\n", doc.Amount.StringFixed(2), doc.Currency)
	fmt.Fprintf(&b, "Vade: %s\n", doc.DueDate.Format("02.01.2006"))
	fmt.Fprintf(&b, "İşlemi yapan: %s", actor)

	return b.String()
}

// GetHistory lists the status history of a document, newest first, with
// actor names resolved in one batched directory lookup.
func (uc *DocumentUseCase) GetHistory(ctx context.Context, documentID string) ([]*domain.StatusEntry, error) {
	if _, err := uc.docRepo.GetByID(ctx, documentID); err != nil {
		return nil, err
	}

	entries, err := uc.historyRepo.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	if len(entries) == 0 {
		return entries, nil
	}

	seen := make(map[string]bool)
	var ids []string
	for _, e := range entries {
		if e.ActorID != "" && !seen[e.ActorID] {
			seen[e.ActorID] = true
			ids = append(ids, e.ActorID)
		}
	}

	names, err := uc.actors.GetNames(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, e := range entries {
		e.ActorName = names[e.ActorID]
	}

	return entries, nil
}
