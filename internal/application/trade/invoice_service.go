package trade

import (
	"context"
	"errors"
	"fmt"
	"time"

	inventoryapp "github.com/Cloudritztech/Cloudritz-crm-sub000/internal/application/inventory"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/inventory"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/shared"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/domain/trade"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/logger"
	"github.com/Cloudritztech/Cloudritz-crm-sub000/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	invoiceServiceName    = "InvoiceService"
	defaultIdempotencyTTL = 24 * time.Hour
)

// InvoiceServiceConfig holds the orchestrator's policy switches
type InvoiceServiceConfig struct {
	// AllowNegativeStockOnUpdate skips the sufficiency check after an update
	// has restored the old quantities. Staff edits are then trusted as-is.
	AllowNegativeStockOnUpdate bool
	// IdempotencyTTL is how long a deduplication key is remembered
	IdempotencyTTL time.Duration
}

// CommandMeta identifies the caller of a mutating operation
type CommandMeta struct {
	TenantID uuid.UUID
	ActorID  uuid.UUID
	// IdempotencyKey is optional. A repeated key fails with DUPLICATE_REQUEST.
	IdempotencyKey string
}

// InvoiceService orchestrates the invoice lifecycle. Every mutation runs in a
// single transaction covering the invoice, its stock movements and its events.
type InvoiceService struct {
	txScope     TransactionScope
	invoiceRepo trade.InvoiceRepository
	ledger      *inventoryapp.StockLedger
	taxTable    *trade.TaxTable
	outbox      shared.OutboxEventSaver
	logger      *zap.Logger
	cfg         InvoiceServiceConfig

	sequence    trade.InvoiceSequence
	locker      trade.InvoiceLocker
	idempotency shared.IdempotencyStore
	metrics     *telemetry.BusinessMetrics
	now         func() time.Time
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	txScope TransactionScope,
	invoiceRepo trade.InvoiceRepository,
	ledger *inventoryapp.StockLedger,
	taxTable *trade.TaxTable,
	outbox shared.OutboxEventSaver,
	log *zap.Logger,
	cfg InvoiceServiceConfig,
) *InvoiceService {
	if log == nil {
		log = zap.NewNop()
	}
	if taxTable == nil {
		taxTable = trade.NewStandardTaxTable()
	}
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = defaultIdempotencyTTL
	}
	return &InvoiceService{
		txScope:     txScope,
		invoiceRepo: invoiceRepo,
		ledger:      ledger,
		taxTable:    taxTable,
		outbox:      outbox,
		logger:      log,
		cfg:         cfg,
		now:         time.Now,
	}
}

// SetSequence replaces the in-transaction database counter, e.g. with a Redis counter
func (s *InvoiceService) SetSequence(seq trade.InvoiceSequence) {
	s.sequence = seq
}

// SetLocker serializes Update, Delete and RecordPayment per invoice
func (s *InvoiceService) SetLocker(locker trade.InvoiceLocker) {
	s.locker = locker
}

// SetIdempotencyStore enables deduplication keys
func (s *InvoiceService) SetIdempotencyStore(store shared.IdempotencyStore) {
	s.idempotency = store
}

// SetBusinessMetrics enables invoice metrics
func (s *InvoiceService) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.metrics = bm
}

// SetClock overrides the time source used for numbering and payment dates
func (s *InvoiceService) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Create validates, prices, numbers and persists a new invoice and takes its stock.
func (s *InvoiceService) Create(ctx context.Context, meta CommandMeta, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, invoiceServiceName, "Create",
		telemetry.SpanAttrTenantID, meta.TenantID.String(),
		telemetry.SpanAttrCustomerID, req.CustomerID.String(),
		telemetry.SpanAttrItemCount, len(req.Items),
	)
	defer span.End()

	var inv *trade.Invoice
	err := s.guard(ctx, meta, telemetry.OperationCreate, uuid.Nil, func() error {
		return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			var err error
			inv, err = s.create(ctx, repos, meta, req)
			return err
		})
	})
	s.finish(ctx, span, meta.TenantID, telemetry.OperationCreate, err)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordInvoiceCreated(ctx, meta.TenantID, inv.GrandTotal)
	telemetry.SetAttributes(span, telemetry.SpanAttrInvoiceNumber, inv.InvoiceNumber)
	logger.WithLogger(ctx, s.logger).Info("invoice created",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("grand_total", inv.GrandTotal.String()),
		zap.String("payment_status", string(inv.PaymentStatus)),
	)
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

func (s *InvoiceService) create(ctx context.Context, repos TransactionalRepositories, meta CommandMeta, req CreateInvoiceRequest) (*trade.Invoice, error) {
	discountType, err := trade.ParseDiscountType(req.DiscountType)
	if err != nil {
		return nil, err
	}
	rates, category, err := s.taxTable.Lookup(req.TaxCategory)
	if err != nil {
		return nil, err
	}
	if err := s.requireCustomer(ctx, repos, meta.TenantID, req.CustomerID); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Invoice must have at least one item")
	}

	products, err := s.lockProducts(ctx, repos, meta.TenantID, requestedProductIDs(req.Items))
	if err != nil {
		return nil, err
	}
	lines, err := buildLines(req.Items, products)
	if err != nil {
		return nil, err
	}
	if err := trade.ValidatePricingInput(trade.PricingItems(lines), req.Discount, discountType); err != nil {
		return nil, err
	}
	if err := inventory.CheckSufficiency(products, inventory.AggregateDemand(demandOf(lines))); err != nil {
		return nil, err
	}

	now := s.now()
	number, err := s.allocateNumber(ctx, repos, meta.TenantID, now)
	if err != nil {
		return nil, err
	}
	inv, err := trade.NewInvoice(meta.TenantID, number, req.CustomerID, meta.ActorID)
	if err != nil {
		return nil, err
	}
	inv.SetDetails(req.PaymentMethod, req.Notes, req.Terms, req.DueDate)
	if err := inv.ApplyPricing(lines, req.Discount, discountType, req.ApplyGST, category, rates); err != nil {
		return nil, err
	}
	paid := resolvePaidAmount(req.PaymentStatus, req.PaidAmount, inv.GrandTotal)
	if err := inv.InitializePayment(paid, req.PaymentMethod, meta.ActorID, now); err != nil {
		return nil, err
	}

	if err := repos.InvoiceRepo().Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to persist invoice: %w", err)
	}
	for _, l := range lines {
		if _, err := s.ledger.Apply(ctx, repos, products[l.ProductID], inventoryapp.Movement{
			Type:      inventory.HistoryTypeSale,
			Delta:     -l.Quantity,
			Reason:    fmt.Sprintf("Sale on invoice %s", inv.InvoiceNumber),
			Actor:     meta.ActorID,
			Reference: inventory.InvoiceReference(inv.ID),
		}); err != nil {
			return nil, err
		}
	}

	inv.AddDomainEvent(trade.NewInvoiceCreatedEvent(inv))
	if err := s.flushEvents(ctx, repos, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Update replaces the item set of an invoice. Old quantities are restored
// first, then the new set is validated, priced and taken.
func (s *InvoiceService) Update(ctx context.Context, meta CommandMeta, invoiceID uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, invoiceServiceName, "Update",
		telemetry.SpanAttrTenantID, meta.TenantID.String(),
		telemetry.SpanAttrInvoiceID, invoiceID.String(),
		telemetry.SpanAttrItemCount, len(req.Items),
	)
	defer span.End()

	var inv *trade.Invoice
	err := s.guard(ctx, meta, telemetry.OperationUpdate, invoiceID, func() error {
		return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			var err error
			inv, err = s.update(ctx, repos, meta, invoiceID, req)
			return err
		})
	})
	s.finish(ctx, span, meta.TenantID, telemetry.OperationUpdate, err)
	if err != nil {
		return nil, err
	}

	logger.WithLogger(ctx, s.logger).Info("invoice updated",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("invoice_number", inv.InvoiceNumber),
		zap.String("grand_total", inv.GrandTotal.String()),
	)
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

func (s *InvoiceService) update(ctx context.Context, repos TransactionalRepositories, meta CommandMeta, invoiceID uuid.UUID, req UpdateInvoiceRequest) (*trade.Invoice, error) {
	inv, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, meta.TenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	discountType, err := trade.ParseDiscountType(req.DiscountType)
	if err != nil {
		return nil, err
	}
	rates, category, err := s.taxTable.Lookup(req.TaxCategory)
	if err != nil {
		return nil, err
	}
	if err := s.requireCustomer(ctx, repos, meta.TenantID, req.CustomerID); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Invoice must have at least one item")
	}

	oldLines := inv.Lines()
	ids := requestedProductIDs(req.Items)
	for _, l := range oldLines {
		ids = append(ids, l.ProductID)
	}
	products, err := s.lockProducts(ctx, repos, meta.TenantID, ids)
	if err != nil {
		return nil, err
	}
	lines, err := buildLines(req.Items, products)
	if err != nil {
		return nil, err
	}
	if err := trade.ValidatePricingInput(trade.PricingItems(lines), req.Discount, discountType); err != nil {
		return nil, err
	}

	ref := inventory.InvoiceReference(inv.ID)
	for _, l := range oldLines {
		if _, err := s.ledger.Apply(ctx, repos, products[l.ProductID], inventoryapp.Movement{
			Type:      inventory.HistoryTypeSaleUpdate,
			Delta:     l.Quantity,
			Reason:    fmt.Sprintf("Restored for edit of invoice %s", inv.InvoiceNumber),
			Actor:     meta.ActorID,
			Reference: ref,
		}); err != nil {
			return nil, err
		}
	}
	if !s.cfg.AllowNegativeStockOnUpdate {
		if err := inventory.CheckSufficiency(products, inventory.AggregateDemand(demandOf(lines))); err != nil {
			return nil, err
		}
	}

	now := s.now()
	previousTotal := inv.GrandTotal
	if err := inv.ChangeCustomer(req.CustomerID); err != nil {
		return nil, err
	}
	inv.SetDetails(req.PaymentMethod, req.Notes, req.Terms, req.DueDate)
	if err := inv.ApplyPricing(lines, req.Discount, discountType, req.ApplyGST, category, rates); err != nil {
		return nil, err
	}
	if inv.MigrateLegacyPayment(meta.ActorID, now) {
		logger.WithLogger(ctx, s.logger).Info("legacy paid amount moved into payments",
			zap.String("invoice_id", inv.ID.String()),
			zap.String("paid_amount", inv.PaidAmount.String()),
		)
	}
	if len(inv.Payments) == 0 {
		paid := resolvePaidAmount(req.PaymentStatus, req.PaidAmount, inv.GrandTotal)
		err = inv.InitializePayment(paid, req.PaymentMethod, meta.ActorID, now)
	} else {
		err = inv.ReconcilePayments()
	}
	if err != nil {
		return nil, err
	}

	inv.IncrementVersion()
	if err := repos.InvoiceRepo().SaveWithLock(ctx, inv); err != nil {
		return nil, fmt.Errorf("failed to persist invoice: %w", err)
	}
	for _, l := range lines {
		if _, err := s.ledger.Apply(ctx, repos, products[l.ProductID], inventoryapp.Movement{
			Type:      inventory.HistoryTypeSaleUpdate,
			Delta:     -l.Quantity,
			Reason:    fmt.Sprintf("Taken for edit of invoice %s", inv.InvoiceNumber),
			Actor:     meta.ActorID,
			Reference: ref,
		}); err != nil {
			return nil, err
		}
	}

	inv.AddDomainEvent(trade.NewInvoiceUpdatedEvent(inv, previousTotal))
	if err := s.flushEvents(ctx, repos, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Delete gives every item's stock back and removes the invoice in the same transaction.
func (s *InvoiceService) Delete(ctx context.Context, meta CommandMeta, invoiceID uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, invoiceServiceName, "Delete",
		telemetry.SpanAttrTenantID, meta.TenantID.String(),
		telemetry.SpanAttrInvoiceID, invoiceID.String(),
	)
	defer span.End()

	var number string
	err := s.guard(ctx, meta, telemetry.OperationDelete, invoiceID, func() error {
		return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			inv, err := repos.InvoiceRepo().FindByIDForUpdate(ctx, meta.TenantID, invoiceID)
			if err != nil {
				return err
			}
			number = inv.InvoiceNumber
			lines := inv.Lines()
			ids := make([]uuid.UUID, 0, len(lines))
			for _, l := range lines {
				ids = append(ids, l.ProductID)
			}
			products, err := s.lockProducts(ctx, repos, meta.TenantID, ids)
			if err != nil {
				return err
			}
			for _, l := range lines {
				if _, err := s.ledger.Apply(ctx, repos, products[l.ProductID], inventoryapp.Movement{
					Type:      inventory.HistoryTypeSaleDeletion,
					Delta:     l.Quantity,
					Reason:    fmt.Sprintf("Invoice %s deleted", inv.InvoiceNumber),
					Actor:     meta.ActorID,
					Reference: inventory.InvoiceReference(inv.ID),
				}); err != nil {
					return err
				}
			}
			if err := repos.InvoiceRepo().Delete(ctx, meta.TenantID, inv.ID); err != nil {
				return fmt.Errorf("failed to delete invoice: %w", err)
			}
			inv.AddDomainEvent(trade.NewInvoiceDeletedEvent(inv))
			return s.flushEvents(ctx, repos, inv)
		})
	})
	s.finish(ctx, span, meta.TenantID, telemetry.OperationDelete, err)
	if err != nil {
		return err
	}

	logger.WithLogger(ctx, s.logger).Info("invoice deleted",
		zap.String("invoice_id", invoiceID.String()),
		zap.String("invoice_number", number),
	)
	return nil
}

// RecordPayment appends a payment to an invoice. Stock is never touched.
func (s *InvoiceService) RecordPayment(ctx context.Context, meta CommandMeta, invoiceID uuid.UUID, req RecordPaymentRequest) (*InvoiceResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, invoiceServiceName, "RecordPayment",
		telemetry.SpanAttrTenantID, meta.TenantID.String(),
		telemetry.SpanAttrInvoiceID, invoiceID.String(),
		telemetry.SpanAttrAmount, req.Amount.String(),
	)
	defer span.End()

	var (
		inv     *trade.Invoice
		payment *trade.Payment
	)
	err := s.guard(ctx, meta, telemetry.OperationRecordPayment, invoiceID, func() error {
		return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			var err error
			inv, err = repos.InvoiceRepo().FindByIDForUpdate(ctx, meta.TenantID, invoiceID)
			if err != nil {
				return err
			}
			at := s.now()
			if req.Date != nil {
				at = *req.Date
			}
			payment, err = inv.RecordPayment(req.Amount, req.Method, req.Reference, req.Notes, meta.ActorID, at)
			if err != nil {
				return err
			}
			inv.IncrementVersion()
			if err := repos.InvoiceRepo().SaveWithLock(ctx, inv); err != nil {
				return fmt.Errorf("failed to persist payment: %w", err)
			}
			return s.flushEvents(ctx, repos, inv)
		})
	})
	s.finish(ctx, span, meta.TenantID, telemetry.OperationRecordPayment, err)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordPayment(ctx, meta.TenantID, payment.Method, string(inv.PaymentStatus), payment.Amount)
	logger.WithLogger(ctx, s.logger).Info("payment recorded",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("amount", payment.Amount.String()),
		zap.String("pending_amount", inv.PendingAmount.String()),
		zap.String("payment_status", string(inv.PaymentStatus)),
	)
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// GetByID retrieves an invoice by ID
func (s *InvoiceService) GetByID(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByIDForTenant(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// GetByNumber retrieves an invoice by its invoice number
func (s *InvoiceService) GetByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*InvoiceResponse, error) {
	inv, err := s.invoiceRepo.FindByNumber(ctx, tenantID, number)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(inv)
	return &resp, nil
}

// List retrieves invoices with filtering and pagination
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, filter InvoiceListFilter) (shared.Paginated[InvoiceListItemResponse], error) {
	df := filter.toDomain()
	invoices, total, err := s.invoiceRepo.FindAllForTenant(ctx, tenantID, df)
	if err != nil {
		return shared.Paginated[InvoiceListItemResponse]{}, err
	}
	items := make([]InvoiceListItemResponse, 0, len(invoices))
	for i := range invoices {
		items = append(items, ToInvoiceListItemResponse(&invoices[i]))
	}
	return shared.NewPaginated(items, total, df.Page, df.PageSize), nil
}

// guard applies the deduplication key and the per-invoice lock around fn.
// A key is released again when fn fails so the caller may retry.
func (s *InvoiceService) guard(ctx context.Context, meta CommandMeta, operation string, invoiceID uuid.UUID, fn func() error) (err error) {
	if meta.IdempotencyKey != "" && s.idempotency != nil {
		key := fmt.Sprintf("invoice:%s:%s:%s", meta.TenantID, operation, meta.IdempotencyKey)
		fresh, markErr := s.idempotency.MarkProcessed(ctx, key, s.cfg.IdempotencyTTL)
		if markErr != nil {
			return fmt.Errorf("failed to record idempotency key: %w", markErr)
		}
		if !fresh {
			return shared.NewDomainErrorf(shared.CodeDuplicateRequest,
				"Request with idempotency key %s has already been processed", meta.IdempotencyKey)
		}
		defer func() {
			if err == nil {
				return
			}
			if relErr := s.idempotency.Release(context.WithoutCancel(ctx), key); relErr != nil {
				logger.WithLogger(ctx, s.logger).Warn("failed to release idempotency key",
					zap.String("key", key), zap.Error(relErr))
			}
		}()
	}

	if invoiceID != uuid.Nil && s.locker != nil {
		unlock, lockErr := s.locker.Lock(ctx, meta.TenantID, invoiceID)
		if lockErr != nil {
			return lockErr
		}
		defer unlock()
	}
	return fn()
}

func (s *InvoiceService) finish(ctx context.Context, span trace.Span, tenantID uuid.UUID, operation string, err error) {
	outcome := telemetry.OutcomeSuccess
	if err != nil {
		telemetry.RecordError(span, err)
		var de *shared.DomainError
		if errors.As(err, &de) {
			outcome = telemetry.OutcomeRejected
			logger.WithLogger(ctx, s.logger).Info("invoice operation rejected",
				zap.String("operation", operation),
				zap.String("code", de.Code),
				zap.String("reason", de.Message),
			)
		} else {
			outcome = telemetry.OutcomeFailed
			logger.WithLogger(ctx, s.logger).Error("invoice operation failed",
				zap.String("operation", operation),
				zap.Error(err),
			)
		}
	}
	s.metrics.RecordInvoiceOperation(ctx, tenantID, operation, outcome)
}

func (s *InvoiceService) requireCustomer(ctx context.Context, repos TransactionalRepositories, tenantID, customerID uuid.UUID) error {
	if customerID == uuid.Nil {
		return shared.NewDomainError(shared.CodeInvalidInput, "Customer ID is required")
	}
	exists, err := repos.CustomerRepo().ExistsForTenant(ctx, tenantID, customerID)
	if err != nil {
		return fmt.Errorf("failed to look up customer: %w", err)
	}
	if !exists {
		return shared.NewDomainErrorf(shared.CodeNotFound, "Customer %s not found", customerID)
	}
	return nil
}

// lockProducts loads and row-locks every distinct product, failing with
// NOT_FOUND before anything is written if one of them is missing.
func (s *InvoiceService) lockProducts(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*inventory.Product, error) {
	ids = distinctIDs(ids)
	locked, err := repos.ProductRepo().FindByIDsForUpdate(ctx, tenantID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to lock products: %w", err)
	}
	products := make(map[uuid.UUID]*inventory.Product, len(locked))
	for i := range locked {
		products[locked[i].ID] = &locked[i]
	}
	for _, id := range ids {
		if _, ok := products[id]; !ok {
			return nil, shared.NewDomainErrorf(shared.CodeNotFound, "Product %s not found", id)
		}
	}
	return products, nil
}

func (s *InvoiceService) allocateNumber(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, now time.Time) (string, error) {
	seq := s.sequence
	if seq == nil {
		seq = repos.SequenceRepo()
	}
	n, err := seq.Next(ctx, tenantID, trade.PeriodOf(now))
	if err != nil {
		return "", fmt.Errorf("failed to allocate invoice number: %w", err)
	}
	return trade.FormatInvoiceNumber(now, n), nil
}

func (s *InvoiceService) flushEvents(ctx context.Context, repos TransactionalRepositories, inv *trade.Invoice) error {
	events := inv.GetDomainEvents()
	if len(events) == 0 || s.outbox == nil {
		inv.ClearDomainEvents()
		return nil
	}
	if err := s.outbox.SaveEvents(ctx, repos.OutboxRepo(), events...); err != nil {
		return fmt.Errorf("failed to write events to outbox: %w", err)
	}
	inv.ClearDomainEvents()
	return nil
}

// resolvePaidAmount reads "paid" without an amount as paid in full
func resolvePaidAmount(status string, paid, grandTotal decimal.Decimal) decimal.Decimal {
	if trade.PaymentStatus(status) == trade.PaymentStatusPaid && paid.IsZero() {
		return grandTotal
	}
	return paid
}

func buildLines(items []InvoiceItemRequest, products map[uuid.UUID]*inventory.Product) ([]trade.InvoiceLine, error) {
	lines := make([]trade.InvoiceLine, len(items))
	for i, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			return nil, shared.NewDomainErrorf(shared.CodeNotFound, "Product %s not found", it.ProductID)
		}
		dt, err := trade.ParseDiscountType(it.DiscountType)
		if err != nil {
			return nil, err
		}
		lines[i] = trade.InvoiceLine{
			ProductID:     p.ID,
			ProductName:   p.Name,
			Quantity:      it.Quantity,
			UnitPrice:     it.Price,
			Discount:      it.Discount,
			DiscountType:  dt,
			PurchasePrice: p.PurchasePrice,
		}
	}
	return lines, nil
}

func demandOf(lines []trade.InvoiceLine) []inventory.Demand {
	d := make([]inventory.Demand, len(lines))
	for i, l := range lines {
		d[i] = inventory.Demand{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	return d
}

func requestedProductIDs(items []InvoiceItemRequest) []uuid.UUID {
	ids := make([]uuid.UUID, len(items))
	for i, it := range items {
		ids[i] = it.ProductID
	}
	return ids
}

func distinctIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
