package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sailfin-io/backoffice-api/internal/bankfeed"
	"github.com/sailfin-io/backoffice-api/internal/domain"
	"github.com/sailfin-io/backoffice-api/internal/mapper"
	"github.com/sailfin-io/backoffice-api/internal/repository"
)

// BankTransactionService imports bank deposits, from statement uploads and
// feed syncs, and reconciles them against receipt vouchers.
type BankTransactionService struct {
	txnRepo     *repository.BankTransactionRepository
	connRepo    *repository.BankConnectionRepository
	voucherRepo *repository.ReceiptVoucherRepository
	provider    bankfeed.Provider
	logger      *zap.Logger
}

func NewBankTransactionService(
	txnRepo *repository.BankTransactionRepository,
	connRepo *repository.BankConnectionRepository,
	voucherRepo *repository.ReceiptVoucherRepository,
	provider bankfeed.Provider,
	logger *zap.Logger,
) *BankTransactionService {
	return &BankTransactionService{
		txnRepo:     txnRepo,
		connRepo:    connRepo,
		voucherRepo: voucherRepo,
		provider:    provider,
		logger:      logger,
	}
}

func (s *BankTransactionService) GetByID(ctx context.Context, id uuid.UUID) (*domain.BankTransactionDTO, error) {
	txn, err := s.txnRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	dto := mapper.ToBankTransactionDTO(txn)
	return &dto, nil
}

func (s *BankTransactionService) List(ctx context.Context, page, pageSize int, status *domain.BankTransactionStatus, customerName string) (*domain.PagedResponse[domain.BankTransactionDTO], error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}

	txns, total, err := s.txnRepo.List(ctx, page, pageSize, status, customerName)
	if err != nil {
		return nil, err
	}

	items := make([]domain.BankTransactionDTO, 0, len(txns))
	for i := range txns {
		items = append(items, mapper.ToBankTransactionDTO(&txns[i]))
	}

	return &domain.PagedResponse[domain.BankTransactionDTO]{
		Items:      items,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// Sync pulls fresh deposits for every active connection. Deposits whose
// bank reference was already imported are skipped.
func (s *BankTransactionService) Sync(ctx context.Context) (*domain.SyncResultDTO, error) {
	conns, err := s.connRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	result := &domain.SyncResultDTO{}
	now := time.Now().UTC()

	for i := range conns {
		imported, err := s.syncConnection(ctx, &conns[i], now)
		if err != nil {
			s.logger.Error("bank feed sync failed",
				zap.String("connection_id", conns[i].ID.String()),
				zap.String("bank", conns[i].BankName),
				zap.Error(err),
			)
			continue
		}
		result.ConnectionsSynced++
		result.NewTransactions += imported
	}

	result.SyncedAt = now.Format("2006-01-02T15:04:05Z")
	s.logger.Info("bank feed sync finished",
		zap.Int("connections", result.ConnectionsSynced),
		zap.Int("new_transactions", result.NewTransactions),
	)
	return result, nil
}

// SyncConnection refreshes a single connection by id.
func (s *BankTransactionService) SyncConnection(ctx context.Context, connectionID uuid.UUID) (*domain.SyncResultDTO, error) {
	conn, err := s.connRepo.GetByID(ctx, connectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	now := time.Now().UTC()
	imported, err := s.syncConnection(ctx, conn, now)
	if err != nil {
		return nil, err
	}

	return &domain.SyncResultDTO{
		ConnectionsSynced: 1,
		NewTransactions:   imported,
		SyncedAt:          now.Format("2006-01-02T15:04:05Z"),
	}, nil
}

func (s *BankTransactionService) syncConnection(ctx context.Context, conn *domain.BankConnection, now time.Time) (int, error) {
	rows, err := s.provider.FetchDeposits(ctx, conn)
	if err != nil {
		return 0, err
	}

	imported := 0
	for _, row := range rows {
		exists, err := s.txnRepo.ExistsByReference(ctx, conn.ID, row.Reference)
		if err != nil {
			return imported, err
		}
		if exists {
			continue
		}

		txn := domain.BankTransaction{
			ConnectionID:    &conn.ID,
			TransactionDate: row.Date,
			Amount:          row.Amount,
			CustomerName:    row.CustomerName,
			Remarks:         row.Remarks,
			Reference:       row.Reference,
			Status:          domain.BankTransactionStatusForReview,
		}
		if err := s.txnRepo.Create(ctx, &txn); err != nil {
			return imported, err
		}
		imported++
	}

	if err := s.connRepo.MarkSynced(ctx, conn.ID, now); err != nil {
		return imported, err
	}
	return imported, nil
}

// UploadStatement parses a CSV bank statement and imports its deposit rows
// for review. Unparseable rows are skipped and reported as warnings.
func (s *BankTransactionService) UploadStatement(ctx context.Context, connectionID uuid.UUID, format string, r io.Reader) (*domain.StatementUploadResultDTO, error) {
	conn, err := s.connRepo.GetByID(ctx, connectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	parsed, err := bankfeed.ParseStatement(r, bankfeed.ParseFormat(format))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	txns := make([]domain.BankTransaction, 0, len(parsed.Rows))
	for _, row := range parsed.Rows {
		txns = append(txns, domain.BankTransaction{
			ConnectionID:    &conn.ID,
			TransactionDate: row.Date,
			Amount:          row.Amount,
			CustomerName:    row.CustomerName,
			Remarks:         row.Remarks,
			Reference:       row.Reference,
			Status:          domain.BankTransactionStatusForReview,
		})
	}
	if err := s.txnRepo.CreateBatch(ctx, txns); err != nil {
		return nil, fmt.Errorf("failed to import statement rows: %w", err)
	}

	s.logger.Info("bank statement imported",
		zap.String("connection_id", conn.ID.String()),
		zap.String("format", format),
		zap.Int("imported", len(txns)),
		zap.Int("skipped", parsed.Skipped),
	)

	return &domain.StatementUploadResultDTO{
		RowsParsed:   len(parsed.Rows) + parsed.Skipped,
		RowsImported: len(txns),
		RowsSkipped:  parsed.Skipped,
		Warnings:     parsed.Warnings,
	}, nil
}

// Match reconciles a deposit under review against the selected receipt
// vouchers. Every voucher must still be unreconciled and their amounts
// must sum to the deposit amount exactly; on success the vouchers move to
// RECONCILED against the deposit and the deposit to CATEGORIZED with a
// reconciliation date.
func (s *BankTransactionService) Match(ctx context.Context, id uuid.UUID, req *domain.MatchTransactionRequest) (*domain.BankTransactionDTO, error) {
	txn, err := s.txnRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if txn.Status != domain.BankTransactionStatusForReview {
		return nil, ErrTransactionNotReviewable
	}

	vouchers, err := s.voucherRepo.GetByIDs(ctx, req.ReceiptIDs)
	if err != nil {
		return nil, err
	}
	if len(vouchers) != len(req.ReceiptIDs) {
		return nil, fmt.Errorf("%w: one or more receipt vouchers not found", ErrNotFound)
	}

	total := domain.ZeroAmount
	for i := range vouchers {
		if vouchers[i].Status != domain.ReceiptVoucherStatusUnreconciled {
			return nil, fmt.Errorf("%w: %s", ErrVoucherReconciled, vouchers[i].VoucherNumber)
		}
		total = total.Add(vouchers[i].Amount)
	}
	if !total.Equal(txn.Amount) {
		return nil, fmt.Errorf("%w: selected receipts total %s but deposit amount is %s",
			ErrInvalidInput, total.StringFixed(2), txn.Amount.StringFixed(2))
	}

	reconciledOn := txn.TransactionDate
	if req.ReconciliationDate != nil {
		d, err := time.Parse("2006-01-02", *req.ReconciliationDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid reconciliationDate", ErrInvalidInput)
		}
		reconciledOn = d
	}

	for i := range vouchers {
		vouchers[i].Status = domain.ReceiptVoucherStatusReconciled
		vouchers[i].BankTransactionID = &txn.ID
	}
	txn.Status = domain.BankTransactionStatusCategorized
	txn.ReconciliationDate = &reconciledOn

	if err := s.txnRepo.Reconcile(ctx, txn, vouchers); err != nil {
		return nil, fmt.Errorf("failed to reconcile bank transaction: %w", err)
	}

	s.logger.Info("bank transaction matched",
		zap.String("transaction_id", txn.ID.String()),
		zap.Int("receipts", len(vouchers)),
	)

	dto := mapper.ToBankTransactionDTO(txn)
	return &dto, nil
}

// Exclude removes a deposit under review from the reconciliation queue.
func (s *BankTransactionService) Exclude(ctx context.Context, id uuid.UUID, reason string) (*domain.BankTransactionDTO, error) {
	txn, err := s.txnRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if txn.Status != domain.BankTransactionStatusForReview {
		return nil, ErrTransactionNotReviewable
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrExcludeRequiresReason
	}

	txn.Status = domain.BankTransactionStatusExcluded
	txn.ExcludeReason = reason
	if err := s.txnRepo.Update(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to update bank transaction: %w", err)
	}

	dto := mapper.ToBankTransactionDTO(txn)
	return &dto, nil
}

// UndoExclude returns an excluded deposit to the review queue.
func (s *BankTransactionService) UndoExclude(ctx context.Context, id uuid.UUID) (*domain.BankTransactionDTO, error) {
	txn, err := s.txnRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if txn.Status != domain.BankTransactionStatusExcluded {
		return nil, ErrTransactionNotExcluded
	}

	txn.Status = domain.BankTransactionStatusForReview
	txn.ExcludeReason = ""
	if err := s.txnRepo.Update(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to update bank transaction: %w", err)
	}

	dto := mapper.ToBankTransactionDTO(txn)
	return &dto, nil
}
