package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sailfin-io/backoffice-api/internal/domain"
	"github.com/sailfin-io/backoffice-api/internal/service"
)

func createConnection(t *testing.T, e *env, bank string) *domain.BankConnectionDTO {
	t.Helper()
	conn, err := e.conns.Create(context.Background(), &domain.CreateBankConnectionRequest{
		BankName: bank,
	})
	require.NoError(t, err)
	return conn
}

func forReviewDeposit(t *testing.T, e *env, connID uuid.UUID, customer, amt string) *domain.BankTransactionDTO {
	t.Helper()
	statement := "Date,Credit,Remarks,Reference\n" +
		"2024-03-15," + amt + "," + customer + " NEFT payment,REF-" + amt + "\n"
	_, err := e.txns.UploadStatement(context.Background(), connID, "generic", strings.NewReader(statement))
	require.NoError(t, err)

	status := domain.BankTransactionStatusForReview
	page, err := e.txns.List(context.Background(), 1, 50, &status, "")
	require.NoError(t, err)
	require.NotEmpty(t, page.Items)
	return &page.Items[0]
}

func TestUploadStatementImportsDeposits(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	conn := createConnection(t, e, "IDFC First")

	statement := strings.Join([]string{
		"Date,Credit,Remarks,Reference",
		"2024-03-15,1000.50,ACME NEFT transfer,REF001",
		"2024-03-16,,GLOBEX no credit,REF002",
		"not-a-date,500,INITECH payment,REF003",
		"2024-03-17,2500,STARK wire,REF004",
	}, "\n")

	result, err := e.txns.UploadStatement(ctx, conn.ID, "generic", strings.NewReader(statement))
	require.NoError(t, err)

	assert.Equal(t, 4, result.RowsParsed)
	assert.Equal(t, 2, result.RowsImported)
	assert.Equal(t, 2, result.RowsSkipped)
	assert.Len(t, result.Warnings, 2)

	status := domain.BankTransactionStatusForReview
	page, err := e.txns.List(ctx, 1, 50, &status, "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalCount)
	for _, txn := range page.Items {
		assert.Equal(t, conn.BankName, txn.BankName)
	}
}

func TestUploadStatementUnknownConnection(t *testing.T) {
	e := newEnv(t)
	_, err := e.txns.UploadStatement(context.Background(), uuid.New(), "generic", strings.NewReader("Date,Credit\n"))
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func unreconciledVoucher(t *testing.T, e *env, customer, amt string, invoiceID uuid.UUID) *domain.ReceiptVoucherDTO {
	t.Helper()
	voucher, err := e.vouchers.Create(context.Background(), &domain.CreateReceiptVoucherRequest{
		CustomerName: customer,
		Amount:       amount(amt),
		Adjustments: []domain.ReceiptAdjustmentInput{
			{InvoiceID: invoiceID, AmountAdjusted: amount(amt)},
		},
	}, "finance@example.com")
	require.NoError(t, err)
	return voucher
}

func TestMatchReconcilesReceiptsExactly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	conn := createConnection(t, e, "ICICI")

	first := createInvoice(t, e, "INV-001", "ACME", "600")
	second := createInvoice(t, e, "INV-002", "ACME", "400")
	receiptA := unreconciledVoucher(t, e, "ACME", "600", first.ID)
	receiptB := unreconciledVoucher(t, e, "ACME", "400", second.ID)
	deposit := forReviewDeposit(t, e, conn.ID, "ACME", "1000")

	matched, err := e.txns.Match(ctx, deposit.ID, &domain.MatchTransactionRequest{
		ReceiptIDs: []uuid.UUID{receiptA.ID, receiptB.ID},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.BankTransactionStatusCategorized, matched.Status)
	require.NotNil(t, matched.ReconciliationDate)
	assert.Equal(t, "2024-03-15", *matched.ReconciliationDate)

	for _, id := range []uuid.UUID{receiptA.ID, receiptB.ID} {
		voucher, err := e.vouchers.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.ReceiptVoucherStatusReconciled, voucher.Status)
		require.NotNil(t, voucher.BankTransactionID)
		assert.Equal(t, deposit.ID, *voucher.BankTransactionID)
	}
}

func TestMatchHonorsReconciliationDate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	conn := createConnection(t, e, "ICICI")

	inv := createInvoice(t, e, "INV-001", "ACME", "1000")
	receipt := unreconciledVoucher(t, e, "ACME", "1000", inv.ID)
	deposit := forReviewDeposit(t, e, conn.ID, "ACME", "1000")

	date := "2024-03-20"
	matched, err := e.txns.Match(ctx, deposit.ID, &domain.MatchTransactionRequest{
		ReceiptIDs:         []uuid.UUID{receipt.ID},
		ReconciliationDate: &date,
	})
	require.NoError(t, err)
	require.NotNil(t, matched.ReconciliationDate)
	assert.Equal(t, date, *matched.ReconciliationDate)
}

func TestMatchRejectsAmountMismatch(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	conn := createConnection(t, e, "ICICI")

	inv := createInvoice(t, e, "INV-001", "ACME", "999.99")
	receipt := unreconciledVoucher(t, e, "ACME", "999.99", inv.ID)
	deposit := forReviewDeposit(t, e, conn.ID, "ACME", "1000.00")

	_, err := e.txns.Match(ctx, deposit.ID, &domain.MatchTransactionRequest{
		ReceiptIDs: []uuid.UUID{receipt.ID},
	})
	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Contains(t, err.Error(), "999.99")
	assert.Contains(t, err.Error(), "1000.00")

	// Nothing was reconciled.
	after, err := e.vouchers.GetByID(ctx, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReceiptVoucherStatusUnreconciled, after.Status)
	assert.Nil(t, after.BankTransactionID)

	txn, err := e.txns.GetByID(ctx, deposit.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BankTransactionStatusForReview, txn.Status)
}

func TestMatchRequiresForReviewStatus(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	conn := createConnection(t, e, "ICICI")

	inv := createInvoice(t, e, "INV-001", "ACME", "1000")
	receipt := unreconciledVoucher(t, e, "ACME", "1000", inv.ID)
	deposit := forReviewDeposit(t, e, conn.ID, "ACME", "1000")

	_, err := e.txns.Match(ctx, deposit.ID, &domain.MatchTransactionRequest{
		ReceiptIDs: []uuid.UUID{receipt.ID},
	})
	require.NoError(t, err)

	_, err = e.txns.Match(ctx, deposit.ID, &domain.MatchTransactionRequest{
		ReceiptIDs: []uuid.UUID{receipt.ID},
	})
	assert.ErrorIs(t, err, service.ErrTransactionNotReviewable)
}

func TestMatchRejectsReconciledVoucher(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	conn := createConnection(t, e, "ICICI")

	inv := createInvoice(t, e, "INV-001", "ACME", "1000")
	receipt := unreconciledVoucher(t, e, "ACME", "1000", inv.ID)
	first := forReviewDeposit(t, e, conn.ID, "ACME", "1000")

	_, err := e.txns.Match(ctx, first.ID, &domain.MatchTransactionRequest{
		ReceiptIDs: []uuid.UUID{receipt.ID},
	})
	require.NoError(t, err)

	second := forReviewDeposit(t, e, conn.ID, "ACME", "1000.00")
	_, err = e.txns.Match(ctx, second.ID, &domain.MatchTransactionRequest{
		ReceiptIDs: []uuid.UUID{receipt.ID},
	})
	assert.ErrorIs(t, err, service.ErrVoucherReconciled)
}

func TestExcludeAndUndo(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	conn := createConnection(t, e, "ICICI")

	deposit := forReviewDeposit(t, e, conn.ID, "ACME", "1000")

	_, err := e.txns.Exclude(ctx, deposit.ID, "  ")
	assert.ErrorIs(t, err, service.ErrExcludeRequiresReason)

	excluded, err := e.txns.Exclude(ctx, deposit.ID, "internal transfer")
	require.NoError(t, err)
	assert.Equal(t, domain.BankTransactionStatusExcluded, excluded.Status)
	assert.Equal(t, "internal transfer", excluded.ExcludeReason)

	// Excluded deposits cannot be excluded again or matched.
	_, err = e.txns.Exclude(ctx, deposit.ID, "again")
	assert.ErrorIs(t, err, service.ErrTransactionNotReviewable)

	restored, err := e.txns.UndoExclude(ctx, deposit.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BankTransactionStatusForReview, restored.Status)
	assert.Empty(t, restored.ExcludeReason)

	_, err = e.txns.UndoExclude(ctx, deposit.ID)
	assert.ErrorIs(t, err, service.ErrTransactionNotExcluded)
}

func TestSyncImportsAndDeduplicates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	conn := createConnection(t, e, "ICICI")
	createConnection(t, e, "BofA")

	result, err := e.txns.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, result.ConnectionsSynced)
	assert.Positive(t, result.NewTransactions)

	refreshed, err := e.conns.GetByID(ctx, conn.ID)
	require.NoError(t, err)
	assert.NotNil(t, refreshed.LastSyncedAt)

	status := domain.BankTransactionStatusForReview
	page, err := e.txns.List(ctx, 1, 100, &status, "")
	require.NoError(t, err)
	assert.Equal(t, int64(result.NewTransactions), page.TotalCount)

	// References never collide, so every deposit keeps a unique one.
	seen := map[string]bool{}
	for _, txn := range page.Items {
		assert.False(t, seen[txn.Reference])
		seen[txn.Reference] = true
	}
}

func TestSyncSkipsInactiveConnections(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	conn := createConnection(t, e, "ICICI")

	inactive := false
	_, err := e.conns.Update(ctx, conn.ID, &domain.UpdateBankConnectionRequest{IsActive: &inactive})
	require.NoError(t, err)

	result, err := e.txns.Sync(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ConnectionsSynced)
	assert.Equal(t, 0, result.NewTransactions)
}
