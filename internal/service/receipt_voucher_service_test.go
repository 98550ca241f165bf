package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sailfin-io/backoffice-api/internal/domain"
	"github.com/sailfin-io/backoffice-api/internal/service"
)

func createInvoice(t *testing.T, e *env, number, customer, amt string) *domain.InvoiceDTO {
	t.Helper()
	inv, err := e.invoices.Create(context.Background(), &domain.CreateInvoiceRequest{
		InvoiceNumber: number,
		CustomerName:  customer,
		Amount:        amount(amt),
	})
	require.NoError(t, err)
	return inv
}

func TestReceiptVoucherSettlesInvoice(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	inv := createInvoice(t, e, "INV-001", "Acme Industries", "1000")

	voucher, err := e.vouchers.Create(ctx, &domain.CreateReceiptVoucherRequest{
		CustomerName: "Acme Industries",
		Amount:       amount("1000"),
		Adjustments: []domain.ReceiptAdjustmentInput{
			{InvoiceID: inv.ID, AmountAdjusted: amount("1000")},
		},
	}, "finance@example.com")
	require.NoError(t, err)

	assert.Equal(t, "RV-001", voucher.VoucherNumber)
	assert.Equal(t, domain.ReceiptVoucherStatusUnreconciled, voucher.Status)
	assert.Equal(t, "1.00", voucher.ExchangeRate.StringFixed(2))
	require.Len(t, voucher.Adjustments, 1)
	assert.Equal(t, "INV-001", voucher.Adjustments[0].InvoiceNumber)

	settled, err := e.invoices.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, settled.Status)
	assert.Equal(t, "0.00", settled.OpenBalance.StringFixed(2))
}

func TestReceiptVoucherPartialPayment(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	inv := createInvoice(t, e, "INV-001", "Acme Industries", "1000")

	_, err := e.vouchers.Create(ctx, &domain.CreateReceiptVoucherRequest{
		CustomerName: "Acme Industries",
		Amount:       amount("400"),
		Adjustments: []domain.ReceiptAdjustmentInput{
			{InvoiceID: inv.ID, AmountAdjusted: amount("400")},
		},
	}, "finance@example.com")
	require.NoError(t, err)

	partial, err := e.invoices.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPartial, partial.Status)
	assert.Equal(t, "600.00", partial.OpenBalance.StringFixed(2))
}

func TestReceiptVoucherComponentsReduceBalance(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	inv := createInvoice(t, e, "INV-001", "Acme Industries", "1000")

	// 900 received plus 50 TDS, 30 discount and 20 bank charges settles
	// the invoice in full.
	_, err := e.vouchers.Create(ctx, &domain.CreateReceiptVoucherRequest{
		CustomerName: "Acme Industries",
		Amount:       amount("900"),
		Adjustments: []domain.ReceiptAdjustmentInput{
			{
				InvoiceID:      inv.ID,
				AmountAdjusted: amount("900"),
				TDSAmount:      amount("50"),
				DiscountAmount: amount("30"),
				BankCharges:    amount("20"),
			},
		},
	}, "finance@example.com")
	require.NoError(t, err)

	settled, err := e.invoices.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, settled.Status)
	assert.Equal(t, "0.00", settled.OpenBalance.StringFixed(2))
}

func TestReceiptVoucherBalanceNeverNegative(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	inv := createInvoice(t, e, "INV-001", "Acme Industries", "500")

	_, err := e.vouchers.Create(ctx, &domain.CreateReceiptVoucherRequest{
		CustomerName: "Acme Industries",
		Amount:       amount("800"),
		Adjustments: []domain.ReceiptAdjustmentInput{
			{InvoiceID: inv.ID, AmountAdjusted: amount("800")},
		},
	}, "finance@example.com")
	require.NoError(t, err)

	settled, err := e.invoices.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPaid, settled.Status)
	assert.Equal(t, "0.00", settled.OpenBalance.StringFixed(2))
}

func TestReceiptVoucherSkipsZeroRows(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first := createInvoice(t, e, "INV-001", "Acme Industries", "500")
	second := createInvoice(t, e, "INV-002", "Acme Industries", "700")

	voucher, err := e.vouchers.Create(ctx, &domain.CreateReceiptVoucherRequest{
		CustomerName: "Acme Industries",
		Amount:       amount("500"),
		Adjustments: []domain.ReceiptAdjustmentInput{
			{InvoiceID: first.ID, AmountAdjusted: amount("500")},
			{InvoiceID: second.ID},
		},
	}, "finance@example.com")
	require.NoError(t, err)
	assert.Len(t, voucher.Adjustments, 1)

	untouched, err := e.invoices.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusOpen, untouched.Status)
	assert.Equal(t, "700.00", untouched.OpenBalance.StringFixed(2))
}

func TestReceiptVoucherRejectsAllZeroAdjustments(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	inv := createInvoice(t, e, "INV-001", "Acme Industries", "500")

	_, err := e.vouchers.Create(ctx, &domain.CreateReceiptVoucherRequest{
		CustomerName: "Acme Industries",
		Amount:       amount("500"),
		Adjustments: []domain.ReceiptAdjustmentInput{
			{InvoiceID: inv.ID},
		},
	}, "finance@example.com")
	assert.ErrorIs(t, err, service.ErrNoAdjustments)

	_, err = e.vouchers.Create(ctx, &domain.CreateReceiptVoucherRequest{
		CustomerName: "Acme Industries",
		Amount:       amount("500"),
	}, "finance@example.com")
	assert.ErrorIs(t, err, service.ErrNoAdjustments)
}

func TestReceiptVoucherBindsLeadByCompanyName(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	lead, err := e.leads.Create(ctx, &domain.CreateLeadRequest{
		CompanyName: "Acme Industries",
	})
	require.NoError(t, err)

	inv := createInvoice(t, e, "INV-001", "Acme Industries", "500")

	voucher, err := e.vouchers.Create(ctx, &domain.CreateReceiptVoucherRequest{
		CustomerName: "acme industries",
		Amount:       amount("500"),
		Adjustments: []domain.ReceiptAdjustmentInput{
			{InvoiceID: inv.ID, AmountAdjusted: amount("500")},
		},
	}, "finance@example.com")
	require.NoError(t, err)

	require.NotNil(t, voucher.LeadID)
	assert.Equal(t, lead.ID, *voucher.LeadID)
}

func TestReceiptVoucherNumbersDoNotResetByYear(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first := createInvoice(t, e, "INV-001", "Acme Industries", "100")
	second := createInvoice(t, e, "INV-002", "Acme Industries", "100")

	v1, err := e.vouchers.Create(ctx, &domain.CreateReceiptVoucherRequest{
		CustomerName: "Acme Industries",
		Amount:       amount("100"),
		Adjustments:  []domain.ReceiptAdjustmentInput{{InvoiceID: first.ID, AmountAdjusted: amount("100")}},
	}, "finance@example.com")
	require.NoError(t, err)

	v2, err := e.vouchers.Create(ctx, &domain.CreateReceiptVoucherRequest{
		CustomerName: "Acme Industries",
		Amount:       amount("100"),
		Adjustments:  []domain.ReceiptAdjustmentInput{{InvoiceID: second.ID, AmountAdjusted: amount("100")}},
	}, "finance@example.com")
	require.NoError(t, err)

	assert.Equal(t, "RV-001", v1.VoucherNumber)
	assert.Equal(t, "RV-002", v2.VoucherNumber)
}
