package service_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sailfin-io/backoffice-api/internal/bankfeed"
	"github.com/sailfin-io/backoffice-api/internal/domain"
	"github.com/sailfin-io/backoffice-api/internal/repository"
	"github.com/sailfin-io/backoffice-api/internal/service"
)

// env wires the service layer against an in-memory database.
type env struct {
	db *gorm.DB

	leadRepo    *repository.LeadRepository
	sheetRepo   *repository.CostSheetRepository
	invoiceRepo *repository.InvoiceRepository
	connRepo    *repository.BankConnectionRepository
	txnRepo     *repository.BankTransactionRepository
	voucherRepo *repository.ReceiptVoucherRepository

	leads     *service.LeadService
	sheets    *service.CostSheetService
	invoices  *service.InvoiceService
	vouchers  *service.ReceiptVoucherService
	conns     *service.BankConnectionService
	txns      *service.BankTransactionService
	dashboard *service.DashboardService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&domain.Lead{},
		&domain.CostSheet{},
		&domain.LicenseItem{},
		&domain.ImplementationItem{},
		&domain.SupportItem{},
		&domain.InfraItem{},
		&domain.OtherItem{},
		&domain.Invoice{},
		&domain.BankConnection{},
		&domain.BankTransaction{},
		&domain.ReceiptVoucher{},
		&domain.ReceiptAdjustment{},
		&domain.Attachment{},
		&domain.User{},
		&domain.NumberSequence{},
	))

	logger := zap.NewNop()

	e := &env{
		db:          db,
		leadRepo:    repository.NewLeadRepository(db),
		sheetRepo:   repository.NewCostSheetRepository(db),
		invoiceRepo: repository.NewInvoiceRepository(db),
		connRepo:    repository.NewBankConnectionRepository(db),
		txnRepo:     repository.NewBankTransactionRepository(db),
		voucherRepo: repository.NewReceiptVoucherRepository(db),
	}

	seqService := service.NewNumberSequenceService(repository.NewNumberSequenceRepository(db), logger)

	e.leads = service.NewLeadService(e.leadRepo, seqService, logger)
	e.sheets = service.NewCostSheetService(e.sheetRepo, e.leadRepo, seqService, logger)
	e.invoices = service.NewInvoiceService(e.invoiceRepo, e.leadRepo, logger)
	e.vouchers = service.NewReceiptVoucherService(e.voucherRepo, e.invoiceRepo, e.leadRepo, seqService, logger)
	e.conns = service.NewBankConnectionService(e.connRepo, logger)
	e.txns = service.NewBankTransactionService(
		e.txnRepo, e.connRepo, e.voucherRepo,
		bankfeed.NewSimulatedProvider(42, nil), logger)
	e.dashboard = service.NewDashboardService(e.sheetRepo, e.leadRepo, e.invoiceRepo, e.txnRepo, logger)

	return e
}

func amount(s string) domain.Amount {
	return domain.NewAmount(s)
}
