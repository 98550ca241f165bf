package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sailfin-io/backoffice-api/internal/domain"
)

// BankSyncJobName is the name of the bank feed refresh job
const BankSyncJobName = "bank_sync"

// DepositSyncService pulls fresh deposits for all active bank connections.
// The interface keeps the job decoupled from the service package.
type DepositSyncService interface {
	Sync(ctx context.Context) (*domain.SyncResultDTO, error)
}

// BankSyncJob periodically refreshes deposits from every active bank connection.
type BankSyncJob struct {
	syncService DepositSyncService
	logger      *zap.Logger
	timeout     time.Duration
}

// NewBankSyncJob creates a new bank feed refresh job.
func NewBankSyncJob(syncService DepositSyncService, logger *zap.Logger, timeout time.Duration) *BankSyncJob {
	return &BankSyncJob{
		syncService: syncService,
		logger:      logger,
		timeout:     timeout,
	}
}

// Run executes one bank feed refresh.
// This is called by the scheduler according to the cron expression.
func (j *BankSyncJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()

	result, err := j.syncService.Sync(ctx)
	if err != nil {
		j.logger.Error("bank feed refresh failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("bank feed refresh completed",
		zap.Int("connections_synced", result.ConnectionsSynced),
		zap.Int("new_transactions", result.NewTransactions),
		zap.Duration("duration", time.Since(start)))
}

// RegisterBankSyncJob registers the bank feed refresh with the scheduler.
func RegisterBankSyncJob(scheduler *Scheduler, syncService DepositSyncService, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewBankSyncJob(syncService, logger, timeout)
	return scheduler.AddJob(BankSyncJobName, cronExpr, job.Run)
}
