package bankfeed

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/sailfin-io/backoffice-api/internal/domain"
)

// Provider fetches fresh deposits for a linked bank connection.
type Provider interface {
	// FetchDeposits returns deposits that appeared since the last sync.
	FetchDeposits(ctx context.Context, conn *domain.BankConnection) ([]ParsedRow, error)
}

// SimulatedProvider generates plausible deposit activity for environments
// without a live bank integration. One instance is shared between the
// sync job and the HTTP handlers, so rng access is serialized.
type SimulatedProvider struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewSimulatedProvider creates a simulated feed provider.
func NewSimulatedProvider(seed int64, now func() time.Time) *SimulatedProvider {
	if now == nil {
		now = time.Now
	}
	return &SimulatedProvider{
		rng: rand.New(rand.NewSource(seed)),
		now: now,
	}
}

var simulatedPayers = []string{
	"Acme Industries",
	"Northwind Traders",
	"Globex Corporation",
	"Initech Solutions",
	"Stark Enterprises",
}

// FetchDeposits returns one to three deposits dated within the last five
// days.
func (p *SimulatedProvider) FetchDeposits(ctx context.Context, conn *domain.BankConnection) ([]ParsedRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !conn.IsActive {
		return nil, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	count := 1 + p.rng.Intn(3)
	rows := make([]ParsedRow, 0, count)
	today := p.now().UTC().Truncate(24 * time.Hour)

	for i := 0; i < count; i++ {
		payer := simulatedPayers[p.rng.Intn(len(simulatedPayers))]
		amount := domain.AmountFromInt(int64(500 + p.rng.Intn(49500)))
		daysAgo := p.rng.Intn(5)
		ref := fmt.Sprintf("SIM-%s-%06d", conn.BankName[:min(4, len(conn.BankName))], p.rng.Intn(1000000))

		rows = append(rows, ParsedRow{
			Date:         today.AddDate(0, 0, -daysAgo),
			Amount:       amount,
			CustomerName: CustomerFromRemarks(payer),
			Remarks:      fmt.Sprintf("%s payment received via %s", payer, conn.BankName),
			Reference:    ref,
		})
	}
	return rows, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
