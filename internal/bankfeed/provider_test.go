package bankfeed_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sailfin-io/backoffice-api/internal/bankfeed"
	"github.com/sailfin-io/backoffice-api/internal/domain"
)

func TestSimulatedProvider_FetchDepositsBasic(t *testing.T) {
	provider := bankfeed.NewSimulatedProvider(7, nil)
	conn := &domain.BankConnection{BankName: "ICICI", IsActive: true}

	rows, err := provider.FetchDeposits(context.Background(), conn)
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	for _, row := range rows {
		assert.True(t, row.Amount.Decimal.IsPositive())
		assert.NotEmpty(t, row.Reference)
		assert.NotEmpty(t, row.CustomerName)
	}
}

func TestSimulatedProvider_InactiveConnectionYieldsNothing(t *testing.T) {
	provider := bankfeed.NewSimulatedProvider(7, nil)

	rows, err := provider.FetchDeposits(context.Background(), &domain.BankConnection{
		BankName: "ICICI",
		IsActive: false,
	})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

// One provider instance is shared between the sync job and the HTTP sync
// endpoints; run it under -race.
func TestSimulatedProvider_ConcurrentFetch(t *testing.T) {
	provider := bankfeed.NewSimulatedProvider(7, nil)
	conn := &domain.BankConnection{BankName: "ICICI", IsActive: true}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, err := provider.FetchDeposits(context.Background(), conn)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
}
