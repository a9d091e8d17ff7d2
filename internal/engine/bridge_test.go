package engine

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castellan/tesoro/internal/model"
)

func TestSimulateCreditBridgeNilWithoutLine(t *testing.T) {
	cfg := testConfig()
	buckets := seriesOf(cfg, -1000, -1000, -1000)

	assert.Nil(t, SimulateCreditBridge(cfg, buckets))
}

func TestSimulateCreditBridgeCoversShortfall(t *testing.T) {
	cfg := testConfig()
	cfg.StartingBalance = money(3000)
	cfg.SafetyThreshold = money(5000)
	cfg.CreditLine = &model.CreditLine{
		TotalLimit:  money(2000),
		AlreadyUsed: decimal.Zero,
		AnnualRate:  decimal.NewFromFloat(0.12),
	}
	// Balances: 3000, 6000, 6000. Only the first period is short.
	buckets := seriesOf(cfg, 0, 3000, 0)

	res := SimulateCreditBridge(cfg, buckets)

	require.NotNil(t, res)
	assert.True(t, res.PeakUsage.Equal(money(2000)), "draw lifts the balance to the threshold")
	assert.Equal(t, 0, res.PeakUsagePeriod)
	assert.Equal(t, 1, res.PeriodsInUse)
	assert.Nil(t, res.FundingGap, "the line exactly covers the shortfall")
	// One monthly draw of 2000 at 12% per year: 2000 * 0.12 / 12.
	assert.True(t, res.EstimatedInterestCost.Equal(money(20)))
}

func TestSimulateCreditBridgeFundingGap(t *testing.T) {
	cfg := testConfig()
	cfg.StartingBalance = money(3000)
	cfg.SafetyThreshold = money(5000)
	cfg.CreditLine = &model.CreditLine{
		TotalLimit:  money(2000),
		AlreadyUsed: decimal.Zero,
		AnnualRate:  decimal.NewFromFloat(0.12),
	}
	// Balances: 3000, 6000, 1000. Last period needs 4000 but only 2000 exists.
	buckets := seriesOf(cfg, 0, 3000, -5000)

	res := SimulateCreditBridge(cfg, buckets)

	require.NotNil(t, res)
	require.NotNil(t, res.FundingGap)
	assert.True(t, res.FundingGap.Equal(money(2000)), "worst uncovered shortfall")
	assert.Equal(t, 2, res.PeriodsInUse)
	assert.True(t, res.PeakUsage.Equal(money(2000)))
	assert.Equal(t, 0, res.PeakUsagePeriod, "first period reaching the peak wins ties")
	// Two draws of 2000 each: 2 * (2000 * 0.12 / 12).
	assert.True(t, res.EstimatedInterestCost.Equal(money(40)))
}

func TestSimulateCreditBridgeRespectsAlreadyUsed(t *testing.T) {
	cfg := testConfig()
	cfg.StartingBalance = money(4500)
	cfg.SafetyThreshold = money(5000)
	cfg.CreditLine = &model.CreditLine{
		TotalLimit:  money(2000),
		AlreadyUsed: money(1800),
		AnnualRate:  decimal.NewFromFloat(0.10),
	}
	// Balance 4500: shortfall 500, but only 200 of the line remains.
	buckets := seriesOf(cfg, 0)

	res := SimulateCreditBridge(cfg, buckets)

	require.NotNil(t, res)
	assert.True(t, res.PeakUsage.Equal(money(200)))
	require.NotNil(t, res.FundingGap)
	assert.True(t, res.FundingGap.Equal(money(300)))
}

func TestSimulateCreditBridgeNoShortfall(t *testing.T) {
	cfg := testConfig()
	cfg.StartingBalance = money(10000)
	cfg.SafetyThreshold = money(1000)
	cfg.CreditLine = &model.CreditLine{TotalLimit: money(2000)}
	buckets := seriesOf(cfg, 100, 100, 100)

	res := SimulateCreditBridge(cfg, buckets)

	require.NotNil(t, res)
	assert.Equal(t, 0, res.PeriodsInUse)
	assert.True(t, res.PeakUsage.IsZero())
	assert.True(t, res.EstimatedInterestCost.IsZero())
	assert.Nil(t, res.FundingGap)
}
