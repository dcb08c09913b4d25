package ownership

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridocs/kycengine/internal/domain/profile"
)

func intp(i int64) *int64       { return &i }
func floatp(f float64) *float64 { return &f }

func TestResolve_RecomputesFromShares(t *testing.T) {
	res := Resolve([]profile.Shareholder{
		{Name: "ANA TORRES", Shares: intp(600), Percentage: floatp(10)}, // declared lies
		{Name: "LUIS PEREZ", Shares: intp(400), Percentage: floatp(90)},
	})

	require.Len(t, res.Entries, 2)
	assert.True(t, res.UsedShareCount)
	assert.Equal(t, 60.0, *res.Entries[0].ComputedPercentage)
	assert.Equal(t, 40.0, *res.Entries[1].ComputedPercentage)
	assert.Equal(t, ThresholdFromShares, res.Entries[0].ThresholdApplied)
	assert.True(t, res.Entries[0].IsUbo)
	assert.True(t, res.Entries[1].IsUbo)
}

func TestResolve_ThresholdIsStrict(t *testing.T) {
	// 2501/10000 = 25.01 is a UBO; 2500/10000 = 25.00 exactly is not.
	res := Resolve([]profile.Shareholder{
		{Name: "A", Shares: intp(2501)},
		{Name: "B", Shares: intp(2500)},
		{Name: "C", Shares: intp(4999)},
	})
	require.Len(t, res.Entries, 3)
	assert.True(t, res.Entries[0].IsUbo)
	assert.False(t, res.Entries[1].IsUbo)
	assert.True(t, res.Entries[2].IsUbo)
}

func TestResolve_RecomputedPercentagesSumTo100(t *testing.T) {
	res := Resolve([]profile.Shareholder{
		{Name: "A", Shares: intp(1)},
		{Name: "B", Shares: intp(1)},
		{Name: "C", Shares: intp(1)},
	})
	var sum float64
	for _, e := range res.Entries {
		sum += *e.ComputedPercentage
	}
	assert.InDelta(t, 100, sum, 0.01)
}

func TestResolve_FallsBackToDeclared(t *testing.T) {
	res := Resolve([]profile.Shareholder{
		{Name: "A", Shares: intp(600)},
		{Name: "B", Percentage: floatp(40)}, // missing share count
	})
	assert.False(t, res.UsedShareCount)
	assert.Equal(t, ThresholdFromDeclared, res.Entries[1].ThresholdApplied)
	assert.True(t, res.Entries[1].IsUbo)
	assert.Nil(t, res.Entries[0].ComputedPercentage)
	assert.False(t, res.Entries[0].IsUbo)
	assert.NotEmpty(t, res.Entries[0].Note)
}

func TestResolve_ExplicitFlagOverridesThreshold(t *testing.T) {
	res := Resolve([]profile.Shareholder{
		{Name: "A", Shares: intp(90)},
		{Name: "B", Shares: intp(10), IsBeneficialOwner: true},
	})
	assert.True(t, res.Entries[1].IsUbo)
	assert.Equal(t, ThresholdExplicitFlag, res.Entries[1].ThresholdApplied)
}

func TestResolve_ZeroTotalSharesIsIndeterminate(t *testing.T) {
	res := Resolve([]profile.Shareholder{
		{Name: "A", Shares: intp(0)},
		{Name: "B", Shares: intp(0)},
	})
	require.Len(t, res.Entries, 2)
	for _, e := range res.Entries {
		assert.Equal(t, ThresholdIndeterminate, e.ThresholdApplied)
		assert.Nil(t, e.ComputedPercentage)
		assert.False(t, e.IsUbo)
		assert.NotEmpty(t, e.Note)
	}
}

func TestResolve_EmptyRoster(t *testing.T) {
	res := Resolve(nil)
	assert.Empty(t, res.Entries)
	assert.Empty(t, res.Ubos())
}

func TestUbos_PreservesOrder(t *testing.T) {
	res := Resolve([]profile.Shareholder{
		{Name: "A", Shares: intp(50)},
		{Name: "B", Shares: intp(20)},
		{Name: "C", Shares: intp(30)},
	})
	ubos := res.Ubos()
	require.Len(t, ubos, 2)
	assert.Equal(t, "A", ubos[0].Name)
	assert.Equal(t, "C", ubos[1].Name)
}
