package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTier(t *testing.T) {
	tier, err := ParseTier("")
	require.NoError(t, err)
	assert.Equal(t, TierBasic, tier)

	tier, err = ParseTier("premium")
	require.NoError(t, err)
	assert.Equal(t, TierPremium, tier)

	_, err = ParseTier("gold")
	assert.Error(t, err)
}

func TestTier_CanUpgradeTo(t *testing.T) {
	assert.True(t, TierBasic.CanUpgradeTo(TierPremium))
	assert.False(t, TierPremium.CanUpgradeTo(TierBasic))
	assert.False(t, TierBasic.CanUpgradeTo(TierBasic))
	assert.False(t, TierPremium.CanUpgradeTo(TierPremium))
	assert.False(t, Tier("").CanUpgradeTo(TierPremium))
}

func TestTier_Info(t *testing.T) {
	info, ok := TierPremium.Info()
	require.True(t, ok)
	assert.Equal(t, "Affiliate Pro", info.Name)
	assert.Equal(t, 59.99, info.Price)

	_, ok = Tier("gold").Info()
	assert.False(t, ok)
}

func TestNewCart(t *testing.T) {
	catalog := DefaultCatalog()
	cart := NewCart([]CartItem{catalog[0], catalog[0], catalog[2]})

	assert.Equal(t, 3, cart.Count)
	assert.Equal(t, float64(27+27+67), cart.Total)

	empty := NewCart(nil)
	assert.NotNil(t, empty.Items)
	assert.Equal(t, 0, empty.Count)
}
