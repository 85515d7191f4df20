// internal/game/rules_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRules(t *testing.T) {
	cfg, err := ParseRules(map[string]interface{}{
		"doubleOnClubTen":  true,
		"passCardsEnabled": true,
	})
	require.NoError(t, err)
	assert.True(t, cfg.DoubleOnClubTen)
	assert.True(t, cfg.PassCardsEnabled)
	assert.False(t, cfg.JackOfDiamondsPenalty)
	assert.False(t, cfg.RunOfHeartsBonus)
	assert.False(t, cfg.ShootTheMoonBonus)
}

func TestParseRulesNilAndMissingKeys(t *testing.T) {
	cfg, err := ParseRules(map[string]interface{}{
		"jackOfDiamondsPenalty": nil,
	})
	require.NoError(t, err)
	assert.False(t, cfg.JackOfDiamondsPenalty)

	cfg, err = ParseRules(nil)
	require.NoError(t, err)
	assert.Equal(t, RuleConfig{}, cfg)
}

func TestParseRulesBadType(t *testing.T) {
	_, err := ParseRules(map[string]interface{}{
		"runOfHeartsBonus": "yes",
	})
	assert.Error(t, err)
}

func TestRulesUpdateKeepsUnmentioned(t *testing.T) {
	cfg := RuleConfig{ShootTheMoonBonus: true}
	err := cfg.Update(map[string]interface{}{"doubleOnClubTen": true})
	require.NoError(t, err)
	assert.True(t, cfg.ShootTheMoonBonus)
	assert.True(t, cfg.DoubleOnClubTen)
}
