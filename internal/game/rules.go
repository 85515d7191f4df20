// internal/game/rules.go
package game

import "fmt"

// RuleConfig defines the optional house rules for a room. The five toggles are
// fixed at room creation and never change for the lifetime of the room.
type RuleConfig struct {
	DoubleOnClubTen       bool `json:"doubleOnClubTen"`       // winning a trick containing the 10C doubles the winner's trick scores for the rest of the round
	JackOfDiamondsPenalty bool `json:"jackOfDiamondsPenalty"` // a trick containing the JD subtracts 13 from its score
	RunOfHeartsBonus      bool `json:"runOfHeartsBonus"`      // collecting all 13 hearts subtracts 26 from the collector's round score
	ShootTheMoonBonus     bool `json:"shootTheMoonBonus"`     // collecting all 13 hearts plus the QS zeroes the shooter and gives everyone else 26
	PassCardsEnabled      bool `json:"passCardsEnabled"`      // three rounds out of four start with a 3-card pass
}

// Update overwrites rule toggles from the provided map. Keys that are absent
// or nil are ignored and keep their previous value.
func (rules *RuleConfig) Update(newRules map[string]interface{}) error {
	var ok bool

	assignBool := func(field *bool, key string) error {
		if val, exists := newRules[key]; exists && val != nil {
			*field, ok = val.(bool)
			if !ok {
				return fmt.Errorf("invalid type for %s", key)
			}
		}
		return nil
	}

	if err := assignBool(&rules.DoubleOnClubTen, "doubleOnClubTen"); err != nil {
		return err
	}
	if err := assignBool(&rules.JackOfDiamondsPenalty, "jackOfDiamondsPenalty"); err != nil {
		return err
	}
	if err := assignBool(&rules.RunOfHeartsBonus, "runOfHeartsBonus"); err != nil {
		return err
	}
	if err := assignBool(&rules.ShootTheMoonBonus, "shootTheMoonBonus"); err != nil {
		return err
	}
	if err := assignBool(&rules.PassCardsEnabled, "passCardsEnabled"); err != nil {
		return err
	}
	return nil
}

// ParseRules converts a map of rules to a RuleConfig, ensuring the types are valid.
func ParseRules(rules map[string]interface{}) (RuleConfig, error) {
	var cfg RuleConfig
	err := cfg.Update(rules)
	return cfg, err
}
