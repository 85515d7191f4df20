package models

// GameAction captures a player's in-game move as received over the wire.
type GameAction struct {
	ActionType string                 `json:"action_type"`
	Payload    map[string]interface{} `json:"payload"`
}
