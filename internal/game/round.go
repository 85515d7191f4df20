// internal/game/round.go
package game

import (
	"github.com/google/uuid"
	"github.com/jason-s-yu/hearts/internal/models"
)

// PlayedCard is one entry of the current trick, in play order.
type PlayedCard struct {
	PlayerID uuid.UUID   `json:"player"`
	Card     models.Card `json:"card"`
}

// RoundState holds everything that is scoped to a single round and must not
// outlive it: the trick in progress, the turn pointer, per-player round
// scores, doubling multipliers, won-card lists and the pass-phase staging
// buffers. It is recreated fresh on every deal.
type RoundState struct {
	Number int // 1-based round counter; drives the pass direction

	Leader       int // seat index of the current trick's leader
	Turn         int // seat index whose play is expected next
	HeartsBroken bool

	Trick     []PlayedCard
	TrickSuit string // led suit, "" until the trick opens

	Scores      map[uuid.UUID]int           // per-player round score
	Multipliers map[uuid.UUID]int           // 1, or 2 once the club-ten doubling sticks
	WonCards    map[uuid.UUID][]models.Card // cards collected from resolved tricks

	// Pass phase. PassOffset is 0 when this round has no pass; otherwise it is
	// the seat distance to the receiver (1 left, 2 across, 3 right).
	PassOffset int
	Staged     map[uuid.UUID][]models.Card
	PassDone   bool
}

// newRoundState builds the fresh per-round state for the given roster.
func newRoundState(number int, players []*models.Player, rules RuleConfig) *RoundState {
	rs := &RoundState{
		Number:      number,
		Scores:      make(map[uuid.UUID]int, NumSeats),
		Multipliers: make(map[uuid.UUID]int, NumSeats),
		WonCards:    make(map[uuid.UUID][]models.Card, NumSeats),
		Staged:      make(map[uuid.UUID][]models.Card, NumSeats),
	}
	for _, p := range players {
		rs.Scores[p.ID] = 0
		rs.Multipliers[p.ID] = 1
	}
	if rules.PassCardsEnabled && number%NumSeats != 0 {
		rs.PassOffset = number % NumSeats
	} else {
		rs.PassDone = true
	}
	return rs
}

// PassPending reports whether the round is still waiting on the card exchange.
func (rs *RoundState) PassPending() bool {
	return rs.PassOffset != 0 && !rs.PassDone
}

// multiplier returns the player's current doubling multiplier, defaulting to 1.
func (rs *RoundState) multiplier(playerID uuid.UUID) int {
	if m, ok := rs.Multipliers[playerID]; ok && m > 1 {
		return m
	}
	return 1
}
