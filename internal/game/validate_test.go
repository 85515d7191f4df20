// internal/game/validate_test.go
package game

import (
	"testing"

	"github.com/jason-s-yu/hearts/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fullRoundHands builds a deterministic 52-card deal: seat 0 all clubs,
// seat 1 all diamonds, seat 2 twelve hearts plus the 2S, seat 3 twelve
// spades plus the AH.
func fullRoundHands() [NumSeats][]models.Card {
	var hands [NumSeats][]models.Card
	for rank := 2; rank <= models.RankAce; rank++ {
		hands[0] = append(hands[0], models.Card{Suit: models.SuitClubs, Rank: rank})
		hands[1] = append(hands[1], models.Card{Suit: models.SuitDiamonds, Rank: rank})
	}
	for rank := 2; rank <= models.RankKing; rank++ {
		hands[2] = append(hands[2], models.Card{Suit: models.SuitHearts, Rank: rank})
	}
	hands[2] = append(hands[2], models.Card{Suit: models.SuitSpades, Rank: 2})
	for rank := 3; rank <= models.RankAce; rank++ {
		hands[3] = append(hands[3], models.Card{Suit: models.SuitSpades, Rank: rank})
	}
	hands[3] = append(hands[3], models.Card{Suit: models.SuitHearts, Rank: models.RankAce})
	for i := range hands {
		models.SortHand(hands[i])
	}
	return hands
}

func TestValidatePlayOpening(t *testing.T) {
	r, players, _ := setupTestRoom(t, RuleConfig{})
	startRound(r, fullRoundHands())
	rs := r.Round

	require.Equal(t, 0, rs.Leader, "the 2C holder leads")

	// Out of turn.
	err := r.ValidatePlay(players[1].ID, models.Card{Suit: "D", Rank: 5})
	assert.ErrorIs(t, err, ErrNotYourTurn)

	// A card the player does not hold.
	err = r.ValidatePlay(players[0].ID, models.Card{Suit: "D", Rank: 5})
	assert.ErrorIs(t, err, ErrInvalidCard)

	// Holding the 2C, any other opener is rejected.
	err = r.ValidatePlay(players[0].ID, models.Card{Suit: "C", Rank: 5})
	assert.ErrorIs(t, err, ErrMustOpenClubs)

	// Acceptance has no side effect: the same call passes twice.
	require.NoError(t, r.ValidatePlay(players[0].ID, models.TwoOfClubs))
	require.NoError(t, r.ValidatePlay(players[0].ID, models.TwoOfClubs))
	assert.Len(t, players[0].Hand, HandSize)
	assert.Empty(t, rs.Trick)
}

func TestValidatePlayFirstTrickHearts(t *testing.T) {
	r, players, _ := setupTestRoom(t, RuleConfig{})
	startRound(r, fullRoundHands())

	r.playCard(players[0].ID, models.TwoOfClubs)

	// Void in clubs, seat 1 may discard anything but a heart.
	require.NoError(t, r.ValidatePlay(players[1].ID, models.Card{Suit: "D", Rank: 5}))
	r.playCard(players[1].ID, models.Card{Suit: "D", Rank: 5})

	// Seat 2 holds a non-heart, so hearts stay embargoed on the first trick.
	err := r.ValidatePlay(players[2].ID, models.Card{Suit: "H", Rank: 5})
	assert.ErrorIs(t, err, ErrNoFirstHearts)
	r.playCard(players[2].ID, models.Card{Suit: "S", Rank: 2})

	err = r.ValidatePlay(players[3].ID, models.Card{Suit: "H", Rank: models.RankAce})
	assert.ErrorIs(t, err, ErrNoFirstHearts)
	r.playCard(players[3].ID, models.Card{Suit: "S", Rank: models.RankAce})

	// Only the club played: its owner wins the opening trick.
	assert.Equal(t, 0, r.Round.Turn)
	assert.False(t, r.Round.HeartsBroken)
}

func TestValidatePlayHeartsLead(t *testing.T) {
	r, players, _ := setupTestRoom(t, RuleConfig{})
	startRound(r, [NumSeats][]models.Card{
		{models.Card{Suit: "H", Rank: 3}, models.Card{Suit: "C", Rank: 8}},
		{models.Card{Suit: "H", Rank: 6}, models.Card{Suit: "C", Rank: 9}},
		{models.Card{Suit: "H", Rank: 7}, models.Card{Suit: "C", Rank: 10}},
		{models.Card{Suit: "H", Rank: 8}, models.Card{Suit: "C", Rank: 12}},
	})
	rs := r.Round
	rs.Leader, rs.Turn = 0, 0

	err := r.ValidatePlay(players[0].ID, models.Card{Suit: "H", Rank: 3})
	assert.ErrorIs(t, err, ErrHeartsNotBroken)

	// Broken: the same lead is now legal.
	rs.HeartsBroken = true
	assert.NoError(t, r.ValidatePlay(players[0].ID, models.Card{Suit: "H", Rank: 3}))

	// An all-hearts hand may always lead hearts.
	rs.HeartsBroken = false
	players[0].Hand = []models.Card{{Suit: "H", Rank: 3}, {Suit: "H", Rank: 4}}
	assert.NoError(t, r.ValidatePlay(players[0].ID, models.Card{Suit: "H", Rank: 3}))
}

func TestValidatePlayFollowSuit(t *testing.T) {
	r, players, _ := setupTestRoom(t, RuleConfig{})
	startRound(r, [NumSeats][]models.Card{
		{models.Card{Suit: "C", Rank: 3}, models.Card{Suit: "C", Rank: 4}},
		{models.Card{Suit: "C", Rank: 5}, models.Card{Suit: "D", Rank: 2}},
		{models.Card{Suit: "D", Rank: 7}, models.Card{Suit: "D", Rank: 8}},
		{models.Card{Suit: "S", Rank: 5}, models.Card{Suit: "S", Rank: 6}},
	})
	rs := r.Round
	rs.HeartsBroken = true
	rs.Leader, rs.Turn = 0, 0

	r.playCard(players[0].ID, models.Card{Suit: "C", Rank: 3})

	// Holding a club, the discard is rejected with the led suit named.
	err := r.ValidatePlay(players[1].ID, models.Card{Suit: "D", Rank: 2})
	require.Error(t, err)
	assert.EqualError(t, err, "You must play a clubs card if you have one")

	require.NoError(t, r.ValidatePlay(players[1].ID, models.Card{Suit: "C", Rank: 5}))
	r.playCard(players[1].ID, models.Card{Suit: "C", Rank: 5})

	// Void in clubs, any discard goes.
	assert.NoError(t, r.ValidatePlay(players[2].ID, models.Card{Suit: "D", Rank: 7}))
}

func TestValidatePlayDuringPass(t *testing.T) {
	r, players, _ := setupTestRoom(t, RuleConfig{PassCardsEnabled: true})
	startRound(r, fullRoundHands())

	require.True(t, r.Round.PassPending())
	err := r.ValidatePlay(players[0].ID, models.TwoOfClubs)
	assert.ErrorIs(t, err, ErrWaitForPass)
}
