// internal/models/card_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCardPoints(t *testing.T) {
	assert.Equal(t, 1, Card{Suit: SuitHearts, Rank: 2}.Points())
	assert.Equal(t, 1, Card{Suit: SuitHearts, Rank: RankAce}.Points())
	assert.Equal(t, 13, QueenOfSpades.Points())
	assert.Equal(t, 0, Card{Suit: SuitSpades, Rank: RankKing}.Points())
	assert.Equal(t, 0, TenOfClubs.Points())
	assert.Equal(t, 0, JackOfDiamonds.Points())
}

func TestCardString(t *testing.T) {
	assert.Equal(t, "2C", TwoOfClubs.String())
	assert.Equal(t, "QS", QueenOfSpades.String())
	assert.Equal(t, "AH", Card{Suit: SuitHearts, Rank: RankAce}.String())
	assert.Equal(t, "10C", TenOfClubs.String())
}

func TestSortHand(t *testing.T) {
	hand := []Card{
		{Suit: SuitDiamonds, Rank: 4},
		{Suit: SuitHearts, Rank: RankAce},
		{Suit: SuitSpades, Rank: 9},
		{Suit: SuitHearts, Rank: 3},
		{Suit: SuitClubs, Rank: 2},
		{Suit: SuitSpades, Rank: 2},
	}
	SortHand(hand)

	want := []Card{
		{Suit: SuitSpades, Rank: 2},
		{Suit: SuitSpades, Rank: 9},
		{Suit: SuitHearts, Rank: 3},
		{Suit: SuitHearts, Rank: RankAce},
		{Suit: SuitClubs, Rank: 2},
		{Suit: SuitDiamonds, Rank: 4},
	}
	assert.Equal(t, want, hand)
}

func TestPlayerHand(t *testing.T) {
	p := &Player{Hand: []Card{
		{Suit: SuitHearts, Rank: 5},
		{Suit: SuitClubs, Rank: 9},
	}}

	assert.True(t, p.HasCard(Card{Suit: SuitHearts, Rank: 5}))
	assert.False(t, p.HasCard(Card{Suit: SuitHearts, Rank: 6}))
	assert.True(t, p.HasSuit(SuitClubs))
	assert.False(t, p.HasSuit(SuitDiamonds))
	assert.False(t, p.OnlyHearts())

	assert.True(t, p.RemoveCard(Card{Suit: SuitClubs, Rank: 9}))
	assert.False(t, p.RemoveCard(Card{Suit: SuitClubs, Rank: 9}))
	assert.True(t, p.OnlyHearts())

	p.RemoveCard(Card{Suit: SuitHearts, Rank: 5})
	assert.False(t, p.OnlyHearts(), "an empty hand is not all hearts")
}
