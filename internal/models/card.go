// internal/models/card.go
package models

import (
	"fmt"
	"sort"
)

// Suit identifiers use the same single-letter convention clients send back.
const (
	SuitSpades   = "S"
	SuitHearts   = "H"
	SuitClubs    = "C"
	SuitDiamonds = "D"
)

// Rank values run 2..14 where 11=J, 12=Q, 13=K, 14=A.
const (
	RankJack  = 11
	RankQueen = 12
	RankKing  = 13
	RankAce   = 14
)

// Card is an immutable (suit, rank) value. Equality is by both fields;
// a single deck never contains duplicates.
type Card struct {
	Suit string `json:"suit"`
	Rank int    `json:"rank"`
}

// The cards the scoring rules single out.
var (
	TwoOfClubs     = Card{Suit: SuitClubs, Rank: 2}
	TenOfClubs     = Card{Suit: SuitClubs, Rank: 10}
	QueenOfSpades  = Card{Suit: SuitSpades, Rank: RankQueen}
	JackOfDiamonds = Card{Suit: SuitDiamonds, Rank: RankJack}
)

// IsHeart reports whether the card is a heart.
func (c Card) IsHeart() bool {
	return c.Suit == SuitHearts
}

// Points returns the base point value of the card in a trick: 1 per heart,
// 13 for the queen of spades. The club-ten and diamond-jack modifiers are
// applied by the trick scorer, not here.
func (c Card) Points() int {
	if c.IsHeart() {
		return 1
	}
	if c == QueenOfSpades {
		return 13
	}
	return 0
}

func (c Card) String() string {
	names := map[int]string{RankJack: "J", RankQueen: "Q", RankKing: "K", RankAce: "A"}
	r, ok := names[c.Rank]
	if !ok {
		r = fmt.Sprintf("%d", c.Rank)
	}
	return r + c.Suit
}

// suitOrder is the fixed presentation priority for sorted hands.
var suitOrder = map[string]int{
	SuitSpades:   0,
	SuitHearts:   1,
	SuitClubs:    2,
	SuitDiamonds: 3,
}

// SortHand orders cards by suit priority (spades, hearts, clubs, diamonds)
// then ascending rank, for deterministic client presentation.
func SortHand(hand []Card) {
	sort.Slice(hand, func(i, j int) bool {
		if hand[i].Suit != hand[j].Suit {
			return suitOrder[hand[i].Suit] < suitOrder[hand[j].Suit]
		}
		return hand[i].Rank < hand[j].Rank
	})
}
