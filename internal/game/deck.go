// internal/game/deck.go
package game

import (
	"math/rand"

	"github.com/jason-s-yu/hearts/internal/models"
)

// NumSeats is fixed: hearts is a four-player game.
const NumSeats = 4

// HandSize is the per-seat share of a full deck.
const HandSize = 52 / NumSeats

// GenerateDeck returns all 52 (suit, rank) cards in a uniformly random order.
func GenerateDeck() []models.Card {
	suits := []string{models.SuitHearts, models.SuitDiamonds, models.SuitClubs, models.SuitSpades}

	deck := make([]models.Card, 0, 52)
	for _, suit := range suits {
		for rank := 2; rank <= models.RankAce; rank++ {
			deck = append(deck, models.Card{Suit: suit, Rank: rank})
		}
	}

	rand.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}

// DealHands partitions a shuffled deck into NumSeats disjoint 13-card hands by
// taking every 4th card starting at each seat's offset, then sorts each hand
// for presentation. Dealing the full deck guarantees exactly one seat holds
// the 2C every round.
func DealHands(deck []models.Card) [NumSeats][]models.Card {
	var hands [NumSeats][]models.Card
	for seat := 0; seat < NumSeats; seat++ {
		hand := make([]models.Card, 0, HandSize)
		for i := seat; i < len(deck); i += NumSeats {
			hand = append(hand, deck[i])
		}
		models.SortHand(hand)
		hands[seat] = hand
	}
	return hands
}
