// internal/game/validate.go
package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jason-s-yu/hearts/internal/models"
)

// Rejection reasons surfaced privately to the acting player. These are rule
// violations, not server errors; the room state is untouched when one fires.
var (
	ErrWaitForPass     = errors.New("Wait for other players to pass their cards")
	ErrNotYourTurn     = errors.New("Not your turn")
	ErrInvalidCard     = errors.New("Invalid card")
	ErrMustOpenClubs   = errors.New("The first move must be the 2 of clubs")
	ErrNoFirstHearts   = errors.New("You cannot play hearts on the first trick")
	ErrHeartsNotBroken = errors.New("You cannot lead with hearts until it is broken")
)

// errMustFollow builds the follow-suit rejection naming the led suit.
func errMustFollow(suit string) error {
	return fmt.Errorf("You must play a %s card if you have one", suitName(suit))
}

func suitName(suit string) string {
	switch suit {
	case models.SuitSpades:
		return "spades"
	case models.SuitHearts:
		return "hearts"
	case models.SuitClubs:
		return "clubs"
	case models.SuitDiamonds:
		return "diamonds"
	}
	return suit
}

// ValidatePlay decides whether the proposed card is legal right now. It is a
// pure check: acceptance (nil) has no side effect, and repeated calls with no
// intervening mutation return the same outcome. The checks run in a fixed
// order and the first failure wins. Assumes the room lock is held.
func (r *Room) ValidatePlay(playerID uuid.UUID, card models.Card) error {
	rs := r.Round

	// 1. No play is accepted while a pass is outstanding.
	if rs.PassPending() {
		return ErrWaitForPass
	}

	// 2. Turn check.
	if r.Players[rs.Turn].ID != playerID {
		return ErrNotYourTurn
	}

	player := r.Players[rs.Turn]

	// 3. Possession check.
	if !player.HasCard(card) {
		return ErrInvalidCard
	}

	remaining := 0
	for _, p := range r.Players {
		remaining += len(p.Hand)
	}

	// 4. The very first card of a round must be the 2C.
	if len(rs.Trick) == 0 && !rs.HeartsBroken && remaining == 52 {
		if card != models.TwoOfClubs {
			return ErrMustOpenClubs
		}
		return nil
	}

	// 5. No hearts within the first trick of the round, unless the player
	// holds nothing else.
	if remaining > 48 && card.IsHeart() && !player.OnlyHearts() {
		return ErrNoFirstHearts
	}

	if len(rs.Trick) == 0 {
		// 6. Leading hearts requires the suit to be broken, or an all-hearts hand.
		if card.IsHeart() && !rs.HeartsBroken && !player.OnlyHearts() {
			return ErrHeartsNotBroken
		}
		return nil
	}

	// 7. Follow the led suit when able.
	if card.Suit != rs.TrickSuit && player.HasSuit(rs.TrickSuit) {
		return errMustFollow(rs.TrickSuit)
	}
	return nil
}
