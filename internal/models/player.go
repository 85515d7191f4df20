package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// Player is one seated occupant of a room. Seat order is the slice order on
// the room and never changes while the player stays seated.
type Player struct {
	ID        uuid.UUID       `json:"id"`
	Username  string          `json:"username"`
	Hand      []Card          `json:"-"`
	Connected bool            `json:"connected"`
	Conn      *websocket.Conn `json:"-"`

	User *User `json:"-"`
}

// HasCard reports whether the card is currently in the player's hand.
func (p *Player) HasCard(c Card) bool {
	for _, h := range p.Hand {
		if h == c {
			return true
		}
	}
	return false
}

// RemoveCard removes the card from the player's hand if present.
func (p *Player) RemoveCard(c Card) bool {
	for i, h := range p.Hand {
		if h == c {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// HasSuit reports whether the player holds at least one card of the suit.
func (p *Player) HasSuit(suit string) bool {
	for _, h := range p.Hand {
		if h.Suit == suit {
			return true
		}
	}
	return false
}

// OnlyHearts reports whether every card left in the player's hand is a heart.
func (p *Player) OnlyHearts() bool {
	for _, h := range p.Hand {
		if !h.IsHeart() {
			return false
		}
	}
	return len(p.Hand) > 0
}
