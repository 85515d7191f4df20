// internal/game/game.go
package game

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/hearts/internal/cache"
	"github.com/jason-s-yu/hearts/internal/database"
	"github.com/jason-s-yu/hearts/internal/models"

	"github.com/coder/websocket"
)

// GameOverScore is the cumulative total that ends a scoring epoch: totals are
// reset and a fresh round is dealt, but the room survives.
const GameOverScore = 50

// Protocol errors surfaced synchronously by the room directory operations.
var (
	ErrRoomFull      = errors.New("Room is full")
	ErrAlreadyJoined = errors.New("Player already in room")
	ErrNotInRoom     = errors.New("Player not in room")
)

// Pass-phase rejections, delivered privately like play rejections.
var (
	ErrNoPassExpected = errors.New("No pass is expected now")
	ErrAlreadyPassed  = errors.New("You have already passed your cards")
	ErrPassCount      = errors.New("You must pass exactly 3 cards")
)

// passCount is the fixed number of cards exchanged per player in a pass round.
const passCount = 3

// Room holds the entire state for one game room in memory. All mutating
// operations are serialized through Mu: the websocket read loops and the
// deferred round-end continuation each take the lock before touching state,
// so at most one mutation is in flight per room.
type Room struct {
	ID    string
	Rules RuleConfig

	// Players in seat order. Seat order is turn order, fixed when the seat is
	// taken; the slice only shrinks on disconnect.
	Players []*models.Player

	Totals   map[uuid.UUID]int // cumulative scores across rounds
	RoundNum int
	Round    *RoundState

	Started   bool // a round is in progress (dealt and not yet finished)
	roundOver bool // trick play finished, round-end continuation pending

	actionIndex int

	Mu sync.Mutex

	// BroadcastFn sends a message to every seated player with a live
	// connection. If nil, no broadcast is done.
	BroadcastFn func(msg map[string]interface{})

	// BroadcastToPlayerFn sends a message to a single specific player.
	BroadcastToPlayerFn func(playerID uuid.UUID, msg map[string]interface{})

	// OnEmpty is called when the last player leaves, so the directory can
	// drop the room.
	OnEmpty func(roomID string)
}

// NewRoom builds an empty room with the given immutable rule configuration.
func NewRoom(id string, rules RuleConfig) *Room {
	return &Room{
		ID:     id,
		Rules:  rules,
		Totals: make(map[uuid.UUID]int, NumSeats),
	}
}

// AddPlayer seats a player in the room. Called by the join operation before
// any connection exists; the seat's connection is bound later by
// HandleConnect.
func (r *Room) AddPlayer(p *models.Player) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if len(r.Players) >= NumSeats {
		return ErrRoomFull
	}
	for _, pl := range r.Players {
		if pl.ID == p.ID {
			return ErrAlreadyJoined
		}
	}
	r.Players = append(r.Players, p)
	if _, ok := r.Totals[p.ID]; !ok {
		r.Totals[p.ID] = 0
	}
	log.Printf("Room %s: player %s (%s) seated (%d/%d)", r.ID, p.ID, p.Username, len(r.Players), NumSeats)
	r.logAction(p.ID, "player_join", nil)
	r.broadcastRoster()
	return nil
}

// IsSeated reports whether the player holds a seat in this room.
func (r *Room) IsSeated(playerID uuid.UUID) bool {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return r.seatOf(playerID) >= 0
}

// seatOf returns the player's seat index, or -1. Assumes lock is held.
func (r *Room) seatOf(playerID uuid.UUID) int {
	for i, p := range r.Players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// HandleConnect binds a live connection to the player's seat. The first deal
// fires once all four seats hold a live connection and no round is in
// progress; a reconnect during a round resumes instead of re-dealing.
func (r *Room) HandleConnect(playerID uuid.UUID, conn *websocket.Conn) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	seat := r.seatOf(playerID)
	if seat < 0 {
		log.Printf("Room %s: connection for unseated player %s", r.ID, playerID)
		if conn != nil {
			conn.Close(websocket.StatusPolicyViolation, "You are not seated in this room.")
		}
		return
	}

	p := r.Players[seat]
	p.Conn = conn
	p.Connected = true
	log.Printf("Room %s: player %s connected (seat %d)", r.ID, playerID, seat)
	r.logAction(playerID, "player_connect", nil)

	if r.Started {
		// Mid-round reconnect: resume, never re-deal.
		r.sendResyncState(playerID)
		return
	}
	if len(r.Players) == NumSeats && r.countConnected() == NumSeats {
		r.dealRound()
	}
}

// HandleDisconnect removes the departing player's seat and per-player state.
// It runs concurrently with in-flight actions but is serialized behind them
// by the room lock. The room is destroyed when the roster becomes empty.
func (r *Room) HandleDisconnect(playerID uuid.UUID) {
	r.Mu.Lock()

	seat := r.seatOf(playerID)
	if seat < 0 {
		r.Mu.Unlock()
		return
	}
	log.Printf("Room %s: player %s disconnected, removing seat %d", r.ID, playerID, seat)
	r.logAction(playerID, "player_disconnect", nil)

	r.Players = append(r.Players[:seat], r.Players[seat+1:]...)
	delete(r.Totals, playerID)

	if r.Started || r.roundOver {
		// The round cannot continue with an empty seat. Abort it; a
		// replacement join plus full connectivity triggers a fresh deal.
		log.Printf("Room %s: aborting round %d after disconnect", r.ID, r.RoundNum)
		r.Started = false
		r.roundOver = false
		r.Round = nil
	}

	empty := len(r.Players) == 0
	onEmpty := r.OnEmpty
	if !empty {
		r.broadcastRoster()
	}
	r.Mu.Unlock()

	if empty && onEmpty != nil {
		onEmpty(r.ID)
	}
}

// countConnected returns the number of seats with a live connection.
// Assumes lock is held.
func (r *Room) countConnected() int {
	n := 0
	for _, p := range r.Players {
		if p.Connected {
			n++
		}
	}
	return n
}

// HandlePlayerAction routes an inbound action to the matching handler.
// Assumes lock is HELD by the caller (the websocket read loop).
func (r *Room) HandlePlayerAction(playerID uuid.UUID, action models.GameAction) {
	if r.seatOf(playerID) < 0 {
		log.Printf("Room %s: action %s from non-seated player %s, ignoring", r.ID, action.ActionType, playerID)
		return
	}
	if !r.Started {
		r.rejectPlayer(playerID, "No round is in progress")
		return
	}

	switch action.ActionType {
	case "play_card":
		card, err := parseCard(action.Payload["card"])
		if err != nil {
			r.rejectPlayer(playerID, ErrInvalidCard.Error())
			return
		}
		r.playCard(playerID, card)
	case "pass_cards":
		cards, err := parseCards(action.Payload["cards"])
		if err != nil {
			r.rejectPlayer(playerID, ErrInvalidCard.Error())
			return
		}
		r.passCards(playerID, cards)
	default:
		log.Printf("Room %s: unknown action type %q from player %s", r.ID, action.ActionType, playerID)
		r.rejectPlayer(playerID, "Unknown action type")
	}
}

// playCard validates and, on acceptance, applies the play atomically: the
// card leaves the hand, joins the trick, and either the trick resolves or the
// turn advances. A rejection leaves the room state untouched.
// Assumes lock is held.
func (r *Room) playCard(playerID uuid.UUID, card models.Card) {
	if r.roundOver || r.Round == nil {
		r.rejectPlayer(playerID, "No round is in progress")
		return
	}
	if err := r.ValidatePlay(playerID, card); err != nil {
		r.rejectPlayer(playerID, err.Error())
		return
	}

	rs := r.Round
	player := r.Players[rs.Turn]
	player.RemoveCard(card)

	if len(rs.Trick) == 0 {
		rs.TrickSuit = card.Suit
	}
	rs.Trick = append(rs.Trick, PlayedCard{PlayerID: playerID, Card: card})
	if card.IsHeart() {
		rs.HeartsBroken = true
	}
	r.logAction(playerID, "play_card", map[string]interface{}{"suit": card.Suit, "rank": card.Rank})

	if len(rs.Trick) == NumSeats {
		r.resolveTrick()
	} else {
		rs.Turn = (rs.Turn + 1) % NumSeats
	}

	r.fireAll(map[string]interface{}{
		"message":      "Card played",
		"player":       playerID.String(),
		"card":         card,
		"next_player":  r.Players[r.Round.Turn].ID.String(),
		"current_suit": r.Round.TrickSuit,
		"scores":       r.roundScores(),
	})
}

// resolveTrick determines the winner, scores the trick, and either hands the
// lead to the winner or schedules the round-end continuation.
// Assumes lock is held.
func (r *Room) resolveTrick() {
	rs := r.Round

	var winnerID uuid.UUID
	best := -1
	for _, pc := range rs.Trick {
		if pc.Card.Suit != rs.TrickSuit {
			continue // off-suit discards can never win
		}
		if pc.Card.Rank > best {
			best = pc.Card.Rank
			winnerID = pc.PlayerID
		}
	}
	winnerSeat := r.seatOf(winnerID)

	rs.Leader = winnerSeat
	rs.Turn = winnerSeat

	for _, pc := range rs.Trick {
		rs.WonCards[winnerID] = append(rs.WonCards[winnerID], pc.Card)
	}

	r.scoreTrick(winnerID)
	r.logAction(winnerID, "trick_won", map[string]interface{}{"points": rs.Scores[winnerID]})

	rs.Trick = nil
	rs.TrickSuit = ""

	remaining := 0
	for _, p := range r.Players {
		remaining += len(p.Hand)
	}
	if remaining == 0 {
		// Round complete. Finish as deferred follow-up work: it re-acquires
		// the lock, so it is serialized behind any later action, and the
		// round-number guard discards stale continuations.
		r.roundOver = true
		n := rs.Number
		go r.finishRound(n)
	}
}

// trickContains reports whether the current trick holds the card.
// Assumes lock is held.
func (rs *RoundState) trickContains(c models.Card) bool {
	for _, pc := range rs.Trick {
		if pc.Card == c {
			return true
		}
	}
	return false
}

// scoreTrick applies the trick's point delta to the winner in the fixed rule
// order: club-ten doubling first (sticky, prospective only), then the
// jack-of-diamonds penalty, then hearts and the queen of spades, with the
// final delta multiplied by the winner's current multiplier.
// Assumes lock is held.
func (r *Room) scoreTrick(winnerID uuid.UUID) {
	rs := r.Round

	if r.Rules.DoubleOnClubTen {
		if rs.trickContains(models.TenOfClubs) {
			rs.Multipliers[winnerID] = 2
		}
	}

	delta := 0
	if r.Rules.JackOfDiamondsPenalty && rs.trickContains(models.JackOfDiamonds) {
		delta -= 13
	}
	for _, pc := range rs.Trick {
		if pc.Card.IsHeart() {
			delta++
		}
	}
	if rs.trickContains(models.QueenOfSpades) {
		delta += 13
	}

	rs.Scores[winnerID] += delta * rs.multiplier(winnerID)
}

// heartsWon counts hearts among a player's collected cards.
func heartsWon(cards []models.Card) int {
	n := 0
	for _, c := range cards {
		if c.IsHeart() {
			n++
		}
	}
	return n
}

func containsCard(cards []models.Card, target models.Card) bool {
	for _, c := range cards {
		if c == target {
			return true
		}
	}
	return false
}

// applyRoundBonuses evaluates the end-of-round bonus rules in fixed priority:
// shoot-the-moon first, run-of-hearts only if the moon did not fire. The two
// are mutually exclusive within a round. Assumes lock is held.
func (r *Room) applyRoundBonuses() {
	rs := r.Round

	if r.Rules.ShootTheMoonBonus {
		for id, won := range rs.WonCards {
			if heartsWon(won) == 13 && containsCard(won, models.QueenOfSpades) {
				if r.Rules.JackOfDiamondsPenalty && containsCard(won, models.JackOfDiamonds) {
					rs.Scores[id] = -13 * rs.multiplier(id)
				} else {
					rs.Scores[id] = 0
				}
				for _, p := range r.Players {
					if p.ID != id {
						rs.Scores[p.ID] += 26 * rs.multiplier(p.ID)
					}
				}
				log.Printf("Room %s: player %s shot the moon", r.ID, id)
				r.logAction(id, "shoot_the_moon", nil)
				return
			}
		}
	}

	if r.Rules.RunOfHeartsBonus {
		for id, won := range rs.WonCards {
			if heartsWon(won) == 13 {
				rs.Scores[id] -= 26 * rs.multiplier(id)
				log.Printf("Room %s: player %s collected a run of hearts", r.ID, id)
				r.logAction(id, "run_of_hearts", nil)
				return
			}
		}
	}
}

// finishRound is the deferred round-end continuation. It re-acquires the room
// lock and verifies the round counter before acting, so a stale continuation
// (round aborted by a disconnect, for example) is a no-op.
func (r *Room) finishRound(roundNum int) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if !r.roundOver || r.Round == nil || r.Round.Number != roundNum {
		log.Printf("Room %s: stale round-end continuation for round %d, ignoring", r.ID, roundNum)
		return
	}
	r.roundOver = false
	r.Started = false

	r.applyRoundBonuses()

	rs := r.Round
	for _, p := range r.Players {
		r.Totals[p.ID] += rs.Scores[p.ID]
	}

	r.fireAll(map[string]interface{}{
		"message":    "Round ended",
		"scores":     r.roundScores(),
		"tot_scores": r.totalScores(),
	})
	r.logAction(uuid.Nil, "round_end", map[string]interface{}{"round": roundNum})
	r.recordRoundResult(roundNum)

	epochOver := false
	for _, total := range r.Totals {
		if total >= GameOverScore {
			epochOver = true
			break
		}
	}
	if epochOver {
		// A scoring epoch boundary, not room teardown: totals reset and play
		// continues immediately.
		r.fireAll(map[string]interface{}{
			"message":      "Game over, scores reset",
			"final_scores": r.totalScores(),
		})
		r.logAction(uuid.Nil, "scores_reset", nil)
		for id := range r.Totals {
			r.Totals[id] = 0
		}
	}

	if len(r.Players) == NumSeats && r.countConnected() == NumSeats {
		r.dealRound()
	}
}

// dealRound starts a new round: fresh per-round state, a shuffled deck split
// into four interleaved hands, and either the pass prompt or the round-start
// message. Assumes lock is held.
func (r *Room) dealRound() {
	r.RoundNum++
	r.Round = newRoundState(r.RoundNum, r.Players, r.Rules)
	r.Started = true

	hands := DealHands(GenerateDeck())
	for i, p := range r.Players {
		p.Hand = hands[i]
	}
	r.setLeaderFromClubsTwo()

	log.Printf("Room %s: dealt round %d (pass offset %d)", r.ID, r.RoundNum, r.Round.PassOffset)
	r.logAction(uuid.Nil, "round_deal", map[string]interface{}{"round": r.RoundNum})

	if r.Round.PassPending() {
		for _, p := range r.Players {
			r.fireToPlayer(p.ID, map[string]interface{}{
				"message": "Pass cards",
				"hand":    p.Hand,
			})
		}
		return
	}
	r.sendRoundStart(r.Players)
}

// setLeaderFromClubsTwo points the turn at the seat holding the 2C. Full-deck
// dealing guarantees exactly one such seat. Assumes lock is held.
func (r *Room) setLeaderFromClubsTwo() {
	for i, p := range r.Players {
		if p.HasCard(models.TwoOfClubs) {
			r.Round.Leader = i
			r.Round.Turn = i
			return
		}
	}
}

// sendRoundStart pushes each recipient their private hand plus the shared
// round-start fields. Assumes lock is held.
func (r *Room) sendRoundStart(recipients []*models.Player) {
	first := r.Players[r.Round.Turn].ID.String()
	for _, p := range recipients {
		r.fireToPlayer(p.ID, map[string]interface{}{
			"message":      "Game started",
			"hand":         p.Hand,
			"first_player": first,
			"scores":       r.roundScores(),
			"tot_scores":   r.totalScores(),
		})
	}
}

// passCards stages a player's outgoing cards. The cards leave the hand
// immediately; the exchange resolves once all four players have staged.
// Assumes lock is held.
func (r *Room) passCards(playerID uuid.UUID, cards []models.Card) {
	rs := r.Round
	if rs == nil || !rs.PassPending() {
		r.rejectPlayer(playerID, ErrNoPassExpected.Error())
		return
	}
	if _, staged := rs.Staged[playerID]; staged {
		r.rejectPlayer(playerID, ErrAlreadyPassed.Error())
		return
	}
	if len(cards) != passCount {
		r.rejectPlayer(playerID, ErrPassCount.Error())
		return
	}

	seat := r.seatOf(playerID)
	player := r.Players[seat]
	for i, c := range cards {
		if !player.HasCard(c) {
			r.rejectPlayer(playerID, ErrInvalidCard.Error())
			return
		}
		for j := 0; j < i; j++ {
			if cards[j] == c {
				r.rejectPlayer(playerID, ErrInvalidCard.Error())
				return
			}
		}
	}

	for _, c := range cards {
		player.RemoveCard(c)
	}
	rs.Staged[playerID] = cards
	r.logAction(playerID, "pass_cards", map[string]interface{}{"count": len(cards)})

	if len(rs.Staged) == NumSeats {
		r.resolvePass()
	}
}

// resolvePass transfers every staged batch to its receiver, re-sorts hands,
// recomputes the leader from the post-exchange 2C holder, and emits the
// round-start message to players who actually received cards (a defensive
// check against spurious re-entry). Assumes lock is held.
func (r *Room) resolvePass() {
	rs := r.Round

	received := make([]int, len(r.Players))
	for seat, p := range r.Players {
		target := (seat + rs.PassOffset) % NumSeats
		cards := rs.Staged[p.ID]
		r.Players[target].Hand = append(r.Players[target].Hand, cards...)
		received[target] += len(cards)
	}
	for _, p := range r.Players {
		models.SortHand(p.Hand)
	}
	rs.Staged = make(map[uuid.UUID][]models.Card)
	rs.PassDone = true

	r.setLeaderFromClubsTwo()
	log.Printf("Room %s: pass resolved for round %d, leader seat %d", r.ID, rs.Number, rs.Leader)
	r.logAction(uuid.Nil, "pass_resolved", map[string]interface{}{"round": rs.Number})

	recipients := make([]*models.Player, 0, NumSeats)
	for i, p := range r.Players {
		if received[i] > 0 {
			recipients = append(recipients, p)
		}
	}
	r.sendRoundStart(recipients)
}

// sendResyncState re-sends a reconnecting player their private view of the
// round in progress. Assumes lock is held.
func (r *Room) sendResyncState(playerID uuid.UUID) {
	seat := r.seatOf(playerID)
	rs := r.Round
	msg := map[string]interface{}{
		"message":      "Game resumed",
		"hand":         r.Players[seat].Hand,
		"next_player":  r.Players[rs.Turn].ID.String(),
		"current_suit": rs.TrickSuit,
		"scores":       r.roundScores(),
		"tot_scores":   r.totalScores(),
	}
	if rs.PassPending() {
		msg["message"] = "Pass cards"
		delete(msg, "next_player")
		delete(msg, "current_suit")
	}
	r.fireToPlayer(playerID, msg)
}

// roundScores returns the per-player round scores keyed by player id string.
// Assumes lock is held.
func (r *Room) roundScores() map[string]int {
	out := make(map[string]int, len(r.Players))
	if r.Round == nil {
		return out
	}
	for _, p := range r.Players {
		out[p.ID.String()] = r.Round.Scores[p.ID]
	}
	return out
}

// totalScores returns the cumulative totals keyed by player id string.
// Assumes lock is held.
func (r *Room) totalScores() map[string]int {
	out := make(map[string]int, len(r.Totals))
	for id, total := range r.Totals {
		out[id.String()] = total
	}
	return out
}

// rosterPayload builds the roster-change notification. Assumes lock is held.
func (r *Room) rosterPayload() map[string]interface{} {
	players := make([]map[string]interface{}, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, map[string]interface{}{
			"id":        p.ID.String(),
			"username":  p.Username,
			"connected": p.Connected,
		})
	}
	return map[string]interface{}{
		"player_change": true,
		"players":       players,
	}
}

// broadcastRoster notifies the remaining roster of a seating change.
// Assumes lock is held.
func (r *Room) broadcastRoster() {
	r.fireAll(r.rosterPayload())
}

// rejectPlayer delivers a private rule-violation rejection. Room state is
// left unchanged by the caller before invoking this. Assumes lock is held.
func (r *Room) rejectPlayer(playerID uuid.UUID, reason string) {
	r.fireToPlayer(playerID, map[string]interface{}{"error": reason})
}

// fireAll broadcasts a message to all connected players. Assumes lock is held.
func (r *Room) fireAll(msg map[string]interface{}) {
	if r.BroadcastFn != nil {
		r.BroadcastFn(msg)
	}
}

// fireToPlayer sends a message to one player. Assumes lock is held.
func (r *Room) fireToPlayer(playerID uuid.UUID, msg map[string]interface{}) {
	if r.BroadcastToPlayerFn != nil {
		r.BroadcastToPlayerFn(playerID, msg)
	}
}

// logAction publishes an action record to the historian queue, best-effort.
// Assumes lock is held for the actionIndex increment.
func (r *Room) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	r.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := cache.RoomActionRecord{
		RoomID:        r.ID,
		ActionIndex:   r.actionIndex,
		ActorPlayerID: actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	go func(rec cache.RoomActionRecord) {
		if cache.Rdb == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishRoomAction(ctx, rec); err != nil {
			log.Printf("Room %s: failed to publish action %d: %v", rec.RoomID, rec.ActionIndex, err)
		}
	}(record)
}

// recordRoundResult persists the finished round to Postgres, best-effort.
// Never blocks or fails game logic. Assumes lock is held for the snapshot.
func (r *Room) recordRoundResult(roundNum int) {
	if database.DB == nil {
		return
	}
	scores := make(map[uuid.UUID]int, len(r.Players))
	totals := make(map[uuid.UUID]int, len(r.Players))
	for _, p := range r.Players {
		scores[p.ID] = r.Round.Scores[p.ID]
		totals[p.ID] = r.Totals[p.ID]
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.RecordRoundResult(ctx, r.ID, roundNum, scores, totals); err != nil {
			log.Printf("Room %s: failed to record round %d result: %v", r.ID, roundNum, err)
		}
	}()
}

// parseCard decodes a {"suit": "H", "rank": 5} wire value.
func parseCard(v interface{}) (models.Card, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return models.Card{}, errors.New("card must be an object")
	}
	suit, ok := m["suit"].(string)
	if !ok {
		return models.Card{}, errors.New("missing card suit")
	}
	rank, ok := m["rank"].(float64)
	if !ok {
		return models.Card{}, errors.New("missing card rank")
	}
	c := models.Card{Suit: suit, Rank: int(rank)}
	if c.Rank < 2 || c.Rank > models.RankAce {
		return models.Card{}, errors.New("rank out of range")
	}
	switch c.Suit {
	case models.SuitSpades, models.SuitHearts, models.SuitClubs, models.SuitDiamonds:
	default:
		return models.Card{}, errors.New("unknown suit")
	}
	return c, nil
}

// parseCards decodes a wire array of card objects.
func parseCards(v interface{}) ([]models.Card, error) {
	arr, ok := v.([]interface{})
	if !ok {
		return nil, errors.New("cards must be an array")
	}
	cards := make([]models.Card, 0, len(arr))
	for _, item := range arr {
		c, err := parseCard(item)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}
