// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/jason-s-yu/hearts/internal/game"
	"github.com/jason-s-yu/hearts/internal/models"
	"github.com/sirupsen/logrus"
)

// GameMessage is the envelope for inbound websocket messages.
type GameMessage struct {
	Action string `json:"action"`

	// Card carries the played card for play_card actions. A loose map keeps
	// the wire format forgiving about extra fields.
	Card map[string]interface{} `json:"card,omitempty"`

	// Cards carries the staged batch for pass_cards actions.
	Cards []interface{} `json:"cards,omitempty"`
}

// GameWSHandler upgrades the HTTP connection to a websocket bound to one seat
// of one room. It authenticates the player, verifies the seat, registers the
// broadcast functions, and runs the read loop until the connection drops.
func GameWSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Extract room ID from URL path: /ws/{room_id}
		pathParts := strings.Split(strings.TrimPrefix(r.URL.Path, "/ws/"), "/")
		if len(pathParts) < 1 || pathParts[0] == "" {
			http.Error(w, "Missing room_id in path (/ws/{room_id})", http.StatusBadRequest)
			return
		}
		roomID := pathParts[0]

		room, ok := gs.Rooms.GetRoom(roomID)
		if !ok {
			http.Error(w, "Room not found", http.StatusNotFound)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"hearts"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("WebSocket accept error for room %s: %v", roomID, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "Internal server error during handler exit.")

		if c.Subprotocol() != "hearts" {
			logger.Warnf("Client for room %s connected with invalid subprotocol: %s", roomID, c.Subprotocol())
			c.Close(websocket.StatusPolicyViolation, "Client must use the 'hearts' subprotocol.")
			return
		}

		playerID, _, err := EnsurePlayerIdentity(w, r)
		if err != nil {
			logger.Warnf("Player authentication failed for room %s: %v", roomID, err)
			c.Close(websocket.StatusPolicyViolation, "Authentication failed.")
			return
		}
		logger.Infof("Player %s connected to room %s from %s", playerID, roomID, r.RemoteAddr)

		if !room.IsSeated(playerID) {
			logger.Warnf("Player %s is not seated in room %s. Closing connection.", playerID, roomID)
			c.Close(websocket.StatusPolicyViolation, "You are not seated in this room. Join first.")
			return
		}

		// Register broadcast functions once per room instance.
		room.Mu.Lock()
		if room.BroadcastFn == nil {
			room.BroadcastFn = createBroadcastFunc(room, logger)
		}
		if room.BroadcastToPlayerFn == nil {
			room.BroadcastToPlayerFn = createBroadcastToPlayerFunc(room, logger)
		}
		room.Mu.Unlock()

		// Bind the connection to the seat. This may trigger the first deal
		// (all four seats live) or a mid-round resync.
		room.HandleConnect(playerID, c)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		readGameMessages(ctx, c, room, playerID, logger)

		logger.Infof("Player %s websocket read loop exited for room %s.", playerID, roomID)
		room.HandleDisconnect(playerID)
	}
}

// createBroadcastFunc returns a function suitable for Room.BroadcastFn.
// It snapshots the connected players under the lock, then marshals and sends
// asynchronously so game logic is never blocked by a slow socket.
func createBroadcastFunc(room *game.Room, logger *logrus.Logger) func(msg map[string]interface{}) {
	return func(msg map[string]interface{}) {
		// Called while the room lock is held: snapshot, then release-free send.
		playersToSend := make([]*models.Player, 0, game.NumSeats)
		for _, p := range room.Players {
			if p.Connected && p.Conn != nil {
				playersToSend = append(playersToSend, p)
			}
		}

		msgBytes, err := json.Marshal(msg)
		if err != nil {
			logger.Errorf("Failed to marshal broadcast message for room %s: %v", room.ID, err)
			return
		}

		go func(players []*models.Player, data []byte, roomID string) {
			for _, pl := range players {
				if pl.Conn != nil {
					ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
					err := pl.Conn.Write(ctx, websocket.MessageText, data)
					cancel()
					if err != nil {
						logger.Warnf("Failed to write broadcast message to player %s in room %s: %v", pl.ID, roomID, err)
					}
				}
			}
		}(playersToSend, msgBytes, room.ID)
	}
}

// createBroadcastToPlayerFunc returns a function suitable for
// Room.BroadcastToPlayerFn: private delivery to a single seat, best-effort.
func createBroadcastToPlayerFunc(room *game.Room, logger *logrus.Logger) func(targetID uuid.UUID, msg map[string]interface{}) {
	return func(targetID uuid.UUID, msg map[string]interface{}) {
		// Also called while the room lock is held.
		var targetConn *websocket.Conn
		for _, pl := range room.Players {
			if pl.ID == targetID {
				if pl.Connected && pl.Conn != nil {
					targetConn = pl.Conn
				}
				break
			}
		}
		if targetConn == nil {
			return // no live connection: private sends are best-effort no-ops
		}

		msgBytes, err := json.Marshal(msg)
		if err != nil {
			logger.Errorf("Failed to marshal private message for player %s in room %s: %v", targetID, room.ID, err)
			return
		}
		go func(conn *websocket.Conn, data []byte) {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				logger.Warnf("Failed to write private message to player %s in room %s: %v", targetID, room.ID, err)
			}
		}(targetConn, msgBytes)
	}
}

// readGameMessages reads, decodes, and routes inbound actions. Every mutating
// action is applied under the room lock, one at a time; this is the
// single-writer discipline that keeps turn order and trick accumulation
// consistent across the four connections.
func readGameMessages(ctx context.Context, c *websocket.Conn, room *game.Room, playerID uuid.UUID, logger *logrus.Logger) {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("WebSocket closed normally for player %s in room %s.", playerID, room.ID)
			} else if strings.Contains(err.Error(), "context canceled") {
				logger.Infof("WebSocket context canceled for player %s in room %s.", playerID, room.ID)
			} else {
				logger.Warnf("Error reading from websocket for player %s in room %s: %v", playerID, room.ID, err)
			}
			return
		}

		if msgType != websocket.MessageText {
			logger.Warnf("Received non-text message type %d from player %s in room %s. Ignoring.", msgType, playerID, room.ID)
			continue
		}

		var msg GameMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("Invalid JSON from player %s in room %s: %v", playerID, room.ID, err)
			sendWsError(ctx, c, "Invalid JSON format.")
			continue
		}

		logger.Debugf("Received action '%s' from player %s in room %s.", msg.Action, playerID, room.ID)

		switch msg.Action {
		case "play_card", "pass_cards":
			action := models.GameAction{
				ActionType: msg.Action,
				Payload:    make(map[string]interface{}),
			}
			if msg.Card != nil {
				action.Payload["card"] = msg.Card
			}
			if msg.Cards != nil {
				action.Payload["cards"] = msg.Cards
			}

			room.Mu.Lock()
			room.HandlePlayerAction(playerID, action)
			room.Mu.Unlock()

		case "ping":
			sendWsMessage(ctx, c, map[string]string{"type": "pong"})

		default:
			logger.Warnf("Unknown action '%s' from player %s in room %s.", msg.Action, playerID, room.ID)
			sendWsError(ctx, c, fmt.Sprintf("Unknown action type: %s", msg.Action))
		}

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// sendWsMessage marshals a message and sends it to the websocket client.
func sendWsMessage(ctx context.Context, c *websocket.Conn, message interface{}) {
	if c == nil {
		log.Println("Error: attempted to send websocket message on nil connection.")
		return
	}
	msgBytes, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling websocket message: %v", err)
		return
	}

	writeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Write(writeCtx, websocket.MessageText, msgBytes); err != nil {
		status := websocket.CloseStatus(err)
		if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
			log.Printf("Error writing websocket message: %v", err)
		}
	}
}

// sendWsError sends a structured error message to the client.
func sendWsError(ctx context.Context, c *websocket.Conn, errorMsg string) {
	sendWsMessage(ctx, c, map[string]interface{}{"error": errorMsg})
}
