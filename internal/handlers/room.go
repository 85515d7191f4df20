// internal/handlers/room.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jason-s-yu/hearts/internal/game"
	"github.com/jason-s-yu/hearts/internal/models"
)

// CreateRoomHandler creates a room with the rule toggles from the request
// body and returns its 4-digit identifier. The toggles are fixed for the
// lifetime of the room.
func CreateRoomHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var raw map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil && err.Error() != "EOF" {
			http.Error(w, "bad rule config payload", http.StatusBadRequest)
			return
		}
		rules, err := game.ParseRules(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		room := gs.Rooms.CreateRoom(rules)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"room_id": room.ID})
	}
}

// JoinRoomHandler seats the authenticated player in the room named by the
// room_id query parameter. The seat's connection is bound later over the
// websocket endpoint.
func JoinRoomHandler(gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		roomID := r.URL.Query().Get("room_id")
		room, ok := gs.Rooms.GetRoom(roomID)
		if !ok {
			writeJSONError(w, game.ErrRoomNotFound.Error(), http.StatusNotFound)
			return
		}

		playerID, username, err := EnsurePlayerIdentity(w, r)
		if err != nil {
			http.Error(w, "failed to establish player identity", http.StatusInternalServerError)
			return
		}

		p := &models.Player{ID: playerID, Username: username}
		if err := room.AddPlayer(p); err != nil {
			status := http.StatusConflict
			if errors.Is(err, game.ErrRoomFull) {
				status = http.StatusForbidden
			}
			writeJSONError(w, err.Error(), status)
			return
		}

		room.Mu.Lock()
		roster := make([]string, 0, len(room.Players))
		for _, pl := range room.Players {
			roster = append(roster, pl.ID.String())
		}
		room.Mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "Joined room",
			"players": roster,
		})
	}
}

func writeJSONError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
