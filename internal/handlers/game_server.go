// internal/handlers/game_server.go
package handlers

import (
	"github.com/jason-s-yu/hearts/internal/game"
)

// GameServer is the top-level context shared by the HTTP and websocket
// handlers. It owns the room directory; its lifecycle is tied to process
// start and stop, so rooms never outlive the server.
type GameServer struct {
	Rooms *game.RoomStore
}

func NewGameServer() *GameServer {
	return &GameServer{
		Rooms: game.NewRoomStore(),
	}
}
