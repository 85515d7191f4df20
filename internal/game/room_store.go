// internal/game/room_store.go
package game

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
)

// ErrRoomNotFound is returned by lookups for rooms that do not exist.
var ErrRoomNotFound = errors.New("Room not found")

// RoomStore manages the live rooms in memory. It provides thread-safe access
// to create, retrieve, and delete rooms; it is the only cross-room shared
// state in the process.
type RoomStore struct {
	mu    sync.Mutex
	rooms map[string]*Room
}

// NewRoomStore initializes and returns an empty RoomStore.
func NewRoomStore() *RoomStore {
	return &RoomStore{
		rooms: make(map[string]*Room),
	}
}

// CreateRoom allocates a room under a fresh 4-digit numeric identifier,
// unique among live rooms, and registers it. The room's OnEmpty callback is
// wired to remove it from the store when the last player leaves.
func (s *RoomStore) CreateRoom(rules RuleConfig) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newRoomID()
	room := NewRoom(id, rules)
	room.OnEmpty = func(roomID string) {
		s.DeleteRoom(roomID)
	}
	s.rooms[id] = room
	log.Printf("RoomStore: created room %s (rules %+v)", id, rules)
	return room
}

// newRoomID draws 4-digit codes until one is free. Assumes lock is held.
func (s *RoomStore) newRoomID() string {
	for {
		id := fmt.Sprintf("%04d", rand.Intn(10000))
		if _, exists := s.rooms[id]; !exists {
			return id
		}
	}
}

// GetRoom retrieves a room by its ID.
func (s *RoomStore) GetRoom(id string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	return room, ok
}

// DeleteRoom removes a room from the store, typically via OnEmpty.
func (s *RoomStore) DeleteRoom(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rooms[id]; exists {
		delete(s.rooms, id)
		log.Printf("RoomStore: deleted room %s", id)
	}
}

// Count returns the number of live rooms.
func (s *RoomStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}
