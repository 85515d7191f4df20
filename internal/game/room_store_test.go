// internal/game/room_store_test.go
package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/hearts/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomStoreCreateAndGet(t *testing.T) {
	s := NewRoomStore()

	room := s.CreateRoom(RuleConfig{PassCardsEnabled: true})
	require.NotNil(t, room)
	assert.Len(t, room.ID, 4, "room ids are 4-digit codes")
	assert.True(t, room.Rules.PassCardsEnabled)

	got, ok := s.GetRoom(room.ID)
	require.True(t, ok)
	assert.Same(t, room, got)

	_, ok = s.GetRoom("nope")
	assert.False(t, ok)
}

func TestRoomStoreUniqueIDs(t *testing.T) {
	s := NewRoomStore()
	ids := make(map[string]bool)
	for i := 0; i < 50; i++ {
		room := s.CreateRoom(RuleConfig{})
		assert.False(t, ids[room.ID], "duplicate room id %s", room.ID)
		ids[room.ID] = true
	}
	assert.Equal(t, 50, s.Count())
}

func TestRoomStoreDeleteOnEmpty(t *testing.T) {
	s := NewRoomStore()
	room := s.CreateRoom(RuleConfig{})

	p := &models.Player{ID: uuid.New(), Username: "solo", Connected: true}
	require.NoError(t, room.AddPlayer(p))

	room.HandleDisconnect(p.ID)

	_, ok := s.GetRoom(room.ID)
	assert.False(t, ok, "room is dropped when the last player leaves")
	assert.Equal(t, 0, s.Count())
}
