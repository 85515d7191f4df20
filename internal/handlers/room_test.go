// internal/handlers/room_test.go
package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jason-s-yu/hearts/internal/auth"
	"github.com/jason-s-yu/hearts/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndJoinRoom(t *testing.T) {
	auth.Init()
	gs := NewGameServer()

	// Create a room with one toggle set.
	req := httptest.NewRequest(http.MethodPost, "/room/create", strings.NewReader(`{"passCardsEnabled": true}`))
	rec := httptest.NewRecorder()
	CreateRoomHandler(gs)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var created map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	roomID := created["room_id"]
	require.Len(t, roomID, 4)

	room, ok := gs.Rooms.GetRoom(roomID)
	require.True(t, ok)
	assert.True(t, room.Rules.PassCardsEnabled)

	// Join as a fresh guest: a guest identity cookie is minted.
	req = httptest.NewRequest(http.MethodPost, "/room/join?room_id="+roomID, nil)
	rec = httptest.NewRecorder()
	JoinRoomHandler(gs)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var joined map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &joined))
	assert.Equal(t, "Joined room", joined["message"])
	assert.Len(t, joined["players"], 1)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, "auth_token", cookies[0].Name)

	// The same guest joining again is a conflict.
	req = httptest.NewRequest(http.MethodPost, "/room/join?room_id="+roomID, nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	JoinRoomHandler(gs)(rec, req)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestJoinMissingRoom(t *testing.T) {
	auth.Init()
	gs := NewGameServer()

	req := httptest.NewRequest(http.MethodPost, "/room/join?room_id=0000", nil)
	rec := httptest.NewRecorder()
	JoinRoomHandler(gs)(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRoomFull(t *testing.T) {
	auth.Init()
	gs := NewGameServer()
	room := gs.Rooms.CreateRoom(game.RuleConfig{})

	var lastStatus int
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/room/join?room_id="+room.ID, nil)
		rec := httptest.NewRecorder()
		JoinRoomHandler(gs)(rec, req)
		lastStatus = rec.Code
	}
	assert.Equal(t, http.StatusForbidden, lastStatus, "fifth join is rejected")

	room.Mu.Lock()
	assert.Len(t, room.Players, 4)
	room.Mu.Unlock()
}

func TestCreateRoomRejectsGet(t *testing.T) {
	gs := NewGameServer()
	req := httptest.NewRequest(http.MethodGet, "/room/create", nil)
	rec := httptest.NewRecorder()
	CreateRoomHandler(gs)(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
