package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bellapacxx/bingo-rooms/controllers"
	"github.com/bellapacxx/bingo-rooms/models"
	"github.com/bellapacxx/bingo-rooms/notify"
	"github.com/bellapacxx/bingo-rooms/routes"
	"github.com/bellapacxx/bingo-rooms/services"
	"github.com/bellapacxx/bingo-rooms/store"
)

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	hub    *notify.Hub
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := notify.NewHub(nil)
	st := store.Notifying(store.NewMemory(), hub, nil)
	rc := controllers.NewRoomController(services.NewRoomManager(st), hub, nil, nil)

	r := gin.New()
	routes.SetupRoutes(r, rc)
	return &testAPI{t: t, router: r, hub: hub}
}

func (a *testAPI) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (a *testAPI) createRoom(body gin.H) models.Room {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/rooms", body)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Room](a.t, w)
}

func (a *testAPI) join(roomID, name string) models.Player {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/rooms/"+roomID+"/players", gin.H{"name": name})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Player](a.t, w)
}

func (a *testAPI) drawAll(roomID string) {
	a.t.Helper()
	for {
		w := a.do(http.MethodPost, "/api/rooms/"+roomID+"/draw", nil)
		require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
		if decode[struct{ Exhausted bool }](a.t, w).Exhausted {
			return
		}
	}
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestCreateAndGetRoom(t *testing.T) {
	api := newTestAPI(t)
	room := api.createRoom(gin.H{"name": "Sala 1", "adminId": "admin-1"})
	assert.Equal(t, models.StateInProgress, room.State)
	assert.Equal(t, models.ClassicRules, room.Rules)

	api.join(room.ID, "Ana")

	w := api.do(http.MethodGet, "/api/rooms/"+room.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[struct {
		Room    models.Room
		Players []models.Player
	}](t, w)
	assert.Equal(t, room.ID, got.Room.ID)
	require.Len(t, got.Players, 1)
	assert.Equal(t, "Ana", got.Players[0].Name)

	w = api.do(http.MethodGet, "/api/rooms/NOPE", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateRoom_BadInput(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/api/rooms", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/api/rooms", gin.H{"name": "x", "preset": "bingo90"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/api/rooms", gin.H{"name": "x", "rules": gin.H{
		"universeMax": 5, "cardSize": 10, "marking": "player", "rounds": "repeatable",
	}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRooms(t *testing.T) {
	api := newTestAPI(t)
	a := api.createRoom(gin.H{"name": "a", "adminId": "admin-1"})
	api.createRoom(gin.H{"name": "b", "adminId": "admin-2", "preset": "dashboard"})

	w := api.do(http.MethodGet, "/api/rooms?admin=admin-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[struct{ Rooms []models.Room }](t, w)
	require.Len(t, got.Rooms, 1)
	assert.Equal(t, a.ID, got.Rooms[0].ID)

	w = api.do(http.MethodGet, "/api/rooms?state=waiting", nil)
	require.Equal(t, http.StatusOK, w.Code)
	got = decode[struct{ Rooms []models.Room }](t, w)
	require.Len(t, got.Rooms, 1)
	assert.Equal(t, "b", got.Rooms[0].Name)

	w = api.do(http.MethodGet, "/api/rooms?state=paused", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGameFlow(t *testing.T) {
	api := newTestAPI(t)
	room := api.createRoom(gin.H{"name": "Dash", "preset": "dashboard"})
	assert.Equal(t, models.StateWaiting, room.State)
	p := api.join(room.ID, "Ana")
	base := "/api/rooms/" + room.ID

	w := api.do(http.MethodPost, base+"/draw", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(http.MethodPost, base+"/start", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = api.do(http.MethodPost, base+"/start", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(http.MethodPost, base+"/winners", gin.H{"playerId": p.ID})
	assert.Equal(t, http.StatusConflict, w.Code, "card not covered yet")

	w = api.do(http.MethodPost, base+"/draw", nil)
	require.Equal(t, http.StatusOK, w.Code)
	drawn := decode[struct {
		Number    int
		Exhausted bool
	}](t, w)
	assert.False(t, drawn.Exhausted)
	assert.GreaterOrEqual(t, drawn.Number, 1)

	api.drawAll(room.ID)

	w = api.do(http.MethodGet, base+"/players/"+p.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[services.PlayerView](t, w)
	assert.True(t, view.Complete)
	assert.Equal(t, p.Card, view.Marked)

	w = api.do(http.MethodPost, base+"/winners", gin.H{"playerId": p.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = api.do(http.MethodPost, base+"/winners", gin.H{"playerId": p.ID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"created":false`)

	w = api.do(http.MethodGet, base, nil)
	got := decode[struct{ Room models.Room }](t, w)
	assert.Equal(t, models.StateCompleted, got.Room.State)
	assert.Len(t, got.Room.Winners, 1)

	w = api.do(http.MethodPost, base+"/rounds", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	w = api.do(http.MethodPost, base+"/end", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPlayers(t *testing.T) {
	api := newTestAPI(t)
	room := api.createRoom(gin.H{"name": "Sala"})
	p := api.join(room.ID, "Ana")
	base := "/api/rooms/" + room.ID + "/players/"

	w := api.do(http.MethodPost, base+p.ID+"/marks", gin.H{"number": p.Card[0]})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int{p.Card[0]}, decode[models.Player](t, w).MarkedNumbers)

	w = api.do(http.MethodPost, base+"ghost/marks", gin.H{"number": 3})
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = api.do(http.MethodPost, base+p.ID+"/marks", gin.H{"number": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/api/rooms/"+room.ID+"/players", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = api.do(http.MethodPost, "/api/rooms/"+room.ID+"/players", gin.H{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = api.do(http.MethodPost, "/api/rooms/NOPE/players", gin.H{"name": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(http.MethodDelete, base+p.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = api.do(http.MethodDelete, base+p.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = api.do(http.MethodGet, base+p.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNewRoundAndEnd(t *testing.T) {
	api := newTestAPI(t)
	room := api.createRoom(gin.H{"name": "Sala"})
	base := "/api/rooms/" + room.ID

	api.do(http.MethodPost, base+"/draw", nil)
	w := api.do(http.MethodPost, base+"/rounds", nil)
	require.Equal(t, http.StatusOK, w.Code)
	next := decode[models.Room](t, w)
	assert.Equal(t, 2, next.CurrentRound)
	assert.Empty(t, next.DrawnNumbers)

	w = api.do(http.MethodPost, base+"/end", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[models.Room](t, w).Active)
}

func TestRoomFeed(t *testing.T) {
	api := newTestAPI(t)
	room := api.createRoom(gin.H{"name": "Sala"})

	srv := httptest.NewServer(api.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/rooms/" + room.ID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var ev notify.RoomEvent
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, notify.RoomSnapshot, ev.Type)
	require.NotNil(t, ev.Room)
	assert.Equal(t, room.ID, ev.Room.ID)

	w := api.do(http.MethodPost, "/api/rooms/"+room.ID+"/draw", nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, notify.RoomUpdated, ev.Type)
	require.NotNil(t, ev.Room)
	assert.Len(t, ev.Room.DrawnNumbers, 1)

	_, _, err = websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/rooms/NOPE", nil)
	assert.Error(t, err)
}
