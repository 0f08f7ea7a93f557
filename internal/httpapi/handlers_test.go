package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/tabletopkit/companion/internal/game/character"
	"github.com/tabletopkit/companion/internal/game/dataset"
	"github.com/tabletopkit/companion/internal/game/dice"
	"github.com/tabletopkit/companion/internal/game/item"
	"github.com/tabletopkit/companion/internal/httpapi"
	"github.com/tabletopkit/companion/internal/service"
	"github.com/tabletopkit/companion/internal/source"
	"github.com/tabletopkit/companion/internal/store"
)

// fixedSource makes every roll deterministic.
type fixedSource struct{ v int }

func (f fixedSource) Intn(n int) int { return f.v % n }

func testFixture() dataset.GameData {
	d := dataset.Empty()
	d.Players = append(d.Players, dataset.Player{ID: 10, Name: "Ann", CharacterID: 1})
	d.Locations = append(d.Locations, dataset.Location{ID: 7, Name: "Camp", IsActive: true})
	d.Characters = append(d.Characters, character.Character{
		ID: 1, Name: "Vera", HPCurrent: 10, HPMax: 10, LocationID: 7,
		Inventory: []item.Item{
			{Name: "Sword", Type: item.TypeWeapon, Slot: item.SlotHand},
			{Name: "Antidote", Type: item.TypeConsumable, UseEffect: "RESIST;type=Poison"},
			{Name: "Buggy", Type: item.TypeVehicle,
				Vehicle: &item.VehicleState{FuelCurrent: 10, FuelMax: 20, SpeedMode: item.SpeedNormal}},
		},
	})
	return d
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	d := testFixture()
	raw, err := d.Encode()
	require.NoError(t, err)
	authPath := filepath.Join(dir, "authoritative.json")
	require.NoError(t, os.WriteFile(authPath, raw, 0644))

	logger := zaptest.NewLogger(t)
	roller := dice.NewLoggedRoller(fixedSource{v: 16}, logger)
	svc := service.New(
		store.NewFileStore(filepath.Join(dir, "game_data.json")),
		source.NewFileSource(authPath),
		roller,
		logger,
	)
	return httpapi.NewRouter(httpapi.NewHandler(svc, logger), logger, nil)
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)
	w := doRequest(t, router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetCharacter(t *testing.T) {
	router := newTestRouter(t)
	w := doRequest(t, router, http.MethodGet, "/api/character/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var view service.CharacterView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "Vera", view.Character.Name)
	assert.Equal(t, "Camp", view.LocationName)
}

func TestGetCharacterNotFound(t *testing.T) {
	router := newTestRouter(t)
	w := doRequest(t, router, http.MethodGet, "/api/character/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCharacterBadID(t *testing.T) {
	router := newTestRouter(t)
	w := doRequest(t, router, http.MethodGet, "/api/character/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEquipItem(t *testing.T) {
	router := newTestRouter(t)
	w := doRequest(t, router, http.MethodPost, "/api/character/1/item/equip",
		map[string]string{"item_name": "Sword"})
	require.Equal(t, http.StatusOK, w.Code)

	var result service.EquipResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Item.Equipped)
}

func TestEquipItemMissingBody(t *testing.T) {
	router := newTestRouter(t)
	w := doRequest(t, router, http.MethodPost, "/api/character/1/item/equip", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEquipItemUnknown(t *testing.T) {
	router := newTestRouter(t)
	w := doRequest(t, router, http.MethodPost, "/api/character/1/item/equip",
		map[string]string{"item_name": "Ghost Blade"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUseItem(t *testing.T) {
	router := newTestRouter(t)
	w := doRequest(t, router, http.MethodPost, "/api/character/1/item/use",
		map[string]string{"item_name": "Antidote"})
	require.Equal(t, http.StatusOK, w.Code)

	var result service.UseResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "RESIST", result.Log.EffectType)
	require.Len(t, result.Character.StatusEffects, 1)
	assert.Equal(t, "resist_poison", result.Character.StatusEffects[0].Type)
}

func TestVehicleAction(t *testing.T) {
	router := newTestRouter(t)
	w := doRequest(t, router, http.MethodPost, "/api/character/1/vehicle/action",
		map[string]any{"vehicle_name": "Buggy", "action": "drive"})
	require.Equal(t, http.StatusOK, w.Code)

	var result service.VehicleResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 9, result.Vehicle.Vehicle.FuelCurrent)
}

func TestRollDice(t *testing.T) {
	router := newTestRouter(t)
	w := doRequest(t, router, http.MethodPost, "/api/dice/roll",
		map[string]any{"character_id": 1, "dice_type": "d20"})
	require.Equal(t, http.StatusOK, w.Code)

	var roll dataset.DiceRoll
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &roll))
	assert.Equal(t, 17, roll.Value)
	assert.Equal(t, "Vera", roll.CharacterName)
}

func TestListPlayers(t *testing.T) {
	router := newTestRouter(t)
	w := doRequest(t, router, http.MethodGet, "/api/players", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var players []dataset.Player
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &players))
	require.Len(t, players, 1)
	assert.Equal(t, "Ann", players[0].Name)
}

func TestMasterDashboard(t *testing.T) {
	router := newTestRouter(t)
	w := doRequest(t, router, http.MethodGet, "/api/master/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var entries []service.DashboardEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Camp", entries[0].LocationName)
}

func TestCreateLocation(t *testing.T) {
	router := newTestRouter(t)
	w := doRequest(t, router, http.MethodPost, "/api/master/locations",
		map[string]any{"name": "Cave", "description": "dark"})
	require.Equal(t, http.StatusCreated, w.Code)

	var loc dataset.Location
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loc))
	assert.Equal(t, "Cave", loc.Name)
	assert.True(t, loc.IsActive)
}

func TestMoveCharacter(t *testing.T) {
	router := newTestRouter(t)
	w := doRequest(t, router, http.MethodPost, "/api/master/character/1/move",
		map[string]any{"location_id": 7})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestExportAndImport(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/api/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

	w2 := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/import", bytes.NewReader(w.Body.Bytes()))
	router.ServeHTTP(w2, req)
	assert.Equal(t, http.StatusOK, w2.Code)
}

func TestImportInvalid(t *testing.T) {
	router := newTestRouter(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/import", bytes.NewReader([]byte("{nope")))
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReset(t *testing.T) {
	router := newTestRouter(t)
	w := doRequest(t, router, http.MethodPost, "/api/reset", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestIDHeader(t *testing.T) {
	router := newTestRouter(t)
	w := doRequest(t, router, http.MethodGet, "/api/players", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/players", nil)
	req.Header.Set("X-Request-ID", "fixed-id")
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)
	assert.Equal(t, "fixed-id", w2.Header().Get("X-Request-ID"))
}
