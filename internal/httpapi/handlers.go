// Package httpapi exposes the companion service over HTTP with gin.
package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tabletopkit/companion/internal/game/resolve"
	"github.com/tabletopkit/companion/internal/service"
)

// Handler translates HTTP requests into service operations.
type Handler struct {
	svc    *service.Service
	logger *zap.Logger
}

// NewHandler creates a Handler.
//
// Precondition: svc and logger must be non-nil.
func NewHandler(svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// fail maps service errors onto HTTP status codes and records them on the
// gin context for the logging middleware.
func (h *Handler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, service.ErrCharacterNotFound),
		errors.Is(err, resolve.ErrItemNotFound),
		errors.Is(err, resolve.ErrVehicleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidImport):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func pathID(c *gin.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func (h *Handler) getCharacter(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.badRequest(c, err)
		return
	}
	view, err := h.svc.GetCharacter(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) updateCharacter(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.badRequest(c, err)
		return
	}
	patch, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	updated, err := h.svc.UpdateCharacter(c.Request.Context(), id, patch)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

type equipRequest struct {
	ItemName string `json:"item_name" binding:"required"`
}

func (h *Handler) equipItem(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.badRequest(c, err)
		return
	}
	var req equipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	result, err := h.svc.EquipItem(c.Request.Context(), id, req.ItemName)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type useItemRequest struct {
	ItemName   string `json:"item_name" binding:"required"`
	TargetID   int64  `json:"target_id"`
	TargetName string `json:"target_name"`
	Result     string `json:"result"`
}

func (h *Handler) useItem(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.badRequest(c, err)
		return
	}
	var req useItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	result, err := h.svc.UseItem(c.Request.Context(), id, req.ItemName, resolve.UseContext{
		TargetID:   req.TargetID,
		TargetName: req.TargetName,
		Result:     req.Result,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type vehicleActionRequest struct {
	VehicleName string `json:"vehicle_name" binding:"required"`
	Action      string `json:"action" binding:"required"`
	Amount      int    `json:"amount"`
}

func (h *Handler) vehicleAction(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.badRequest(c, err)
		return
	}
	var req vehicleActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	result, err := h.svc.VehicleAction(c.Request.Context(), id, req.VehicleName,
		resolve.VehicleAction(req.Action), req.Amount)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type rollDiceRequest struct {
	CharacterID int64          `json:"character_id"`
	DiceType    string         `json:"dice_type" binding:"required"`
	Context     map[string]any `json:"context"`
}

func (h *Handler) rollDice(c *gin.Context) {
	var req rollDiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	roll, err := h.svc.RollDice(c.Request.Context(), req.CharacterID, req.DiceType, req.Context)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, roll)
}

func (h *Handler) listDiceRolls(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	rolls, err := h.svc.DiceRolls(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, rolls)
}

func (h *Handler) listPlayers(c *gin.Context) {
	players, err := h.svc.Players(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, players)
}

func (h *Handler) dashboard(c *gin.Context) {
	entries, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) listCharacters(c *gin.Context) {
	chars, err := h.svc.Characters(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, chars)
}

func (h *Handler) listLocations(c *gin.Context) {
	locations, err := h.svc.Locations(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, locations)
}

type createLocationRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

func (h *Handler) createLocation(c *gin.Context) {
	var req createLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	loc, err := h.svc.CreateLocation(c.Request.Context(), req.Name, req.Description, req.Tags)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, loc)
}

func (h *Handler) listItems(c *gin.Context) {
	items, err := h.svc.Items(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) listMobs(c *gin.Context) {
	var locationID *int64
	if raw := c.Query("location_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.badRequest(c, err)
			return
		}
		locationID = &id
	}
	mobs, err := h.svc.Mobs(c.Request.Context(), locationID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, mobs)
}

type spawnMobRequest struct {
	MobID       int64          `json:"mob_id"`
	LocationID  int64          `json:"location_id" binding:"required"`
	RolledStats map[string]int `json:"rolled_stats"`
	HPCurrent   int            `json:"hp_current"`
}

func (h *Handler) spawnMob(c *gin.Context) {
	var req spawnMobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	mob, err := h.svc.SpawnMob(c.Request.Context(), req.MobID, req.LocationID, req.RolledStats, req.HPCurrent)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, mob)
}

type addNoteRequest struct {
	CharacterID int64  `json:"character_id" binding:"required"`
	Text        string `json:"text" binding:"required"`
	Visibility  string `json:"visibility"`
}

func (h *Handler) addNote(c *gin.Context) {
	var req addNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	note, err := h.svc.AddNote(c.Request.Context(), req.CharacterID, req.Text, req.Visibility)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

type moveCharacterRequest struct {
	LocationID int64 `json:"location_id" binding:"required"`
}

func (h *Handler) moveCharacter(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.badRequest(c, err)
		return
	}
	var req moveCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	moved, err := h.svc.MoveCharacter(c.Request.Context(), id, req.LocationID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, moved)
}

type giveItemRequest struct {
	ItemID   int64 `json:"item_id" binding:"required"`
	Quantity int   `json:"quantity"`
}

func (h *Handler) giveItem(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.badRequest(c, err)
		return
	}
	var req giveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	grant, err := h.svc.GiveItem(c.Request.Context(), id, req.ItemID, req.Quantity)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, grant)
}

func (h *Handler) exportDataset(c *gin.Context) {
	raw, err := h.svc.Export(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="dnd_game_data.json"`)
	c.Data(http.StatusOK, "application/json", raw)
}

func (h *Handler) importDataset(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.badRequest(c, err)
		return
	}
	if err := h.svc.Import(c.Request.Context(), raw); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "imported"})
}

func (h *Handler) resetDataset(c *gin.Context) {
	if err := h.svc.Reset(c.Request.Context()); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}
