package handlers

import (
	"net/http"
	"strconv"
	"time"

	"talentbase-backend/internal/database/models"
	"talentbase-backend/internal/logger"
	"talentbase-backend/internal/roster"
	"talentbase-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PlayerHandler handles HTTP requests for player operations
type PlayerHandler struct {
	playerService  service.PlayerServiceInterface
	storageService service.StorageServiceInterface
	reloader       Reloader
	maxUpload      int64
	now            func() time.Time
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(playerService service.PlayerServiceInterface, storageService service.StorageServiceInterface, reloader Reloader, maxUpload int64) *PlayerHandler {
	return &PlayerHandler{
		playerService:  playerService,
		storageService: storageService,
		reloader:       reloader,
		maxUpload:      maxUpload,
		now:            time.Now,
	}
}

// PlayerListResponse is the body of GET /players
type PlayerListResponse struct {
	Players []models.Player `json:"players"`
	Count   int             `json:"count" example:"12"`
	Total   int             `json:"total" example:"40"`
}

// ListPlayers handles GET /players
// @Summary List players
// @Description List players ordered by name, optionally filtered by a name or nationality substring and top talent flag
// @Tags players
// @Produce json
// @Param q query string false "Case-insensitive substring of name or nationality"
// @Param top query bool false "Only top talents"
// @Success 200 {object} PlayerListResponse
// @Failure 502 {object} ErrorResponse "Persistence failure"
// @Security BearerAuth
// @Router /players [get]
func (h *PlayerHandler) ListPlayers(c *gin.Context) {
	players, err := h.playerService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	topOnly, _ := strconv.ParseBool(c.Query("top"))
	visible := roster.VisiblePlayers(players, c.Query("q"), topOnly)

	c.JSON(http.StatusOK, PlayerListResponse{
		Players: visible,
		Count:   len(visible),
		Total:   len(players),
	})
}

// GetPlayer handles GET /players/:id
// @Summary Get player by ID
// @Tags players
// @Produce json
// @Param id path string true "Player ID (UUID)"
// @Success 200 {object} models.Player
// @Failure 400 {object} ErrorResponse "Invalid player ID"
// @Failure 404 {object} ErrorResponse "Player not found"
// @Security BearerAuth
// @Router /players/{id} [get]
func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid player ID"})
		return
	}

	player, err := h.playerService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, player)
}

// CreatePlayer handles POST /players
// @Summary Create a player
// @Description Create a player. The name is derived from first and last name.
// @Tags players
// @Accept json
// @Produce json
// @Param player body service.PlayerRequest true "Player data"
// @Success 201 {object} models.Player
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 403 {object} ErrorResponse "Only the admin can change the roster"
// @Failure 502 {object} ErrorResponse "Persistence failure"
// @Security BearerAuth
// @Router /players [post]
func (h *PlayerHandler) CreatePlayer(c *gin.Context) {
	h.upsert(c, uuid.Nil, http.StatusCreated)
}

// UpdatePlayer handles PUT /players/:id
// @Summary Update a player
// @Tags players
// @Accept json
// @Produce json
// @Param id path string true "Player ID (UUID)"
// @Param player body service.PlayerRequest true "Player data"
// @Success 200 {object} models.Player
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 403 {object} ErrorResponse "Only the admin can change the roster"
// @Failure 404 {object} ErrorResponse "Player not found"
// @Failure 502 {object} ErrorResponse "Persistence failure"
// @Security BearerAuth
// @Router /players/{id} [put]
func (h *PlayerHandler) UpdatePlayer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid player ID"})
		return
	}
	h.upsert(c, id, http.StatusOK)
}

func (h *PlayerHandler) upsert(c *gin.Context, id uuid.UUID, status int) {
	var req service.PlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	player, err := req.ToPlayer(id)
	if err != nil {
		respondError(c, err)
		return
	}

	stored, err := h.playerService.Upsert(c.Request.Context(), player)
	if err != nil {
		respondError(c, err)
		return
	}

	reload(c.Request.Context(), h.reloader)
	c.JSON(status, stored)
}

// DeletePlayer handles DELETE /players/:id
// @Summary Delete a player
// @Tags players
// @Param id path string true "Player ID (UUID)"
// @Success 204 "Player deleted"
// @Failure 400 {object} ErrorResponse "Invalid player ID"
// @Failure 403 {object} ErrorResponse "Only the admin can change the roster"
// @Failure 404 {object} ErrorResponse "Player not found"
// @Security BearerAuth
// @Router /players/{id} [delete]
func (h *PlayerHandler) DeletePlayer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid player ID"})
		return
	}

	if err := h.playerService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	reload(c.Request.Context(), h.reloader)
	c.Status(http.StatusNoContent)
}

// UploadPhoto handles POST /players/:id/photo
// @Summary Upload a player photo
// @Description Store the image in blob storage and point the player's photo_url at it
// @Tags players
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Player ID (UUID)"
// @Param photo formData file true "Image file"
// @Success 200 {object} models.Player
// @Failure 400 {object} ErrorResponse "Missing or oversized file"
// @Failure 404 {object} ErrorResponse "Player not found"
// @Failure 502 {object} ErrorResponse "Upload failed"
// @Security BearerAuth
// @Router /players/{id}/photo [post]
func (h *PlayerHandler) UploadPhoto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid player ID"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.playerService.GetByID(ctx, id); err != nil {
		respondError(c, err)
		return
	}

	file, err := readUpload(c, "photo", h.maxUpload)
	if err != nil {
		respondError(c, err)
		return
	}
	if file == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "photo file is required"})
		return
	}

	path := roster.UploadPath(roster.PlayerPhotoPrefix, file.FileName, h.now())
	url, err := h.storageService.Upload(ctx, path, file.Data, file.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}

	player, err := h.playerService.SetPhotoURL(ctx, id, url)
	if err != nil {
		if rmErr := h.storageService.Remove(ctx, path); rmErr != nil {
			logger.WithContext(ctx).WithError(rmErr).WithField("path", path).Warn("Failed to remove orphaned upload")
		}
		respondError(c, err)
		return
	}

	reload(ctx, h.reloader)
	c.JSON(http.StatusOK, player)
}
