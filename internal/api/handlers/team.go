package handlers

import (
	"net/http"
	"time"

	"talentbase-backend/internal/logger"
	"talentbase-backend/internal/roster"
	"talentbase-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TeamHandler handles HTTP requests for team operations
type TeamHandler struct {
	teamService    service.TeamServiceInterface
	storageService service.StorageServiceInterface
	reloader       Reloader
	maxUpload      int64
	now            func() time.Time
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teamService service.TeamServiceInterface, storageService service.StorageServiceInterface, reloader Reloader, maxUpload int64) *TeamHandler {
	return &TeamHandler{
		teamService:    teamService,
		storageService: storageService,
		reloader:       reloader,
		maxUpload:      maxUpload,
		now:            time.Now,
	}
}

// TeamDeleteResponse reports how many players lost their team
type TeamDeleteResponse struct {
	Message         string `json:"message" example:"team deleted"`
	PlayersDetached int64  `json:"players_detached" example:"3"`
}

// ListTeams handles GET /teams
// @Summary List teams
// @Description List every team ordered by name
// @Tags teams
// @Produce json
// @Success 200 {array} models.Team
// @Failure 502 {object} ErrorResponse "Persistence failure"
// @Security BearerAuth
// @Router /teams [get]
func (h *TeamHandler) ListTeams(c *gin.Context) {
	teams, err := h.teamService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, teams)
}

// GetTeam handles GET /teams/:id
// @Summary Get team by ID
// @Tags teams
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Success 200 {object} models.Team
// @Failure 400 {object} ErrorResponse "Invalid team ID"
// @Failure 404 {object} ErrorResponse "Team not found"
// @Security BearerAuth
// @Router /teams/{id} [get]
func (h *TeamHandler) GetTeam(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid team ID"})
		return
	}

	team, err := h.teamService.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, team)
}

// CreateTeam handles POST /teams
// @Summary Create a team
// @Tags teams
// @Accept json
// @Produce json
// @Param team body service.TeamRequest true "Team data"
// @Success 201 {object} models.Team
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 403 {object} ErrorResponse "Only the admin can change the roster"
// @Failure 502 {object} ErrorResponse "Persistence failure"
// @Security BearerAuth
// @Router /teams [post]
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	h.upsert(c, uuid.Nil, http.StatusCreated)
}

// UpdateTeam handles PUT /teams/:id
// @Summary Update a team
// @Tags teams
// @Accept json
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Param team body service.TeamRequest true "Team data"
// @Success 200 {object} models.Team
// @Failure 400 {object} ErrorResponse "Invalid request body"
// @Failure 403 {object} ErrorResponse "Only the admin can change the roster"
// @Failure 404 {object} ErrorResponse "Team not found"
// @Security BearerAuth
// @Router /teams/{id} [put]
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid team ID"})
		return
	}
	h.upsert(c, id, http.StatusOK)
}

func (h *TeamHandler) upsert(c *gin.Context, id uuid.UUID, status int) {
	var req service.TeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	team, err := h.teamService.Upsert(c.Request.Context(), req.ToTeam(id))
	if err != nil {
		respondError(c, err)
		return
	}

	reload(c.Request.Context(), h.reloader)
	c.JSON(status, team)
}

// DeleteTeam handles DELETE /teams/:id
// @Summary Delete a team
// @Description Delete a team. Its players stay on the roster without a team.
// @Tags teams
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Success 200 {object} TeamDeleteResponse
// @Failure 400 {object} ErrorResponse "Invalid team ID"
// @Failure 403 {object} ErrorResponse "Only the admin can change the roster"
// @Failure 404 {object} ErrorResponse "Team not found"
// @Security BearerAuth
// @Router /teams/{id} [delete]
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid team ID"})
		return
	}

	detached, err := h.teamService.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	reload(c.Request.Context(), h.reloader)
	c.JSON(http.StatusOK, TeamDeleteResponse{Message: "team deleted", PlayersDetached: detached})
}

// UploadLogo handles POST /teams/:id/logo
// @Summary Upload a team logo
// @Tags teams
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Team ID (UUID)"
// @Param logo formData file true "Image file"
// @Success 200 {object} models.Team
// @Failure 400 {object} ErrorResponse "Missing or oversized file"
// @Failure 404 {object} ErrorResponse "Team not found"
// @Failure 502 {object} ErrorResponse "Upload failed"
// @Security BearerAuth
// @Router /teams/{id}/logo [post]
func (h *TeamHandler) UploadLogo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid team ID"})
		return
	}

	ctx := c.Request.Context()
	if _, err := h.teamService.GetByID(ctx, id); err != nil {
		respondError(c, err)
		return
	}

	file, err := readUpload(c, "logo", h.maxUpload)
	if err != nil {
		respondError(c, err)
		return
	}
	if file == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "logo file is required"})
		return
	}

	path := roster.UploadPath(roster.TeamLogoPrefix, file.FileName, h.now())
	url, err := h.storageService.Upload(ctx, path, file.Data, file.ContentType)
	if err != nil {
		respondError(c, err)
		return
	}

	team, err := h.teamService.SetLogoURL(ctx, id, url)
	if err != nil {
		if rmErr := h.storageService.Remove(ctx, path); rmErr != nil {
			logger.WithContext(ctx).WithError(rmErr).WithField("path", path).Warn("Failed to remove orphaned upload")
		}
		respondError(c, err)
		return
	}

	reload(ctx, h.reloader)
	c.JSON(http.StatusOK, team)
}
