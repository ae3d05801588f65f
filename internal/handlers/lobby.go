package handlers

import (
	"net/http"
	"strconv"

	"github.com/arushsrivastava/HectoClash-Game/internal/game"
	"github.com/arushsrivastava/HectoClash-Game/internal/services"

	"github.com/gin-gonic/gin"
)

type LobbyHandler struct {
	profiles *services.ProfileService
	registry *game.Registry
}

func NewLobbyHandler(profiles *services.ProfileService, registry *game.Registry) *LobbyHandler {
	return &LobbyHandler{profiles: profiles, registry: registry}
}

// Leaderboard godoc
// @Summary      Top rated players
// @Tags         lobby
// @Produce      json
// @Param        limit query int false "Max entries (default 10)"
// @Success      200 {array} services.LeaderboardEntry
// @Router       /api/v1/leaderboard [get]
func (h *LobbyHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	entries, err := h.profiles.Leaderboard(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// ActiveSessions godoc
// @Summary      Live duels open to spectators
// @Tags         lobby
// @Produce      json
// @Success      200 {array} game.Snapshot
// @Router       /api/v1/sessions/active [get]
func (h *LobbyHandler) ActiveSessions(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.ActiveSessions())
}

// GetProfile godoc
// @Summary      Player profile
// @Tags         lobby
// @Produce      json
// @Param        id path int true "User ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/users/{id} [get]
func (h *LobbyHandler) GetProfile(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user id"})
		return
	}

	user, err := h.profiles.GetUser(uint(userID))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user, "win_rate": user.WinRate()})
}

// GetHistory godoc
// @Summary      Player match history
// @Tags         lobby
// @Produce      json
// @Param        id path int true "User ID"
// @Param        limit query int false "Max entries (default 20)"
// @Success      200 {array} models.MatchRecord
// @Router       /api/v1/users/{id}/history [get]
func (h *LobbyHandler) GetHistory(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user id"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	matches, err := h.profiles.History(uint(userID), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, matches)
}

// GetMatch godoc
// @Summary      Full record of one finished duel
// @Tags         lobby
// @Produce      json
// @Param        session_id path string true "Session ID"
// @Success      200 {object} models.MatchRecord
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/matches/{session_id} [get]
func (h *LobbyHandler) GetMatch(c *gin.Context) {
	match, err := h.profiles.Match(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, match)
}
