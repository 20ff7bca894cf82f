package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	gamepassService "gamepass-proxy/internal/services/gamepass"
	usersService "gamepass-proxy/internal/services/users"
)

type APIHandler struct {
	usersService    *usersService.UsersService
	gamepassService *gamepassService.GamepassService
}

func SetupRoutes(r *gin.Engine, users *usersService.UsersService, gamepasses *gamepassService.GamepassService) {
	handler := &APIHandler{
		usersService:    users,
		gamepassService: gamepasses,
	}

	r.GET("/", handler.Home)
	r.GET("/health", handler.Health)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/gamepasses", handler.GetGamepasses)
		apiGroup.GET("/check-gamepass", handler.CheckGamepass)
	}
}

// GetGamepasses returns the gamepasses created by a user, identified either
// by user_id or by username.
func (h *APIHandler) GetGamepasses(c *gin.Context) {
	userID := c.Query("user_id")
	username := c.Query("username")

	if username != "" && userID == "" {
		resolved, err := h.usersService.ResolveUsername(c.Request.Context(), username)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error":   "User not found",
			})
			return
		}
		userID = resolved
	}

	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "user_id or username is required",
		})
		return
	}

	gamepasses := h.gamepassService.CollectCreated(c.Request.Context(), userID)

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"user_id":    userID,
		"username":   nullableString(username),
		"gamepasses": gamepasses,
		"total":      len(gamepasses),
		"timestamp":  float64(time.Now().UnixMilli()) / 1000.0,
	})
}

// CheckGamepass inspects a single gamepass and reports whether the given
// user created it. Debug endpoint.
func (h *APIHandler) CheckGamepass(c *gin.Context) {
	userID := c.Query("user_id")
	gamepassID := c.Query("gamepass_id")

	if userID == "" || gamepassID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and gamepass_id required"})
		return
	}

	creatorID, creatorType, data := h.gamepassService.CreatorInfo(c.Request.Context(), gamepassID)

	c.JSON(http.StatusOK, gin.H{
		"user_id":      userID,
		"gamepass_id":  gamepassID,
		"creator_id":   nullableString(creatorID),
		"creator_type": nullableString(creatorType),
		"is_creator":   gamepassService.IsCreator(creatorID, creatorType, userID),
		"data":         data,
	})
}

func (h *APIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Server running"})
}

func (h *APIHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Roblox Gamepass API",
		"endpoints": gin.H{
			"/api/gamepasses":     "Get user gamepasses (params: user_id or username)",
			"/api/check-gamepass": "Check single gamepass (params: user_id, gamepass_id)",
			"/health":             "Health check",
		},
	})
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
