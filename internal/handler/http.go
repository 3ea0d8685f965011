package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"branching-novel/internal/models"
	"branching-novel/internal/service"
)

// GameHandler exposes the progression service over HTTP.
type GameHandler struct {
	service service.GameProgressionService
	logger  *zap.Logger
}

func NewGameHandler(svc service.GameProgressionService, logger *zap.Logger) *GameHandler {
	return &GameHandler{
		service: svc,
		logger:  logger.Named("GameHandler"),
	}
}

// RegisterRoutes mounts the game API on r. middleware runs before every game route.
func (h *GameHandler) RegisterRoutes(r gin.IRouter, middleware ...gin.HandlerFunc) {
	game := r.Group("/api/game", middleware...)
	{
		game.POST("/start", h.startGame)
		game.GET("/state/:userId", h.getGameState)
		game.GET("/current-node/:userId", h.getCurrentNode)
		game.POST("/choice", h.makeChoice)
		game.POST("/next", h.moveToNextNode)
		game.POST("/previous", h.moveToPreviousNode)
		game.POST("/save", h.saveProgress)
		game.GET("/saves", h.listGameSaves)
		game.GET("/saves/:saveId", h.loadGame)
		game.DELETE("/saves/:saveId", h.deleteGameSave)
		game.POST("/saves/:saveId/choice", h.makeChoiceForSave)
	}
	r.Group("/api/story-nodes", middleware...).GET("/:id/choices", h.getChoicesForNode)
}

func (h *GameHandler) startGame(c *gin.Context) {
	var req startGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindError(c, err)
		return
	}
	save, err := h.service.StartGame(c.Request.Context(), req.PlayerCharacterID, req.StoryNodeID, req.SaveName)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, save)
}

func (h *GameHandler) getGameState(c *gin.Context) {
	userID, ok := h.idParam(c, "userId")
	if !ok {
		return
	}
	state, err := h.service.GetGameState(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *GameHandler) getCurrentNode(c *gin.Context) {
	userID, ok := h.idParam(c, "userId")
	if !ok {
		return
	}
	view, err := h.service.GetCurrentNode(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *GameHandler) makeChoice(c *gin.Context) {
	var req makeChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindError(c, err)
		return
	}
	state, err := h.service.MakeChoiceForUser(c.Request.Context(), req.PlayerCharacterID, req.ChoiceID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *GameHandler) makeChoiceForSave(c *gin.Context) {
	saveID, ok := h.idParam(c, "saveId")
	if !ok {
		return
	}
	var req saveChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindError(c, err)
		return
	}
	state, err := h.service.MakeChoice(c.Request.Context(), saveID, req.ChoiceID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *GameHandler) moveToNextNode(c *gin.Context) {
	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindError(c, err)
		return
	}
	state, err := h.service.MoveToNextNode(c.Request.Context(), req.PlayerCharacterID, req.CurrentStoryNodeID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *GameHandler) moveToPreviousNode(c *gin.Context) {
	var req moveToPreviousRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindError(c, err)
		return
	}
	state, err := h.service.MoveToPreviousNode(c.Request.Context(), req.PlayerCharacterID, req.PreviousStoryNodeID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *GameHandler) saveProgress(c *gin.Context) {
	var req positionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleBindError(c, err)
		return
	}
	state, err := h.service.SaveProgress(c.Request.Context(), req.PlayerCharacterID, req.CurrentStoryNodeID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *GameHandler) listGameSaves(c *gin.Context) {
	raw := c.Query("userId")
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		h.handleServiceError(c, fmt.Errorf("%w: userId query parameter must be a positive integer", models.ErrValidation))
		return
	}
	saves, err := h.service.ListGameSaves(c.Request.Context(), userID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, saves)
}

func (h *GameHandler) loadGame(c *gin.Context) {
	saveID, ok := h.idParam(c, "saveId")
	if !ok {
		return
	}
	view, err := h.service.LoadGame(c.Request.Context(), saveID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *GameHandler) deleteGameSave(c *gin.Context) {
	saveID, ok := h.idParam(c, "saveId")
	if !ok {
		return
	}
	deleted, err := h.service.DeleteGameSave(c.Request.Context(), saveID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if deleted == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, deleted)
}

func (h *GameHandler) getChoicesForNode(c *gin.Context) {
	nodeID, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	choices, err := h.service.GetChoicesForNode(c.Request.Context(), nodeID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, choices)
}

func (h *GameHandler) idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		h.handleServiceError(c, fmt.Errorf("%w: %s must be a positive integer", models.ErrValidation, name))
		return 0, false
	}
	return id, true
}
