package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"recipe_chatbot/internal/types"
)

// ChatResponder produces the next conversation state for a history.
type ChatResponder interface {
	GetAgentResponse(ctx context.Context, history []types.Message) ([]types.Message, error)
}

// APIHandler holds dependencies for API endpoints.
type APIHandler struct {
	chat ChatResponder
}

// NewAPIHandler initializes a new API handler with its dependencies.
func NewAPIHandler(chat ChatResponder) *APIHandler {
	return &APIHandler{chat: chat}
}

// --- Structs for API Requests/Responses ---

type ChatRequest struct {
	Messages []types.Message `json:"messages" binding:"dive"`
}

type ChatResponse struct {
	Messages []types.Message `json:"messages"`
}

// --- API Handlers ---

// POST /chat
func (h *APIHandler) Chat(c *gin.Context) {
	logger := requestLogger(c)

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	logger.WithField("history_len", len(req.Messages)).Info("Received chat request")

	updated, err := h.chat.GetAgentResponse(c.Request.Context(), req.Messages)
	if err != nil {
		logger.WithError(err).Error("Error generating chat response")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ChatResponse{Messages: updated})
}

// GET /health
func (h *APIHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func requestLogger(c *gin.Context) log.FieldLogger {
	return log.WithField("request_id", c.GetString(requestIDKey))
}
