package delivery

import (
	"net/http"
	"strconv"

	"governance-backend/internal/conversation/domain"
	"governance-backend/internal/conversation/repository"
	"governance-backend/internal/conversation/usecase"
	"governance-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// ConversationHandler exposes imported LinkedIn conversations
type ConversationHandler struct {
	convUsecase usecase.ConversationUsecase
}

// NewConversationHandler creates a new ConversationHandler
func NewConversationHandler(convUsecase usecase.ConversationUsecase) *ConversationHandler {
	return &ConversationHandler{convUsecase: convUsecase}
}

type updateConversationRequest struct {
	ConversationID string `json:"conversationId"`
	Action         string `json:"action"`
	Classification string `json:"classification"`
	Reason         string `json:"reason"`
}

// GetConversations lists conversations
// GET /api/conversations?classification=&excluded=&limit=&offset=
func (h *ConversationHandler) GetConversations(c *gin.Context) {
	userID := c.GetString("userID")

	filter := repository.ListFilter{
		Classification: domain.Classification(c.Query("classification")),
	}
	if raw := c.Query("excluded"); raw != "" {
		excluded, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "excluded must be true or false"})
			return
		}
		filter.Excluded = &excluded
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "0"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	convs, total, err := h.convUsecase.List(c.Request.Context(), userID, filter)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"conversations": convs, "total": total})
}

// ImportConversation imports and auto-classifies a thread
// POST /api/conversations
func (h *ConversationHandler) ImportConversation(c *gin.Context) {
	userID := c.GetString("userID")

	var input usecase.ImportInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.convUsecase.Import(c.Request.Context(), userID, input)
	if err != nil && result == nil {
		response.Fail(c, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	response.Result(c, status, gin.H{
		"conversation":   result.Conversation,
		"classification": result.Classification,
		"created":        result.Created,
	}, err)
}

// UpdateConversation reclassifies, excludes or includes a conversation
// PATCH /api/conversations
func (h *ConversationHandler) UpdateConversation(c *gin.Context) {
	userID := c.GetString("userID")

	var req updateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var (
		conv *domain.Conversation
		err  error
	)
	ctx := c.Request.Context()
	switch req.Action {
	case "reclassify":
		conv, err = h.convUsecase.Reclassify(ctx, userID, req.ConversationID, domain.Classification(req.Classification), req.Reason)
	case "exclude":
		conv, err = h.convUsecase.ToggleExclusion(ctx, userID, req.ConversationID, true)
	case "include":
		conv, err = h.convUsecase.ToggleExclusion(ctx, userID, req.ConversationID, false)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "action must be one of reclassify, exclude, include"})
		return
	}

	response.Result(c, http.StatusOK, gin.H{"success": true, "conversation": conv}, err)
}
