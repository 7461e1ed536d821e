package delivery

import (
	"net/http"
	"strconv"

	"governance-backend/internal/outreach/domain"
	"governance-backend/internal/outreach/usecase"
	"governance-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// OutreachHandler exposes the outreach gate and the approval queue
type OutreachHandler struct {
	gateUsecase  usecase.GateUsecase
	queueUsecase usecase.QueueUsecase
}

// NewOutreachHandler creates a new OutreachHandler
func NewOutreachHandler(gateUsecase usecase.GateUsecase, queueUsecase usecase.QueueUsecase) *OutreachHandler {
	return &OutreachHandler{gateUsecase: gateUsecase, queueUsecase: queueUsecase}
}

type queueActionRequest struct {
	Action  string `json:"action"`
	QueueID string `json:"queueId"`
	Reason  string `json:"reason"`
}

// Submit runs a request through the gate
// POST /api/outreach/submit
func (h *OutreachHandler) Submit(c *gin.Context) {
	userID := c.GetString("userID")

	var req domain.OutreachRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.gateUsecase.Submit(c.Request.Context(), userID, req)
	if result == nil {
		response.Fail(c, err)
		return
	}

	status := http.StatusOK
	if result.Queued {
		status = http.StatusAccepted
	}
	body := gin.H{
		"queued":  result.Queued,
		"sent":    result.Sent,
		"sandbox": result.Sandbox,
		"outcome": result.Outcome,
		"message": result.Message,
	}
	if result.QueueID != "" {
		body["queueId"] = result.QueueID
	}
	response.Result(c, status, body, err)
}

// GetQueue lists queued items
// GET /api/outreach/queue?status=&limit=&offset=
func (h *OutreachHandler) GetQueue(c *gin.Context) {
	userID := c.GetString("userID")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, total, err := h.queueUsecase.List(c.Request.Context(), userID, domain.Status(c.Query("status")), limit, offset)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

// GetPendingCount returns the number of items awaiting review
// GET /api/outreach/queue/pending-count
func (h *OutreachHandler) GetPendingCount(c *gin.Context) {
	userID := c.GetString("userID")

	count, err := h.queueUsecase.CountPending(c.Request.Context(), userID)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// UpdateQueueItem applies a reviewer action
// POST /api/outreach/queue {"action": "approve|reject|cancel|retry", "queueId": "...", "reason": "..."}
func (h *OutreachHandler) UpdateQueueItem(c *gin.Context) {
	userID := c.GetString("userID")

	var req queueActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var (
		item *domain.QueuedOutreachItem
		err  error
	)
	ctx := c.Request.Context()
	switch req.Action {
	case "approve":
		item, err = h.queueUsecase.Approve(ctx, userID, req.QueueID)
	case "reject":
		item, err = h.queueUsecase.Reject(ctx, userID, req.QueueID, req.Reason)
	case "cancel":
		item, err = h.queueUsecase.Cancel(ctx, userID, req.QueueID)
	case "retry":
		item, err = h.queueUsecase.Retry(ctx, userID, req.QueueID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "action must be one of approve, reject, cancel, retry"})
		return
	}

	response.Result(c, http.StatusOK, gin.H{"success": true, "item": item}, err)
}
