package delivery

import (
	"net/http"
	"strconv"

	"governance-backend/internal/audit/usecase"
	"governance-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// AuditHandler serves the read-only audit trail
type AuditHandler struct {
	auditUsecase usecase.AuditUsecase
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditUsecase usecase.AuditUsecase) *AuditHandler {
	return &AuditHandler{auditUsecase: auditUsecase}
}

// GetEntries returns one page of the trail
// GET /api/audit?limit=50&offset=0&conversationId=
func (h *AuditHandler) GetEntries(c *gin.Context) {
	userID := c.GetString("userID")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(usecase.DefaultPageLimit)))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	page, err := h.auditUsecase.List(c.Request.Context(), userID, c.Query("conversationId"), limit, offset)
	if err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}
