// Package response writes use case outcomes as JSON.
package response

import (
	"governance-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// Fail writes err with its mapped status.
func Fail(c *gin.Context, err error) {
	c.JSON(apperror.StatusCode(err), gin.H{"error": err.Error()})
}

// Result writes body with status unless err is a real failure. An audit gap
// keeps the success status and is surfaced as auditWarning.
func Result(c *gin.Context, status int, body gin.H, err error) {
	if err != nil && !apperror.IsPartialAudit(err) {
		Fail(c, err)
		return
	}
	if err != nil {
		body["auditWarning"] = err.Error()
	}
	c.JSON(status, body)
}
