package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON shape of every failed API call.
type ErrorBody struct {
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"requestId,omitempty"`
}

// JSON writes body as-is. Auth endpoints return flat documents ({token, user} or the
// public user) rather than an envelope so clients can read fields directly.
func JSON(ctx *gin.Context, status int, body any) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, body)
}

// Error writes an ErrorBody and aborts the handler chain.
func Error(ctx *gin.Context, status int, message string, details interface{}) ErrorBody {
	if status == 0 {
		status = http.StatusBadRequest
	}
	body := ErrorBody{
		Message:   message,
		Details:   details,
		RequestID: ctx.GetString("request_id"),
	}
	ctx.AbortWithStatusJSON(status, body)
	return body
}
