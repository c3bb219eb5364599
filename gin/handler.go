package gin

import (
	"net/http"
	"time"

	"github.com/fwojciec/scratches"
	"github.com/gin-gonic/gin"
)

// SuggestRequest is the body of POST /api/v1/selectors.
type SuggestRequest struct {
	URL string `json:"url" binding:"required"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes a failure with a scratches error code.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse is the body of GET /api/v1/health.
type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}

// SuggestSelectors returns a handler for POST /api/v1/selectors.
func SuggestSelectors(finder scratches.SelectorFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SuggestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, scratches.Errorf(scratches.EINVALID, "request body must be {\"url\": \"...\"}"))
			return
		}

		suggestion, err := finder.SuggestSelectors(c.Request.Context(), req.URL)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, suggestion)
	}
}

// Health returns a handler for GET /api/v1/health.
func Health(startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{
			Status: "ok",
			Uptime: time.Since(startTime).Round(time.Second).String(),
		})
	}
}

// respondError writes err with the status matching its code. Messages of
// internal errors are not exposed.
func respondError(c *gin.Context, err error) {
	code := scratches.ErrorCode(err)
	c.AbortWithStatusJSON(statusFor(code), ErrorResponse{
		Error: ErrorDetail{Code: code, Message: scratches.ErrorMessage(err)},
	})
}

func statusFor(code string) int {
	switch code {
	case scratches.EINVALID:
		return http.StatusBadRequest
	case scratches.ENOTFOUND:
		return http.StatusNotFound
	case scratches.ECONFLICT:
		return http.StatusConflict
	case scratches.EUNAUTHORIZED:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
