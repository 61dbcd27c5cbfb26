package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Result is the uniform response envelope: code mirrors the HTTP status,
// message carries a human-readable outcome, data the payload when present.
type Result struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func respondOK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Result{Code: http.StatusOK, Message: message, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, Result{Code: status, Message: message})
}
