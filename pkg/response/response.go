package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/tabulr/timetabler/pkg/errors"
)

// Envelope is the common response contract.
type Envelope struct {
	Data  interface{}      `json:"data,omitempty"`
	Error *apperrors.Error `json:"error,omitempty"`
}

// JSON sends a success response.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, Envelope{Data: data})
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error sends an error response, normalising the error into the envelope.
func Error(c *gin.Context, err error) {
	appErr := apperrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, Envelope{Error: appErr})
}
