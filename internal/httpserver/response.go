package httpserver

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Error codes exposed on the wire.
const (
	codeValidation   = "VALIDATION_ERROR"
	codeNotFound     = "NOT_FOUND"
	codeAuthRequired = "AUTH_REQUIRED"
	codeInternal     = "INTERNAL_ERROR"
)

type apiError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// apiResponse is the uniform envelope for every JSON endpoint.
type apiResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *apiError   `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Path      string      `json:"path"`
}

// page wraps a list payload with pagination metadata.
type page struct {
	Items       interface{} `json:"items"`
	Total       int         `json:"total"`
	Page        int         `json:"page"`
	Limit       int         `json:"limit"`
	TotalPages  int         `json:"totalPages"`
	HasNextPage bool        `json:"hasNextPage"`
	HasPrevPage bool        `json:"hasPrevPage"`
}

func newPage(items interface{}, total, pageNum, limit int) page {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return page{
		Items:       items,
		Total:       total,
		Page:        pageNum,
		Limit:       limit,
		TotalPages:  totalPages,
		HasNextPage: pageNum < totalPages,
		HasPrevPage: pageNum > 1,
	}
}

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, apiResponse{
		Success:   true,
		Data:      data,
		Timestamp: time.Now().UTC(),
		Path:      c.Request.URL.Path,
	})
}

func respondError(c *gin.Context, status int, code, message string, details interface{}) {
	c.JSON(status, apiResponse{
		Success:   false,
		Error:     &apiError{Code: code, Message: message, Details: details},
		Timestamp: time.Now().UTC(),
		Path:      c.Request.URL.Path,
	})
}
