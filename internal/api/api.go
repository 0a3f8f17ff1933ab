package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultPageSize = 6
	maxPageSize     = 100
)

// callerID returns the authenticated user id set by the auth middleware.
func callerID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// optionalCallerID returns the caller id or nil for anonymous requests.
func optionalCallerID(c *gin.Context) *uuid.UUID {
	if id, ok := callerID(c); ok {
		return &id
	}
	return nil
}

// pageParams parses page/limit query parameters with defaults and a cap.
func pageParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if err != nil || limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}
