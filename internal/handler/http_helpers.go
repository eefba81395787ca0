package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/RazvanGorea/show-and-tell-api/internal/auth"
	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func respondSuccess(c *gin.Context, status int) {
	c.JSON(status, gin.H{"message": "success"})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

// currentUser resolves the caller set by the auth middleware. Routes behind
// RequireAuth always have one; a miss means a routing mistake, answered
// with 401 rather than a panic.
func currentUser(c *gin.Context) (auth.Identity, bool) {
	identity, ok := auth.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
	}
	return identity, ok
}
