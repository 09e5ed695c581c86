package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/amelfit-backend/internal/http/response"
)

// uuidParam parses a path parameter, answering 404 with notFoundCode when it is not a UUID.
func uuidParam(c *gin.Context, name, notFoundCode string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		response.RespondError(c, http.StatusNotFound, notFoundCode, err)
		return uuid.Nil, false
	}
	return id, true
}

// queryInt returns def when the query value is absent or not an integer; services clamp.
func queryInt(c *gin.Context, name string, def int) int {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return false
	}
	return true
}
