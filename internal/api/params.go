package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// uuidParam parses a path parameter as a UUID
func uuidParam(c *gin.Context, name, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, NewError(http.StatusBadRequest, "Invalid "+what+" id")
	}
	return id, nil
}

// intQuery reads an integer query parameter, falling back to def when absent
func intQuery(c *gin.Context, name string, def int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, NewError(http.StatusBadRequest, "Query parameter "+name+" must be an integer")
	}
	return n, nil
}

// paging reads take and skip from the query string
func paging(c *gin.Context, defaultTake int) (take, skip int, err error) {
	if take, err = intQuery(c, "take", defaultTake); err != nil {
		return 0, 0, err
	}
	if skip, err = intQuery(c, "skip", 0); err != nil {
		return 0, 0, err
	}
	return take, skip, nil
}

// bindJSON decodes the request body, reporting malformed JSON as a 400
func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return NewError(http.StatusBadRequest, "Invalid request body")
	}
	return nil
}
