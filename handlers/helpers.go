package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/changhyun152521/tbc-sub001/access"
	"github.com/changhyun152521/tbc-sub001/apperr"
	"github.com/changhyun152521/tbc-sub001/middlewares"
)

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// uintParam parses a numeric path param, 0/false when malformed.
func uintParam(c echo.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

// uintQuery parses an optional numeric query param, nil when absent or
// malformed.
func uintQuery(c echo.Context, name string) *uint {
	v := c.QueryParam(name)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return nil
	}
	u := uint(n)
	return &u
}

func actorFrom(c echo.Context) access.Actor {
	actor, _ := c.Get(middlewares.ActorKey).(access.Actor)
	return actor
}

var kindStatus = map[apperr.Kind]int{
	apperr.NotFound:     http.StatusNotFound,
	apperr.Forbidden:    http.StatusForbidden,
	apperr.Conflict:     http.StatusConflict,
	apperr.InvalidInput: http.StatusBadRequest,
}

// writeErr translates a typed core failure into the `{"error": CODE}`
// payload; anything untyped is a 500.
func writeErr(c echo.Context, err error) error {
	if status, ok := kindStatus[apperr.KindOf(err)]; ok {
		return c.JSON(status, map[string]any{"error": apperr.CodeOf(err)})
	}
	c.Logger().Error(err)
	return c.JSON(http.StatusInternalServerError, map[string]any{"error": "INTERNAL"})
}
