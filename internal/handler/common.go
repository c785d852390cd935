package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

// dateLayout is the wire format for all rental dates.
const dateLayout = "2006-01-02"

// getUserID extracts the user_id set by the JWT middleware and
// converts it to uint64.  JWT numeric claims decode as float64, so
// several representations must be accepted.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// currentRole returns the role claim stored by the JWT middleware, or
// the empty string when absent.
func currentRole(c echo.Context) string {
	role, _ := c.Get("role").(string)
	return role
}

// parseID parses a numeric path parameter, rejecting zero.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
