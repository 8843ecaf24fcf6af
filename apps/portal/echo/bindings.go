package echoportal

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

const badRequestText = "The request could not be understood."

// bind fills i from the query string (GET) or the submitted form (POST), using its `query` and `form` tags.
func bind(c echo.Context, i interface{}) error {
	if err := c.Bind(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, badRequestText).SetInternal(err)
	}
	return nil
}

// paramID returns the numeric path parameter name. Anything else is a missing page.
func paramID(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, errHttpNotFound
	}
	return id, nil
}
