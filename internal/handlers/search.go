package handlers

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/mdourados/foodcourt/internal/es"
	"github.com/mdourados/foodcourt/internal/util"
)

type SearchHandler struct {
	ES *elasticsearch.Client
}

func (h *SearchHandler) SearchItems(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing query")
	}
	if h.ES == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search unavailable")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("pageSize"), util.DefaultPageSize)
	page, from, limit := util.Calculate(page, size)

	total, items, err := es.SearchItems(c.Request().Context(), h.ES, q, from, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": items,
		"meta": util.Meta(page, limit, total),
	})
}
