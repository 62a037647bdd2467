package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mdourados/foodcourt/internal/mykafka"
	"github.com/mdourados/foodcourt/internal/validate"
)

func idParam(c echo.Context) (uint, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// validationError renders the 422 envelope the SDK classifies as a
// validation failure.
func validationError(c echo.Context, errs []validate.FieldError) error {
	return c.JSON(http.StatusUnprocessableEntity, echo.Map{"errors": errs})
}

func validationMessage(c echo.Context, msg string) error {
	return validationError(c, []validate.FieldError{{Message: msg}})
}

func publish(c echo.Context, producer *mykafka.Producer, topic, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := producer.PublishEvent(ctx, topic, key, event); err != nil {
		c.Logger().Errorf("kafka publish error: %v", err)
	}
}
