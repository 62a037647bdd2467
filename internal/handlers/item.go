package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mdourados/foodcourt/internal/es"
	"github.com/mdourados/foodcourt/internal/models"
	"github.com/mdourados/foodcourt/internal/mykafka"
	"github.com/mdourados/foodcourt/internal/validate"
)

type ItemHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
}

type createItemRequest struct {
	Name        string  `json:"name"        validate:"required,min=2"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unitPrice"   validate:"required,gt=0"`
	ImageURL    string  `json:"imageUrl"`
	CategoryID  uint    `json:"categoryId"  validate:"required"`
	Available   *bool   `json:"available"`
}

type updateItemRequest struct {
	Name        *string  `json:"name"        validate:"omitempty,min=2"`
	Description *string  `json:"description"`
	UnitPrice   *float64 `json:"unitPrice"   validate:"omitempty,gt=0"`
	ImageURL    *string  `json:"imageUrl"`
	CategoryID  *uint    `json:"categoryId"`
	Available   *bool    `json:"available"`
}

func (h *ItemHandler) GetItems(c echo.Context) error {
	q := h.DB.Order("id ASC")
	if cat := c.QueryParam("categoryId"); cat != "" {
		q = q.Where("category_id = ?", parseIntDefault(cat, 0))
	}

	var items []models.Item
	if err := q.Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

func (h *ItemHandler) GetItem(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var item models.Item
	if err := h.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"item": item})
}

func (h *ItemHandler) CreateItem(c echo.Context) error {
	var req createItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if errs := validate.Struct(req); errs != nil {
		return validationError(c, errs)
	}

	var category models.Category
	if err := h.DB.First(&category, req.CategoryID).Error; err != nil {
		return validationMessage(c, "categoryId does not exist")
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}
	item := models.Item{
		Name:        req.Name,
		Description: req.Description,
		UnitPrice:   req.UnitPrice,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
		Available:   available,
	}
	if err := h.DB.Create(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create item")
	}

	h.index(c, item)
	publish(c, h.Producer, "catalog_events", strconv.Itoa(int(item.ID)), map[string]any{
		"type":   "item_created",
		"itemID": item.ID,
		"name":   item.Name,
	})

	return c.JSON(http.StatusCreated, echo.Map{"item": item})
}

func (h *ItemHandler) UpdateItem(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req updateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if errs := validate.Struct(req); errs != nil {
		return validationError(c, errs)
	}

	var item models.Item
	if err := h.DB.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.UnitPrice != nil {
		item.UnitPrice = *req.UnitPrice
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}
	if req.CategoryID != nil {
		var category models.Category
		if err := h.DB.First(&category, *req.CategoryID).Error; err != nil {
			return validationMessage(c, "categoryId does not exist")
		}
		item.CategoryID = *req.CategoryID
	}
	if req.Available != nil {
		item.Available = *req.Available
	}

	if err := h.DB.Save(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not update item")
	}

	h.index(c, item)
	publish(c, h.Producer, "catalog_events", strconv.Itoa(int(item.ID)), map[string]any{
		"type":   "item_updated",
		"itemID": item.ID,
		"name":   item.Name,
	})

	return c.JSON(http.StatusOK, echo.Map{"item": item})
}

func (h *ItemHandler) DeleteItem(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	if err := h.DB.Delete(&models.Item{}, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not delete item")
	}

	if h.ES != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if err := es.DeleteItem(ctx, h.ES, id); err != nil {
			c.Logger().Errorf("es delete error: %v", err)
		}
	}
	publish(c, h.Producer, "catalog_events", strconv.Itoa(int(id)), map[string]any{
		"type":   "item_deleted",
		"itemID": id,
	})

	return c.NoContent(http.StatusNoContent)
}

// index mirrors the item into elasticsearch, best effort.
func (h *ItemHandler) index(c echo.Context, item models.Item) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := es.IndexItem(ctx, h.ES, item); err != nil {
		c.Logger().Errorf("es index error: %v", err)
	}
}
