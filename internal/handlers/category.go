package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mdourados/foodcourt/internal/models"
	"github.com/mdourados/foodcourt/internal/mykafka"
	"github.com/mdourados/foodcourt/internal/validate"
)

type CategoryHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

type categoryRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Description string `json:"description"`
}

func (h *CategoryHandler) GetCategories(c echo.Context) error {
	var categories []models.Category
	if err := h.DB.Order("name ASC").Find(&categories).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": categories})
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if errs := validate.Struct(req); errs != nil {
		return validationError(c, errs)
	}

	category := models.Category{Name: req.Name, Description: req.Description}
	if err := h.DB.Create(&category).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create category")
	}

	publish(c, h.Producer, "catalog_events", strconv.Itoa(int(category.ID)), map[string]any{
		"type":       "category_created",
		"categoryID": category.ID,
		"name":       category.Name,
	})

	return c.JSON(http.StatusCreated, echo.Map{"category": category})
}

func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if errs := validate.Struct(req); errs != nil {
		return validationError(c, errs)
	}

	var category models.Category
	if err := h.DB.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "category not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	category.Name = req.Name
	category.Description = req.Description
	if err := h.DB.Save(&category).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not update category")
	}

	return c.JSON(http.StatusOK, echo.Map{"category": category})
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var count int64
	if err := h.DB.Model(&models.Item{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if count > 0 {
		return validationMessage(c, "category still has items")
	}

	if err := h.DB.Delete(&models.Category{}, id).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not delete category")
	}

	publish(c, h.Producer, "catalog_events", strconv.Itoa(int(id)), map[string]any{
		"type":       "category_deleted",
		"categoryID": id,
	})

	return c.NoContent(http.StatusNoContent)
}
