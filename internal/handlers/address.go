package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	mwauth "github.com/mdourados/foodcourt/internal/middleware/auth"
	"github.com/mdourados/foodcourt/internal/models"
	"github.com/mdourados/foodcourt/internal/validate"
)

type AddressHandler struct {
	DB *gorm.DB
}

type addressRequest struct {
	Street   string `json:"street"   validate:"required,min=3"`
	Number   string `json:"number"   validate:"required"`
	District string `json:"district" validate:"required,min=2"`
	City     string `json:"city"     validate:"required,min=2"`
	State    string `json:"state"    validate:"required,len=2"`
	ZipCode  string `json:"zipCode"  validate:"required,min=8,max=9"`
}

func (h *AddressHandler) GetAddresses(c echo.Context) error {
	userID, err := mwauth.UserID(c)
	if err != nil {
		return err
	}

	var addresses []models.Address
	if err := h.DB.Where("user_id = ?", userID).Order("id ASC").Find(&addresses).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"addresses": addresses})
}

func (h *AddressHandler) CreateAddress(c echo.Context) error {
	userID, err := mwauth.UserID(c)
	if err != nil {
		return err
	}

	var req addressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if errs := validate.Struct(req); errs != nil {
		return validationError(c, errs)
	}

	address := models.Address{
		Street:   req.Street,
		Number:   req.Number,
		District: req.District,
		City:     req.City,
		State:    req.State,
		ZipCode:  req.ZipCode,
		UserID:   userID,
	}
	if err := h.DB.Create(&address).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create address")
	}
	return c.JSON(http.StatusCreated, echo.Map{"address": address})
}

func (h *AddressHandler) UpdateAddress(c echo.Context) error {
	userID, err := mwauth.UserID(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	address, err := h.ownedAddress(c, id, userID)
	if err != nil {
		return err
	}

	var req addressRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if errs := validate.Struct(req); errs != nil {
		return validationError(c, errs)
	}

	address.Street = req.Street
	address.Number = req.Number
	address.District = req.District
	address.City = req.City
	address.State = req.State
	address.ZipCode = req.ZipCode

	if err := h.DB.Save(address).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not update address")
	}
	return c.JSON(http.StatusOK, echo.Map{"address": address})
}

func (h *AddressHandler) DeleteAddress(c echo.Context) error {
	userID, err := mwauth.UserID(c)
	if err != nil {
		return err
	}
	id, err := idParam(c)
	if err != nil {
		return err
	}

	address, err := h.ownedAddress(c, id, userID)
	if err != nil {
		return err
	}
	if err := h.DB.Delete(address).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not delete address")
	}
	return c.NoContent(http.StatusNoContent)
}

// ownedAddress loads an address, hiding other users' rows from non-admins.
func (h *AddressHandler) ownedAddress(c echo.Context, id, userID uint) (*models.Address, error) {
	var address models.Address
	if err := h.DB.First(&address, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "address not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if address.UserID != userID && !mwauth.IsAdmin(c) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "address not found")
	}
	return &address, nil
}
