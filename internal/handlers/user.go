package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mdourados/foodcourt/internal/hash"
	mwauth "github.com/mdourados/foodcourt/internal/middleware/auth"
	"github.com/mdourados/foodcourt/internal/models"
	"github.com/mdourados/foodcourt/internal/mykafka"
	"github.com/mdourados/foodcourt/internal/util"
	"github.com/mdourados/foodcourt/internal/validate"
)

type UserHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

type createUserRequest struct {
	Name     string `json:"name"     validate:"required,min=2"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"phone"    validate:"required,min=8"`
	Type     string `json:"type"     validate:"omitempty,oneof=ADMIN CLIENT"`
}

// CreateUser is the public signup endpoint. Creating an ADMIN requires an
// authenticated admin caller.
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if errs := validate.Struct(req); errs != nil {
		return validationError(c, errs)
	}

	userType := models.UserClient
	if req.Type == models.UserAdmin {
		if !mwauth.IsAdmin(c) {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		userType = models.UserAdmin
	}

	var existing models.User
	err := h.DB.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusConflict, "user already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not hash password")
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: pwHash,
		Type:         userType,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create user")
	}

	publish(c, h.Producer, "user_events", strconv.Itoa(int(user.ID)), map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "user created",
		"user":    user,
	})
}

func (h *UserHandler) GetUsers(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("pageSize"), util.DefaultPageSize)
	page, offset, limit := util.Calculate(page, size)

	var total int64
	if err := h.DB.Model(&models.User{}).Count(&total).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	var users []models.User
	if err := h.DB.Order("id ASC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data": users,
		"meta": util.Meta(page, limit, total),
	})
}

func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if !mwauth.IsAdmin(c) {
		callerID, err := mwauth.UserID(c)
		if err != nil {
			return err
		}
		if callerID != id {
			return echo.NewHTTPError(http.StatusForbidden, "cannot access another user")
		}
	}

	var user models.User
	if err := h.DB.Preload("Addresses").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

type updateUserRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=2"`
	Phone *string `json:"phone" validate:"omitempty,min=8"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// UpdateUser edits the authenticated user's own profile.
func (h *UserHandler) UpdateUser(c echo.Context) error {
	userID, err := mwauth.UserID(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if errs := validate.Struct(req); errs != nil {
		return validationError(c, errs)
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "user not found")
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if err := h.DB.Save(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not update user")
	}

	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// DeleteUser removes the authenticated user's account. Irreversible.
func (h *UserHandler) DeleteUser(c echo.Context) error {
	userID, err := mwauth.UserID(c)
	if err != nil {
		return err
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Address{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, userID).Error
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not delete user")
	}

	publish(c, h.Producer, "user_events", strconv.Itoa(int(userID)), map[string]any{
		"type":   "user_deleted",
		"userID": userID,
	})

	return c.NoContent(http.StatusNoContent)
}
