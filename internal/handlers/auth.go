package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mdourados/foodcourt/internal/hash"
	"github.com/mdourados/foodcourt/internal/models"
	"github.com/mdourados/foodcourt/internal/mykafka"
	"github.com/mdourados/foodcourt/internal/validate"
	mwauth "github.com/mdourados/foodcourt/internal/middleware/auth"
	jwthelp "github.com/mdourados/foodcourt/pkg/jwt"
	"github.com/mdourados/foodcourt/pkg/logging"
	"github.com/mdourados/foodcourt/pkg/tokens"
)

const refreshCookieName = "refreshToken"

type AuthHandler struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
	Producer      *mykafka.Producer
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if errs := validate.Struct(req); errs != nil {
		return validationError(c, errs)
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		}
		l.Error("login failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}

	accessToken, refreshToken, refreshExp, err := h.issueTokens(&user)
	if err != nil {
		l.Error("login failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create tokens")
	}

	c.SetCookie(jwthelp.CreateCookie(refreshCookieName, refreshToken, "/auth", refreshExp))

	publish(c, h.Producer, "user_events", strconv.Itoa(int(user.ID)), map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID,
		"email":  user.Email,
	})

	return c.JSON(http.StatusOK, echo.Map{
		"accessToken": accessToken,
		"user":        user,
	})
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_refresh")

	cookie, err := c.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
	}

	claims, err := tokens.RefreshClaimsFromToken(cookie.Value, h.RefreshSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}

	var stored models.RefreshToken
	if err := h.DB.Where("token = ?", cookie.Value).First(&stored).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token not found")
	}
	if stored.Revoked {
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token revoked")
	}
	if time.Now().Unix() > stored.ExpiresAt {
		return echo.NewHTTPError(http.StatusUnauthorized, "refresh token expired")
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}
	var user models.User
	if err := h.DB.First(&user, uint(userID)).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "user not found")
	}

	// Rotation: the presented token is spent whether or not issuing
	// the new pair succeeds.
	if err := h.DB.Model(&models.RefreshToken{}).Where("token = ?", cookie.Value).
		Update("revoked", true).Error; err != nil {
		l.Error("refresh failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	accessToken, refreshToken, refreshExp, err := h.issueTokens(&user)
	if err != nil {
		l.Error("refresh failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create tokens")
	}

	c.SetCookie(jwthelp.CreateCookie(refreshCookieName, refreshToken, "/auth", refreshExp))

	return c.JSON(http.StatusOK, echo.Map{
		"accessToken": accessToken,
		"user":        user,
	})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookieName)
	if err == nil && cookie.Value != "" {
		if err := h.DB.Model(&models.RefreshToken{}).Where("token = ?", cookie.Value).
			Update("revoked", true).Error; err != nil {
			c.Logger().Errorf("revoke refresh token: %v", err)
		}
	}

	c.SetCookie(jwthelp.DeleteCookie(refreshCookieName, "/auth"))
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHandler) Profile(c echo.Context) error {
	userID, err := mwauth.UserID(c)
	if err != nil {
		return err
	}

	var user models.User
	if err := h.DB.Preload("Addresses").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "user not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}

	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

func (h *AuthHandler) issueTokens(user *models.User) (access, refresh string, refreshExp time.Time, err error) {
	sub := strconv.Itoa(int(user.ID))

	accessExp := time.Now().Add(tokens.AccessTTL)
	access, err = tokens.SignAccessToken(sub, user.Type, accessExp, h.JWTSecret)
	if err != nil {
		return "", "", time.Time{}, err
	}

	refreshExp = time.Now().Add(tokens.RefreshTTL)
	refresh, err = tokens.SignRefreshToken(sub, jwthelp.NewJTI(), refreshExp, h.RefreshSecret)
	if err != nil {
		return "", "", time.Time{}, err
	}

	row := models.RefreshToken{
		Token:     refresh,
		UserID:    user.ID,
		ExpiresAt: refreshExp.Unix(),
	}
	if err = h.DB.Create(&row).Error; err != nil {
		return "", "", time.Time{}, err
	}
	return access, refresh, refreshExp, nil
}
