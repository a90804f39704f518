package handlers

import (
	"errors"
	"net/http"

	"advocate_diary/middleware"
	"advocate_diary/services"

	"github.com/labstack/echo/v4"
)

type registerRequest struct {
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	FullName     string  `json:"full_name"`
	BarCouncilID *string `json:"bar_council_id"`
	Phone        *string `json:"phone"`
	Address      *string `json:"address"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterHandler creates an advocate account
func RegisterHandler(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest()
	}

	user, err := services.Register(requestDB(c), services.RegisterInput{
		Email:        req.Email,
		Password:     req.Password,
		FullName:     req.FullName,
		BarCouncilID: req.BarCouncilID,
		Phone:        req.Phone,
		Address:      req.Address,
	})
	if err != nil {
		return serviceError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user":    user,
	})
}

// LoginHandler exchanges credentials for an access/refresh token pair
func LoginHandler(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest()
	}

	result, err := services.Authenticate(requestDB(c), services.Tokens, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			services.Monitor.TrackFailedLogin(c.RealIP())
		}
		return serviceError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"user":          result.User,
	})
}

// MeHandler returns the profile of the authenticated user
func MeHandler(c echo.Context) error {
	user, err := services.GetProfile(requestDB(c), currentUserID(c))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// RefreshHandler issues a new access token for a valid refresh token
func RefreshHandler(c echo.Context) error {
	access, err := services.Refresh(services.Tokens, middleware.GetBearerToken(c))
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"access_token": access})
}
