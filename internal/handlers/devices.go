package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/NanamiNakano/apnoxide/internal/auth"
	"github.com/NanamiNakano/apnoxide/internal/db"
)

type RegisterDeviceRequest struct {
	Token       string `json:"token" validate:"required,hexadecimal,min=16"`
	Environment string `json:"environment" validate:"omitempty,oneof=production development"`
}

func RegisterDevice(c echo.Context) error {
	userID := c.Get("user_id").(int64)

	var req RegisterDeviceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := auth.Validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid device token"})
	}
	if req.Environment == "" {
		req.Environment = "production"
	}

	if err := db.UpsertDevice(c.Request().Context(), userID, req.Token, req.Environment); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to register device"})
	}

	return c.JSON(http.StatusCreated, map[string]string{"message": "Device registered successfully"})
}

func ListDevices(c echo.Context) error {
	userID := c.Get("user_id").(int64)

	devices, err := db.GetDevicesByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list devices"})
	}

	return c.JSON(http.StatusOK, devices)
}

func DeleteDevice(c echo.Context) error {
	userID := c.Get("user_id").(int64)
	token := c.Param("token")

	if err := db.DeleteDevice(c.Request().Context(), userID, token); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete device"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Device deleted successfully"})
}
