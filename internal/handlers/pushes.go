package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/NanamiNakano/apnoxide/internal/auth"
	"github.com/NanamiNakano/apnoxide/internal/db"
	"github.com/NanamiNakano/apnoxide/internal/queue"
)

type SendPushRequest struct {
	// DeviceToken narrows the send to one registered device. When empty
	// the notification goes to every device the account has registered.
	DeviceToken  string                 `json:"device_token,omitempty"`
	Notification queue.NotificationSpec `json:"notification"`
}

type SendPushResponse struct {
	PushIDs []string `json:"push_ids"`
}

func SendPush(c echo.Context) error {
	userID := c.Get("user_id").(int64)
	ctx := c.Request().Context()

	var req SendPushRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := auth.Validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid notification"})
	}

	// Build the payload now so malformed custom data fails the request
	// instead of poisoning the queue.
	if _, err := req.Notification.BuildPayload(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	var devices []db.Device
	if req.DeviceToken != "" {
		device, err := db.GetDevice(ctx, userID, req.DeviceToken)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return c.JSON(http.StatusNotFound, map[string]string{"error": "Device not registered"})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to resolve device"})
		}
		devices = []db.Device{*device}
	} else {
		var err error
		devices, err = db.GetDevicesByUser(ctx, userID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to resolve devices"})
		}
		if len(devices) == 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "No devices registered"})
		}
	}

	pushIDs := make([]string, 0, len(devices))
	for _, device := range devices {
		pushID := uuid.New().String()
		if err := db.InsertPush(ctx, pushID, userID, device.Token); err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to record push"})
		}

		_, err := queue.EnqueuePushDelivery(queue.PushDeliveryPayload{
			PushID:      pushID,
			UserID:      userID,
			DeviceToken: device.Token,
			Spec:        req.Notification,
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to enqueue push"})
		}
		pushIDs = append(pushIDs, pushID)
	}

	return c.JSON(http.StatusAccepted, SendPushResponse{PushIDs: pushIDs})
}

func GetPush(c echo.Context) error {
	userID := c.Get("user_id").(int64)
	pushID := c.Param("id")

	if _, err := uuid.Parse(pushID); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid push id"})
	}

	push, err := db.GetPush(c.Request().Context(), userID, pushID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Push not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get push"})
	}

	return c.JSON(http.StatusOK, push)
}

func ListPushes(c echo.Context) error {
	userID := c.Get("user_id").(int64)

	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 500 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid limit"})
		}
		limit = parsed
	}

	pushes, err := db.GetPushesByUser(c.Request().Context(), userID, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to list pushes"})
	}

	return c.JSON(http.StatusOK, pushes)
}
