package delivery

import (
	"net/http"

	"governance-backend/internal/notify/usecase"
	"governance-backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// DeviceHandler registers reviewer devices for push notifications
type DeviceHandler struct {
	deviceUsecase usecase.DeviceUsecase
}

func NewDeviceHandler(deviceUsecase usecase.DeviceUsecase) *DeviceHandler {
	return &DeviceHandler{deviceUsecase: deviceUsecase}
}

type registerDeviceRequest struct {
	Token      string `json:"token" binding:"required"`
	DeviceInfo string `json:"deviceInfo"`
}

// RegisterDevice stores a push token
// POST /api/devices
func (h *DeviceHandler) RegisterDevice(c *gin.Context) {
	userID := c.GetString("userID")

	var req registerDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.deviceUsecase.Register(c.Request.Context(), userID, req.Token, req.DeviceInfo); err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "device registered"})
}

// UnregisterDevice removes a push token
// DELETE /api/devices/:token
func (h *DeviceHandler) UnregisterDevice(c *gin.Context) {
	userID := c.GetString("userID")

	if err := h.deviceUsecase.Unregister(c.Request.Context(), userID, c.Param("token")); err != nil {
		response.Fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "device unregistered"})
}
