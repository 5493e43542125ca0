package handlers

import (
	"net/http"

	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/internal/services"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type VehicleHandler struct {
	vehicleService *services.VehicleService
	validator      *validator.Validate
}

func NewVehicleHandler(vehicleService *services.VehicleService) *VehicleHandler {
	return &VehicleHandler{
		vehicleService: vehicleService,
		validator:      validator.New(),
	}
}

// Register creates a vehicle registration for the authenticated owner
func (h *VehicleHandler) Register(c *gin.Context) {
	var req services.RegisterVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	vehicle, err := h.vehicleService.Register(c.GetString("user_id"), &req)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Vehicle registered successfully", vehicle)
}

// GetOwnerData returns the caller's vehicles and hiring posts
func (h *VehicleHandler) GetOwnerData(c *gin.Context) {
	data, err := h.vehicleService.GetOwnerData(c.GetString("user_id"))
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Data retrieved successfully", data)
}

// Delete removes a vehicle unless a hiring post still references it
func (h *VehicleHandler) Delete(c *gin.Context) {
	userID := c.Param("userId")
	vehicleID := c.Param("vehicleId")
	if userID == "" || vehicleID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "User ID and vehicle ID are required", nil)
		return
	}

	if err := h.vehicleService.Delete(c.GetString("user_id"), userID, vehicleID); err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicle deleted successfully", nil)
}
