package handlers

import (
	"net/http"

	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/internal/services"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/pkg/apperr"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ApplicationHandler struct {
	applicationService *services.ApplicationService
	validator          *validator.Validate
}

func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
		validator:          validator.New(),
	}
}

// Apply submits a driver's application on an approved post
func (h *ApplicationHandler) Apply(c *gin.Context) {
	var req services.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	app, err := h.applicationService.Apply(c.GetString("user_id"), &req)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Application submitted successfully", app)
}

// List returns a post's applications to its owner
func (h *ApplicationHandler) List(c *gin.Context) {
	hiringID := c.Param("driverHiringId")
	if hiringID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Hiring ID is required", nil)
		return
	}

	apps, err := h.applicationService.ListApplications(c.GetString("user_id"), hiringID)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Applications retrieved successfully", apps)
}

// Accept selects the winning driver on a post
func (h *ApplicationHandler) Accept(c *gin.Context) {
	hiringID := c.Param("driverHiringId")
	driverID := c.Param("driverId")
	if hiringID == "" || driverID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Hiring ID and driver ID are required", nil)
		return
	}

	result, err := h.applicationService.Accept(c.GetString("user_id"), hiringID, driverID)
	if err != nil {
		if apperr.Is(err, apperr.Dependency) && result != nil {
			utils.DependencyErrorResponse(c, err, result)
			return
		}
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Driver selected successfully", result)
}
