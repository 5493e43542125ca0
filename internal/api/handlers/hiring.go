package handlers

import (
	"net/http"

	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/internal/services"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/pkg/apperr"
	"github.com/Sheikh-Nabeel/Aaaogo-backend-sub002/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type HiringHandler struct {
	hiringService *services.HiringService
	validator     *validator.Validate
}

func NewHiringHandler(hiringService *services.HiringService) *HiringHandler {
	return &HiringHandler{
		hiringService: hiringService,
		validator:     validator.New(),
	}
}

// Decide records whether the owner will drive personally
func (h *HiringHandler) Decide(c *gin.Context) {
	var req services.DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	if err := h.hiringService.Decide(c.GetString("user_id"), &req); err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Decision recorded successfully", gin.H{"hasDriver": req.HasDriver})
}

// Submit creates a hiring post in state pending
func (h *HiringHandler) Submit(c *gin.Context) {
	var req services.SubmitHiringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	hiring, err := h.hiringService.Submit(c.GetString("user_id"), &req)
	if err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Hiring post submitted successfully", hiring)
}

// Approve flips a pending post to approved (admin only)
func (h *HiringHandler) Approve(c *gin.Context) {
	hiringID := c.Param("driverHiringId")
	if hiringID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Hiring ID is required", nil)
		return
	}

	hiring, err := h.hiringService.Approve(hiringID)
	if err != nil {
		if apperr.Is(err, apperr.Dependency) {
			utils.DependencyErrorResponse(c, err, hiring)
			return
		}
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Hiring post approved successfully", hiring)
}

// Reject flips a pending post to rejected with a reason (admin only)
func (h *HiringHandler) Reject(c *gin.Context) {
	hiringID := c.Param("driverHiringId")
	if hiringID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Hiring ID is required", nil)
		return
	}

	var req services.RejectHiringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	hiring, err := h.hiringService.Reject(hiringID, &req)
	if err != nil {
		if apperr.Is(err, apperr.Dependency) {
			utils.DependencyErrorResponse(c, err, hiring)
			return
		}
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Hiring post rejected successfully", hiring)
}

// Delete removes the caller's own hiring post
func (h *HiringHandler) Delete(c *gin.Context) {
	userID := c.Param("userId")
	hiringID := c.Param("driverHiringId")
	if userID == "" || hiringID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "User ID and hiring ID are required", nil)
		return
	}

	if err := h.hiringService.Delete(c.GetString("user_id"), userID, hiringID); err != nil {
		utils.DomainErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Hiring post deleted successfully", nil)
}

// ListPending returns posts awaiting an admin decision
func (h *HiringHandler) ListPending(c *gin.Context) {
	hirings, err := h.hiringService.ListPending()
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve pending posts", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Pending hiring posts retrieved successfully", hirings)
}

// ListAll is the public, paginated, filterable listing
func (h *HiringHandler) ListAll(c *gin.Context) {
	var query services.ListHiringsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	if err := h.validator.Struct(&query); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	page, err := h.hiringService.ListAll(&query)
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve hiring posts", err)
		return
	}

	totalPages := int((page.Total + int64(page.Limit) - 1) / int64(page.Limit))
	utils.PaginatedResponse(c, http.StatusOK, "Hiring posts retrieved successfully", page.Hirings, utils.Pagination{
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      page.Total,
		TotalPages: totalPages,
	})
}
