package handlers

import (
	"net/http"

	"rentsplit-backend/models"
	"rentsplit-backend/services"
	"rentsplit-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type HouseholdHandler struct {
	households *services.HouseholdService
	dashboard  *services.DashboardService
}

func NewHouseholdHandler(households *services.HouseholdService, dashboard *services.DashboardService) *HouseholdHandler {
	return &HouseholdHandler{households: households, dashboard: dashboard}
}

// POST /api/households
func (h *HouseholdHandler) Create(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var req models.CreateHouseholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	household, err := h.households.Create(userID, req.Name, req.GroupPhoto, req.Members)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Household created", household)
}

// GET /api/households
func (h *HouseholdHandler) List(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	households, err := h.dashboard.HouseholdsForUser(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", households)
}

// GET /api/households/dashboard
func (h *HouseholdHandler) Dashboard(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	summary, err := h.dashboard.OwedSummary(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", summary)
}

// GET /api/households/:id
func (h *HouseholdHandler) Get(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	householdID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid household ID")
		return
	}

	household, err := h.households.Get(householdID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", household)
}

// POST /api/households/:id/members
func (h *HouseholdHandler) AddMember(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	householdID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid household ID")
		return
	}

	var req models.MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	user, err := h.households.AddMember(householdID, userID, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Member added", user.ToResponse())
}

// DELETE /api/households/:id/members
func (h *HouseholdHandler) RemoveMember(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	householdID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid household ID")
		return
	}

	var req models.MemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := h.households.RemoveMember(householdID, userID, req.Email); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Member removed", nil)
}
