package handlers

import (
	"net/http"

	"rentsplit-backend/models"
	"rentsplit-backend/services"
	"rentsplit-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	settlements *services.SettlementService
}

func NewPaymentHandler(settlements *services.SettlementService) *PaymentHandler {
	return &PaymentHandler{settlements: settlements}
}

// POST /api/payments/orders
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var req models.InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	receiverID, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		utils.BadRequest(c, "Invalid receiver ID")
		return
	}
	splitID, err := uuid.Parse(req.SplitID)
	if err != nil {
		utils.BadRequest(c, "Invalid split ID")
		return
	}
	householdID, err := uuid.Parse(req.HouseholdID)
	if err != nil {
		utils.BadRequest(c, "Invalid household ID")
		return
	}

	order, err := h.settlements.InitiatePayment(c.Request.Context(),
		userID, receiverID, splitID, req.Amount, householdID)
	if err != nil {
		respondError(c, err)
		return
	}

	// The processor order is returned as-is so the client can follow the
	// approval link.
	c.JSON(http.StatusCreated, order)
}

// POST /api/payments/orders/:orderId/capture
func (h *PaymentHandler) CaptureOrder(c *gin.Context) {
	orderID := c.Param("orderId")
	if orderID == "" {
		utils.BadRequest(c, "Missing order ID")
		return
	}

	capture, err := h.settlements.CapturePayment(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, capture)
}

// GET /api/activity
func (h *PaymentHandler) ListActivity(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var pagination utils.PaginationQuery
	c.ShouldBindQuery(&pagination)

	activities, err := h.settlements.ListForUser(userID, pagination.Offset(), pagination.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", activities)
}
