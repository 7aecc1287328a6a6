package handlers

import (
	"net/http"
	"time"

	"rentsplit-backend/models"
	"rentsplit-backend/services"
	"rentsplit-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ExpenseHandler struct {
	expenses *services.ExpenseService
}

func NewExpenseHandler(expenses *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenses: expenses}
}

// parseDate accepts YYYY-MM-DD. An empty string is allowed and returns the
// zero time so callers can apply their own default.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}

// POST /api/households/:id/expenses
func (h *ExpenseHandler) Create(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	householdID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid household ID")
		return
	}

	var req models.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		utils.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		utils.BadRequest(c, "Invalid due date, expected YYYY-MM-DD")
		return
	}

	expense, err := h.expenses.Create(householdID, userID, req.Amount, req.Category, date, dueDate)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Expense created", expense)
}

// GET /api/households/:id/expenses
func (h *ExpenseHandler) List(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	householdID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid household ID")
		return
	}

	expenses, err := h.expenses.ListForHousehold(householdID, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", expenses)
}

// PUT /api/households/:id/expenses/:expenseId
func (h *ExpenseHandler) Update(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	expenseID, err := uuid.Parse(c.Param("expenseId"))
	if err != nil {
		utils.BadRequest(c, "Invalid expense ID")
		return
	}

	var req models.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	date, err := parseDate(req.Date)
	if err != nil || date.IsZero() {
		utils.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
		return
	}

	expense, err := h.expenses.Update(expenseID, userID, req.Amount, req.Category, date)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Expense updated", expense)
}

// DELETE /api/households/:id/expenses/:expenseId
func (h *ExpenseHandler) Delete(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)
	expenseID, err := uuid.Parse(c.Param("expenseId"))
	if err != nil {
		utils.BadRequest(c, "Invalid expense ID")
		return
	}

	if err := h.expenses.Delete(expenseID, userID); err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Expense deleted", nil)
}

// GET /api/splits returns the caller's owed splits, newest first.
func (h *ExpenseHandler) ListSplits(c *gin.Context) {
	userID := utils.GetCurrentUserID(c)

	var pagination utils.PaginationQuery
	c.ShouldBindQuery(&pagination)

	splits, err := h.expenses.ListSplitsForUser(userID, pagination.Offset(), pagination.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", splits)
}
