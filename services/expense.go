package services

import (
	"errors"
	"fmt"
	"time"

	"rentsplit-backend/models"
	"rentsplit-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ExpenseService owns the expense ledger: expenses and the equal-share
// splits derived from them. Every mutation regenerates the split set inside
// one transaction so readers never see a half-written ledger.
type ExpenseService struct {
	db        *gorm.DB
	household *HouseholdService
	cache     SummaryCache
}

func NewExpenseService(db *gorm.DB, household *HouseholdService, cache SummaryCache) *ExpenseService {
	return &ExpenseService{db: db, household: household, cache: cache}
}

// Create records an expense paid by the caller and one Pending split per
// other participant. The per-share amount is round(amount/N, 2) over the
// full participant count; the payer's own share is absorbed, so N−1 splits
// are written.
func (s *ExpenseService) Create(householdID, callerID uuid.UUID, amount float64, category string, date, dueDate time.Time) (*models.Expense, error) {
	participants, err := s.household.Participants(householdID)
	if err != nil {
		return nil, err
	}

	isParticipant := false
	for _, id := range participants {
		if id == callerID {
			isParticipant = true
			break
		}
	}
	if !isParticipant {
		return nil, fmt.Errorf("payer must belong to the household: %w", ErrForbidden)
	}

	if date.IsZero() {
		date = time.Now()
	}
	if dueDate.IsZero() {
		dueDate = date
	}

	expense := models.Expense{
		HouseholdID: householdID,
		Amount:      amount,
		Category:    category,
		ExpenseDate: date,
		PaidBy:      callerID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&expense).Error; err != nil {
			return err
		}
		return generateSplits(tx, &expense, participants, dueDate)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(participants)
	return &expense, nil
}

// Update mutates amount/category/date and regenerates every split. Only the
// stored payer may update; the caller identity comes from the session, not
// the request.
func (s *ExpenseService) Update(expenseID, callerID uuid.UUID, amount float64, category string, date time.Time) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.First(&expense, "id = ?", expenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("expense: %w", ErrNotFound)
		}
		return nil, err
	}

	if expense.PaidBy != callerID {
		return nil, fmt.Errorf("only the payer can update this expense: %w", ErrForbidden)
	}

	participants, err := s.household.Participants(expense.HouseholdID)
	if err != nil {
		return nil, err
	}

	expense.Amount = amount
	expense.Category = category
	expense.ExpenseDate = date

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&expense).Error; err != nil {
			return err
		}
		if err := tx.Where("expense_id = ?", expense.ID).Delete(&models.ExpenseSplit{}).Error; err != nil {
			return err
		}
		return generateSplits(tx, &expense, participants, date)
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(participants)
	return &expense, nil
}

// Delete removes the expense and all of its splits. Payer only.
func (s *ExpenseService) Delete(expenseID, callerID uuid.UUID) error {
	var expense models.Expense
	if err := s.db.First(&expense, "id = ?", expenseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("expense: %w", ErrNotFound)
		}
		return err
	}

	if expense.PaidBy != callerID {
		return fmt.Errorf("only the payer can delete this expense: %w", ErrForbidden)
	}

	participants, err := s.household.Participants(expense.HouseholdID)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expense_id = ?", expense.ID).Delete(&models.ExpenseSplit{}).Error; err != nil {
			return err
		}
		return tx.Delete(&expense).Error
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(participants)
	return nil
}

// generateSplits writes one Pending split per non-payer participant, each
// owed to the payer.
func generateSplits(tx *gorm.DB, expense *models.Expense, participants []uuid.UUID, dueDate time.Time) error {
	share := utils.RoundToTwo(expense.Amount / float64(len(participants)))

	for _, userID := range participants {
		if userID == expense.PaidBy {
			continue
		}
		split := models.ExpenseSplit{
			ExpenseID:   expense.ID,
			UserID:      userID,
			Amount:      share,
			PaidTo:      expense.PaidBy,
			HouseholdID: expense.HouseholdID,
			DueDate:     dueDate,
			Status:      models.SplitPending,
		}
		if err := tx.Create(&split).Error; err != nil {
			return err
		}
	}
	return nil
}

// ListForHousehold returns a household's expenses, newest first.
func (s *ExpenseService) ListForHousehold(householdID, callerID uuid.UUID) ([]models.ExpenseResponse, error) {
	if _, err := s.household.Get(householdID, callerID); err != nil {
		return nil, err
	}

	var expenses []models.Expense
	if err := s.db.Where("household_id = ?", householdID).
		Preload("Payer").
		Order("expense_date DESC, created_at DESC").
		Find(&expenses).Error; err != nil {
		return nil, err
	}

	responses := make([]models.ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		resp, err := s.buildResponse(e)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// ListSplitsForUser returns every split a user owes, newest first.
func (s *ExpenseService) ListSplitsForUser(userID uuid.UUID, offset, limit int) ([]models.ExpenseSplit, error) {
	var splits []models.ExpenseSplit
	query := s.db.Where("user_id = ?", userID).
		Preload("User").
		Order("created_at DESC").
		Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&splits).Error
	return splits, err
}

func (s *ExpenseService) buildResponse(expense models.Expense) (models.ExpenseResponse, error) {
	var splits []models.ExpenseSplit
	if err := s.db.Where("expense_id = ?", expense.ID).Preload("User").Find(&splits).Error; err != nil {
		return models.ExpenseResponse{}, err
	}

	splitResponses := make([]models.SplitResponse, 0, len(splits))
	for _, sp := range splits {
		splitResponses = append(splitResponses, models.SplitResponse{
			ID:       sp.ID,
			UserID:   sp.UserID,
			UserName: sp.User.Username,
			Amount:   sp.Amount,
			PaidTo:   sp.PaidTo,
			DueDate:  sp.DueDate,
			Status:   sp.Status,
		})
	}

	return models.ExpenseResponse{
		ID:          expense.ID,
		HouseholdID: expense.HouseholdID,
		Amount:      expense.Amount,
		Category:    expense.Category,
		Date:        expense.ExpenseDate,
		PaidBy:      expense.PaidBy,
		PayerName:   expense.Payer.Username,
		Splits:      splitResponses,
		CreatedAt:   expense.CreatedAt,
	}, nil
}
