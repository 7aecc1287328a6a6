package services

import (
	"testing"
	"time"

	"rentsplit-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type expenseFixture struct {
	db       *gorm.DB
	svc      *ExpenseService
	admin    models.User
	bob      models.User
	carol    models.User
	dave     models.User
	houseID  uuid.UUID
	houseSvc *HouseholdService
}

// four participants: admin Alice plus Bob, Carol, Dave
func newExpenseFixture(t *testing.T) *expenseFixture {
	t.Helper()

	db := setupTestDB(t)
	houseSvc := NewHouseholdService(db, &stubNotifier{}, NewDashboardCache(nil))

	admin := createActiveUser(t, db, "Alice", "alice@example.com")
	bob := createActiveUser(t, db, "Bob", "bob@example.com")
	carol := createActiveUser(t, db, "Carol", "carol@example.com")
	dave := createActiveUser(t, db, "Dave", "dave@example.com")

	household, err := houseSvc.Create(admin.ID, "Maple Street", "",
		[]string{bob.Email, carol.Email, dave.Email})
	require.NoError(t, err)

	return &expenseFixture{
		db:       db,
		svc:      NewExpenseService(db, houseSvc, NewDashboardCache(nil)),
		admin:    admin,
		bob:      bob,
		carol:    carol,
		dave:     dave,
		houseID:  household.ID,
		houseSvc: houseSvc,
	}
}

func (f *expenseFixture) splits(t *testing.T, expenseID uuid.UUID) []models.ExpenseSplit {
	t.Helper()
	var splits []models.ExpenseSplit
	require.NoError(t, f.db.Where("expense_id = ?", expenseID).Find(&splits).Error)
	return splits
}

func TestCreateExpenseGeneratesSplits(t *testing.T) {
	f := newExpenseFixture(t)

	expense, err := f.svc.Create(f.houseID, f.bob.ID, 100, "Groceries", time.Now(), time.Time{})
	require.NoError(t, err)

	splits := f.splits(t, expense.ID)
	require.Len(t, splits, 3) // N−1 for N=4 participants

	for _, sp := range splits {
		assert.Equal(t, 25.0, sp.Amount)
		assert.Equal(t, f.bob.ID, sp.PaidTo)
		assert.Equal(t, models.SplitPending, sp.Status)
		assert.NotEqual(t, f.bob.ID, sp.UserID) // the payer never owes
		assert.Equal(t, f.houseID, sp.HouseholdID)
	}
}

func TestCreateExpenseRounding(t *testing.T) {
	f := newExpenseFixture(t)

	// 100 / 4 participants rounds cleanly; 95.50 / 4 = 23.875 -> 23.88
	expense, err := f.svc.Create(f.houseID, f.admin.ID, 95.50, "Rent", time.Now(), time.Time{})
	require.NoError(t, err)

	for _, sp := range f.splits(t, expense.ID) {
		assert.Equal(t, 23.88, sp.Amount)
	}
}

func TestCreateExpenseDueDateDefaultsToExpenseDate(t *testing.T) {
	f := newExpenseFixture(t)

	date := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	expense, err := f.svc.Create(f.houseID, f.admin.ID, 40, "Internet", date, time.Time{})
	require.NoError(t, err)

	for _, sp := range f.splits(t, expense.ID) {
		assert.True(t, sp.DueDate.Equal(date))
	}
}

func TestCreateExpenseHouseholdNotFound(t *testing.T) {
	f := newExpenseFixture(t)

	_, err := f.svc.Create(uuid.New(), f.admin.ID, 50, "Gas", time.Now(), time.Time{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateExpensePayerMustBeParticipant(t *testing.T) {
	f := newExpenseFixture(t)
	outsider := createActiveUser(t, f.db, "Mallory", "mallory@example.com")

	_, err := f.svc.Create(f.houseID, outsider.ID, 50, "Gas", time.Now(), time.Time{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestUpdateExpenseRegeneratesSplits(t *testing.T) {
	f := newExpenseFixture(t)

	expense, err := f.svc.Create(f.houseID, f.bob.ID, 100, "Groceries", time.Now(), time.Time{})
	require.NoError(t, err)

	_, err = f.svc.Update(expense.ID, f.bob.ID, 200, "Rent", time.Now())
	require.NoError(t, err)

	splits := f.splits(t, expense.ID)
	require.Len(t, splits, 3) // old set fully replaced, no leftovers
	for _, sp := range splits {
		assert.Equal(t, 50.0, sp.Amount)
	}

	var updated models.Expense
	require.NoError(t, f.db.First(&updated, "id = ?", expense.ID).Error)
	assert.Equal(t, 200.0, updated.Amount)
	assert.Equal(t, "Rent", updated.Category)
}

func TestUpdateExpenseOnlyPayer(t *testing.T) {
	f := newExpenseFixture(t)

	expense, err := f.svc.Create(f.houseID, f.bob.ID, 100, "Groceries", time.Now(), time.Time{})
	require.NoError(t, err)

	_, err = f.svc.Update(expense.ID, f.carol.ID, 200, "Rent", time.Now())
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteExpenseRemovesSplits(t *testing.T) {
	f := newExpenseFixture(t)

	expense, err := f.svc.Create(f.houseID, f.bob.ID, 100, "Groceries", time.Now(), time.Time{})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(expense.ID, f.bob.ID))

	assert.Empty(t, f.splits(t, expense.ID))
	var count int64
	require.NoError(t, f.db.Model(&models.Expense{}).Where("id = ?", expense.ID).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestDeleteExpenseOnlyPayer(t *testing.T) {
	f := newExpenseFixture(t)

	expense, err := f.svc.Create(f.houseID, f.bob.ID, 100, "Groceries", time.Now(), time.Time{})
	require.NoError(t, err)

	err = f.svc.Delete(expense.ID, f.admin.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.Len(t, f.splits(t, expense.ID), 3)
}

func TestListSplitsForUser(t *testing.T) {
	f := newExpenseFixture(t)

	_, err := f.svc.Create(f.houseID, f.bob.ID, 100, "Groceries", time.Now(), time.Time{})
	require.NoError(t, err)
	_, err = f.svc.Create(f.houseID, f.carol.ID, 60, "Water", time.Now(), time.Time{})
	require.NoError(t, err)

	splits, err := f.svc.ListSplitsForUser(f.admin.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, splits, 2) // admin owes on both expenses

	splits, err = f.svc.ListSplitsForUser(f.bob.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, splits, 1) // bob owes only on carol's expense
}
