package services

import (
	"testing"
	"time"

	"rentsplit-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateHousehold(t *testing.T) {
	db := setupTestDB(t)
	notifier := &stubNotifier{}
	svc := NewHouseholdService(db, notifier, NewDashboardCache(nil))

	admin := createActiveUser(t, db, "Alice", "alice@example.com")
	existing := createActiveUser(t, db, "Bob", "bob@example.com")

	household, err := svc.Create(admin.ID, "Maple Street", "", []string{"bob@example.com", "carol@example.com"})
	require.NoError(t, err)
	assert.Equal(t, admin.ID, household.AdminID)

	var memberships []models.HouseholdMember
	require.NoError(t, db.Where("household_id = ?", household.ID).Find(&memberships).Error)
	assert.Len(t, memberships, 2)

	// Unknown email becomes an invited placeholder account.
	var carol models.User
	require.NoError(t, db.Where("email = ?", "carol@example.com").First(&carol).Error)
	assert.Equal(t, models.UserInvited, carol.Status)

	// Existing users are linked, not re-created.
	var bobCount int64
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", existing.Email).Count(&bobCount).Error)
	assert.EqualValues(t, 1, bobCount)

	// Only the new account gets an invite email.
	assert.Eventually(t, func() bool {
		invites := notifier.invitedEmails()
		return len(invites) == 1 && invites[0] == "carol@example.com"
	}, time.Second, 10*time.Millisecond)
}

func TestAddMember(t *testing.T) {
	db := setupTestDB(t)
	svc := NewHouseholdService(db, &stubNotifier{}, NewDashboardCache(nil))

	admin := createActiveUser(t, db, "Alice", "alice@example.com")
	outsider := createActiveUser(t, db, "Mallory", "mallory@example.com")
	household, err := svc.Create(admin.ID, "Maple Street", "", nil)
	require.NoError(t, err)

	t.Run("admin only", func(t *testing.T) {
		_, err := svc.AddMember(household.ID, outsider.ID, "bob@example.com")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("idempotent add", func(t *testing.T) {
		_, err := svc.AddMember(household.ID, admin.ID, "bob@example.com")
		require.NoError(t, err)
		_, err = svc.AddMember(household.ID, admin.ID, "bob@example.com")
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&models.HouseholdMember{}).
			Where("household_id = ?", household.ID).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("adding the admin is a no-op", func(t *testing.T) {
		_, err := svc.AddMember(household.ID, admin.ID, admin.Email)
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&models.HouseholdMember{}).
			Where("household_id = ? AND user_id = ?", household.ID, admin.ID).Count(&count).Error)
		assert.EqualValues(t, 0, count)
	})
}

func TestRemoveMember(t *testing.T) {
	db := setupTestDB(t)
	svc := NewHouseholdService(db, &stubNotifier{}, NewDashboardCache(nil))

	admin := createActiveUser(t, db, "Alice", "alice@example.com")
	bob := createActiveUser(t, db, "Bob", "bob@example.com")
	household, err := svc.Create(admin.ID, "Maple Street", "", []string{bob.Email})
	require.NoError(t, err)

	t.Run("admin only", func(t *testing.T) {
		err := svc.RemoveMember(household.ID, bob.ID, bob.Email)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin cannot be removed", func(t *testing.T) {
		err := svc.RemoveMember(household.ID, admin.ID, admin.Email)
		assert.ErrorIs(t, err, ErrInvalidOperation)
	})

	t.Run("removes the member", func(t *testing.T) {
		require.NoError(t, svc.RemoveMember(household.ID, admin.ID, bob.Email))

		var count int64
		require.NoError(t, db.Model(&models.HouseholdMember{}).
			Where("household_id = ?", household.ID).Count(&count).Error)
		assert.EqualValues(t, 0, count)

		// Removing again is a no-op.
		require.NoError(t, svc.RemoveMember(household.ID, admin.ID, bob.Email))
	})
}

func TestMembershipChangeDropsCachedDashboards(t *testing.T) {
	db := setupTestDB(t)
	cache := &stubCache{}
	svc := NewHouseholdService(db, &stubNotifier{}, cache)

	admin := createActiveUser(t, db, "Alice", "alice@example.com")
	bob := createActiveUser(t, db, "Bob", "bob@example.com")
	household, err := svc.Create(admin.ID, "Maple Street", "", []string{bob.Email})
	require.NoError(t, err)
	cache.reset()

	t.Run("add member", func(t *testing.T) {
		carol := createActiveUser(t, db, "Carol", "carol@example.com")
		_, err := svc.AddMember(household.ID, admin.ID, carol.Email)
		require.NoError(t, err)

		dropped := cache.invalidatedIDs()
		assert.Contains(t, dropped, admin.ID)
		assert.Contains(t, dropped, bob.ID)
		assert.Contains(t, dropped, carol.ID)
	})

	t.Run("remove member", func(t *testing.T) {
		cache.reset()
		require.NoError(t, svc.RemoveMember(household.ID, admin.ID, bob.Email))

		// The removed member's summary is dropped along with everyone else's.
		dropped := cache.invalidatedIDs()
		assert.Contains(t, dropped, admin.ID)
		assert.Contains(t, dropped, bob.ID)
	})
}

func TestParticipantsIncludeAdmin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewHouseholdService(db, &stubNotifier{}, NewDashboardCache(nil))

	admin := createActiveUser(t, db, "Alice", "alice@example.com")
	bob := createActiveUser(t, db, "Bob", "bob@example.com")
	household, err := svc.Create(admin.ID, "Maple Street", "", []string{bob.Email})
	require.NoError(t, err)

	participants, err := svc.Participants(household.ID)
	require.NoError(t, err)
	assert.Len(t, participants, 2)
	assert.Contains(t, participants, admin.ID)
	assert.Contains(t, participants, bob.ID)
}
