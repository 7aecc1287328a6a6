package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"rentsplit-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HouseholdService manages households and their membership. Only the admin
// may mutate the member set; the admin itself can never be removed.
type HouseholdService struct {
	db       *gorm.DB
	notifier Notifier
	cache    SummaryCache
}

func NewHouseholdService(db *gorm.DB, notifier Notifier, cache SummaryCache) *HouseholdService {
	return &HouseholdService{db: db, notifier: notifier, cache: cache}
}

// invalidateDashboards drops cached summaries for every participant so a
// membership change is visible before the cache TTL expires.
func (s *HouseholdService) invalidateDashboards(householdID uuid.UUID) {
	participants, err := s.Participants(householdID)
	if err != nil {
		return
	}
	s.cache.Invalidate(participants)
}

// Create builds a household with the caller as admin. Each member email is
// resolved to a User, creating invited placeholder accounts (and sending an
// invite email) for addresses not seen before.
func (s *HouseholdService) Create(adminID uuid.UUID, name, groupPhoto string, memberEmails []string) (*models.Household, error) {
	var admin models.User
	if err := s.db.First(&admin, "id = ?", adminID).Error; err != nil {
		return nil, fmt.Errorf("admin: %w", ErrNotFound)
	}

	household := models.Household{
		Name:       name,
		GroupPhoto: groupPhoto,
		AdminID:    adminID,
	}

	var invited []models.User
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&household).Error; err != nil {
			return err
		}

		seen := map[uuid.UUID]bool{adminID: true}
		for _, email := range memberEmails {
			user, created, err := findOrCreateUserByEmail(tx, email)
			if err != nil {
				return err
			}
			if created {
				invited = append(invited, *user)
			}
			if seen[user.ID] {
				continue
			}
			seen[user.ID] = true

			if err := tx.Create(&models.HouseholdMember{
				HouseholdID: household.ID,
				UserID:      user.ID,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateDashboards(household.ID)

	// Invite emails never gate the create; fire them after commit.
	for _, user := range invited {
		go s.notifier.NotifyInvitation(user.Email, admin.Username, name)
	}

	return &household, nil
}

// AddMember adds a user by email. Admin only. Adding an existing member is
// a no-op so retries are safe.
func (s *HouseholdService) AddMember(householdID, callerID uuid.UUID, email string) (*models.User, error) {
	household, err := s.getHousehold(householdID)
	if err != nil {
		return nil, err
	}
	if household.AdminID != callerID {
		return nil, fmt.Errorf("only admin can add members: %w", ErrForbidden)
	}

	var caller models.User
	if err := s.db.First(&caller, "id = ?", callerID).Error; err != nil {
		return nil, fmt.Errorf("caller: %w", ErrNotFound)
	}

	var target *models.User
	var created bool
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		target, created, txErr = findOrCreateUserByEmail(tx, email)
		if txErr != nil {
			return txErr
		}

		if target.ID == household.AdminID {
			return nil // admin is already a participant
		}

		var existing models.HouseholdMember
		txErr = tx.Where("household_id = ? AND user_id = ?", householdID, target.ID).First(&existing).Error
		if txErr == nil {
			return nil // already a member, idempotent
		}
		if !errors.Is(txErr, gorm.ErrRecordNotFound) {
			return txErr
		}

		return tx.Create(&models.HouseholdMember{
			HouseholdID: householdID,
			UserID:      target.ID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.invalidateDashboards(householdID)

	if created {
		go s.notifier.NotifyInvitation(target.Email, caller.Username, household.Name)
	} else {
		go s.notifier.NotifyMemberAdded(*target, household.Name)
	}

	return target, nil
}

// RemoveMember removes a user by email. Admin only; removing the admin is
// rejected, removing a non-member is a no-op.
func (s *HouseholdService) RemoveMember(householdID, callerID uuid.UUID, email string) error {
	household, err := s.getHousehold(householdID)
	if err != nil {
		return err
	}
	if household.AdminID != callerID {
		return fmt.Errorf("only admin can remove members: %w", ErrForbidden)
	}

	var target models.User
	if err := s.db.Where("email = ?", normalizeEmail(email)).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("user: %w", ErrNotFound)
		}
		return err
	}

	if target.ID == household.AdminID {
		return fmt.Errorf("cannot remove admin: %w", ErrInvalidOperation)
	}

	// Snapshot participants first so the removed member's cache is dropped too.
	participants, err := s.Participants(householdID)
	if err != nil {
		return err
	}

	if err := s.db.Where("household_id = ? AND user_id = ?", householdID, target.ID).
		Delete(&models.HouseholdMember{}).Error; err != nil {
		return err
	}

	s.cache.Invalidate(participants)
	return nil
}

// Get returns a household the caller participates in.
func (s *HouseholdService) Get(householdID, callerID uuid.UUID) (*models.HouseholdResponse, error) {
	household, err := s.getHousehold(householdID)
	if err != nil {
		return nil, err
	}

	participants, err := s.Participants(householdID)
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
		return nil, fmt.Errorf("not a member of this household: %w", ErrForbidden)
	}

	return s.buildResponse(household)
}

// Participants resolves the full participant set: members plus the admin.
func (s *HouseholdService) Participants(householdID uuid.UUID) ([]uuid.UUID, error) {
	household, err := s.getHousehold(householdID)
	if err != nil {
		return nil, err
	}

	var memberships []models.HouseholdMember
	if err := s.db.Where("household_id = ?", householdID).Find(&memberships).Error; err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(memberships)+1)
	for _, m := range memberships {
		ids = append(ids, m.UserID)
	}
	ids = append(ids, household.AdminID)
	return ids, nil
}

func (s *HouseholdService) getHousehold(householdID uuid.UUID) (*models.Household, error) {
	var household models.Household
	if err := s.db.First(&household, "id = ?", householdID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("household: %w", ErrNotFound)
		}
		return nil, err
	}
	return &household, nil
}

func (s *HouseholdService) buildResponse(household *models.Household) (*models.HouseholdResponse, error) {
	var admin models.User
	if err := s.db.First(&admin, "id = ?", household.AdminID).Error; err != nil {
		return nil, err
	}

	var memberships []models.HouseholdMember
	if err := s.db.Where("household_id = ?", household.ID).Preload("User").Find(&memberships).Error; err != nil {
		return nil, err
	}

	members := []models.HouseholdMemberResponse{{
		UserID:       admin.ID,
		Username:     admin.Username,
		Email:        admin.Email,
		ProfileImage: admin.ProfileImage,
		Role:         "admin",
	}}
	for _, m := range memberships {
		members = append(members, models.HouseholdMemberResponse{
			UserID:       m.UserID,
			Username:     m.User.Username,
			Email:        m.User.Email,
			ProfileImage: m.User.ProfileImage,
			Role:         "member",
		})
	}

	return &models.HouseholdResponse{
		ID:         household.ID,
		Name:       household.Name,
		GroupPhoto: household.GroupPhoto,
		AdminID:    household.AdminID,
		Members:    members,
		CreatedAt:  household.CreatedAt,
	}, nil
}

// findOrCreateUserByEmail resolves an email to a User, creating an invited
// placeholder when no account exists yet. Reports whether it created one.
func findOrCreateUserByEmail(tx *gorm.DB, email string) (*models.User, bool, error) {
	email = normalizeEmail(email)

	var user models.User
	err := tx.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	user = models.User{
		Email:    email,
		Username: strings.SplitN(email, "@", 2)[0],
		Status:   models.UserInvited,
	}
	if err := tx.Create(&user).Error; err != nil {
		return nil, false, err
	}
	log.Printf("✅ Created invited user %s", email)
	return &user, true, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
