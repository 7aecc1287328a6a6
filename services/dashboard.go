package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"rentsplit-backend/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// SummaryCache memoizes per-user dashboard summaries and drops them when a
// mutation makes them stale.
type SummaryCache interface {
	Get(ctx context.Context, userID uuid.UUID) ([]models.DashboardHousehold, bool)
	Set(ctx context.Context, userID uuid.UUID, households []models.DashboardHousehold)
	Invalidate(userIDs []uuid.UUID)
}

// DashboardCache is the Redis-backed SummaryCache. A nil client disables it
// entirely, matching the optional Redis connection.
type DashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewDashboardCache(client *redis.Client) *DashboardCache {
	return &DashboardCache{client: client, ttl: time.Minute}
}

func dashboardKey(userID uuid.UUID) string {
	return "dashboard:" + userID.String()
}

func (c *DashboardCache) Get(ctx context.Context, userID uuid.UUID) ([]models.DashboardHousehold, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, dashboardKey(userID)).Bytes()
	if err != nil {
		return nil, false
	}
	var households []models.DashboardHousehold
	if err := json.Unmarshal(raw, &households); err != nil {
		return nil, false
	}
	return households, true
}

func (c *DashboardCache) Set(ctx context.Context, userID uuid.UUID, households []models.DashboardHousehold) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(households)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, dashboardKey(userID), raw, c.ttl).Err(); err != nil {
		log.Printf("⚠️  Dashboard cache set failed: %v", err)
	}
}

// Invalidate drops the cached summaries of every affected user; called after
// any ledger mutation or capture.
func (c *DashboardCache) Invalidate(userIDs []uuid.UUID) {
	if c == nil || c.client == nil || len(userIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, dashboardKey(id))
	}
	if err := c.client.Del(context.Background(), keys...).Err(); err != nil {
		log.Printf("⚠️  Dashboard cache invalidation failed: %v", err)
	}
}

// DashboardService answers the read-only roll-up queries: which households
// a user belongs to and how much each member currently owes them.
type DashboardService struct {
	db        *gorm.DB
	household *HouseholdService
	cache     SummaryCache
}

func NewDashboardService(db *gorm.DB, household *HouseholdService, cache SummaryCache) *DashboardService {
	return &DashboardService{db: db, household: household, cache: cache}
}

// HouseholdsForUser returns every household where the user is admin or
// member.
func (s *DashboardService) HouseholdsForUser(userID uuid.UUID) ([]models.HouseholdResponse, error) {
	households, err := s.householdsForUser(userID)
	if err != nil {
		return nil, err
	}

	responses := make([]models.HouseholdResponse, 0, len(households))
	for i := range households {
		resp, err := s.household.buildResponse(&households[i])
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

// OwedSummary enriches each of the user's households with the total each
// other member currently owes them: SUM of split amounts where the user is
// the payee and the split is still Pending, grouped by (household, ower).
// Members with no pending splits report zero.
func (s *DashboardService) OwedSummary(ctx context.Context, userID uuid.UUID) ([]models.DashboardHousehold, error) {
	if cached, ok := s.cache.Get(ctx, userID); ok {
		return cached, nil
	}

	households, err := s.householdsForUser(userID)
	if err != nil {
		return nil, err
	}

	type owedRow struct {
		HouseholdID uuid.UUID
		UserID      uuid.UUID
		Total       float64
	}
	var rows []owedRow
	err = s.db.Model(&models.ExpenseSplit{}).
		Select("household_id, user_id, COALESCE(SUM(amount), 0) AS total").
		Where("paid_to = ? AND status = ?", userID, models.SplitPending).
		Group("household_id, user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	owed := make(map[string]float64, len(rows))
	for _, row := range rows {
		owed[fmt.Sprintf("%s_%s", row.HouseholdID, row.UserID)] = row.Total
	}

	result := make([]models.DashboardHousehold, 0, len(households))
	for i := range households {
		resp, err := s.household.buildResponse(&households[i])
		if err != nil {
			return nil, err
		}

		members := make([]models.DashboardMember, 0, len(resp.Members))
		for _, m := range resp.Members {
			members = append(members, models.DashboardMember{
				HouseholdMemberResponse: m,
				AmountOwedToCurrentUser: owed[fmt.Sprintf("%s_%s", resp.ID, m.UserID)],
			})
		}

		result = append(result, models.DashboardHousehold{
			ID:         resp.ID,
			Name:       resp.Name,
			GroupPhoto: resp.GroupPhoto,
			AdminID:    resp.AdminID,
			Members:    members,
			CreatedAt:  resp.CreatedAt,
		})
	}

	s.cache.Set(ctx, userID, result)
	return result, nil
}

func (s *DashboardService) householdsForUser(userID uuid.UUID) ([]models.Household, error) {
	var memberships []models.HouseholdMember
	if err := s.db.Where("user_id = ?", userID).Find(&memberships).Error; err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(memberships))
	for _, m := range memberships {
		ids = append(ids, m.HouseholdID)
	}

	var households []models.Household
	query := s.db.Where("admin_id = ?", userID)
	if len(ids) > 0 {
		query = s.db.Where("admin_id = ? OR id IN ?", userID, ids)
	}
	if err := query.Order("created_at DESC").Find(&households).Error; err != nil {
		return nil, err
	}
	return households, nil
}
