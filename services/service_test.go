package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"rentsplit-backend/database"
	"rentsplit-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func createActiveUser(t *testing.T, db *gorm.DB, name, email string) models.User {
	t.Helper()

	user := models.User{
		Username: name,
		Email:    email,
		Status:   models.UserActive,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

// stubNotifier records notification calls instead of hitting SendGrid/FCM.
type stubNotifier struct {
	mu      sync.Mutex
	invites []string
	pushes  []string
}

func (n *stubNotifier) NotifyInvitation(toEmail, inviterName, householdName string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.invites = append(n.invites, toEmail)
}

func (n *stubNotifier) NotifyMemberAdded(user models.User, householdName string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pushes = append(n.pushes, user.Email)
}

func (n *stubNotifier) NotifySettlementCompleted(receiver models.User, payerName string, amount float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pushes = append(n.pushes, receiver.Email)
}

func (n *stubNotifier) invitedEmails() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.invites...)
}

// stubCache records invalidations so tests can assert stale summaries are
// dropped after a mutation.
type stubCache struct {
	mu          sync.Mutex
	invalidated []uuid.UUID
}

func (c *stubCache) Get(ctx context.Context, userID uuid.UUID) ([]models.DashboardHousehold, bool) {
	return nil, false
}

func (c *stubCache) Set(ctx context.Context, userID uuid.UUID, households []models.DashboardHousehold) {
}

func (c *stubCache) Invalidate(userIDs []uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, userIDs...)
}

func (c *stubCache) invalidatedIDs() []uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]uuid.UUID(nil), c.invalidated...)
}

func (c *stubCache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = nil
}

// stubProcessor plays the payment processor without any network calls.
type stubProcessor struct {
	createErr     error
	captureErr    error
	captureStatus string
	orders        int
}

func (p *stubProcessor) CreateOrder(ctx context.Context, amount float64, description, sku string) (*ProcessorOrder, error) {
	if p.createErr != nil {
		return nil, p.createErr
	}
	p.orders++
	return &ProcessorOrder{
		ID:           fmt.Sprintf("ORDER-%d", p.orders),
		Status:       "CREATED",
		ApprovalLink: "https://paypal.example/approve",
	}, nil
}

func (p *stubProcessor) CaptureOrder(ctx context.Context, orderID string) (*ProcessorCapture, error) {
	if p.captureErr != nil {
		return nil, p.captureErr
	}
	status := p.captureStatus
	if status == "" {
		status = "COMPLETED"
	}
	return &ProcessorCapture{ID: orderID, Status: status}, nil
}
