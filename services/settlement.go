package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"rentsplit-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SettlementService reconciles split payments against the external payment
// processor. Initiation records a Pending Activity keyed by the processor's
// order id; capture resolves that Activity from the processor's
// authoritative status.
type SettlementService struct {
	db        *gorm.DB
	processor PaymentProcessor
	notifier  Notifier
	cache     SummaryCache
}

func NewSettlementService(db *gorm.DB, processor PaymentProcessor, notifier Notifier, cache SummaryCache) *SettlementService {
	return &SettlementService{db: db, processor: processor, notifier: notifier, cache: cache}
}

// InitiatePayment opens a processor order for the split amount and records
// a Pending Activity. The processor order (with its approval link) is
// returned unmodified for the client to act on.
func (s *SettlementService) InitiatePayment(ctx context.Context, payerID, receiverID, splitID uuid.UUID, amount float64, householdID uuid.UUID) (*ProcessorOrder, error) {
	var split models.ExpenseSplit
	if err := s.db.First(&split, "id = ?", splitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("split: %w", ErrNotFound)
		}
		return nil, err
	}

	order, err := s.processor.CreateOrder(ctx, amount, "Payment to settle split expense", splitID.String())
	if err != nil {
		return nil, fmt.Errorf("create order: %v: %w", err, ErrUpstream)
	}

	activity := models.Activity{
		PayerID:        payerID,
		ReceiverID:     receiverID,
		ExpenseSplitID: splitID,
		Amount:         amount,
		HouseholdID:    householdID,
		Method:         models.MethodPayPal,
		Status:         models.ActivityPending,
		OrderID:        order.ID,
	}
	if err := s.db.Create(&activity).Error; err != nil {
		return nil, err
	}

	return order, nil
}

// CapturePayment captures the order and reconciles local state from the
// processor's status. An order id with no matching Activity is logged and
// dropped without error; a capture whose status is not COMPLETED marks the
// Activity Failed and leaves the split Pending.
func (s *SettlementService) CapturePayment(ctx context.Context, orderID string) (*ProcessorCapture, error) {
	capture, err := s.processor.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("capture order: %v: %w", err, ErrUpstream)
	}

	var activity models.Activity
	if err := s.db.Where("order_id = ?", orderID).First(&activity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("⚠️  No matching activity found for orderId: %s", orderID)
			return capture, nil
		}
		return nil, err
	}

	if capture.Status != "COMPLETED" {
		log.Printf("⚠️  Capture for order %s returned status %s", orderID, capture.Status)
		if err := s.db.Model(&activity).Updates(map[string]interface{}{
			"status": models.ActivityFailed,
			"date":   time.Now(),
		}).Error; err != nil {
			return nil, err
		}
		return capture, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&activity).Updates(map[string]interface{}{
			"status": models.ActivityCompleted,
			"date":   time.Now(),
		}).Error; err != nil {
			return err
		}
		return tx.Model(&models.ExpenseSplit{}).
			Where("id = ?", activity.ExpenseSplitID).
			Update("status", models.SplitPaid).Error
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate([]uuid.UUID{activity.PayerID, activity.ReceiverID})

	var receiver, payer models.User
	if s.db.First(&receiver, "id = ?", activity.ReceiverID).Error == nil &&
		s.db.First(&payer, "id = ?", activity.PayerID).Error == nil {
		go s.notifier.NotifySettlementCompleted(receiver, payer.Username, activity.Amount)
	}

	return capture, nil
}

// ListForUser returns the settlement activity feed visible to a user,
// newest first.
func (s *SettlementService) ListForUser(userID uuid.UUID, offset, limit int) ([]models.Activity, error) {
	var activities []models.Activity
	query := s.db.Where("payer_id = ? OR receiver_id = ?", userID, userID).
		Preload("Payer").Preload("Receiver").
		Order("date DESC").
		Offset(offset)
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&activities).Error
	return activities, err
}
