package billing

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/ddukddak/taleapi/app/models"
)

// Errors surfaced by the subscription lifecycle. Controllers map these to
// HTTP status codes; nothing here retries locally.
var (
	ErrAlreadySubscribed = errors.New("already has an active subscription")
	ErrPlanNotFound      = errors.New("plan not found")
	ErrNoSubscription    = errors.New("no subscription found")
	ErrNotActive         = errors.New("subscription is not active")
	ErrPaymentFailed     = errors.New("payment failed")
)

// Charger executes charges against the payment processor. Implemented by
// TossClient; tests substitute a spy.
type Charger interface {
	RequestBilling(ctx context.Context, billingKey, customerKey string, amount int, orderID, orderName string) (*TossPayment, error)
}

// Service owns the subscription state machine: creation, cancellation,
// webhook-driven renewal and expiry-on-failure. Expiry is entirely
// event-driven; there is no background sweep. The persisted status is an
// optimistic cache and the live expires_at comparison in the access gate is
// authoritative for access decisions.
type Service struct {
	repo    Repository
	charger Charger
	catalog Catalog

	now func() time.Time
}

// NewService creates a subscription service from injected collaborators.
func NewService(repo Repository, charger Charger, catalog Catalog) *Service {
	return &Service{
		repo:    repo,
		charger: charger,
		catalog: catalog,
		now:     time.Now,
	}
}

// NewServiceFromDB creates a subscription service from a GORM DB handle using
// the production Toss client and the default plan catalog.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db), NewTossClientFromEnv(), DefaultCatalog())
}

// Plans returns the purchasable plan catalog.
func (s *Service) Plans() []Plan {
	return s.catalog.List()
}

// GetCurrentSubscription returns the user's most recent subscription record
// regardless of status, or nil when the user has no billing history. Callers
// must inspect Status themselves.
func (s *Service) GetCurrentSubscription(ctx context.Context, userID string) (*models.Subscription, error) {
	_ = ctx
	sub, err := s.repo.GetLatestByUser(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return sub, nil
}

// CreateSubscription charges the stored billing key for the selected plan and
// persists a new active record. The charge completes before anything is
// written; a failed charge never leaves an unpaid active row behind.
func (s *Service) CreateSubscription(ctx context.Context, userID, planType, billingKey string) (*models.Subscription, error) {
	current, err := s.GetCurrentSubscription(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current != nil && current.IsActive() {
		return nil, ErrAlreadySubscribed
	}

	plan, ok := s.catalog.Get(planType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlanNotFound, planType)
	}

	now := s.now()
	orderID := fmt.Sprintf("sub_%s_%d", userID, now.UnixMilli())
	orderName := fmt.Sprintf("뚝딱동화 %s", plan.Name)

	if _, err := s.charger.RequestBilling(ctx, billingKey, userID, plan.Price, orderID, orderName); err != nil {
		if errors.Is(err, ErrPaymentFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}

	sub := &models.Subscription{
		UserID:         userID,
		PlanType:       plan.ID,
		Status:         models.SubscriptionStatusActive,
		StartedAt:      now,
		ExpiresAt:      now.AddDate(0, 0, plan.DurationDays),
		AutoRenew:      true,
		TossBillingKey: billingKey,
	}
	if err := s.repo.Create(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

// CancelSubscription stops auto renewal. Access stays valid until the
// unchanged expires_at passes; there is no refund and no shortening of the
// paid window. Cancelling a non-active subscription is an error, not a no-op.
func (s *Service) CancelSubscription(ctx context.Context, userID string) error {
	current, err := s.GetCurrentSubscription(ctx, userID)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrNoSubscription
	}
	if !current.IsActive() {
		return ErrNotActive
	}

	return s.repo.UpdateStatus(current.ID, models.SubscriptionStatusCancelled, false)
}

// RenewSubscription runs a renewal charge for the user's active subscription.
// It is invoked from the webhook path only and is best-effort: when there is
// nothing to renew it silently returns so the processor is never retried
// against a no-op. A failed charge transitions the record to expired; this is
// the sole business-logic path into the expired state.
func (s *Service) RenewSubscription(ctx context.Context, userID string) error {
	current, err := s.GetCurrentSubscription(ctx, userID)
	if err != nil {
		return err
	}
	if current == nil || !current.IsActive() || !current.AutoRenew {
		return nil
	}

	plan, ok := s.catalog.Get(current.PlanType)
	if !ok {
		return nil
	}

	// The order id is derived from the current expiry so a redelivered READY
	// event within the same renewal window produces the same id and the
	// processor's dedup-by-order-id absorbs the replay.
	orderID := fmt.Sprintf("renew_%s_%d", userID, current.ExpiresAt.Unix())
	orderName := fmt.Sprintf("뚝딱동화 %s 갱신", plan.Name)

	if _, err := s.charger.RequestBilling(ctx, current.TossBillingKey, userID, plan.Price, orderID, orderName); err != nil {
		log.Printf("subscription renewal charge failed for user %s: %v", userID, err)
		return s.repo.UpdateStatus(current.ID, models.SubscriptionStatusExpired, false)
	}

	// Extend from the previous expiry, not from now, so paid-but-unused days
	// survive early or late webhook delivery.
	newExpiresAt := current.ExpiresAt.AddDate(0, 0, plan.DurationDays)
	return s.repo.UpdateExpiresAt(current.ID, newExpiresAt)
}
