package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mediagate/internal/core/domain"
	"mediagate/internal/core/ports"
	"mediagate/pkg/tracing"

	"go.uber.org/zap"
)

// accessResolver decides access by walking the grant chain in priority
// order: creator, free content, purchase, subscription. First grant wins.
// It owns no state beyond the injected read-only stores and is safe for
// unbounded concurrent use.
type accessResolver struct {
	products      ports.ProductStore
	purchases     ports.PurchaseStore
	subscriptions ports.SubscriptionStore
	lookupTimeout time.Duration
	logger        *zap.SugaredLogger
}

func NewAccessResolver(
	products ports.ProductStore,
	purchases ports.PurchaseStore,
	subscriptions ports.SubscriptionStore,
	lookupTimeout time.Duration,
	logger *zap.SugaredLogger,
) ports.AccessResolver {
	return &accessResolver{
		products:      products,
		purchases:     purchases,
		subscriptions: subscriptions,
		lookupTimeout: lookupTimeout,
		logger:        logger,
	}
}

// Resolve returns the access decision for p on ref at time now. A non-nil
// error means the decision could not be made (store unavailable); callers
// must surface that as 503, never as a deny.
func (r *accessResolver) Resolve(ctx context.Context, p domain.Principal, ref domain.ContentRef, now time.Time) (domain.AccessDecision, error) {
	ctx, span := tracing.TraceAccessResolution(ctx, string(ref.Kind), string(ref.EntityID))
	defer span.End()

	// Creators stream their own content unconditionally.
	if !p.IsAnonymous() && p.ID == ref.CreatorID {
		return domain.AccessDecision{Granted: true, Reason: domain.GrantCreator}, nil
	}

	decision, err := r.checkCatalog(ctx, p, ref)
	if err != nil {
		tracing.RecordError(ctx, err)
		r.logger.Warnw("product lookup failed", "entity_id", ref.EntityID, "error", err)
		return domain.AccessDecision{}, err
	}
	if decision.Granted {
		return decision, nil
	}

	// Purchases are keyed by email, subscriptions by principal id; both are
	// meaningless for anonymous callers.
	if !p.IsAnonymous() {
		decision, err = r.checkPurchase(ctx, p, ref, now)
		if err != nil {
			tracing.RecordError(ctx, err)
			r.logger.Warnw("purchase lookup failed", "entity_id", ref.EntityID, "error", err)
			return domain.AccessDecision{}, err
		}
		if decision.Granted {
			return decision, nil
		}

		decision, err = r.checkSubscription(ctx, p, ref, now)
		if err != nil {
			tracing.RecordError(ctx, err)
			r.logger.Warnw("subscription lookup failed", "principal_id", p.ID, "error", err)
			return domain.AccessDecision{}, err
		}
		if decision.Granted {
			return decision, nil
		}
	}

	return domain.AccessDecision{Granted: false, Reason: domain.GrantNone}, nil
}

// checkCatalog consults the product record, which settles two grants: the
// creator named on the record, and free content. Requests usually arrive with
// an empty ref.CreatorID, so the record is the authority on ownership.
func (r *accessResolver) checkCatalog(ctx context.Context, p domain.Principal, ref domain.ContentRef) (domain.AccessDecision, error) {
	ctx, cancel := context.WithTimeout(ctx, r.lookupTimeout)
	defer cancel()

	product, err := r.products.Get(ctx, ref)
	if errors.Is(err, domain.ErrProductNotFound) {
		// No catalog record means the content cannot be free; fall through
		// to the purchase and subscription checks.
		return domain.AccessDecision{}, nil
	}
	if err != nil {
		return domain.AccessDecision{}, fmt.Errorf("product lookup: %w: %w", domain.ErrStoreUnavailable, err)
	}

	if !p.IsAnonymous() && p.ID == product.CreatorID {
		return domain.AccessDecision{Granted: true, Reason: domain.GrantCreator}, nil
	}
	if product.Free() {
		return domain.AccessDecision{Granted: true, Reason: domain.GrantFree}, nil
	}
	return domain.AccessDecision{}, nil
}

func (r *accessResolver) checkPurchase(ctx context.Context, p domain.Principal, ref domain.ContentRef, now time.Time) (domain.AccessDecision, error) {
	ctx, cancel := context.WithTimeout(ctx, r.lookupTimeout)
	defer cancel()

	purchase, err := r.purchases.FindCompleted(ctx, p.Email, ref.EntityID)
	if errors.Is(err, domain.ErrPurchaseNotFound) {
		return domain.AccessDecision{}, nil
	}
	if err != nil {
		return domain.AccessDecision{}, fmt.Errorf("purchase lookup: %w: %w", domain.ErrStoreUnavailable, err)
	}

	// An expired purchase is not a deny: the subscription check still runs.
	if !purchase.Active(now) {
		return domain.AccessDecision{}, nil
	}

	decision := domain.AccessDecision{Granted: true, Reason: domain.GrantPurchase}
	if !purchase.LifetimeAccess {
		decision.ExpiresAt = purchase.AccessUntil
	}
	return decision, nil
}

func (r *accessResolver) checkSubscription(ctx context.Context, p domain.Principal, ref domain.ContentRef, now time.Time) (domain.AccessDecision, error) {
	ctx, cancel := context.WithTimeout(ctx, r.lookupTimeout)
	defer cancel()

	sub, err := r.subscriptions.FindActive(ctx, p.ID, now)
	if errors.Is(err, domain.ErrSubscriptionNotFound) {
		return domain.AccessDecision{}, nil
	}
	if err != nil {
		return domain.AccessDecision{}, fmt.Errorf("subscription lookup: %w: %w", domain.ErrStoreUnavailable, err)
	}

	if !sub.Covers(now) || !sub.HasBenefit(ref.Kind.VideoBenefit()) {
		return domain.AccessDecision{}, nil
	}

	end := sub.EndDate
	return domain.AccessDecision{Granted: true, Reason: domain.GrantSubscription, ExpiresAt: &end}, nil
}
