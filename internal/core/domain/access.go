package domain

import "time"

// Subscription benefit flags as recorded on plan records.
const (
	BenefitVideoAccess    = "video_access"
	BenefitWorkshopVideos = "workshop_videos"
	BenefitCourseVideos   = "course_videos"
	BenefitAllContent     = "all_content"
)

// GrantReason explains how access was (or was not) obtained.
type GrantReason string

const (
	GrantCreator      GrantReason = "creator"
	GrantFree         GrantReason = "free"
	GrantPurchase     GrantReason = "purchase"
	GrantSubscription GrantReason = "subscription"
	GrantNone         GrantReason = "no_grant"
)

// AccessDecision is the outcome of resolving a principal against a content
// reference. ExpiresAt is nil for unbounded grants (creator, free, lifetime
// purchase).
type AccessDecision struct {
	Granted   bool
	Reason    GrantReason
	ExpiresAt *time.Time
}

// Purchase is the read model for a completed purchase record. Lifecycle is
// owned by the checkout system; the resolver only reads it.
type Purchase struct {
	EntityID       EntityID
	LifetimeAccess bool
	AccessUntil    *time.Time
}

// Active reports whether the purchase still grants access at the given time.
func (p Purchase) Active(now time.Time) bool {
	if p.LifetimeAccess {
		return true
	}
	return p.AccessUntil != nil && !now.After(*p.AccessUntil)
}

// Subscription is the read model for an active subscription and the benefit
// flags its plan carries.
type Subscription struct {
	Benefits  []string
	StartDate time.Time
	EndDate   time.Time
}

// HasBenefit reports whether the plan carries the named flag or the blanket
// all_content flag.
func (s Subscription) HasBenefit(flag string) bool {
	for _, b := range s.Benefits {
		if b == flag || b == BenefitAllContent {
			return true
		}
	}
	return false
}

// Covers reports whether now falls inside the subscription period.
func (s Subscription) Covers(now time.Time) bool {
	return !now.Before(s.StartDate) && !now.After(s.EndDate)
}

// Product is the read model for the catalog record behind a content ref.
// PriceCents == 0 together with Public marks free content.
type Product struct {
	EntityID   EntityID
	CreatorID  PrincipalID
	PriceCents int64
	Public     bool
}

// Free reports whether the product is served without any purchase.
func (p Product) Free() bool {
	return p.PriceCents == 0 && p.Public
}
