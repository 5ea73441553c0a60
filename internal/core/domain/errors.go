package domain

import "errors"

var (
	ErrResourceNotFound     = errors.New("resource not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrPurchaseNotFound     = errors.New("purchase not found")
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrStoreUnavailable marks a failed external lookup. Callers must map it
	// to 503, never to a deny: "can't tell" is not "no access".
	ErrStoreUnavailable = errors.New("store unavailable")
)
