package domain

type ResourceID string

// Locator is the blob store handle for a published resource. Opaque to
// everything except the blob store that minted it.
type Locator string

// Resource is the metadata for a published, immutable blob. Created once at
// upload completion; a re-upload mints a new resource, never edits this one.
type Resource struct {
	ID          ResourceID
	EntityID    EntityID
	Kind        ContentKind
	OwnerID     PrincipalID
	TotalBytes  uint64
	ContentType string
	Locator     Locator
}
