package domain

import "fmt"

type EntityID string

// ContentKind is the closed set of streamable entity types. New kinds must be
// added here and to VideoBenefit so dispatch stays exhaustive.
type ContentKind string

const (
	KindWorkshop     ContentKind = "workshop"
	KindCourseModule ContentKind = "course_module"
	KindFile         ContentKind = "file"
	KindToolAsset    ContentKind = "tool_asset"
)

// ParseContentKind maps an external string (URL segment, store column) to a
// ContentKind, rejecting anything outside the closed set.
func ParseContentKind(s string) (ContentKind, error) {
	switch ContentKind(s) {
	case KindWorkshop, KindCourseModule, KindFile, KindToolAsset:
		return ContentKind(s), nil
	}
	return "", fmt.Errorf("unknown content kind %q", s)
}

// VideoBenefit returns the subscription benefit flag that unlocks streaming
// for this kind of content. BenefitAllContent matches every kind.
func (k ContentKind) VideoBenefit() string {
	switch k {
	case KindWorkshop:
		return BenefitWorkshopVideos
	case KindCourseModule:
		return BenefitCourseVideos
	default:
		return BenefitVideoAccess
	}
}

// ContentRef identifies a streamable asset and its owning creator.
// Supplied per request, never persisted by the streaming core.
type ContentRef struct {
	Kind      ContentKind
	EntityID  EntityID
	CreatorID PrincipalID
}
