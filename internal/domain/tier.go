package domain

// TierTag identifies a fixed-price membership tier. The set is closed; an
// unrecognized tag is rejected before any remote call is made.
type TierTag string

const (
	TierTag1 TierTag = "Tier1"
	TierTag2 TierTag = "Tier2"
	TierTag3 TierTag = "Tier3"
)

// Currency is fixed for every tier.
const Currency = "USD"

// Tier couples a tag with its fixed decimal amount.
type Tier struct {
	Tag    TierTag
	Amount string
}

// static tag -> amount table, never derived from input
var tiers = map[TierTag]Tier{
	TierTag1: {Tag: TierTag1, Amount: "10.00"},
	TierTag2: {Tag: TierTag2, Amount: "25.00"},
	TierTag3: {Tag: TierTag3, Amount: "50.00"},
}

// TierByTag resolves a tag against the closed tier table.
func TierByTag(tag string) (Tier, error) {
	t, ok := tiers[TierTag(tag)]
	if !ok {
		return Tier{}, NewInvalidTierError(tag)
	}
	return t, nil
}
