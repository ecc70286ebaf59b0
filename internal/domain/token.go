package domain

import "strings"

// TokenSeparator joins userID and tier tag inside a correlation token. It is
// forbidden inside either component so the token decodes unambiguously.
const TokenSeparator = ":"

// EncodeCorrelationToken builds the opaque string that rides through the
// provider's free-form field and comes back on capture.
func EncodeCorrelationToken(userID string, tier Tier) (string, error) {
	if userID == "" {
		return "", NewMissingUserError()
	}
	if strings.Contains(userID, TokenSeparator) {
		return "", NewInvalidUserError(userID)
	}
	return userID + TokenSeparator + string(tier.Tag), nil
}

// DecodeCorrelationToken recovers (userID, tier) from a token echoed back by
// the provider. Wrong arity or an unknown tier tag is a terminal decode
// failure, never silently defaulted.
func DecodeCorrelationToken(token string) (string, Tier, error) {
	parts := strings.Split(token, TokenSeparator)
	if len(parts) != 2 || parts[0] == "" {
		return "", Tier{}, NewInvalidTokenError(token)
	}

	tier, err := TierByTag(parts[1])
	if err != nil {
		return "", Tier{}, NewInvalidTokenError(token)
	}

	return parts[0], tier, nil
}
