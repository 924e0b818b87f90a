package billing

import (
	"strings"

	"github.com/ManuelReschke/PromptManager/app/models"
)

func isEntitlingStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "active", "trialing", "past_due":
		return true
	default:
		return false
	}
}

// membershipForStatus maps a Stripe subscription status onto a membership.
func membershipForStatus(status string) string {
	if isEntitlingStatus(status) {
		return models.MEMBERSHIP_PRO
	}
	return models.MEMBERSHIP_FREE
}
