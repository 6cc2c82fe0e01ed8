package form

import (
	"fmt"
	"strings"
)

// ActiveLineItems selects the items that belong in the generated document:
// fixed items that are enabled, then custom items with a non-empty name.
// Order is stable: fixed items keep catalog order, custom items keep
// creation order. Pure function; inputs are never modified.
func ActiveLineItems(fixed, custom []LineItem) []LineItem {
	out := make([]LineItem, 0, len(fixed)+len(custom))
	for _, item := range fixed {
		if item.IsActive() {
			out = append(out, item)
		}
	}
	for _, item := range custom {
		if item.IsActive() {
			out = append(out, item)
		}
	}
	return out
}

// Active returns the catalog's document-ready items in render order.
func (c Catalog) Active() []LineItem {
	return ActiveLineItems(c.Fixed, c.Custom)
}

// ActiveUsageTiers selects tiers with both an amount and a start month.
// Insertion order is preserved; tiers are never sorted, merged, or checked
// for overlap.
func ActiveUsageTiers(tiers []UsageTier) []UsageTier {
	out := make([]UsageTier, 0, len(tiers))
	for _, t := range tiers {
		if strings.TrimSpace(t.Amount) != "" && strings.TrimSpace(t.StartMonth) != "" {
			out = append(out, t)
		}
	}
	return out
}

// TierLabel renders the month range of a tier: "Months 1-4", or
// "Months 13+" for an open-ended tier.
func TierLabel(t UsageTier) string {
	if strings.TrimSpace(t.EndMonth) != "" {
		return fmt.Sprintf("Months %s-%s", t.StartMonth, t.EndMonth)
	}
	return fmt.Sprintf("Months %s+", t.StartMonth)
}
