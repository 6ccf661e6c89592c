package watch

import (
	"sort"

	"github.com/ybazarbay/bizhub/internal/model"
)

// selectForSurfacing sorts one fetch result newest-first and drops
// records that cannot be surfaced. When several new notifications
// arrive in one batch, the most recent one alerts first.
//
// A zero CreatedAt (missing or unparseable timestamp) sorts last, and
// a record without an ID is dropped outright: there is no safe dedup
// key for it, and content-based dedup is unsafe because two distinct
// events can render identical text.
func selectForSurfacing(notifications []model.Notification) []model.Notification {
	eligible := make([]model.Notification, 0, len(notifications))
	for _, n := range notifications {
		if n.ID == "" {
			continue
		}
		eligible = append(eligible, n)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].CreatedAt.After(eligible[j].CreatedAt)
	})

	return eligible
}
