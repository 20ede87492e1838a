package refresher

import "time"

// DefaultThresholdHour is the UTC hour after which a new day's menus are
// considered published upstream.
const DefaultThresholdHour = 2

// IsStale decides whether the cache needs a refresh. It is true when no
// refresh ever happened, or when now falls on a later UTC calendar date than
// the last refresh and the UTC hour has reached the threshold. The threshold
// keeps the cache from refreshing right after midnight, before upstream has
// posted the new day's menus.
func IsStale(now, lastRefresh time.Time, thresholdHour int) bool {
	if lastRefresh.IsZero() {
		return true
	}

	now = now.UTC()
	last := lastRefresh.UTC()

	nowDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	lastDay := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, time.UTC)

	return nowDay.After(lastDay) && now.Hour() >= thresholdHour
}
