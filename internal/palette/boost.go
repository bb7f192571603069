package palette

import "time"

// Usage boost tuning. Recency decays linearly to zero over 16 days;
// frequency saturates at 15 uses. Both components are clamped so the boost
// is always non-negative and bounded.
const (
	maxRecencyBoost    = 320
	recencyDecayPerDay = 20
	maxCountBoost      = 180
	countBoostPerUse   = 12

	secondsPerDay = 86400
)

// usageBoost converts a usage entry into a score addend. With an empty
// query the full boost applies, floating recent/frequent entries to the top
// of the unfiltered list; with a non-empty query only a third applies, so
// history nudges ranking among matches without overriding strong text
// matches. Clock skew (entries from the future) is clamped to zero age.
func usageBoost(u Usage, now time.Time, emptyQuery bool) int {
	if u.UseCount <= 0 && u.LastUsedAt <= 0 {
		return 0
	}

	age := now.Unix() - u.LastUsedAt
	if age < 0 {
		age = 0
	}
	ageDays := int(age / secondsPerDay)

	recency := maxRecencyBoost - ageDays*recencyDecayPerDay
	if recency < 0 {
		recency = 0
	}

	count := u.UseCount * countBoostPerUse
	if count > maxCountBoost {
		count = maxCountBoost
	}

	raw := recency + count
	if emptyQuery {
		return raw
	}
	return raw / 3
}
