package cache

import "fmt"

// Stats counts cache activity since creation or the last Clear.
// Evictions are entries dropped to stay within capacity; entries that
// outlive the TTL count as Expirations instead.
type Stats struct {
	Hits        uint64 `json:"hits"`
	Misses      uint64 `json:"misses"`
	Evictions   uint64 `json:"evictions"`
	Expirations uint64 `json:"expirations"`
	Size        int    `json:"size"`
	Capacity    int    `json:"capacity"`
}

// HitRate returns hits / (hits + misses), or 0 before any lookup.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Effective reports whether more than half of the lookups hit.
func (s Stats) Effective() bool {
	return s.HitRate() > 0.5
}

// Warnings describes cache behavior worth surfacing to a user.
func (s Stats) Warnings() []string {
	var warnings []string
	if s.Evictions > 0 && s.Evictions > s.Hits/2 {
		warnings = append(warnings, fmt.Sprintf("excessive evictions: %d with only %d hits; consider a larger cache.size", s.Evictions, s.Hits))
	}
	return warnings
}

func (s Stats) String() string {
	return fmt.Sprintf("hits=%d misses=%d evictions=%d expirations=%d size=%d/%d hit_rate=%.2f",
		s.Hits, s.Misses, s.Evictions, s.Expirations, s.Size, s.Capacity, s.HitRate())
}
