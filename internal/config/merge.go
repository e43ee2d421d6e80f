package config

// Merge overlays override onto base and returns the result. It is pure: both
// inputs are left untouched.
//
// Every key of base is preserved unless override carries a non-nil value for
// it, in which case the override wins. Keys present only in override are
// added. A nil override value means "no opinion" and is a strict no-op for
// that key: it never removes or shadows a base entry, and it never introduces
// a key of its own. Merging the same override twice yields the same result.
func Merge(base Values, override map[string]any) Values {
	merged := base.clone()
	for key, val := range override {
		if val == nil {
			continue
		}
		merged[key] = val
	}
	return merged
}
