package rdml

// Pointer helpers for optional fields. Absent optionals are nil pointers so
// that an absent numeric value never collides with a valid zero.

// String returns a pointer to v.
func String(v string) *string { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
