package helpers

// Ptr returns a pointer to v, or nil when v is nil. Used for optional flag attributes.
func Ptr[T any](v T) *T {
	if any(v) == nil {
		return nil
	}
	return &v
}
