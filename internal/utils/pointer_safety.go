package utils

func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}

func Ptr[T any](v T) *T {
	return &v
}

// NonEmpty returns a pointer to s, or nil when s is empty, so optional JSON fields are omitted.
func NonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
