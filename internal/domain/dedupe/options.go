package dedupe

const defaultCapacity = 16

// Option configures New.
type Option func(*options)

type options struct {
	capacity int
}

// WithCapacity pre-sizes the set. Non-positive values are ignored.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}
