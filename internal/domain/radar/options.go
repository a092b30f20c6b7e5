package radar

// Option applies a configuration option to the Layout.
type Option func(*Layout)

// WithRadius sets the outer radius of the chart in drawing units.
func WithRadius(radius float64) Option {
	return func(l *Layout) {
		if radius > 0 {
			l.radius = radius
		}
	}
}

// WithMaxScale sets the ceiling legend bars are measured against.
func WithMaxScale(maxScale float64) Option {
	return func(l *Layout) {
		if maxScale > 0 {
			l.maxScale = maxScale
		}
	}
}

// WithGridLevels sets the number of concentric background rings.
func WithGridLevels(levels int) Option {
	return func(l *Layout) {
		if levels > 0 {
			l.levels = levels
		}
	}
}
