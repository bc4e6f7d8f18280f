package chart

// Option configures an artist at construction. Each constructor reads the
// options that apply to its kind and ignores the rest, so one option set
// can be shared across plotting calls.
type Option func(*options)

type options struct {
	label         string
	color         Color
	colors        []Color
	lineStyle     *string
	cmap          string
	interpolation string
	vmin, vmax    *float64
	extent        *[4]float64
	aspect        *Aspect
	width         float64
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLabel sets the legend label.
func WithLabel(label string) Option {
	return func(o *options) { o.label = label }
}

// WithColor sets the line color or the shared fill color.
func WithColor(c Color) Option {
	return func(o *options) { o.color = c }
}

// WithColors sets per-point scatter fill colors.
func WithColors(cs ...Color) Option {
	return func(o *options) { o.colors = append([]Color(nil), cs...) }
}

// WithLineStyle sets the dash pattern of a line.
func WithLineStyle(style string) Option {
	return func(o *options) { o.lineStyle = &style }
}

// WithCmap sets the image colormap name.
func WithCmap(name string) Option {
	return func(o *options) { o.cmap = name }
}

// WithInterpolation sets the image resampling method name.
func WithInterpolation(name string) Option {
	return func(o *options) { o.interpolation = name }
}

// WithNorm sets the image value range.
func WithNorm(vmin, vmax float64) Option {
	return func(o *options) { o.vmin, o.vmax = &vmin, &vmax }
}

// WithExtent sets the image extent (left, right, bottom, top).
func WithExtent(extent [4]float64) Option {
	return func(o *options) { o.extent = &extent }
}

// WithAspect sets the aspect applied to the panel by [Axes.Imshow].
func WithAspect(a Aspect) Option {
	return func(o *options) { o.aspect = &a }
}

// WithWidth sets the bar width for [Axes.Bar]. The default is 0.8.
func WithWidth(w float64) Option {
	return func(o *options) { o.width = w }
}
