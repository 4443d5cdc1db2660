package light

// pointLightImpl is the implementation of the PointLight interface.
type pointLightImpl struct {
	position   [3]float32
	color      [3]float32
	intensity  float32
	lightRange float32
	index      int
	enabled    bool
}

// PointLight defines the interface for a point light source.
//
// Point lights emit in all directions from a position and attenuate with
// distance up to a configurable range. Each light carries a stable index into
// the GPU light storage buffer, so a single light can be re-uploaded in place
// without rewriting the whole buffer.
type PointLight interface {
	// Position returns the world-space position of the light.
	//
	// Returns:
	//   - [3]float32: position as (x, y, z)
	Position() [3]float32

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - [3]float32: color as (r, g, b)
	Color() [3]float32

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Range returns the maximum attenuation distance. Beyond this distance the
	// light contributes zero energy.
	//
	// Returns:
	//   - float32: the range value
	Range() float32

	// Index returns this light's record index within the GPU light storage buffer.
	//
	// Returns:
	//   - int: the buffer record index
	Index() int

	// Enabled returns whether this light is active for rendering.
	// Disabled lights are skipped during GPU buffer marshaling.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// SetPosition sets the world-space position of the light.
	//
	// Parameters:
	//   - x, y, z: position components
	SetPosition(x, y, z float32)

	// SetColor sets the RGB color of the light.
	//
	// Parameters:
	//   - r, g, b: color components
	SetColor(r, g, b float32)

	// SetIntensity sets the scalar intensity multiplier.
	//
	// Parameters:
	//   - intensity: the intensity value
	SetIntensity(intensity float32)

	// SetRange sets the maximum attenuation distance.
	//
	// Parameters:
	//   - lightRange: the range value
	SetRange(lightRange float32)

	// SetIndex sets this light's record index within the GPU light storage buffer.
	//
	// Parameters:
	//   - index: the buffer record index
	SetIndex(index int)

	// SetEnabled enables or disables the light for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)
}

var _ PointLight = &pointLightImpl{}

// NewPointLight creates a new PointLight with sensible defaults and any provided
// options applied.
//
// Parameters:
//   - opts: variadic list of PointLightBuilderOption functions to configure the light
//
// Returns:
//   - PointLight: a new PointLight instance
func NewPointLight(opts ...PointLightBuilderOption) PointLight {
	l := &pointLightImpl{
		position:   [3]float32{0, 0, 0},
		color:      [3]float32{1, 1, 1},
		intensity:  1.0,
		lightRange: 10.0,
		index:      0,
		enabled:    true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *pointLightImpl) Position() [3]float32 {
	return l.position
}

func (l *pointLightImpl) Color() [3]float32 {
	return l.color
}

func (l *pointLightImpl) Intensity() float32 {
	return l.intensity
}

func (l *pointLightImpl) Range() float32 {
	return l.lightRange
}

func (l *pointLightImpl) Index() int {
	return l.index
}

func (l *pointLightImpl) Enabled() bool {
	return l.enabled
}

func (l *pointLightImpl) SetPosition(x, y, z float32) {
	l.position = [3]float32{x, y, z}
}

func (l *pointLightImpl) SetColor(r, g, b float32) {
	l.color = [3]float32{r, g, b}
}

func (l *pointLightImpl) SetIntensity(intensity float32) {
	l.intensity = intensity
}

func (l *pointLightImpl) SetRange(lightRange float32) {
	l.lightRange = lightRange
}

func (l *pointLightImpl) SetIndex(index int) {
	l.index = index
}

func (l *pointLightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}
