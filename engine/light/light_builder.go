package light

// PointLightBuilderOption is a function that configures a PointLight instance during construction.
type PointLightBuilderOption func(*pointLightImpl)

// WithPosition is an option builder that sets the world-space position of the light.
//
// Parameters:
//   - x: the x position component
//   - y: the y position component
//   - z: the z position component
//
// Returns:
//   - PointLightBuilderOption: a function that applies the position option to a pointLightImpl
func WithPosition(x, y, z float32) PointLightBuilderOption {
	return func(l *pointLightImpl) {
		l.position = [3]float32{x, y, z}
	}
}

// WithColor is an option builder that sets the RGB color of the light.
//
// Parameters:
//   - r: the red color component
//   - g: the green color component
//   - b: the blue color component
//
// Returns:
//   - PointLightBuilderOption: a function that applies the color option to a pointLightImpl
func WithColor(r, g, b float32) PointLightBuilderOption {
	return func(l *pointLightImpl) {
		l.color = [3]float32{r, g, b}
	}
}

// WithIntensity is an option builder that sets the scalar intensity multiplier.
//
// Parameters:
//   - intensity: the intensity value
//
// Returns:
//   - PointLightBuilderOption: a function that applies the intensity option to a pointLightImpl
func WithIntensity(intensity float32) PointLightBuilderOption {
	return func(l *pointLightImpl) {
		l.intensity = intensity
	}
}

// WithRange is an option builder that sets the maximum attenuation distance.
//
// Parameters:
//   - lightRange: the range value
//
// Returns:
//   - PointLightBuilderOption: a function that applies the range option to a pointLightImpl
func WithRange(lightRange float32) PointLightBuilderOption {
	return func(l *pointLightImpl) {
		l.lightRange = lightRange
	}
}

// WithIndex is an option builder that sets the light's record index within the
// GPU light storage buffer.
//
// Parameters:
//   - index: the buffer record index
//
// Returns:
//   - PointLightBuilderOption: a function that applies the index option to a pointLightImpl
func WithIndex(index int) PointLightBuilderOption {
	return func(l *pointLightImpl) {
		l.index = index
	}
}

// WithEnabled is an option builder that sets whether the light is active for rendering.
//
// Parameters:
//   - enabled: true to enable the light
//
// Returns:
//   - PointLightBuilderOption: a function that applies the enabled option to a pointLightImpl
func WithEnabled(enabled bool) PointLightBuilderOption {
	return func(l *pointLightImpl) {
		l.enabled = enabled
	}
}
