package shader

// Uniform names shared by the effect sources.
const (
	UniformTime       = "u_time"
	UniformResolution = "u_resolution"
	UniformPixelRatio = "u_pixelRatio"
	UniformMouse      = "u_mouse"
	UniformTexture    = "u_texture"
	UniformOpacity    = "u_opacity"

	UniformShapeSize  = "u_shapeSize"
	UniformRoundness  = "u_roundness"
	UniformBorderSize = "u_borderSize"
	UniformCircleSize = "u_circleSize"
	UniformCircleEdge = "u_circleEdge"
)

// PositionAttribute is the vec2 vertex input of every effect.
const PositionAttribute = "position"

// FeedUniforms lists every uniform the frame feed may write.
var FeedUniforms = []string{
	UniformTime,
	UniformResolution,
	UniformPixelRatio,
	UniformMouse,
	UniformShapeSize,
	UniformRoundness,
	UniformBorderSize,
	UniformCircleSize,
	UniformCircleEdge,
	UniformTexture,
}

// QuadVertices is the two-triangle list covering clip space.
var QuadVertices = []float32{
	-1, -1, 1, -1, -1, 1,
	-1, 1, 1, -1, 1, 1,
}
