package components

// Position represents an entity's world position. The world is planar.
type Position struct {
	X, Y float32
}
