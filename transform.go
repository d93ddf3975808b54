package shade

import "github.com/go-gl/mathgl/mgl32"

// GlobalTransform maps world space to clip space (projection · view).
// It is shared read-only by every draw of a frame.
//
// GlobalTransform and LocalTransform are distinct types so the two halves
// of the composition cannot be swapped by accident.
type GlobalTransform mgl32.Mat4

// LocalTransform maps object space to world space for one drawable.
type LocalTransform mgl32.Mat4

// IdentityGlobal returns the identity global transform.
func IdentityGlobal() GlobalTransform {
	return GlobalTransform(mgl32.Ident4())
}

// IdentityLocal returns the identity local transform.
func IdentityLocal() LocalTransform {
	return LocalTransform(mgl32.Ident4())
}

// Mat4 returns the underlying column-major matrix.
func (g GlobalTransform) Mat4() mgl32.Mat4 { return mgl32.Mat4(g) }

// Mat4 returns the underlying column-major matrix.
func (l LocalTransform) Mat4() mgl32.Mat4 { return mgl32.Mat4(l) }

// Compose returns G · L, the single matrix the vertex stage applies.
// The local transform acts first. Singular or NaN matrices are not
// checked; they propagate into the output.
func Compose(g GlobalTransform, l LocalTransform) mgl32.Mat4 {
	return g.Mat4().Mul4(l.Mat4())
}
