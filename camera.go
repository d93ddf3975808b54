package shade

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Camera projection constants.
const (
	CameraFieldOfView = 45.0 // degrees, vertical
	CameraNear        = 1.0     // near clip distance
	CameraFar         = 10000.0 // far clip distance
)

// pitchMargin keeps the camera away from looking straight up or down,
// where the look-to basis degenerates.
const pitchMargin = 0.1

// Camera produces the per-frame GlobalTransform from a position, a yaw,
// pitch and roll orientation and the viewport size. The transform is
// recomputed only after a change, on the next Update.
//
// A Camera is not safe for concurrent use.
type Camera struct {
	position mgl32.Vec3
	width    float32
	height   float32

	yaw   float32
	pitch float32
	roll  float32

	dirty  bool
	global GlobalTransform
}

// NewCamera creates a camera at position looking down +Z.
func NewCamera(position mgl32.Vec3, width, height float32) *Camera {
	c := &Camera{position: position, width: width, height: height}
	c.global = GlobalTransform(c.matrix())
	return c
}

// Position returns the camera position in world space.
func (c *Camera) Position() mgl32.Vec3 { return c.position }

// SetPosition moves the camera.
func (c *Camera) SetPosition(p mgl32.Vec3) {
	c.position = p
	c.dirty = true
}

// YawPitchRoll returns the orientation in radians.
func (c *Camera) YawPitchRoll() (yaw, pitch, roll float32) {
	return c.yaw, c.pitch, c.roll
}

// SetYawPitchRoll sets the orientation in radians. Finite yaw is wrapped
// into [0, 2π]; pitch is clamped to 0.1 radians short of straight up or down.
// Roll is stored as given.
func (c *Camera) SetYawPitchRoll(yaw, pitch, roll float32) {
	const twoPi = 2 * math.Pi
	if y := float64(yaw); !math.IsInf(y, 0) && (y < 0 || y > twoPi) {
		y = math.Mod(y, twoPi)
		if y < 0 {
			y += twoPi
		}
		yaw = float32(y)
	}

	limit := float32(math.Pi/2 - pitchMargin)
	c.yaw = yaw
	c.pitch = mgl32.Clamp(pitch, -limit, limit)
	c.roll = roll
	c.dirty = true
}

// ViewportSize returns the viewport width and height in pixels.
func (c *Camera) ViewportSize() (width, height float32) {
	return c.width, c.height
}

// OnResize records a new viewport size.
func (c *Camera) OnResize(width, height float32) {
	c.width = width
	c.height = height
	c.dirty = true
}

// Dirty reports whether the transform is stale.
func (c *Camera) Dirty() bool { return c.dirty }

// rotation is the YXZ Euler rotation: yaw about Y, then pitch about X,
// then roll about Z.
func (c *Camera) rotation() mgl32.Mat4 {
	return mgl32.HomogRotate3DY(c.yaw).
		Mul4(mgl32.HomogRotate3DX(c.pitch)).
		Mul4(mgl32.HomogRotate3DZ(c.roll))
}

// Facing returns the unit view direction.
func (c *Camera) Facing() mgl32.Vec3 {
	return c.rotation().Mul4x1(mgl32.Vec4{0, 0, 1, 0}).Vec3().Normalize()
}

// Up returns the unit camera up vector.
func (c *Camera) Up() mgl32.Vec3 {
	return c.rotation().Mul4x1(mgl32.Vec4{0, 1, 0, 0}).Vec3().Normalize()
}

// Projection returns the right-handed perspective projection with a
// [0, 1] depth range.
func (c *Camera) Projection() mgl32.Mat4 {
	return PerspectiveZO(mgl32.DegToRad(CameraFieldOfView), c.width/c.height, CameraNear, CameraFar)
}

// View returns the right-handed view matrix looking along Facing with +Y
// as the reference up direction.
func (c *Camera) View() mgl32.Mat4 {
	return LookTo(c.position, c.Facing(), mgl32.Vec3{0, 1, 0})
}

func (c *Camera) matrix() mgl32.Mat4 {
	return c.Projection().Mul4(c.View())
}

// Update recomputes the transform if anything changed since the last
// call and reports whether it did. Hosts re-upload the frame uniform
// only when Update returns true.
func (c *Camera) Update() bool {
	if !c.dirty {
		return false
	}
	c.global = GlobalTransform(c.matrix())
	c.dirty = false
	return true
}

// GlobalTransform returns the transform produced by the last Update.
func (c *Camera) GlobalTransform() GlobalTransform { return c.global }

// ScreenRay unprojects a screen position (pixels, origin top-left) into
// a world-space ray starting on the near plane. ok is false when the
// camera matrix cannot be inverted.
func (c *Camera) ScreenRay(x, y float32) (origin, dir mgl32.Vec3, ok bool) {
	m := c.matrix()
	if m.Det() == 0 {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	inv := m.Inv()

	ndcX := x*2/c.width - 1
	ndcY := (c.height-y)*2/c.height - 1

	near, ok := unproject(inv, mgl32.Vec3{ndcX, ndcY, 0})
	if !ok {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	far, ok := unproject(inv, mgl32.Vec3{ndcX, ndcY, 1})
	if !ok {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}

	d := far.Sub(near)
	l := d.Len()
	if l == 0 || math.IsInf(float64(l), 0) || math.IsNaN(float64(l)) {
		return mgl32.Vec3{}, mgl32.Vec3{}, false
	}
	return near, d.Mul(1 / l), true
}

func unproject(inv mgl32.Mat4, ndc mgl32.Vec3) (mgl32.Vec3, bool) {
	p := inv.Mul4x1(ndc.Vec4(1))
	if p[3] == 0 {
		return mgl32.Vec3{}, false
	}
	return p.Vec3().Mul(1 / p[3]), true
}

// PerspectiveZO returns a right-handed perspective projection mapping
// view-space depth [-near, -far] to clip depth [0, 1].
func PerspectiveZO(fovy, aspect, near, far float32) mgl32.Mat4 {
	f := 1 / float32(math.Tan(float64(fovy)/2))
	r := far / (near - far)
	return mgl32.Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, r, -1,
		0, 0, r * near, 0,
	}
}

// LookTo returns a right-handed view matrix for an eye at eye looking
// along dir.
func LookTo(eye, dir, up mgl32.Vec3) mgl32.Mat4 {
	f := dir.Normalize()
	s := f.Cross(up).Normalize()
	u := s.Cross(f)
	return mgl32.Mat4{
		s[0], u[0], -f[0], 0,
		s[1], u[1], -f[1], 0,
		s[2], u[2], -f[2], 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}
