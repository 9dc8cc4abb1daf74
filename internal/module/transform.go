package module

import "math"

// Vec3 is a per-axis triple used by the point transforms.
type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) finite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// TranslatePoint adds a fixed offset to the input point.
type TranslatePoint struct {
	src    Module
	offset Vec3
}

// NewTranslatePoint creates a TranslatePoint transform.
func NewTranslatePoint(src Module, offset Vec3) (*TranslatePoint, error) {
	if err := requireSources("translate", src); err != nil {
		return nil, err
	}
	if !offset.finite() {
		return nil, configErr("translate", "offset must be finite, got %+v", offset)
	}
	return &TranslatePoint{src: src, offset: offset}, nil
}

// Offset returns the translation.
func (m *TranslatePoint) Offset() Vec3 { return m.offset }

// Sources implements Module.
func (m *TranslatePoint) Sources() []Module { return []Module{m.src} }

// Value implements Module.
func (m *TranslatePoint) Value(x, y, z float64) float64 {
	return m.src.Value(x+m.offset.X, y+m.offset.Y, z+m.offset.Z)
}

// ScalePoint multiplies the input point per axis.
type ScalePoint struct {
	src   Module
	scale Vec3
}

// NewScalePoint creates a ScalePoint transform.
func NewScalePoint(src Module, scale Vec3) (*ScalePoint, error) {
	if err := requireSources("scale", src); err != nil {
		return nil, err
	}
	if !scale.finite() {
		return nil, configErr("scale", "scale must be finite, got %+v", scale)
	}
	return &ScalePoint{src: src, scale: scale}, nil
}

// Scale returns the per-axis factors.
func (m *ScalePoint) Scale() Vec3 { return m.scale }

// Sources implements Module.
func (m *ScalePoint) Sources() []Module { return []Module{m.src} }

// Value implements Module.
func (m *ScalePoint) Value(x, y, z float64) float64 {
	return m.src.Value(x*m.scale.X, y*m.scale.Y, z*m.scale.Z)
}

// RotatePoint rotates the input point by Euler angles in degrees, applied
// about x, then y, then z.
type RotatePoint struct {
	src    Module
	angles Vec3
	m      [9]float64
}

// NewRotatePoint creates a RotatePoint transform.
func NewRotatePoint(src Module, angles Vec3) (*RotatePoint, error) {
	if err := requireSources("rotate", src); err != nil {
		return nil, err
	}
	if !angles.finite() {
		return nil, configErr("rotate", "angles must be finite, got %+v", angles)
	}

	const deg = math.Pi / 180
	xs, xc := math.Sincos(angles.X * deg)
	ys, yc := math.Sincos(angles.Y * deg)
	zs, zc := math.Sincos(angles.Z * deg)

	return &RotatePoint{
		src:    src,
		angles: angles,
		m: [9]float64{
			ys*xs*zs + yc*zc, xc * zs, ys*zc - yc*xs*zs,
			ys*xs*zc - yc*zs, xc * zc, -yc*xs*zc - ys*zs,
			-ys * xc, xs, yc * xc,
		},
	}, nil
}

// Angles returns the rotation in degrees.
func (m *RotatePoint) Angles() Vec3 { return m.angles }

// Sources implements Module.
func (m *RotatePoint) Sources() []Module { return []Module{m.src} }

// Value implements Module.
func (m *RotatePoint) Value(x, y, z float64) float64 {
	r := &m.m
	nx := r[0]*x + r[1]*y + r[2]*z
	ny := r[3]*x + r[4]*y + r[5]*z
	nz := r[6]*x + r[7]*y + r[8]*z
	return m.src.Value(nx, ny, nz)
}
