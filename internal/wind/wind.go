// Package wind produces the global swaying field applied to detail
// geometry. The field is a pure function of accumulated time and world
// position, so every chunk samples a coherent traveling wave without any
// per-instance state.
package wind

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const tau = 2 * math.Pi

// Params describe one zone's wind. Direction is on the horizontal plane
// and is normalized when the field is configured.
type Params struct {
	Strength      float32
	Frequency     float32
	GustFrequency float32
	GustStrength  float32
	Direction     mgl32.Vec2
}

// DefaultParams is the wind used when a zone config does not override it.
func DefaultParams() Params {
	return Params{
		Strength:      1.0,
		Frequency:     0.5,
		GustFrequency: 0.1,
		GustStrength:  0.3,
		Direction:     mgl32.Vec2{1, 0.3},
	}
}

// Field accumulates time and evaluates displacement. Not safe for
// concurrent mutation; the detail manager owns it.
type Field struct {
	params Params
	time   float32
}

func NewField(p Params) *Field {
	f := &Field{}
	f.SetParams(p)
	return f
}

// SetParams swaps the wind configuration. Accumulated time is preserved so
// zone transitions do not snap vertices.
func (f *Field) SetParams(p Params) {
	if p.Direction.Len() > 1e-6 {
		p.Direction = p.Direction.Normalize()
	} else {
		p.Direction = mgl32.Vec2{1, 0}
	}
	f.params = p
}

func (f *Field) Params() Params { return f.params }

// Advance accumulates dt seconds of field time.
func (f *Field) Advance(dt float32) {
	f.time += dt
}

func (f *Field) Time() float32 { return f.time }

// Displacement samples the field at a world position. heightFactor is 0 at
// a blade's root and 1 at its tip; windResponse is the detail type's
// sensitivity. Either being zero pins the vertex.
func (f *Field) Displacement(pos mgl32.Vec3, heightFactor, windResponse float32) mgl32.Vec3 {
	if windResponse == 0 || heightFactor == 0 || f.params.Strength == 0 {
		return mgl32.Vec3{}
	}

	phase := pos.X()*0.1 + pos.Z()*0.13
	base := sin32(f.time*f.params.Frequency*tau + phase)
	gust := sin32(f.time*f.params.GustFrequency*tau+phase*0.3) * f.params.GustStrength

	wave := (base + gust) * f.params.Strength * windResponse * heightFactor * heightFactor

	return mgl32.Vec3{
		wave * f.params.Direction.X() * 0.15,
		-abs32(wave) * 0.02,
		wave * f.params.Direction.Y() * 0.15,
	}
}

func sin32(x float32) float32 { return float32(math.Sin(float64(x))) }

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
