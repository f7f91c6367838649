// Package disturbance bends detail geometry away from actors moving
// through it. Active sources push blades outward every frame; where a
// source passed, a decaying residual keeps the blades bent for a short
// while so foliage does not snap upright the instant an actor leaves.
package disturbance

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Config tunes the response. Zero values disable the effect, so callers
// should start from DefaultConfig.
type Config struct {
	Enabled           bool    `yaml:"enabled"`
	PlayerRadius      float32 `yaml:"player_radius"`
	PlayerStrength    float32 `yaml:"player_strength"`
	VelocityInfluence float32 `yaml:"velocity_influence"`
	HeightExponent    float32 `yaml:"height_exponent"`
	MaxDisplacement   float32 `yaml:"max_displacement"`
	VerticalDipFactor float32 `yaml:"vertical_dip_factor"`
	RecoveryRate      float32 `yaml:"recovery_rate"`
}

func DefaultConfig() Config {
	return Config{
		Enabled:           true,
		PlayerRadius:      2.5,
		PlayerStrength:    1.0,
		VelocityInfluence: 0.5,
		HeightExponent:    1.5,
		MaxDisplacement:   0.4,
		VerticalDipFactor: 0.1,
		RecoveryRate:      0.8,
	}
}

// Source is one actor pressing on the foliage this frame. Sources are
// re-registered every frame; they carry no identity across frames.
type Source struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Radius   float32
	Strength float32
}

type residual struct {
	position  mgl32.Vec3
	direction mgl32.Vec2
	intensity float32
}

const (
	maxResiduals     = 500
	residualCellSize = 1.0
	// Residuals act over a smaller footprint than the live source that
	// spawned them.
	residualRadiusScale = 0.8
)

// Field holds this frame's sources and the persistent residual grid.
// Owned by the detail manager; not safe for concurrent use.
type Field struct {
	cfg       Config
	sources   []Source
	residuals map[int64]*residual
}

func NewField(cfg Config) *Field {
	return &Field{
		cfg:       cfg,
		residuals: make(map[int64]*residual),
	}
}

func (f *Field) Config() Config { return f.cfg }

func (f *Field) SetConfig(cfg Config) { f.cfg = cfg }

// ClearSources drops the previous frame's sources. Call once per frame
// before re-registering actors.
func (f *Field) ClearSources() {
	f.sources = f.sources[:0]
}

// AddSource registers an actor for this frame.
func (f *Field) AddSource(s Source) {
	if !f.cfg.Enabled {
		return
	}
	f.sources = append(f.sources, s)
}

func residualKey(x, z float32) int64 {
	ix := int32(math.Floor(float64(x) / residualCellSize))
	iz := int32(math.Floor(float64(z) / residualCellSize))
	return int64(ix)<<32 | int64(uint32(iz))
}

// Update deposits residuals under the current sources and decays every
// existing residual by recoveryRate*dt, dropping the ones that reach zero.
func (f *Field) Update(dt float32) {
	if !f.cfg.Enabled {
		return
	}

	for i := range f.sources {
		src := &f.sources[i]
		dir := pushDirection(mgl32.Vec2{1, 0}, src.Velocity, f.cfg.VelocityInfluence)
		key := residualKey(src.Position.X(), src.Position.Z())
		if r, ok := f.residuals[key]; ok {
			// Reinforce without stacking; repeated passes keep the bend
			// alive but never exceed the source strength.
			if src.Strength > r.intensity {
				r.intensity = src.Strength
			}
			r.position = src.Position
			r.direction = dir
		} else if len(f.residuals) < maxResiduals {
			f.residuals[key] = &residual{
				position:  src.Position,
				direction: dir,
				intensity: src.Strength,
			}
		}
	}

	decay := f.cfg.RecoveryRate * dt
	for key, r := range f.residuals {
		r.intensity -= decay
		if r.intensity <= 0 {
			delete(f.residuals, key)
		}
	}
}

// ResidualCount reports live residuals, for debug overlays and tests.
func (f *Field) ResidualCount() int { return len(f.residuals) }

// Clear drops all residuals, used on zone exit.
func (f *Field) Clear() {
	f.sources = f.sources[:0]
	f.residuals = make(map[int64]*residual)
}

// Displacement evaluates the combined push from live sources and
// residuals at a vertex position. heightFactor is 0 at the root and 1 at
// the tip of a blade.
func (f *Field) Displacement(pos mgl32.Vec3, heightFactor float32) mgl32.Vec3 {
	if !f.cfg.Enabled || heightFactor <= 0 {
		return mgl32.Vec3{}
	}

	heightScale := float32(math.Pow(float64(heightFactor), float64(f.cfg.HeightExponent)))
	var out mgl32.Vec3

	for i := range f.sources {
		src := &f.sources[i]
		dx := pos.X() - src.Position.X()
		dz := pos.Z() - src.Position.Z()
		dist := float32(math.Sqrt(float64(dx*dx + dz*dz)))
		if dist >= src.Radius || src.Radius <= 0 {
			continue
		}
		away := mgl32.Vec2{1, 0}
		if dist > 1e-4 {
			away = mgl32.Vec2{dx / dist, dz / dist}
		}
		dir := pushDirection(away, src.Velocity, f.cfg.VelocityInfluence)
		falloff := 1 - dist/src.Radius
		falloff *= falloff
		mag := falloff * src.Strength * heightScale
		out = out.Add(bend(dir, mag, f.cfg))
	}

	resRadius := f.cfg.PlayerRadius * residualRadiusScale
	if resRadius > 0 {
		for _, r := range f.residuals {
			dx := pos.X() - r.position.X()
			dz := pos.Z() - r.position.Z()
			dist := float32(math.Sqrt(float64(dx*dx + dz*dz)))
			if dist >= resRadius {
				continue
			}
			falloff := 1 - dist/resRadius
			falloff *= falloff
			mag := falloff * r.intensity * heightScale
			out = out.Add(bend(r.direction, mag, f.cfg))
		}
	}

	return out
}

// pushDirection blends a radial away vector with the source's travel
// direction so foliage lays down along the path of a moving actor.
func pushDirection(away mgl32.Vec2, velocity mgl32.Vec3, influence float32) mgl32.Vec2 {
	vel := mgl32.Vec2{velocity.X(), velocity.Z()}
	speed := vel.Len()
	if speed < 1e-4 || influence <= 0 {
		return away
	}
	blended := away.Add(vel.Mul(influence / speed))
	if blended.Len() < 1e-6 {
		return away
	}
	return blended.Normalize()
}

func bend(dir mgl32.Vec2, mag float32, cfg Config) mgl32.Vec3 {
	return mgl32.Vec3{
		dir.X() * mag * cfg.MaxDisplacement,
		-mag * cfg.VerticalDipFactor,
		dir.Y() * mag * cfg.MaxDisplacement,
	}
}
