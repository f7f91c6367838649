package detail

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"groundcover/internal/meshing"
)

// FlatGround sprites float a touch above the terrain to dodge z-fighting.
const flatGroundLift = 0.02

var up = mgl32.Vec3{0, 1, 0}

// instanceColor derives the per-placement tint from the seed byte. The
// same byte that decided density inclusion picks the variation band, so a
// placement keeps its look at every density setting.
func instanceColor(t *Type, seed uint8, tint color.RGBA) color.RGBA {
	c := modulate(t.BaseColor, tint)
	s := int(seed)

	switch t.Category {
	case CategoryGrass:
		if s%10 == 0 {
			// Dead patch: tan blades mixed into the green.
			return color.RGBA{
				R: clamp8(180 + (s*7)%40),
				G: clamp8(140 + (s*11)%40),
				B: clamp8(80 + (s*13)%30),
				A: c.A,
			}
		}
		c.R = clamp8(int(c.R) + (s*7)%31 - 15)
		c.G = clamp8(int(c.G) + (s*13)%31 - 15)
		c.B = clamp8(int(c.B) + (s*19)%21 - 10)

	case CategoryPlants:
		switch s % 7 {
		case 0:
			// Yellow and orange blooms.
			c.R = clamp8(220 + (s*3)%35)
			c.G = clamp8(180 + (s*7)%50)
			c.B = clamp8(50 + (s*11)%40)
		case 1:
			// Blue and purple blooms.
			c.R = clamp8(140 + (s*5)%60)
			c.G = clamp8(100 + (s*9)%50)
			c.B = clamp8(200 + (s*13)%55)
		default:
			v := (s*7)%21 - 10
			c.R = clamp8(int(c.R) + v)
			c.G = clamp8(int(c.G) + v/2)
			c.B = clamp8(int(c.B) + v)
		}

	case CategoryRocks:
		if s%8 == 0 {
			// Mossy face.
			c.R = clamp8(100 + (s*5)%40)
			c.G = clamp8(130 + (s*9)%50)
			c.B = clamp8(90 + (s*7)%30)
		} else {
			v := (s*11)%41 - 20
			c.R = clamp8(int(c.R) + v)
			c.G = clamp8(int(c.G) + v)
			c.B = clamp8(int(c.B) + v)
		}

	case CategoryMushrooms:
		switch s % 5 {
		case 0:
			// Brown cap.
			c.R = clamp8(160 + (s*7)%40)
			c.G = clamp8(120 + (s*11)%40)
			c.B = clamp8(80 + (s*13)%30)
		case 1:
			// Pale cap.
			c.R = clamp8(220 + (s*3)%35)
			c.G = clamp8(215 + (s*5)%40)
			c.B = clamp8(200 + (s*7)%40)
		default:
			v := (s*7)%31 - 15
			c.R = clamp8(int(c.R) + v)
			c.G = clamp8(int(c.G) + v/2)
			c.B = clamp8(int(c.B) + v/2)
		}

	case CategoryDebris:
		v := (s*13)%41 - 20
		c.R = clamp8(int(c.R) + v)
		c.G = clamp8(int(c.G) + v*3/4)
		c.B = clamp8(int(c.B) + v/2)
	}

	return c
}

func modulate(base, tint color.RGBA) color.RGBA {
	return color.RGBA{
		R: uint8(int(base.R) * int(tint.R) / 255),
		G: uint8(int(base.G) * int(tint.G) / 255),
		B: uint8(int(base.B) * int(tint.B) / 255),
		A: base.A,
	}
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// appendPlacementGeometry emits the sprite for one placement and records
// its wind weights: zero for root and flat vertices, the type's response
// for tips.
func appendPlacementGeometry(buf *meshing.Buffer, influence *[]float32, p *Placement, t *Type, tint color.RGBA) {
	c := instanceColor(t, p.Seed, tint)
	uv := t.Tile.UV()
	half := p.Scale * 0.5

	sinR, cosR := math.Sincos(float64(p.Rotation))
	sr, cr := float32(sinR), float32(cosR)

	switch t.Orientation {
	case CrossedQuads:
		rise := mgl32.Vec3{0, p.Scale, 0}
		appendBladeQuad(buf, influence, p.Position, mgl32.Vec3{cr * half, 0, sr * half}, rise, up, c, uv, t.WindResponse)
		appendBladeQuad(buf, influence, p.Position, mgl32.Vec3{-sr * half, 0, cr * half}, rise, up, c, uv, t.WindResponse)

	case FlatGround:
		center := p.Position.Add(mgl32.Vec3{0, flatGroundLift, 0})
		// Rotated square corners on the ground plane.
		corners := [4]mgl32.Vec3{
			{-half*cr - half*sr, 0, -half*sr + half*cr},
			{half*cr - half*sr, 0, half*sr + half*cr},
			{half*cr + half*sr, 0, half*sr - half*cr},
			{-half*cr + half*sr, 0, -half*sr - half*cr},
		}
		buf.AppendDoubleQuad(
			meshing.Vertex{Pos: center.Add(corners[0]), Normal: up, Color: c, UV: mgl32.Vec2{uv.U0, uv.V0}},
			meshing.Vertex{Pos: center.Add(corners[1]), Normal: up, Color: c, UV: mgl32.Vec2{uv.U1, uv.V0}},
			meshing.Vertex{Pos: center.Add(corners[2]), Normal: up, Color: c, UV: mgl32.Vec2{uv.U1, uv.V1}},
			meshing.Vertex{Pos: center.Add(corners[3]), Normal: up, Color: c, UV: mgl32.Vec2{uv.U0, uv.V1}},
		)
		*influence = append(*influence, 0, 0, 0, 0)

	case SingleQuad:
		normal := mgl32.Vec3{-sr, 0, cr}
		appendBladeQuad(buf, influence, p.Position, mgl32.Vec3{cr * half, 0, sr * half}, mgl32.Vec3{0, p.Scale, 0}, normal, c, uv, t.WindResponse)
	}
}

// appendBladeQuad emits one vertical quad with rooted bottom vertices and
// swaying top vertices.
func appendBladeQuad(buf *meshing.Buffer, influence *[]float32, pos, right, rise, normal mgl32.Vec3, c color.RGBA, uv meshing.UVRect, windResponse float32) {
	buf.AppendDoubleQuad(
		meshing.Vertex{Pos: pos.Sub(right), Normal: normal, Color: c, UV: mgl32.Vec2{uv.U0, uv.V1}},
		meshing.Vertex{Pos: pos.Add(right), Normal: normal, Color: c, UV: mgl32.Vec2{uv.U1, uv.V1}},
		meshing.Vertex{Pos: pos.Add(right).Add(rise), Normal: normal, Color: c, UV: mgl32.Vec2{uv.U1, uv.V0}},
		meshing.Vertex{Pos: pos.Sub(right).Add(rise), Normal: normal, Color: c, UV: mgl32.Vec2{uv.U0, uv.V0}},
	)
	*influence = append(*influence, 0, 0, windResponse, windResponse)
}
