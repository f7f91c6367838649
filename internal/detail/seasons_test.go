package detail

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectKnownZones(t *testing.T) {
	var m SeasonMapper
	assert.Equal(t, SeasonSnow, m.Detect("frostfell"))
	assert.Equal(t, SeasonSnow, m.Detect("Tundra"))
	assert.Equal(t, SeasonAutumn, m.Detect("duskwood"))
	assert.Equal(t, SeasonDesert, m.Detect("redsands"))
	assert.Equal(t, SeasonSwamp, m.Detect("blackmire"))
	assert.Equal(t, SeasonDefault, m.Detect("meadow"))
}

func TestDetectByKeyword(t *testing.T) {
	var m SeasonMapper
	assert.Equal(t, SeasonSnow, m.Detect("westsnowplains"))
	assert.Equal(t, SeasonSnow, m.Detect("IceCavernEntrance"))
	assert.Equal(t, SeasonDesert, m.Detect("great_dune_sea"))
	assert.Equal(t, SeasonSwamp, m.Detect("southmarsh"))
	assert.Equal(t, SeasonSwamp, m.Detect("bogtown"))
	assert.Equal(t, SeasonDefault, m.Detect("greenfield"))
}

func TestOverrideWinsAndClears(t *testing.T) {
	var m SeasonMapper
	m.SetOverride(SeasonDesert)
	assert.Equal(t, SeasonDesert, m.Detect("frostfell"))

	s, ok := m.Override()
	assert.True(t, ok)
	assert.Equal(t, SeasonDesert, s)

	m.ClearOverride()
	assert.Equal(t, SeasonSnow, m.Detect("frostfell"))
	_, ok = m.Override()
	assert.False(t, ok)
}

func TestParseSeasonNames(t *testing.T) {
	assert.Equal(t, SeasonSnow, ParseSeason("winter"))
	assert.Equal(t, SeasonSnow, ParseSeason(" Snow "))
	assert.Equal(t, SeasonAutumn, ParseSeason("fall"))
	assert.Equal(t, SeasonDefault, ParseSeason("monsoon"))
}

func TestSeasonTints(t *testing.T) {
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, SeasonDefault.Tint())
	assert.Equal(t, color.RGBA{200, 220, 255, 255}, SeasonSnow.Tint())
	assert.Equal(t, color.RGBA{255, 230, 180, 255}, SeasonDesert.Tint())
}

func TestSeasonDensityMultipliers(t *testing.T) {
	assert.Equal(t, float32(1.0), SeasonDefault.DensityMultiplier())
	assert.Equal(t, float32(0.4), SeasonSnow.DensityMultiplier())
	assert.Equal(t, float32(0.2), SeasonDesert.DensityMultiplier())
	assert.Equal(t, float32(1.2), SeasonSwamp.DensityMultiplier())
	assert.Equal(t, float32(1.0), SeasonAutumn.DensityMultiplier())
}

func TestSeasonStrings(t *testing.T) {
	assert.Equal(t, "Default", SeasonDefault.String())
	assert.Equal(t, "Snow", SeasonSnow.String())
	assert.Equal(t, "Swamp", SeasonSwamp.String())
}
