package detail

import (
	"image/color"
	"strings"
)

// Season shifts a zone's palette and vegetation density without needing a
// separate config per zone.
type Season uint8

const (
	SeasonDefault Season = iota
	SeasonSnow
	SeasonAutumn
	SeasonDesert
	SeasonSwamp
)

func (s Season) String() string {
	switch s {
	case SeasonSnow:
		return "Snow"
	case SeasonAutumn:
		return "Autumn"
	case SeasonDesert:
		return "Desert"
	case SeasonSwamp:
		return "Swamp"
	}
	return "Default"
}

// ParseSeason resolves a config season name; unknown names mean Default.
func ParseSeason(name string) Season {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "snow", "winter":
		return SeasonSnow
	case "autumn", "fall":
		return SeasonAutumn
	case "desert":
		return SeasonDesert
	case "swamp":
		return SeasonSwamp
	}
	return SeasonDefault
}

// Known zones with a fixed season. Zones not listed fall through to
// keyword matching on the name.
var zoneSeasons = map[string]Season{
	"frostfell":   SeasonSnow,
	"tundra":      SeasonSnow,
	"icereach":    SeasonSnow,
	"glacierpass": SeasonSnow,
	"northkeep":   SeasonSnow,
	"duskwood":    SeasonAutumn,
	"emberfall":   SeasonAutumn,
	"redsands":    SeasonDesert,
	"sunscorch":   SeasonDesert,
	"oasis":       SeasonDesert,
	"blackmire":   SeasonSwamp,
	"mosswater":   SeasonSwamp,
	"fenwood":     SeasonSwamp,
}

var seasonKeywords = []struct {
	keyword string
	season  Season
}{
	{"snow", SeasonSnow},
	{"frost", SeasonSnow},
	{"ice", SeasonSnow},
	{"autumn", SeasonAutumn},
	{"desert", SeasonDesert},
	{"dune", SeasonDesert},
	{"swamp", SeasonSwamp},
	{"mire", SeasonSwamp},
	{"marsh", SeasonSwamp},
	{"bog", SeasonSwamp},
}

// SeasonMapper decides the active season for a zone. A manual override,
// set from a debug command, wins over the zone tables.
type SeasonMapper struct {
	override    Season
	hasOverride bool
}

// Detect returns the season for a zone name. Matching is case-insensitive:
// exact table entries first, then keyword containment, then Default.
func (m *SeasonMapper) Detect(zoneName string) Season {
	if m.hasOverride {
		return m.override
	}
	name := strings.ToLower(zoneName)
	if s, ok := zoneSeasons[name]; ok {
		return s
	}
	for _, kw := range seasonKeywords {
		if strings.Contains(name, kw.keyword) {
			return kw.season
		}
	}
	return SeasonDefault
}

func (m *SeasonMapper) SetOverride(s Season) {
	m.override = s
	m.hasOverride = true
}

func (m *SeasonMapper) ClearOverride() {
	m.hasOverride = false
}

func (m *SeasonMapper) Override() (Season, bool) {
	return m.override, m.hasOverride
}

// Tint returns the vertex color modulation for a season. Default is
// identity white.
func (s Season) Tint() color.RGBA {
	switch s {
	case SeasonSnow:
		return color.RGBA{200, 220, 255, 255}
	case SeasonDesert:
		return color.RGBA{255, 230, 180, 255}
	case SeasonSwamp:
		return color.RGBA{180, 200, 150, 255}
	case SeasonAutumn:
		return color.RGBA{255, 200, 150, 255}
	}
	return color.RGBA{255, 255, 255, 255}
}

// DensityMultiplier scales vegetation amount per season. Deserts are near
// barren, swamps overgrow.
func (s Season) DensityMultiplier() float32 {
	switch s {
	case SeasonSnow:
		return 0.4
	case SeasonDesert:
		return 0.2
	case SeasonSwamp:
		return 1.2
	}
	return 1.0
}
