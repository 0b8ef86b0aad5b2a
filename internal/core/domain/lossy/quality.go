package lossy

import (
	"imgpress/internal/core/domain"
	"maps"
	"strings"
)

const (
	High   = "high"
	Medium = domain.DefaultQuality
	Low    = "low"
)

var qualitySettings = map[string]int{
	High:   85,
	Medium: 65,
	Low:    45,
}

// QualityLevel maps a preset name to its encoder quality. Unknown names get the medium level.
func QualityLevel(name string) int {
	if q, ok := qualitySettings[strings.ToLower(name)]; ok {
		return q
	}

	return qualitySettings[Medium]
}

func QualityPresets() map[string]int {
	return maps.Clone(qualitySettings)
}

func IsQualityPreset(name string) bool {
	_, ok := qualitySettings[strings.ToLower(name)]
	return ok
}
