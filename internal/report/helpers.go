package report

import (
	"encoding/json"
	"reflect"

	"github.com/samber/lo"

	"github.com/oxhq/covgroup/core"
)

// helpers is the coverage specific part of a renderer's function table.
func helpers() map[string]any {
	return map[string]any{
		"kebabCase":              lo.KebabCase,
		"objectLength":           objectLength,
		"json":                   toIndentedJSON,
		"coverageClass":          coverageClass,
		"maxPct":                 maxPct,
		"coverageClassForMaxPct": coverageClassForMaxPct,
		"coverageEmoji":          core.FloorWithGlyph,
		"formatPct":              core.FormatWithGlyph,
	}
}

// objectLength counts the entries of a map, 0 for anything else.
func objectLength(v any) int {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return 0
	}
	return rv.Len()
}

func toIndentedJSON(v any) (string, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func coverageClass(pct float64) string {
	return string(core.Classify(pct))
}

func maxPct(p core.CoveragePercentage) float64 {
	return p.Max()
}

func coverageClassForMaxPct(p core.CoveragePercentage) string {
	return coverageClass(p.Max())
}
