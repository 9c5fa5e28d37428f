package render

// Color palettes by scheme name. Charts cycle through the slice when a
// result has more series than the palette has entries.
var palettes = map[string][]string{
	"default": {"#4E79A7", "#F28E2B", "#E15759", "#76B7B2", "#59A14F", "#EDC948", "#B07AA1", "#FF9DA7"},
	"warm":    {"#D62828", "#F77F00", "#FCBF49", "#EAE2B7", "#BC4749", "#E76F51"},
	"cool":    {"#0081A7", "#00AFB9", "#4CC9F0", "#4361EE", "#3A0CA3", "#7209B7"},
	"mono":    {"#212529", "#495057", "#6C757D", "#ADB5BD", "#CED4DA", "#DEE2E6"},
}

// Palette returns the colors for a scheme, falling back to the default
// scheme for unknown names.
func Palette(scheme string) []string {
	if p, ok := palettes[scheme]; ok {
		return p
	}
	return palettes["default"]
}

// SeriesColor returns the color for series index i under a scheme.
func SeriesColor(scheme string, i int) string {
	p := Palette(scheme)
	return p[i%len(p)]
}
