package images

import (
	"fmt"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
)

// Extensions lists the recognized input extensions, lowercase with the dot.
var Extensions = []string{".png", ".jpg", ".jpeg", ".tiff", ".bmp", ".gif", ".webp"}

// IsSupported reports whether name ends in a recognized image extension,
// ignoring case.
func IsSupported(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range Extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// DefaultFilter is the resampling filter used when none is configured.
const DefaultFilter = "lanczos"

var filters = map[string]imaging.ResampleFilter{
	"lanczos":           imaging.Lanczos,
	"catmullrom":        imaging.CatmullRom,
	"mitchellnetravali": imaging.MitchellNetravali,
	"linear":            imaging.Linear,
	"box":               imaging.Box,
	"nearest":           imaging.NearestNeighbor,
	"hermite":           imaging.Hermite,
	"bspline":           imaging.BSpline,
	"gaussian":          imaging.Gaussian,
	"bartlett":          imaging.Bartlett,
	"hann":              imaging.Hann,
	"hamming":           imaging.Hamming,
	"blackman":          imaging.Blackman,
	"welch":             imaging.Welch,
	"cosine":            imaging.Cosine,
}

// ParseFilter resolves a resampling filter by name. An empty name selects
// DefaultFilter.
func ParseFilter(name string) (imaging.ResampleFilter, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = DefaultFilter
	}
	f, ok := filters[key]
	if !ok {
		return imaging.ResampleFilter{}, fmt.Errorf("%w: unknown resample filter %q (want one of %s)",
			ErrConfig, name, strings.Join(FilterNames(), ", "))
	}
	return f, nil
}

// FilterNames returns the accepted filter names in sorted order.
func FilterNames() []string {
	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
