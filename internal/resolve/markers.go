package resolve

import (
	"regexp"
	"strings"
)

// markerRe matches {?description?} follow-up markers inside resolution
// text. A marker stands for information the author knows is still missing.
var markerRe = regexp.MustCompile(`\{\?(.*?)\?\}`)

// SplitMarkers separates resolution text into its concrete content and the
// descriptions of any follow-up markers. Marker descriptions are trimmed;
// the concrete remainder has marker sites removed and whitespace collapsed.
func SplitMarkers(text string) (clean string, markers []string) {
	for _, m := range markerRe.FindAllStringSubmatch(text, -1) {
		markers = append(markers, strings.TrimSpace(m[1]))
	}
	clean = markerRe.ReplaceAllString(text, " ")
	clean = strings.Join(strings.Fields(clean), " ")
	return clean, markers
}
