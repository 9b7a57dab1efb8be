package domsurface

import (
	"strconv"
	"strings"

	"github.com/matzehuels/canvasrender/pkg/surface"
)

// CSSFont formats f as a CSS font shorthand. Family names containing spaces
// are quoted unless already quoted.
func CSSFont(f surface.Font) string {
	weight := "normal"
	if f.Bold {
		weight = "bold"
	}
	families := strings.Split(f.Family, ",")
	for i, fam := range families {
		fam = strings.TrimSpace(fam)
		if strings.Contains(fam, " ") && !strings.ContainsAny(fam[:1], `"'`) {
			fam = strconv.Quote(fam)
		}
		families[i] = fam
	}
	return weight + " " + strconv.FormatFloat(f.Size, 'f', -1, 64) + "px " + strings.Join(families, ", ")
}
