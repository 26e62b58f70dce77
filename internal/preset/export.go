package preset

import (
	"strconv"
	"strings"

	"github.com/youruser/posterapp/internal/poster"
)

// ExportText renders the "current settings" summary shown next to a poster.
// Keeping the seed is enough to regenerate the same flowers later.
func ExportText(name string, p poster.Params) string {
	lines := []string{}
	if name != "" {
		lines = append(lines, "# "+name)
	}
	lines = append(lines,
		"text: "+p.Text,
		"flowers: "+strconv.Itoa(p.FlowerCount),
		"seed: "+strconv.FormatInt(p.Seed, 10),
	)
	return strings.Join(lines, "\n")
}
