package preset

import "strings"

type FilterOptions struct {
	Tags      []string `form:"tags" json:"tags"`
	FreeWords string   `form:"q" json:"q"`
}

func containsAny(hay []string, needles []string) bool {
	for _, n := range needles {
		for _, h := range hay {
			if strings.EqualFold(h, n) {
				return true
			}
		}
	}
	return false
}

// Filter returns presets carrying any of opt.Tags whose name or caption text
// contains every word of opt.FreeWords.
func Filter(presets []Preset, opt FilterOptions) []Preset {
	out := []Preset{}
	kw := strings.Fields(strings.ToLower(opt.FreeWords))
	for _, p := range presets {
		if len(opt.Tags) > 0 && !containsAny(p.Tags, opt.Tags) {
			continue
		}
		ok := true
		for _, k := range kw {
			if !strings.Contains(strings.ToLower(p.Name), k) &&
				!strings.Contains(strings.ToLower(p.Params.Text), k) &&
				!strings.Contains(strings.ToLower(strings.Join(p.Tags, " ")), k) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, p)
		}
	}
	return out
}

// Find looks a preset up by name, case-insensitively.
func Find(presets []Preset, name string) (Preset, bool) {
	for _, p := range presets {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}
