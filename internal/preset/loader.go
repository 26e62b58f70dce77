package preset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/youruser/posterapp/internal/poster"
)

// ErrNoPresetFiles is returned when none of the preset CSVs exist.
var ErrNoPresetFiles = errors.New("no preset CSVs found")

// Preset files, loaded in order. Later files may override earlier names.
var presetFiles = []string{"presets.csv", "custom_presets.csv"}

func parseListCell(s string) []string {
	s = strings.ReplaceAll(s, "／", "/")
	out := []string{}
	for _, p := range strings.Split(s, "/") {
		t := strings.TrimSpace(p)
		if t != "" && t != "-" {
			out = append(out, t)
		}
	}
	return out
}

// LoadFromDataDir loads presets from the CSV files in dataDir. Missing files
// are skipped; if none exist ErrNoPresetFiles is returned. Rows that fail
// validation are rejected with the file name and line.
func LoadFromDataDir(dataDir string) ([]Preset, error) {
	var all []Preset
	var found bool
	for _, name := range presetFiles {
		path := filepath.Join(dataDir, name)
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		found = true
		ps, err := loadSingleCSV(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		all = append(all, ps...)
	}
	if !found {
		return nil, fmt.Errorf("%w in %s", ErrNoPresetFiles, dataDir)
	}
	return dedupe(all), nil
}

// dedupe keeps the last preset of each name at the position of the first.
func dedupe(ps []Preset) []Preset {
	idx := map[string]int{}
	out := make([]Preset, 0, len(ps))
	for _, p := range ps {
		key := strings.ToLower(p.Name)
		if i, ok := idx[key]; ok {
			out[i] = p
			continue
		}
		idx[key] = len(out)
		out = append(out, p)
	}
	return out
}

func loadSingleCSV(path string) ([]Preset, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	r := csv.NewReader(fp)
	r.FieldsPerRecord = -1
	r.Comment = '#'
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("csv %s has no header", path)
	}
	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols["name"]; !ok {
		return nil, fmt.Errorf("csv %s has no name column", path)
	}

	get := func(row []string, name string) string {
		if idx, ok := cols[name]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	out := []Preset{}
	for i, row := range rows[1:] {
		p := Preset{
			Name:   get(row, "name"),
			Tags:   parseListCell(get(row, "tags")),
			Source: filepath.Base(path),
		}
		if p.Name == "" {
			continue
		}
		params, err := parseParams(func(name string) string { return get(row, name) })
		if err != nil {
			return nil, fmt.Errorf("line %d (%s): %w", i+2, p.Name, err)
		}
		if err := params.Validate(); err != nil {
			return nil, fmt.Errorf("line %d (%s): %w", i+2, p.Name, err)
		}
		p.Params = params
		out = append(out, p)
	}
	return out, nil
}

// parseParams reads poster params from named cells; empty cells keep defaults.
func parseParams(get func(string) string) (poster.Params, error) {
	p := poster.DefaultParams()
	if v := get("text"); v != "" {
		p.Text = v
	}
	if v := get("text_color"); v != "" {
		p.TextColor = v
	}
	floats := map[string]*float64{"text_x": &p.TextX, "text_y": &p.TextY, "text_size": &p.TextSize}
	for name, dst := range floats {
		if v := get(name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return p, fmt.Errorf("%s: %w", name, err)
			}
			*dst = f
		}
	}
	if v := get("flower_count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return p, fmt.Errorf("flower_count: %w", err)
		}
		p.FlowerCount = n
	}
	if v := get("seed"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return p, fmt.Errorf("seed: %w", err)
		}
		p.Seed = n
	}
	return p, nil
}
