package preset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/youruser/posterapp/internal/poster"
)

const presetsCSV = `name,text,text_x,text_y,text_size,text_color,flower_count,seed,tags
# comment lines are skipped
Spring,Hello Spring,0,5.5,48,#336699,12,7,seasonal/bright
Quiet,,,,,,3,1,minimal
Birthday,Happy Birthday,0,-6,60,purple,20,2024,party／bright
`

const customCSV = `name,text,flower_count,seed
quiet,Shh,4,99
Custom,Mine,5,3
`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadFromDataDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "presets.csv", presetsCSV)

	ps, err := LoadFromDataDir(dir)
	require.NoError(t, err)
	require.Len(t, ps, 3)

	spring := ps[0]
	require.Equal(t, "Spring", spring.Name)
	require.Equal(t, poster.Params{
		Text: "Hello Spring", TextX: 0, TextY: 5.5, TextSize: 48, TextColor: "#336699", FlowerCount: 12, Seed: 7,
	}, spring.Params)
	require.Equal(t, []string{"seasonal", "bright"}, spring.Tags)
	require.Equal(t, "presets.csv", spring.Source)

	// empty cells fall back to defaults
	quiet := ps[1]
	d := poster.DefaultParams()
	require.Equal(t, d.Text, quiet.Params.Text)
	require.Equal(t, d.TextSize, quiet.Params.TextSize)
	require.Equal(t, 3, quiet.Params.FlowerCount)

	require.Equal(t, []string{"party", "bright"}, ps[2].Tags)
}

func TestLoadCustomOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "presets.csv", presetsCSV)
	writeFile(t, dir, "custom_presets.csv", customCSV)

	ps, err := LoadFromDataDir(dir)
	require.NoError(t, err)
	require.Len(t, ps, 4)

	q, ok := Find(ps, "Quiet")
	require.True(t, ok)
	require.Equal(t, "Shh", q.Params.Text)
	require.Equal(t, "custom_presets.csv", q.Source)
	// overridden preset keeps its position
	require.Equal(t, "quiet", ps[1].Name)
	require.Equal(t, "Custom", ps[3].Name)
}

func TestLoadErrors(t *testing.T) {
	_, err := LoadFromDataDir(t.TempDir())
	require.ErrorIs(t, err, ErrNoPresetFiles)

	dir := t.TempDir()
	writeFile(t, dir, "presets.csv", "name,flower_count\nTooMany,50\n")
	_, err = LoadFromDataDir(dir)
	require.ErrorIs(t, err, poster.ErrInvalidParams)

	dir = t.TempDir()
	writeFile(t, dir, "presets.csv", "name,seed\nBad,abc\n")
	_, err = LoadFromDataDir(dir)
	require.ErrorContains(t, err, "seed")

	dir = t.TempDir()
	writeFile(t, dir, "presets.csv", "text,seed\nHi,1\n")
	_, err = LoadFromDataDir(dir)
	require.ErrorContains(t, err, "no name column")
}

func TestFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "presets.csv", presetsCSV)
	ps, err := LoadFromDataDir(dir)
	require.NoError(t, err)

	names := func(ps []Preset) []string {
		out := []string{}
		for _, p := range ps {
			out = append(out, p.Name)
		}
		return out
	}

	require.Equal(t, []string{"Spring", "Quiet", "Birthday"}, names(Filter(ps, FilterOptions{})))
	require.Equal(t, []string{"Spring", "Birthday"}, names(Filter(ps, FilterOptions{Tags: []string{"BRIGHT"}})))
	require.Equal(t, []string{"Birthday"}, names(Filter(ps, FilterOptions{FreeWords: "happy"})))
	require.Equal(t, []string{"Spring"}, names(Filter(ps, FilterOptions{Tags: []string{"bright"}, FreeWords: "spring seasonal"})))
	require.Empty(t, Filter(ps, FilterOptions{FreeWords: "winter"}))

	_, ok := Find(ps, "nope")
	require.False(t, ok)
}

func TestExportText(t *testing.T) {
	p := poster.DefaultParams()
	require.Equal(t, "# Spring\ntext: Hello\nflowers: 8\nseed: 42", ExportText("Spring", p))
	require.Equal(t, "text: Hello\nflowers: 8\nseed: 42", ExportText("", p))
}
