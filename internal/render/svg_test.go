package render

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/gantry/internal/contract"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/gantt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

func fixture() *contract.GanttResponse {
	a := domain.Task{ID: "a", Name: "Survey & <plan>", StartDate: day(3), EndDate: day(5), Progress: 50, Status: domain.TaskInProgress}
	b := domain.Task{ID: "b", Name: "Dig", StartDate: day(5), EndDate: day(7),
		Dependencies: []domain.Dependency{{PredecessorID: "a", SuccessorID: "b", Type: domain.FinishToStart}}}
	ph := domain.Task{ID: "ph", Name: "Phase", IsPhase: true, StartDate: day(3), EndDate: day(7)}
	all := []domain.Task{ph, a, b}
	cfg := gantt.Config{DayWidth: 20, RowHeight: 30}
	return &contract.GanttResponse{
		Project: &domain.Project{Name: "Site"},
		Layout:  gantt.Build(all, all, cfg, time.Time{}, 0, 0),
		Visible: all,
	}
}

func TestSVG_IsWellFormed(t *testing.T) {
	out := SVG(fixture(), DefaultOptions())

	dec := xml.NewDecoder(strings.NewReader(out))
	for {
		_, err := dec.Token()
		if err != nil {
			assert.Equal(t, "EOF", err.Error())
			break
		}
	}
}

func TestSVG_DrawsBarsArrowsAndEscapesNames(t *testing.T) {
	opts := DefaultOptions()
	out := SVG(fixture(), opts)

	assert.Contains(t, out, "Survey &amp; &lt;plan&gt;")
	assert.NotContains(t, out, "<plan>")
	assert.Equal(t, 1, strings.Count(out, "<polygon"), "one arrow head per arrow")
	assert.Contains(t, out, `id="a-b-finish_to_start"`)
	// Progress overlay only for the task with progress.
	assert.Equal(t, 1, strings.Count(out, `fill="#00000040"`))
	assert.Contains(t, out, `fill="#7c6f64"`, "phase bar")
	assert.Contains(t, out, "Mar 1")
}

func TestSVG_ArrowShiftedByGutterAndHeader(t *testing.T) {
	resp := fixture()
	opts := DefaultOptions()
	require.Len(t, resp.Layout.Arrows, 1)
	a := resp.Layout.Arrows[0]

	out := SVG(resp, opts)
	want := `x1="` + num(a.StartX+opts.LabelWidth) + `" y1="` + num(a.StartY+opts.HeaderHeight) + `"`
	assert.Contains(t, out, want)
}

func TestWriteFile_ReplacesAtomically(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chart.svg")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))

	require.NoError(t, WriteFile(path, fixture(), DefaultOptions()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<?xml"))
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "nope", "chart.svg"), fixture(), DefaultOptions())
	assert.Error(t, err)
}

func TestNum(t *testing.T) {
	assert.Equal(t, "0", num(0))
	assert.Equal(t, "100", num(100))
	assert.Equal(t, "12.5", num(12.5))
	assert.Equal(t, "3.33", num(10.0/3))
}
