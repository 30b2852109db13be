package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/pipeflow/internal/dynamo"
	"github.com/san-kum/pipeflow/internal/models"
)

func sampleResult() *dynamo.Result {
	return &dynamo.Result{
		States: []dynamo.State{
			{0, 0, 101325, 101325},
			{1.5e-3, 0.21, 5.25e6, 5.1e6},
		},
		Times:      []float64{0, 1e-4},
		Metrics:    map[string]float64{"stroke": 1.5e-3},
		StepsTaken: 12,
		Rejected:   1,
	}
}

func sampleMeta() RunMetadata {
	return RunMetadata{
		Model:      "piston_valve",
		Seed:       42,
		Integrator: "rk45",
		Duration:   1e-4,
		Points:     2,
		Tolerance:  1e-6,
		Constants:  models.StandardConstants(),
		Labels:     []string{"x", "xdot", "p1", "p2"},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(sampleMeta(), sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := uuid.Parse(runID); err != nil {
		t.Errorf("expected uuid run id, got %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Model != "piston_valve" {
		t.Errorf("expected model 'piston_valve', got '%s'", meta.Model)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.StepsTaken != 12 || meta.Rejected != 1 {
		t.Errorf("expected 12/1 steps, got %d/%d", meta.StepsTaken, meta.Rejected)
	}
	if meta.Metrics["stroke"] != 1.5e-3 {
		t.Errorf("expected stroke 1.5e-3, got %g", meta.Metrics["stroke"])
	}
	if meta.Constants != models.StandardConstants() {
		t.Error("valve constants not preserved")
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		t.Fatalf("load states failed: %v", err)
	}
	if len(states) != 2 || len(times) != 2 {
		t.Fatalf("expected 2 samples, got %d states %d times", len(states), len(times))
	}
	want := sampleResult().States[1]
	for i := range want {
		if states[1][i] != want[i] {
			t.Errorf("component %d: got %g, want %g", i, states[1][i], want[i])
		}
	}
}

func TestStoreKeepsGivenID(t *testing.T) {
	st := New(t.TempDir())
	meta := sampleMeta()
	meta.ID = "fixed"

	runID, err := st.Save(meta, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID != "fixed" {
		t.Errorf("expected id 'fixed', got %q", runID)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	older := sampleMeta()
	older.Timestamp = time.Now().Add(-time.Hour)
	older.ID = "older"
	newer := sampleMeta()
	newer.ID = "newer"

	for _, m := range []RunMetadata{older, newer} {
		if _, err := st.Save(m, sampleResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	os.MkdirAll(filepath.Join(tmpDir, "junk"), 0755)

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "newer" {
		t.Errorf("expected newest first, got %s", runs[0].ID)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(sampleMeta(), sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, "metadata.json")); os.IsNotExist(err) {
		t.Error("metadata.json not created")
	}

	data, err := os.ReadFile(filepath.Join(runDir, "states.csv"))
	if err != nil {
		t.Fatalf("states.csv not created: %v", err)
	}
	header := strings.SplitN(string(data), "\n", 2)[0]
	if header != "time,x,xdot,p1,p2" {
		t.Errorf("unexpected header %q", header)
	}
}

func TestStoreMissingRun(t *testing.T) {
	st := New(t.TempDir())

	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, _, err := st.LoadStates("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if err := st.ExportCSV("nope", &bytes.Buffer{}); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestStoreExport(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(sampleMeta(), sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var csvBuf bytes.Buffer
	if err := st.ExportCSV(runID, &csvBuf); err != nil {
		t.Fatalf("export csv failed: %v", err)
	}
	if lines := strings.Count(csvBuf.String(), "\n"); lines != 3 {
		t.Errorf("expected 3 csv lines, got %d", lines)
	}

	var jsonBuf bytes.Buffer
	if err := st.ExportJSON(runID, &jsonBuf); err != nil {
		t.Fatalf("export json failed: %v", err)
	}
	var data ExportData
	if err := json.Unmarshal(jsonBuf.Bytes(), &data); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if data.ID != runID || data.Steps != 2 || len(data.States) != 2 {
		t.Errorf("unexpected export: id=%s steps=%d states=%d", data.ID, data.Steps, len(data.States))
	}
	if data.States[1][2] != 5.25e6 {
		t.Errorf("expected p1 5.25e6, got %g", data.States[1][2])
	}
}
