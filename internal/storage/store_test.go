package storage

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/kmviz/internal/scene"
)

func testScene() *scene.Scene {
	sc := scene.New(nil)
	a := sc.AddCentroid(mgl32.Vec3{0, 0, 0}, color.RGBA{255, 0, 0, 255})
	b := sc.AddCentroid(mgl32.Vec3{1, 1, 1}, color.RGBA{0, 255, 0, 255})
	_ = sc.AddPoint(mgl32.Vec3{0.1, 0.2, 0.3}, a)
	_ = sc.AddPoint(mgl32.Vec3{0.9, 1, 1.25}, b)
	_ = sc.AddPoint(mgl32.Vec3{1.5, 0.75, 1}, b)
	return sc
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	sc := testScene()
	runID, err := st.Save("iris", sc, RunMetadata{PointsFile: "p.txt", Inertia: 1.5})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Name != "iris" || meta.Points != 3 || meta.Centroids != 2 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.PointsFile != "p.txt" || meta.Inertia != 1.5 {
		t.Errorf("caller metadata lost: %+v", meta)
	}
	if len(meta.Counts) != 2 || meta.Counts[0] != 1 || meta.Counts[1] != 2 {
		t.Errorf("counts = %v", meta.Counts)
	}

	got, err := st.LoadAssignments(runID)
	if err != nil {
		t.Fatalf("load assignments failed: %v", err)
	}
	if len(got) != len(sc.Points) {
		t.Fatalf("got %d assignments, want %d", len(got), len(sc.Points))
	}
	for i, a := range got {
		p := sc.Points[i]
		if a.Centroid != p.Centroid || !a.Position.ApproxEqualThreshold(p.Position.Vec3(), 1e-6) {
			t.Errorf("assignment %d = %+v, want %v -> %d", i, a, p.Position, p.Centroid)
		}
	}

	if _, err := os.Stat(filepath.Join(st.baseDir, runID, centroidsFile)); err != nil {
		t.Errorf("centroid table missing: %v", err)
	}
}

func TestStoreList(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "runs"))

	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Fatalf("missing dir should list nothing, got %v %v", runs, err)
	}

	if err := st.Init(); err != nil {
		t.Fatal(err)
	}
	first, _ := st.Save("a", testScene(), RunMetadata{})
	second, _ := st.Save("b", testScene(), RunMetadata{})
	if err := os.Mkdir(filepath.Join(st.baseDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first || runs[1].ID != second {
		t.Errorf("runs not in save order: %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestStoreSave_RejectsInvalidScene(t *testing.T) {
	st := New(t.TempDir())
	sc := testScene()
	sc.Points[0].Centroid = 5
	if _, err := st.Save("bad", sc, RunMetadata{}); err == nil {
		t.Error("expected error for dangling centroid")
	}
}

func TestLoadAssignments_Missing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.LoadAssignments("nope"); err == nil {
		t.Error("expected error for missing run")
	}
}
