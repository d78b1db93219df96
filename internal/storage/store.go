package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/kmviz/internal/scene"
)

const (
	metadataFile    = "metadata.json"
	assignmentsFile = "assignments.csv"
	centroidsFile   = "centroids.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunMetadata describes an exported labelling. Camera state is not stored.
type RunMetadata struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Timestamp     time.Time `json:"timestamp"`
	PointsFile    string    `json:"points_file,omitempty"`
	CentroidsFile string    `json:"centroids_file,omitempty"`
	Points        int       `json:"points"`
	Centroids     int       `json:"centroids"`
	Counts        []int     `json:"counts"`
	Inertia       float64   `json:"inertia"`
}

// Assignment is one labelled point as read back from a run.
type Assignment struct {
	Position mgl32.Vec3
	Centroid int
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'f', 6, 32)
}

// Save writes the scene's labelling into a new run directory and returns
// its id.
func (s *Store) Save(name string, sc *scene.Scene, meta RunMetadata) (string, error) {
	if err := sc.Validate(); err != nil {
		return "", err
	}
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Name = name
	meta.Timestamp = now
	meta.Points = len(sc.Points)
	meta.Centroids = len(sc.Centroids)
	meta.Counts = sc.Counts()
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	centroidRows := [][]string{{"index", "x", "y", "z", "color"}}
	for i, c := range sc.Centroids {
		p := c.Position
		centroidRows = append(centroidRows, []string{
			strconv.Itoa(i), formatFloat(p.X()), formatFloat(p.Y()), formatFloat(p.Z()),
			fmt.Sprintf("#%02x%02x%02x", c.Color.R, c.Color.G, c.Color.B),
		})
	}
	if err := writeCSV(filepath.Join(runDir, centroidsFile), centroidRows); err != nil {
		return "", err
	}

	rows := make([][]string, 0, len(sc.Points)+1)
	rows = append(rows, []string{"x", "y", "z", "centroid"})
	for _, pt := range sc.Points {
		p := pt.Position
		rows = append(rows, []string{formatFloat(p.X()), formatFloat(p.Y()), formatFloat(p.Z()), strconv.Itoa(pt.Centroid)})
	}
	if err := writeCSV(filepath.Join(runDir, assignmentsFile), rows); err != nil {
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Sync()
}

// List returns all readable runs, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadAssignments reads back the labelled points of a run.
func (s *Store) LoadAssignments(runID string) ([]Assignment, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, assignmentsFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = 4
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Assignment{}, nil
	}

	out := make([]Assignment, 0, len(records)-1)
	for i, record := range records[1:] {
		var a Assignment
		for j := 0; j < 3; j++ {
			v, err := strconv.ParseFloat(record[j], 32)
			if err != nil {
				return nil, fmt.Errorf("%s row %d: %w", assignmentsFile, i+2, err)
			}
			a.Position[j] = float32(v)
		}
		c, err := strconv.Atoi(record[3])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", assignmentsFile, i+2, err)
		}
		a.Centroid = c
		out = append(out, a)
	}
	return out, nil
}
