package analysis

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"text/tabwriter"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/kmviz/internal/kmeans"
	"github.com/san-kum/kmviz/internal/scene"
)

// Cluster holds the statistics of one centroid and its points.
type Cluster struct {
	Index        int
	Position     mgl32.Vec3
	Color        color.RGBA
	Count        int
	MeanDistance float64 // mean Euclidean distance of members to the centroid
	MaxDistance  float64
}

type Summary struct {
	Points   int
	Clusters []Cluster
	Inertia  float64 // within-cluster sum of squared distances
	Min, Max mgl32.Vec3
}

// Summarize computes per-cluster statistics for a loaded scene.
func Summarize(sc *scene.Scene) (*Summary, error) {
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	sum := &Summary{Points: len(sc.Points), Clusters: make([]Cluster, len(sc.Centroids))}
	for i := range sc.Centroids {
		c := &sc.Centroids[i]
		sum.Clusters[i] = Cluster{Index: i, Position: c.Position.Vec3(), Color: c.Color}
	}

	positions := make([]mgl32.Vec3, len(sc.Points))
	labels := make([]int, len(sc.Points))
	for i := range sc.Points {
		p := &sc.Points[i]
		positions[i], labels[i] = p.Position.Vec3(), p.Centroid
		cl := &sum.Clusters[p.Centroid]
		d := math.Sqrt(float64(kmeans.SquaredDistance(positions[i], cl.Position)))
		cl.Count++
		cl.MeanDistance += d
		cl.MaxDistance = math.Max(cl.MaxDistance, d)
	}
	inertia, err := kmeans.Inertia(positions, sc.CentroidPositions(), labels)
	if err != nil {
		return nil, err
	}
	sum.Inertia = inertia
	for i := range sum.Clusters {
		if n := sum.Clusters[i].Count; n > 0 {
			sum.Clusters[i].MeanDistance /= float64(n)
		}
	}
	sum.Min, sum.Max, _ = sc.Bounds()
	return sum, nil
}

// Counts returns the cluster populations in centroid order.
func (s *Summary) Counts() []float64 {
	out := make([]float64, len(s.Clusters))
	for i, c := range s.Clusters {
		out[i] = float64(c.Count)
	}
	return out
}

// Largest returns the index of the most populated cluster, -1 if there are none.
func (s *Summary) Largest() int {
	best := -1
	for i, c := range s.Clusters {
		if best < 0 || c.Count > s.Clusters[best].Count {
			best = i
		}
	}
	return best
}

// Report writes a table of the clusters followed by totals.
func Report(w io.Writer, s *Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CENTROID\tPOSITION\tCOLOR\tPOINTS\tSHARE\tMEAN DIST\tMAX DIST")
	for _, c := range s.Clusters {
		share := 0.0
		if s.Points > 0 {
			share = 100 * float64(c.Count) / float64(s.Points)
		}
		fmt.Fprintf(tw, "%d\t(%.3f, %.3f, %.3f)\t#%02x%02x%02x\t%d\t%.1f%%\t%.4f\t%.4f\n",
			c.Index,
			c.Position.X(), c.Position.Y(), c.Position.Z(),
			c.Color.R, c.Color.G, c.Color.B,
			c.Count, share, c.MeanDistance, c.MaxDistance,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\npoints: %d  centroids: %d  inertia: %.4f\nbounds: (%.3f, %.3f, %.3f) .. (%.3f, %.3f, %.3f)\n",
		s.Points, len(s.Clusters), s.Inertia,
		s.Min.X(), s.Min.Y(), s.Min.Z(), s.Max.X(), s.Max.Y(), s.Max.Z()); err != nil {
		return err
	}
	if i := s.Largest(); i >= 0 {
		if _, err := fmt.Fprintf(w, "largest: centroid %d (%d points)\n", i, s.Clusters[i].Count); err != nil {
			return err
		}
	}
	return nil
}

// PlotCounts renders the cluster populations as an ASCII chart.
func PlotCounts(s *Summary, width, height int) string {
	data := s.Counts()
	if len(data) == 0 {
		return ""
	}
	if len(data) == 1 {
		data = append(data, data[0])
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("points per centroid"),
	)
}
