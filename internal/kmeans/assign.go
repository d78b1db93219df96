package kmeans

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/sync/errgroup"
)

// ErrNoCentroids indicates an assignment request against an empty centroid set.
var ErrNoCentroids = errors.New("kmeans: no centroids to assign to")

// ErrLabelMismatch indicates labels that do not line up with their points.
var ErrLabelMismatch = errors.New("kmeans: labels do not match points")

// parallelThreshold is the point count below which sharding is not worth it.
const parallelThreshold = 4096

func SquaredDistance(a, b mgl32.Vec3) float32 {
	d := a.Sub(b)
	return d.Dot(d)
}

// Nearest returns the index of the centroid closest to p by squared
// Euclidean distance. On an exact tie the centroid inserted first wins.
func Nearest(p mgl32.Vec3, centroids []mgl32.Vec3) (int, error) {
	if len(centroids) == 0 {
		return -1, ErrNoCentroids
	}
	best, bestDist := 0, SquaredDistance(p, centroids[0])
	for i := 1; i < len(centroids); i++ {
		if d := SquaredDistance(p, centroids[i]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, nil
}

// Assign labels every point with its nearest centroid.
func Assign(points, centroids []mgl32.Vec3) ([]int, error) {
	if len(centroids) == 0 {
		return nil, ErrNoCentroids
	}
	labels := make([]int, len(points))
	assignRange(points, centroids, labels, 0, len(points))
	return labels, nil
}

// AssignParallel produces the same labels as Assign, splitting the points
// into contiguous shards across workers goroutines. workers <= 0 uses
// runtime.NumCPU.
func AssignParallel(ctx context.Context, points, centroids []mgl32.Vec3, workers int) ([]int, error) {
	if len(centroids) == 0 {
		return nil, ErrNoCentroids
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if len(points) < parallelThreshold || workers == 1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return Assign(points, centroids)
	}

	labels := make([]int, len(points))
	chunk := (len(points) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < len(points); start += chunk {
		end := min(start+chunk, len(points))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			assignRange(points, centroids, labels, start, end)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return labels, nil
}

func assignRange(points, centroids []mgl32.Vec3, labels []int, start, end int) {
	for i := start; i < end; i++ {
		labels[i], _ = Nearest(points[i], centroids)
	}
}

// Inertia is the within-cluster sum of squared distances.
func Inertia(points, centroids []mgl32.Vec3, labels []int) (float64, error) {
	if len(labels) != len(points) {
		return 0, fmt.Errorf("%w: %d labels for %d points", ErrLabelMismatch, len(labels), len(points))
	}
	total := 0.0
	for i, p := range points {
		l := labels[i]
		if l < 0 || l >= len(centroids) {
			return 0, fmt.Errorf("%w: label %d at point %d", ErrLabelMismatch, l, i)
		}
		total += float64(SquaredDistance(p, centroids[l]))
	}
	return total, nil
}
