// Package loader reads k-means output files and builds a labelled scene.
//
// Both input files hold one "x y z" triple per line. Blank lines are
// skipped; anything else that does not parse is reported as a [ParseError].
package loader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/kmviz/internal/kmeans"
	"github.com/san-kum/kmviz/internal/logging"
	"github.com/san-kum/kmviz/internal/scene"
)

var errFieldCount = errors.New("expected 3 values")

// maxLineSize bounds a single input line.
const maxLineSize = 1 << 20

type Options struct {
	Seed    int64 // seeds the centroid palette
	Workers int   // assignment workers, <= 0 uses all CPUs
}

// ReadVectors parses triples from r. source names the input in errors.
func ReadVectors(r io.Reader, source string) ([]mgl32.Vec3, error) {
	out := make([]mgl32.Vec3, 0, 256)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 3 {
			return nil, &ParseError{Source: source, Line: line, Err: errFieldCount}
		}
		var v mgl32.Vec3
		for i := 0; i < 3; i++ {
			f, err := strconv.ParseFloat(fields[i], 32)
			if err != nil {
				return nil, &ParseError{Source: source, Line: line, Token: fields[i], Err: err}
			}
			v[i] = float32(f)
		}
		out = append(out, v)
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &ParseError{Source: source, Line: line + 1, Err: err}
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrIO, source, err)
	}
	return out, nil
}

func ReadFile(path string) ([]mgl32.Vec3, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()
	return ReadVectors(f, path)
}

// Palette returns n opaque colors drawn from a source seeded with seed.
func Palette(n int, seed int64) []color.RGBA {
	r := rand.New(rand.NewSource(seed))
	out := make([]color.RGBA, n)
	for i := range out {
		v := r.Uint32()
		out[i] = color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
	}
	return out
}

// Build labels points against centroids and assembles the scene. The
// returned scene satisfies scene.Validate.
func Build(ctx context.Context, points, centroids []mgl32.Vec3, cam *scene.Camera, opts Options) (*scene.Scene, error) {
	labels, err := kmeans.AssignParallel(ctx, points, centroids, opts.Workers)
	if err != nil {
		return nil, err
	}

	s := scene.New(cam)
	s.Centroids = make([]scene.Centroid, 0, len(centroids))
	s.Points = make([]scene.Point, 0, len(points))
	for i, c := range Palette(len(centroids), opts.Seed) {
		s.AddCentroid(centroids[i], c)
	}
	for i, p := range points {
		if err := s.AddPoint(p, labels[i]); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Load reads both files and builds the scene. Centroids are read first so
// that an empty centroid file fails before the point file is parsed.
func Load(ctx context.Context, pointsPath, centroidsPath string, cam *scene.Camera, opts Options) (*scene.Scene, error) {
	log := logging.Logger()

	centroids, err := ReadFile(centroidsPath)
	if err != nil {
		return nil, err
	}
	if len(centroids) == 0 {
		return nil, fmt.Errorf("%s: %w", centroidsPath, kmeans.ErrNoCentroids)
	}
	points, err := ReadFile(pointsPath)
	if err != nil {
		return nil, err
	}
	log.Debug("parsed input", "points", len(points), "centroids", len(centroids))

	s, err := Build(ctx, points, centroids, cam, opts)
	if err != nil {
		return nil, err
	}
	log.Info("scene loaded", "points", len(s.Points), "centroids", len(s.Centroids))
	return s, nil
}
