package export

import (
	"errors"
	"image/png"
	"io"

	"github.com/san-kum/kmviz/internal/render"
)

var ErrEmptyCanvas = errors.New("canvas has no pixels")

// WritePNG encodes the canvas as it currently stands.
func WritePNG(w io.Writer, c *render.Canvas) error {
	if c == nil || c.Width <= 0 || c.Height <= 0 {
		return ErrEmptyCanvas
	}
	return png.Encode(w, c)
}
