package render

import (
	"image"
	"image/color"
)

// Canvas is a row-major RGBA pixel buffer. Writes outside the buffer are
// dropped, so callers may splat across the edges freely.
type Canvas struct {
	Width, Height int
	Pix           []color.RGBA
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{}
	c.Resize(w, h)
	return c
}

// Resize changes the buffer size. Contents are discarded whenever the size
// actually changes.
func (c *Canvas) Resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	if w == c.Width && h == c.Height && c.Pix != nil {
		return
	}
	c.Width, c.Height = w, h
	if cap(c.Pix) >= w*h {
		c.Pix = c.Pix[:w*h]
		clear(c.Pix)
		return
	}
	c.Pix = make([]color.RGBA, w*h)
}

func (c *Canvas) Clear(bg color.RGBA) {
	for i := range c.Pix {
		c.Pix[i] = bg
	}
}

func (c *Canvas) Set(x, y int, col color.RGBA) {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return
	}
	c.Pix[y*c.Width+x] = col
}

func (c *Canvas) RGBAAt(x, y int) color.RGBA {
	if x < 0 || y < 0 || x >= c.Width || y >= c.Height {
		return color.RGBA{}
	}
	return c.Pix[y*c.Width+x]
}

// FillSquare sets every pixel within half pixels of (cx, cy) on both axes.
func (c *Canvas) FillSquare(cx, cy, half int, col color.RGBA) {
	for y := cy - half; y <= cy+half; y++ {
		for x := cx - half; x <= cx+half; x++ {
			c.Set(x, y, col)
		}
	}
}

func (c *Canvas) ColorModel() color.Model { return color.RGBAModel }
func (c *Canvas) Bounds() image.Rectangle { return image.Rect(0, 0, c.Width, c.Height) }
func (c *Canvas) At(x, y int) color.Color { return c.RGBAAt(x, y) }
