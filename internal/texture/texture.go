// Package texture paints the crater lava texture: a hot radial gradient around an
// off-centre hole on a brown ground, optionally streaked with noise and softened.
package texture

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/image/tiff"

	"cray-scenes/internal/noise"
)

// Palette of the volcano texture.
var (
	// Ground fills the crater hole and everything beyond the lava ring.
	Ground = color.RGBA{39, 24, 4, 255}
	// Inner is the lava colour at the hole edge.
	Inner = color.RGBA{255, 255, 0, 255}
	// Outer is the lava colour at the outer edge of the ring.
	Outer = color.RGBA{255, 0, 0, 255}
)

// Noise configures the reddening overlay. Pixels are sampled at (x/Scale, y/Scale).
type Noise struct {
	Scale       float64
	Octaves     int
	Persistence float64
	Lacunarity  float64
}

// Options describes the texture. Hole and lava radii are in output pixels; the gradient
// centre sits OffsetX pixels right of the image centre.
type Options struct {
	Width, Height int
	OffsetX       float64
	HoleRadius    float64
	LavaRadius    float64

	Noise *Noise
	// Blur is the Gaussian blur radius; zero disables it.
	Blur float64
	// Supersample renders at this factor and scales down, smoothing the ring edges.
	Supersample int
}

// DefaultOptions is the 512x512 crater texture without noise or blur.
func DefaultOptions() Options {
	return Options{
		Width:      512,
		Height:     512,
		OffsetX:    10,
		HoleRadius: 18,
		LavaRadius: 75,
	}
}

// DefaultNoise is the overlay used when noise is switched on.
func DefaultNoise() *Noise {
	return &Noise{Scale: 10, Octaves: 6, Persistence: 0.5, Lacunarity: 2}
}

// Generate paints the texture.
func Generate(o Options) (image.Image, error) {
	if o.Width <= 0 || o.Height <= 0 {
		return nil, fmt.Errorf("texture: invalid size %dx%d", o.Width, o.Height)
	}
	if o.LavaRadius <= o.HoleRadius {
		return nil, fmt.Errorf("texture: lava radius %g must exceed hole radius %g", o.LavaRadius, o.HoleRadius)
	}
	ss := max(o.Supersample, 1)
	img := paint(o, ss)
	var out image.Image = img
	if ss > 1 {
		out = transform.Resize(img, o.Width, o.Height, transform.Linear)
	}
	if o.Blur > 0 {
		out = blur.Gaussian(out, o.Blur)
	}
	return out, nil
}

func paint(o Options, ss int) *image.RGBA {
	w, h := o.Width*ss, o.Height*ss
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	cx, cy := float64(o.Width/2), float64(o.Height/2)
	var no noise.Options
	if o.Noise != nil {
		no = noise.Options{Octaves: o.Noise.Octaves, Persistence: o.Noise.Persistence, Lacunarity: o.Noise.Lacunarity}
	}
	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			x := float64(px) / float64(ss)
			y := float64(py) / float64(ss)
			c := Gradient(math.Hypot(x-o.OffsetX-cx, y-cy), o.HoleRadius, o.LavaRadius)
			if o.Noise != nil {
				n := (noise.Fractal2(x/o.Noise.Scale, y/o.Noise.Scale, no) + 1) / 2
				c = Redden(c, n)
			}
			img.SetRGBA(px, py, c)
		}
	}
	return img
}

// Gradient returns the colour at distance dist from the crater centre: ground inside
// the hole and beyond the lava ring, and a yellow to red blend across the ring.
func Gradient(dist, hole, lava float64) color.RGBA {
	if dist <= hole || dist > lava {
		return Ground
	}
	t := (dist - hole) / (lava - hole)
	return color.RGBA{
		R: lerp(Inner.R, Outer.R, t),
		G: lerp(Inner.G, Outer.G, t),
		B: lerp(Inner.B, Outer.B, t),
		A: 255,
	}
}

// Redden mixes red into c by n in [0, 1] and darkens the other channels.
func Redden(c color.RGBA, n float64) color.RGBA {
	r := math.Min(float64(c.R)+n*255*0.5, 255)
	return color.RGBA{
		R: uint8(r),
		G: uint8(float64(c.G) * (1 - n*0.5)),
		B: uint8(float64(c.B) * (1 - n*0.5)),
		A: c.A,
	}
}

// lerp truncates toward zero like an int conversion of the blended channel.
func lerp(a, b uint8, t float64) uint8 {
	return uint8(int(float64(a) + (float64(b)-float64(a))*t))
}

// Encode writes img in the format named by ext (".jpg", ".jpeg", ".png", ".bmp", ".tif",
// ".tiff"). JPEG uses quality 95.
func Encode(w io.Writer, img image.Image, ext string) error {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return imgio.JPEGEncoder(95)(w, img)
	case ".png":
		return imgio.PNGEncoder()(w, img)
	case ".bmp":
		return imgio.BMPEncoder()(w, img)
	case ".tif", ".tiff":
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	}
	return fmt.Errorf("texture: unsupported image format %q", ext)
}

// Save writes img to path, choosing the format from the extension.
func Save(path string, img image.Image) error {
	ext := filepath.Ext(path)
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("texture: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("texture: %w", err)
	}
	if err := Encode(f, img, ext); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
