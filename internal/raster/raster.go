// Package raster implements the 2-D grayscale image the cascade matcher
// operates on: a rectangular grid of single-precision luminance samples in
// [0, 255], plus the handful of geometric operations (resize, rotate, blur)
// the orchestrator needs to build a scale/blur pyramid.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Luminance coefficients for BGR -> gray conversion (ITU-R BT.601).
const (
	coeffR = 0.299
	coeffG = 0.587
	coeffB = 0.114
)

// Raster is a rectangular grid of float32 luminance samples.
// Samples are NOT divided by 255; they stay in [0, 255].
type Raster struct {
	w, h int
	pix  []float32
}

// New allocates a zeroed raster of the given dimensions.
func New(w, h int) *Raster {
	return &Raster{w: w, h: h, pix: make([]float32, w*h)}
}

func (r *Raster) Width() int  { return r.w }
func (r *Raster) Height() int { return r.h }

// At returns the luminance sample at (x, y). Callers must not issue
// out-of-bounds reads; the cascade matcher guarantees this via the fit
// predicate, and this method does not bounds-check.
func (r *Raster) At(x, y int) float32 {
	return r.pix[y*r.w+x]
}

// Set writes the luminance sample at (x, y).
func (r *Raster) Set(x, y int, v float32) {
	r.pix[y*r.w+x] = v
}

// FromImage decodes a standard library image.Image (already BGR/RGB
// depending on source) into a luminance Raster using ConvertBGRToLuminance
// semantics: the caller is responsible for feeding bytes in B, G, R order
// when the source format is BGR (e.g. a raw BMP scanline); image.Image
// already exposes RGBA regardless of on-disk channel order, so here we
// apply the same weights to R, G, B channels as returned by At().
func FromImage(img image.Image) *Raster {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			rr, gg, bb, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// RGBA() returns 16-bit-scaled components; rescale to 8-bit.
			lum := coeffR*float32(rr>>8) + coeffG*float32(gg>>8) + coeffB*float32(bb>>8)
			out.Set(x, y, lum)
		}
	}
	return out
}

// ConvertBGRToLuminance converts a raw interleaved BGR byte buffer (one byte
// per channel, no padding) of the given width/height into a luminance
// Raster, using coefficients R=0.299, G=0.587, B=0.114. No
// division by 255 is applied.
func ConvertBGRToLuminance(bgr []byte, w, h int) (*Raster, error) {
	if len(bgr) < w*h*3 {
		return nil, fmt.Errorf("raster: BGR buffer too small for %dx%d image", w, h)
	}
	out := New(w, h)
	for y := 0; y < h; y++ {
		row := y * w * 3
		for x := 0; x < w; x++ {
			i := row + x*3
			b := float32(bgr[i+0])
			g := float32(bgr[i+1])
			r := float32(bgr[i+2])
			out.Set(x, y, coeffR*r+coeffG*g+coeffB*b)
		}
	}
	return out, nil
}

// toGray converts the Raster to an *image.Gray so it can be handed to
// disintegration/imaging, clamping samples into the valid byte range.
func (r *Raster) toGray() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, r.w, r.h))
	for y := 0; y < r.h; y++ {
		for x := 0; x < r.w; x++ {
			v := r.At(x, y)
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			g.SetGray(x, y, color.Gray{Y: uint8(v + 0.5)})
		}
	}
	return g
}

func fromGray(g *image.Gray) *Raster {
	bounds := g.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	out := New(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out.Set(x, y, float32(g.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y))
		}
	}
	return out
}

// Resize scales the raster by pct. Following the source convention: a
// positive pct is a percentage of the current size (100 = unchanged); a
// negative pct is interpreted as a scale factor in hundredths (e.g. -80
// means 0.80x), matching the orchestrator's scale-sweep usage where
// fractional scale factors are common.
func (r *Raster) Resize(pct float64) *Raster {
	var factor float64
	if pct < 0 {
		factor = -pct / 100.0
	} else {
		factor = pct / 100.0
	}
	newW := int(math.Round(float64(r.w) * factor))
	newH := int(math.Round(float64(r.h) * factor))
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}
	resized := imaging.Resize(r.toGray(), newW, newH, imaging.Linear)
	return fromGray(toGrayImage(resized))
}

// ResizeTo scales the raster by an explicit factor (e.g. 0.8 = 80%),
// used by the orchestrator's scale sweep.
func (r *Raster) ResizeTo(factor float64) *Raster {
	return r.Resize(-factor * 100)
}

// Rotate rotates the raster by degrees (bilinear), sizing the output to
// contain the full rotated content.
func (r *Raster) Rotate(degrees float64) *Raster {
	rotated := imaging.Rotate(r.toGray(), degrees, image.Black)
	return fromGray(toGrayImage(rotated))
}

// Blur applies a separable Gaussian blur with the given sigma.
func (r *Raster) Blur(sigma float64) *Raster {
	if sigma <= 0 {
		return r
	}
	blurred := imaging.Blur(r.toGray(), sigma)
	return fromGray(toGrayImage(blurred))
}

// toGrayImage re-wraps an *image.NRGBA (imaging's output type) back into a
// *image.Gray by reading the luminance-equal channel, since the inputs are
// already monochrome.
func toGrayImage(img *image.NRGBA) *image.Gray {
	bounds := img.Bounds()
	g := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			g.SetGray(x, y, color.Gray{Y: c.R})
		}
	}
	return g
}
