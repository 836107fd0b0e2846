// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging decodes stored pictures, renders renditions for filter
// specs and draws the placeholder images used by the seed generator.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder

	"github.com/olegiv/bakery/internal/model"
)

// ErrUnsupportedFormat is returned for data that is not JPEG, PNG, GIF or WebP.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// DefaultQuality is the JPEG quality of originals and renditions.
const DefaultQuality = 85

// Result is an encoded image with its dimensions.
type Result struct {
	Data     []byte
	Width    int
	Height   int
	MimeType string
	Format   string
}

// Processor handles image operations in pure Go.
type Processor struct {
	quality int
}

// NewProcessor returns a processor encoding JPEGs at quality (0 = default).
func NewProcessor(quality int) *Processor {
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &Processor{quality: quality}
}

// Process decodes an uploaded image, applies its EXIF orientation and
// re-encodes it without metadata.
func (p *Processor) Process(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}

	format := detectFormat(data)
	if format == "" {
		return nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	return p.encode(img, format)
}

// Render produces the rendition of source described by spec. Renditions
// never upscale.
func (p *Processor) Render(source []byte, spec model.FilterSpec) (*Result, error) {
	format := detectFormat(source)
	if format == "" {
		return nil, ErrUnsupportedFormat
	}
	img, err := imaging.Decode(bytes.NewReader(source))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch spec.Op {
	case model.FilterOriginal:
	case model.FilterFill:
		tw, th := spec.Width, spec.Height
		if tw > w || th > h {
			// Shrink the crop box to fit while keeping its aspect ratio.
			scale := min(float64(w)/float64(tw), float64(h)/float64(th))
			tw, th = max(1, int(float64(tw)*scale)), max(1, int(float64(th)*scale))
		}
		img = imaging.Fill(img, tw, th, imaging.Center, imaging.Lanczos)
	case model.FilterMax:
		if w > spec.Width || h > spec.Height {
			img = imaging.Fit(img, spec.Width, spec.Height, imaging.Lanczos)
		}
	case model.FilterWidth:
		if w > spec.Width {
			img = imaging.Resize(img, spec.Width, 0, imaging.Lanczos)
		}
	case model.FilterHeight:
		if h > spec.Height {
			img = imaging.Resize(img, 0, spec.Height, imaging.Lanczos)
		}
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidFilterSpec, spec.Op)
	}

	return p.encode(img, format)
}

// Placeholder draws a width x height PNG: a diagonal gradient between two
// colours with a centred square.
func (p *Processor) Placeholder(width, height int, from, to color.NRGBA) (*Result, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid placeholder size %dx%d", width, height)
	}

	img := imaging.New(width, height, from)
	span := float64(width + height)
	for y := range height {
		for x := range width {
			t := float64(x+y) / span
			img.SetNRGBA(x, y, color.NRGBA{
				R: lerp(from.R, to.R, t),
				G: lerp(from.G, to.G, t),
				B: lerp(from.B, to.B, t),
				A: 255,
			})
		}
	}
	side := min(width, height) / 3
	square := imaging.New(side, side, color.NRGBA{R: 255, G: 255, B: 255, A: 160})
	composed := imaging.OverlayCenter(img, square, 0.6)

	return p.encode(composed, "png")
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

// DecodeConfig reads only the header of an image to get its size.
func DecodeConfig(r io.Reader) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, fmt.Errorf("reading image config: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// IsImage reports whether mimeType can be processed.
func IsImage(mimeType string) bool {
	switch mimeType {
	case model.MimeTypeJPEG, model.MimeTypePNG, model.MimeTypeGIF, model.MimeTypeWebP:
		return true
	default:
		return false
	}
}

// RenditionKey names the storage key of a rendition of an original image
// key, e.g. "original_images/rye.jpg" + fill-50x50 gives
// "images/rye.fill-50x50.jpg". WebP originals are rendered as JPEG.
func RenditionKey(originalKey string, spec model.FilterSpec) string {
	base := path.Base(originalKey)
	ext := path.Ext(base)
	name := strings.TrimSuffix(base, ext)
	if strings.EqualFold(ext, ".webp") {
		ext = ".jpg"
	}
	return path.Join(model.RenditionsDir, name+"."+spec.String()+ext)
}

func (p *Processor) encode(img image.Image, format string) (*Result, error) {
	var buf bytes.Buffer
	mimeType := model.MimeTypeJPEG

	switch format {
	case "png":
		mimeType = model.MimeTypePNG
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encoding png: %w", err)
		}
	case "gif":
		mimeType = model.MimeTypeGIF
		if err := gif.Encode(&buf, img, nil); err != nil {
			return nil, fmt.Errorf("encoding gif: %w", err)
		}
	default:
		// There is no pure Go WebP encoder, so WebP is stored as JPEG.
		format = "jpeg"
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: p.quality}); err != nil {
			return nil, fmt.Errorf("encoding jpeg: %w", err)
		}
	}

	b := img.Bounds()
	return &Result{
		Data:     buf.Bytes(),
		Width:    b.Dx(),
		Height:   b.Dy(),
		MimeType: mimeType,
		Format:   format,
	}, nil
}

// readExifOrientation returns 1 when the orientation cannot be read.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation undoes EXIF orientations 2 to 8.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// TIFF is rejected outright (CVE-2023-36308 in disintegration/imaging).
	switch {
	case strings.Contains(contentType, "tiff"):
		return ""
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}
