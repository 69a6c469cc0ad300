// Package codec converts the raster formats accepted for upload into WebP.
package codec

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	nativewebp "github.com/HugoSmits86/nativewebp"
	"github.com/disintegration/imaging"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrUndecodable       = errors.New("cannot decode image")
	ErrTooLarge          = errors.New("image dimensions too large")
)

// Limits checked against the image header before any pixels are decoded.
// WebP stores each side in 14 bits, and a 64-megapixel NRGBA image already needs 256 MiB.
const (
	MaxDimension = 16384
	MaxPixels    = 64 << 20
)

// Format is one of the source formats an upload may be in. The zero value is not a valid format.
type Format int

const (
	PNG Format = iota + 1
	JPEG
	BMP
	TIFF
)

// ConvertedExt is the extension of every converted file.
const ConvertedExt = ".webp"

// Lower-cased extensions → source formats. “.jfif” is JPEG under another name.
var extensions = map[string]Format{
	".png":  PNG,
	".jpg":  JPEG,
	".jpeg": JPEG,
	".jfif": JPEG,
	".bmp":  BMP,
	".tiff": TIFF,
	".tif":  TIFF,
}

type decoder struct {
	config func(io.Reader) (image.Config, error)
	decode func(io.Reader) (image.Image, error)
}

var decoders = map[Format]decoder{
	PNG:  {png.DecodeConfig, png.Decode},
	JPEG: {jpeg.DecodeConfig, decodeJPEG},
	BMP:  {bmp.DecodeConfig, bmp.Decode},
	TIFF: {tiff.DecodeConfig, tiff.Decode},
}

func (f Format) String() string {
	switch f {
	case PNG:
		return "PNG"
	case JPEG:
		return "JPEG"
	case BMP:
		return "BMP"
	case TIFF:
		return "TIFF"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// FormatFromFilename picks the source format by the filename’s extension, ignoring case.
// Returns false for any extension outside the supported set.
func FormatFromFilename(name string) (Format, bool) {
	f, ok := extensions[strings.ToLower(filepath.Ext(name))]
	return f, ok
}

// SupportedExtensions lists accepted extensions, for use in an <input accept="…"> attribute.
func SupportedExtensions() []string {
	return []string{".png", ".jpg", ".jpeg", ".jfif", ".bmp", ".tiff", ".tif"}
}

// ConvertedName replaces the final extension of name with [ConvertedExt].
func ConvertedName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ConvertedExt
}

// Decode reads an image in the given format. The header is read first; images larger than
// [MaxDimension] on a side or [MaxPixels] in total fail with [ErrTooLarge] before decoding.
func Decode(f Format, r io.ReadSeeker) (image.Image, error) {
	d, ok := decoders[f]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}

	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	cfg, err := d.config(r)
	if err != nil {
		return nil, fmt.Errorf("%w as %s: %w", ErrUndecodable, f, err)
	}
	if err := checkDimensions(cfg); err != nil {
		return nil, err
	}
	if _, err := r.Seek(start, io.SeekStart); err != nil {
		return nil, err
	}

	img, err := d.decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w as %s: %w", ErrUndecodable, f, err)
	}
	return img, nil
}

func checkDimensions(cfg image.Config) error {
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension ||
		int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return fmt.Errorf("%w: %d×%d", ErrTooLarge, cfg.Width, cfg.Height)
	}
	return nil
}

// Cameras often store JPEGs sideways with an EXIF Orientation tag; WebP has no equivalent,
// so the rotation is applied to the pixels before re-encoding.
func decodeJPEG(r io.Reader) (image.Image, error) {
	return imaging.Decode(r, imaging.AutoOrientation(true))
}

// EncodeWebP writes img as a lossless WebP image.
func EncodeWebP(w io.Writer, img image.Image) error {
	if err := nativewebp.Encode(w, img, &nativewebp.Options{}); err != nil {
		return fmt.Errorf("failed to encode WebP: %w", err)
	}
	return nil
}

// Convert decodes src in the given format, & writes it to dst as WebP.
func Convert(dst io.Writer, src io.ReadSeeker, f Format) error {
	img, err := Decode(f, src)
	if err != nil {
		return err
	}
	return EncodeWebP(dst, img)
}
