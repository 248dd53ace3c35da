package media

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	"golang.org/x/sync/errgroup"

	// Registers WebP decoding so imaging.Decode accepts WebP input.
	_ "golang.org/x/image/webp"

	"github.com/qrpstudio/media-services/constants"
	"github.com/qrpstudio/media-services/util"
)

// OptimizeSpec describes the single rendition produced by Optimize,
// for callers that want one optimized copy rather than a full set.
type OptimizeSpec struct {
	// Bound is the bounding box (longest edge, pixels).
	Bound int

	// Quality is the WebP encoding quality (1-100).
	Quality int

	// Suffix is appended to the base file name, e.g. "opt" produces
	// {base}_opt.webp. Empty means no suffix: {base}.webp.
	Suffix string
}

// Transcode decodes an uploaded image, normalizes it, and produces the
// three standard renditions concurrently. It either returns a complete
// RenditionSet or an error; partial sets are never returned. Pure
// computation, no I/O beyond the input buffer.
func Transcode(data []byte, filename string) (RenditionSet, error) {
	img, err := normalize(data)
	if err != nil {
		return nil, &ProcessingError{Filename: filename, Op: "decode", Err: err}
	}
	baseName := util.BaseNameWithoutExtension(filename)

	renditions := make([]*Rendition, len(constants.RenditionKinds))
	var group errgroup.Group
	for i, kind := range constants.RenditionKinds {
		i, kind := i, kind
		group.Go(func() error {
			r, encErr := encodeRendition(img, kind, baseName)
			if encErr != nil {
				return encErr
			}
			renditions[i] = r
			return nil
		})
	}
	if err = group.Wait(); err != nil {
		return nil, &ProcessingError{Filename: filename, Op: "encode", Err: err}
	}

	set := make(RenditionSet, len(renditions))
	for _, r := range renditions {
		set[r.Kind] = r
	}
	return set, set.Validate()
}

// Optimize runs the same normalization pipeline as Transcode but
// produces exactly one rendition described by spec.
func Optimize(data []byte, filename string, spec OptimizeSpec) (*Rendition, error) {
	img, err := normalize(data)
	if err != nil {
		return nil, &ProcessingError{Filename: filename, Op: "decode", Err: err}
	}
	resized := imaging.Fit(img, spec.Bound, spec.Bound, imaging.Lanczos)
	encoded, err := encodeWebP(resized, spec.Quality)
	if err != nil {
		return nil, &ProcessingError{Filename: filename, Op: "encode", Err: err}
	}
	name := util.BaseNameWithoutExtension(filename)
	kind := spec.Suffix
	if kind == "" {
		kind = "optimized"
	}
	if spec.Suffix != "" {
		name = fmt.Sprintf("%s_%s", name, spec.Suffix)
	}
	bounds := resized.Bounds()
	return &Rendition{
		Kind:     kind,
		FileName: name + constants.OutputExtension,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Quality:  spec.Quality,
		Data:     encoded,
	}, nil
}

// Dimensions decodes just enough of data to report the source image's
// width and height.
func Dimensions(data []byte) (width, height int, err error) {
	config, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, err
	}
	return config.Width, config.Height, nil
}

// normalize decodes the source bytes, applies any EXIF orientation
// (missing or unreadable metadata is non-fatal), and flattens the image
// onto an opaque white background so no rendition carries transparency
// or palette artifacts.
func normalize(data []byte) (*image.NRGBA, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}
	return flattenOnWhite(img), nil
}

// flattenOnWhite composites img over an opaque white background and
// returns a plain NRGBA image.
func flattenOnWhite(img image.Image) *image.NRGBA {
	bounds := img.Bounds()
	background := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	return imaging.Overlay(background, img, image.Pt(0, 0), 1.0)
}

// encodeRendition scales the normalized image for the given kind and
// encodes it as WebP. Fit preserves aspect ratio and never upscales.
func encodeRendition(img *image.NRGBA, kind, baseName string) (*Rendition, error) {
	bound := constants.RenditionBounds[kind]
	quality := constants.RenditionQuality[kind]
	resized := imaging.Fit(img, bound, bound, imaging.Lanczos)
	encoded, err := encodeWebP(resized, quality)
	if err != nil {
		return nil, fmt.Errorf("encoding %s rendition: %w", kind, err)
	}
	bounds := resized.Bounds()
	return &Rendition{
		Kind:     kind,
		FileName: fmt.Sprintf("%s_%s%s", baseName, constants.RenditionSuffixes[kind], constants.OutputExtension),
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Quality:  quality,
		Data:     encoded,
	}, nil
}

// encodeWebP encodes img as lossy WebP at the given quality. The photo
// preset trades encode time for smaller output, which is the right
// trade here: this runs once per upload, not per request.
func encodeWebP(img image.Image, quality int) ([]byte, error) {
	options, err := encoder.NewLossyEncoderOptions(encoder.PresetPhoto, float32(quality))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err = webp.Encode(&buf, img, options); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
