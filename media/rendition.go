// Package media implements the derived-media pipeline: decoding an
// uploaded image, normalizing it, and producing resized WebP renditions
// for delivery, plus the writer that persists those renditions through
// a storage backend.
package media

import (
	"fmt"

	"github.com/qrpstudio/media-services/constants"
)

// Rendition is one resized, re-encoded derivative of a source image.
// Immutable once produced.
type Rendition struct {
	// Kind is one of constants.KindThumbnail, KindMedium, KindFull
	// for set transcodes, or the caller's suffix for single-output
	// optimizations.
	Kind string

	// FileName is the generated output name, {base}_{suffix}.webp.
	FileName string

	// Width and Height are the pixel dimensions of the encoded image.
	Width  int
	Height int

	// Quality is the WebP quality the rendition was encoded at.
	Quality int

	// Data holds the encoded WebP bytes.
	Data []byte
}

// RenditionSet maps rendition kind to Rendition. A set always contains
// exactly the three kinds in constants.RenditionKinds; transcoding
// either produces all three or fails entirely.
type RenditionSet map[string]*Rendition

// Validate returns an error unless the set contains all three kinds
// with non-empty data.
func (set RenditionSet) Validate() error {
	for _, kind := range constants.RenditionKinds {
		r := set[kind]
		if r == nil || len(r.Data) == 0 {
			return fmt.Errorf("rendition set is missing kind %s", kind)
		}
	}
	return nil
}

// Thumbnail returns the thumbnail rendition.
func (set RenditionSet) Thumbnail() *Rendition {
	return set[constants.KindThumbnail]
}

// Medium returns the medium rendition.
func (set RenditionSet) Medium() *Rendition {
	return set[constants.KindMedium]
}

// Full returns the full rendition.
func (set RenditionSet) Full() *Rendition {
	return set[constants.KindFull]
}
