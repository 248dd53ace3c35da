// Package cleanup implements the orphaned-file reclamation protocol:
// a reference tracker that decides whether stored bytes are still
// named by any live record, a retrying deletion scheduler, and the
// lifecycle hooks that connect the two to record mutations.
package cleanup

import "github.com/qrpstudio/media-services/constants"

// ReferenceSite is one place in the record graph that names a stored
// file: a table column holding either a bare storage key or, when
// MatchSuffix is set, a full media URL whose tail is the key.
type ReferenceSite struct {
	Entity      string
	Table       string
	Column      string
	MatchSuffix bool
}

// DefaultReferenceSites returns the complete, static registry of
// file-bearing columns. The tracker is constructed with this table;
// adding a new file-bearing field to the record store means adding a
// row here.
func DefaultReferenceSites() []ReferenceSite {
	return []ReferenceSite{
		{Entity: constants.EntityTestimonial, Table: "testimonials", Column: "avatar"},
		{Entity: constants.EntityServiceGalleryImage, Table: "service_gallery_images", Column: "image"},
		{Entity: constants.EntityPortfolioImage, Table: "portfolio_images", Column: "image"},
		{Entity: constants.EntityVideo, Table: "videos", Column: "video_file"},
		{Entity: constants.EntityVideo, Table: "videos", Column: "thumbnail"},
		{Entity: constants.EntityMediaItem, Table: "media_items", Column: "file"},
		{Entity: constants.EntityPhoto, Table: "photos", Column: "url", MatchSuffix: true},
		{Entity: constants.EntityPhoto, Table: "photos", Column: "medium_url", MatchSuffix: true},
		{Entity: constants.EntityPhoto, Table: "photos", Column: "thumbnail_url", MatchSuffix: true},
	}
}
