package constants

const (
	EntityMediaItem           = "MediaItem"
	EntityPhoto               = "Photo"
	EntityPortfolioImage      = "PortfolioImage"
	EntityServiceGalleryImage = "ServiceGalleryImage"
	EntityTestimonial         = "Testimonial"
	EntityVideo               = "Video"
	KindFull                  = "full"
	KindMedium                = "medium"
	KindThumbnail             = "thumbnail"
	OutputExtension           = ".webp"
	StorageTypeLocal          = "local"
	StorageTypeS3             = "S3"
	TopicReoptimize           = "media_reoptimize"
)

// RenditionKinds lists the three kinds every RenditionSet must contain,
// in the order they appear in upload responses.
var RenditionKinds = []string{
	KindThumbnail,
	KindMedium,
	KindFull,
}

// RenditionBounds maps rendition kind to its bounding box (longest
// edge, in pixels). Sources smaller than the bound are never upscaled.
var RenditionBounds = map[string]int{
	KindThumbnail: 400,
	KindMedium:    1200,
	KindFull:      2400,
}

// RenditionQuality maps rendition kind to its WebP encoding quality.
var RenditionQuality = map[string]int{
	KindThumbnail: 80,
	KindMedium:    80,
	KindFull:      85,
}

// RenditionSuffixes maps rendition kind to the file name suffix used
// when naming output files ({base}_{suffix}.webp).
var RenditionSuffixes = map[string]string{
	KindThumbnail: "thumb",
	KindMedium:    "medium",
	KindFull:      "full",
}

const (
	// MaxDeleteAttempts is the number of times the deletion scheduler
	// will retry removal of a locked file before abandoning it.
	MaxDeleteAttempts = 8

	// DeleteBackoffBaseMs is the base for the exponential backoff
	// delay between delete attempts, in milliseconds.
	DeleteBackoffBaseMs = 500

	// DeleteBackoffMaxMs caps the backoff delay between delete
	// attempts, in milliseconds.
	DeleteBackoffMaxMs = 30000
)
