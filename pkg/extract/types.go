package extract

// Request carries per-batch extraction tuning.
type Request struct {
	ResponseLength ResponseLength
	ExtractEffort  ExtractEffort
}

// Document is a normalized extracted page. Metadata always contains a
// "source" key with the origin URL.
type Document struct {
	Content  string
	Metadata map[string]any
}

// BatchItem is one raw extraction result. Metadata is untyped because
// providers may send arbitrary JSON values; anything that is not an object
// gets ignored during normalization.
type BatchItem struct {
	URL      string
	Content  string
	Metadata any
}

// BatchResponse is a provider's answer for one batch of URLs.
type BatchResponse struct {
	Provider string
	Results  []BatchItem
	TookMs   int64
}
