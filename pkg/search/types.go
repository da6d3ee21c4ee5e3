package search

// Request represents a normalized web search request.
type Request struct {
	Query      string
	Count      int
	FilterList []string
}

// Result is a normalized search result.
type Result struct {
	Link    string `json:"link"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Response is a normalized search response.
type Response struct {
	Query     string
	Provider  string
	Count     int
	TookMs    int64
	Results   []Result
	NoResults bool
}
