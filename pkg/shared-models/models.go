package datamodels

// ServerMetric is one synthetic utilization reading for a server.
type ServerMetric struct {
	Server string  `json:"server" validate:"required"`
	CPU    float64 `json:"cpu" validate:"gte=0,lte=100"`
}

// Item is the raw detail record returned by the per-item endpoint.
// Pointer fields distinguish an absent key from a zero value.
type Item struct {
	ID      int64   `json:"id"`
	Type    string  `json:"type,omitempty"`
	By      *string `json:"by,omitempty"`
	Title   *string `json:"title,omitempty"`
	URL     *string `json:"url,omitempty"`
	Score   *int    `json:"score,omitempty"`
	Deleted bool    `json:"deleted,omitempty"`
	Dead    bool    `json:"dead,omitempty"`
}

// StoryRecord is the trimmed story emitted by the fetcher. Fields missing
// from the source item stay missing in the output.
type StoryRecord struct {
	ID    int64   `json:"id" validate:"gt=0"`
	Title *string `json:"title,omitempty" validate:"required"`
	URL   *string `json:"url,omitempty"`
	Score *int    `json:"score,omitempty"`
	By    *string `json:"by,omitempty"`
}
