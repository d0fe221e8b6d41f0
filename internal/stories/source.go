package stories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/andrej220/hamprobe/pkg/executor"
	dm "github.com/andrej220/hamprobe/pkg/shared-models"
)

const DefaultBaseURL = "https://hacker-news.firebaseio.com/v0"

// HNSource reads the Hacker News Firebase API, or anything that serves the
// same two documents.
type HNSource struct {
	baseURL string
	client  *executor.ResilientHTTPClient
}

var _ Source = (*HNSource)(nil)

func NewHNSource(baseURL string, client *executor.ResilientHTTPClient) *HNSource {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &HNSource{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (s *HNSource) TopStories(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := s.client.GetJSON(ctx, s.baseURL+"/topstories.json", &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// Item returns ErrBadItem for a null body, an undecodable body or a client
// error status; anything else is a transport failure.
func (s *HNSource) Item(ctx context.Context, id int64) (*dm.Item, error) {
	var item *dm.Item
	err := s.client.GetJSON(ctx, fmt.Sprintf("%s/item/%d.json", s.baseURL, id), &item)
	if err != nil {
		var se *executor.StatusError
		if errors.Is(err, executor.ErrDecode) || (errors.As(err, &se) && se.Permanent()) {
			return nil, fmt.Errorf("%w: %w", ErrBadItem, err)
		}
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: item %d not found", ErrBadItem, id)
	}
	return item, nil
}
