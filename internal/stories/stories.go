// Package stories fetches the current top stories from a ranking endpoint
// and trims each one down to a small record.
package stories

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/andrej220/hamprobe/internal/lg"
	"github.com/andrej220/hamprobe/pkg/config/filestore"
	"github.com/andrej220/hamprobe/pkg/executor"
	dm "github.com/andrej220/hamprobe/pkg/shared-models"
	"github.com/andrej220/hamprobe/pkg/workerpool"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFile = "config.txt"
	DefaultWorkers    = 8
)

var (
	ErrConfigInvalid = errors.New("invalid story count configuration")
	ErrFetchFailed   = errors.New("fetch failed")
	// ErrBadItem marks a detail record that is skipped rather than failing the run.
	ErrBadItem = errors.New("malformed item")
)

var validate = validator.New()

// Options configures a fetcher run.
type Options struct {
	ConfigFile string        `validate:"required"`
	BaseURL    string        `validate:"required,url"`
	Timeout    time.Duration `validate:"gt=0"`
	Workers    int           `validate:"gte=1,lte=10"`
	Retries    uint64        `validate:"lte=10"`
}

// Source provides the ranked id list and per-id detail records.
type Source interface {
	TopStories(ctx context.Context) ([]int64, error)
	Item(ctx context.Context, id int64) (*dm.Item, error)
}

// ReadCount loads the number of stories to fetch. The file must hold a
// single non-negative decimal integer; YAML's hex, octal and underscore
// forms are rejected and leading zeros are read as decimal.
func ReadCount(path string) (int, error) {
	var doc yaml.Node
	if err := filestore.New(path).Load(&doc); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrConfigInvalid, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return 0, fmt.Errorf("%w: %s: expected a single value", ErrConfigInvalid, path)
	}
	node := doc.Content[0]
	if node.Kind != yaml.ScalarNode || node.Tag != "!!int" {
		return 0, fmt.Errorf("%w: %s: %q is not an integer", ErrConfigInvalid, path, node.Value)
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(node.Value, "+"), 10, strconv.IntSize-1)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %q is not a non-negative decimal integer", ErrConfigInvalid, path, node.Value)
	}
	return int(n), nil
}

// Project trims item down to a StoryRecord. Absent fields stay absent.
func Project(item *dm.Item) (dm.StoryRecord, error) {
	if item == nil {
		return dm.StoryRecord{}, fmt.Errorf("%w: empty record", ErrBadItem)
	}
	if item.Deleted || item.Dead {
		return dm.StoryRecord{}, fmt.Errorf("%w: item %d is deleted or dead", ErrBadItem, item.ID)
	}
	rec := dm.StoryRecord{
		ID:    item.ID,
		Title: item.Title,
		URL:   item.URL,
		Score: item.Score,
		By:    item.By,
	}
	if err := validate.Struct(rec); err != nil {
		return dm.StoryRecord{}, fmt.Errorf("%w: item %d: %v", ErrBadItem, item.ID, err)
	}
	return rec, nil
}

// Fetch returns up to n stories in ranking order. Transport failures abort
// the run with ErrFetchFailed; bad items are logged and dropped.
func Fetch(ctx context.Context, src Source, n, workers int) ([]dm.StoryRecord, error) {
	logger := lg.FromContext(ctx)
	if n <= 0 {
		return []dm.StoryRecord{}, nil
	}

	ids, err := src.TopStories(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: top stories: %w", ErrFetchFailed, err)
	}
	ids = unique(ids)
	if len(ids) > n {
		ids = ids[:n]
	}
	logger.Info("ranking fetched", lg.Int("requested", n), lg.Int("fetching", len(ids)))

	pool := workerpool.NewPool[int64, *dm.StoryRecord](workers)
	slots, err := pool.Map(ctx, ids, func(ctx context.Context, rank int, id int64) (*dm.StoryRecord, error) {
		item, err := src.Item(ctx, id)
		if err == nil && item != nil && item.ID != id {
			err = fmt.Errorf("%w: asked for %d, got %d", ErrBadItem, id, item.ID)
		}
		if err != nil {
			if errors.Is(err, ErrBadItem) {
				logger.Warn("skipping item", lg.Int64("id", id), lg.Int("rank", rank), lg.Err(err))
				return nil, nil
			}
			return nil, fmt.Errorf("%w: item %d: %w", ErrFetchFailed, id, err)
		}
		rec, err := Project(item)
		if err != nil {
			logger.Warn("skipping item", lg.Int64("id", id), lg.Int("rank", rank), lg.Err(err))
			return nil, nil
		}
		return &rec, nil
	})
	if err != nil {
		return nil, err
	}

	records := make([]dm.StoryRecord, 0, len(slots))
	for _, rec := range slots {
		if rec != nil {
			records = append(records, *rec)
		}
	}
	return records, nil
}

// Run reads the configured count and fetches that many stories from the
// endpoint at opts.BaseURL.
func Run(ctx context.Context, opts Options) ([]dm.StoryRecord, error) {
	n, err := ReadCount(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	lg.FromContext(ctx).Info("story count loaded", lg.String("file", opts.ConfigFile), lg.Int("count", n))

	client := executor.NewResilientClient(opts.Timeout,
		executor.DefaultResilienceConfig("story-source", opts.Retries))
	return Fetch(ctx, NewHNSource(opts.BaseURL, client), n, opts.Workers)
}

// unique drops repeated ids, keeping the first (highest ranked) occurrence.
func unique(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
