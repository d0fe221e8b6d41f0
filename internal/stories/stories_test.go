package stories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/andrej220/hamprobe/internal/lg"
	dm "github.com/andrej220/hamprobe/pkg/shared-models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

type fakeSource struct {
	mu      sync.Mutex
	ids     []int64
	topErr  error
	items   map[int64]*dm.Item
	errs    map[int64]error
	fetched []int64
}

func (f *fakeSource) TopStories(context.Context) ([]int64, error) {
	return f.ids, f.topErr
}

func (f *fakeSource) Item(_ context.Context, id int64) (*dm.Item, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, id)
	f.mu.Unlock()
	if err := f.errs[id]; err != nil {
		return nil, err
	}
	if item, ok := f.items[id]; ok {
		return item, nil
	}
	return &dm.Item{
		ID:    id,
		Title: ptr(fmt.Sprintf("story %d", id)),
		URL:   ptr(fmt.Sprintf("https://example.com/%d", id)),
		Score: ptr(int(id) * 10),
		By:    ptr("alice"),
	}, nil
}

func ids(recs []dm.StoryRecord) []int64 {
	out := make([]int64, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestFetchTakesFirstN(t *testing.T) {
	src := &fakeSource{ids: []int64{1, 2, 3, 4, 5}}
	recs, err := Fetch(context.Background(), src, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ids(recs))
	assert.ElementsMatch(t, []int64{1, 2, 3}, src.fetched)
	assert.Equal(t, "story 2", *recs[1].Title)
}

func TestFetchFewerAvailable(t *testing.T) {
	src := &fakeSource{ids: []int64{1, 2, 3, 4, 5}}
	recs, err := Fetch(context.Background(), src, 100, 4)
	require.NoError(t, err)
	assert.Len(t, recs, 5)
}

func TestFetchZeroIssuesNoRequests(t *testing.T) {
	src := &fakeSource{topErr: errors.New("must not be called")}
	recs, err := Fetch(context.Background(), src, 0, 4)
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
	assert.Empty(t, src.fetched)
}

func TestFetchKeepsRankOrder(t *testing.T) {
	ranking := []int64{9, 3, 7, 1, 8, 2, 6, 4, 5, 10}
	src := &fakeSource{ids: ranking}
	recs, err := Fetch(context.Background(), src, len(ranking), 10)
	require.NoError(t, err)
	assert.Equal(t, ranking, ids(recs))
}

func TestFetchDuplicateIDsEmittedOnce(t *testing.T) {
	src := &fakeSource{ids: []int64{4, 2, 4, 3}}
	recs, err := Fetch(context.Background(), src, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 2, 3}, ids(recs))
}

func TestFetchSkipsBadItems(t *testing.T) {
	src := &fakeSource{
		ids: []int64{1, 2, 3, 4, 5},
		items: map[int64]*dm.Item{
			2: {ID: 2},                                  // no title
			3: {ID: 3, Title: ptr("gone"), Deleted: true}, // deleted
			5: {ID: 99, Title: ptr("wrong id")},         // mismatched id
		},
		errs: map[int64]error{4: fmt.Errorf("%w: null", ErrBadItem)},
	}
	recs, err := Fetch(lg.Attach(context.Background(), lg.Discard), src, 5, 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(recs))
}

func TestFetchTransportErrorFailsRun(t *testing.T) {
	src := &fakeSource{
		ids:  []int64{1, 2, 3},
		errs: map[int64]error{2: errors.New("connection reset")},
	}
	recs, err := Fetch(context.Background(), src, 3, 1)
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Nil(t, recs)
}

func TestFetchRankingErrorFailsRun(t *testing.T) {
	src := &fakeSource{topErr: errors.New("timeout")}
	_, err := Fetch(context.Background(), src, 3, 1)
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestProjectOmitsAbsentFields(t *testing.T) {
	rec, err := Project(&dm.Item{ID: 7, Type: "story", Title: ptr("Ask HN"), Score: ptr(3), By: ptr("bob")})
	require.NoError(t, err)
	assert.Nil(t, rec.URL)

	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"title":"Ask HN","score":3,"by":"bob"}`, string(out))
}

func TestProjectRejects(t *testing.T) {
	tests := []struct {
		name string
		item *dm.Item
	}{
		{"nil", nil},
		{"zero id", &dm.Item{Title: ptr("t")}},
		{"no title", &dm.Item{ID: 1}},
		{"dead", &dm.Item{ID: 1, Title: ptr("t"), Dead: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Project(tt.item)
			assert.ErrorIs(t, err, ErrBadItem)
		})
	}
}

func TestReadCount(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
		wantErr bool
	}{
		{"plain", "3", 3, false},
		{"trailing newline", "25\n", 25, false},
		{"zero", "0", 0, false},
		{"negative", "-1", 0, true},
		{"non-numeric", "three", 0, true},
		{"fraction", "3.5", 0, true},
		{"empty", "", 0, true},
		{"blank", "  \n", 0, true},
		{"list", "[3]", 0, true},
		{"leading zero is decimal", "010", 10, false},
		{"explicit plus", "+4", 4, false},
		{"hex", "0x10", 0, true},
		{"octal", "0o7", 0, true},
		{"underscore", "1_000", 0, true},
		{"quoted", "'3'", 0, true},
		{"two documents", "3\n---\n9", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := ReadCount(writeConfig(t, tt.content))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrConfigInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}
}

func TestReadCountMissing(t *testing.T) {
	_, err := ReadCount(filepath.Join(t.TempDir(), "absent.txt"))
	assert.ErrorIs(t, err, ErrConfigInvalid)
}

func TestRecordsRoundTrip(t *testing.T) {
	src := &fakeSource{
		ids:   []int64{1, 2},
		items: map[int64]*dm.Item{2: {ID: 2, Title: ptr("no url"), Score: ptr(0), By: ptr("carol")}},
	}
	recs, err := Fetch(context.Background(), src, 2, 2)
	require.NoError(t, err)

	out, err := json.Marshal(recs)
	require.NoError(t, err)
	var back []dm.StoryRecord
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, recs, back)
	assert.Nil(t, back[1].URL)
	assert.Equal(t, 0, *back[1].Score)
}
