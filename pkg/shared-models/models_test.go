package datamodels_test

import (
	"encoding/json"
	"testing"

	dm "github.com/andrej220/hamprobe/pkg/shared-models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoryRecordOmitsAbsentFields(t *testing.T) {
	title := "Ask HN: anything"
	rec := dm.StoryRecord{ID: 7, Title: &title}

	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":7,"title":"Ask HN: anything"}`, string(out))
}

func TestStoryRecordKeepsZeroScore(t *testing.T) {
	title, by := "t", "alice"
	score := 0
	rec := dm.StoryRecord{ID: 1, Title: &title, Score: &score, By: &by}

	out, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"title":"t","score":0,"by":"alice"}`, string(out))

	var back dm.StoryRecord
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, rec, back)
	assert.Nil(t, back.URL)
}

func TestServerMetricJSON(t *testing.T) {
	out, err := json.Marshal([]dm.ServerMetric{{Server: "10.0.0.1", CPU: 42.5}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"server":"10.0.0.1","cpu":42.5}]`, string(out))
}
