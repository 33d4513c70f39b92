// Copyright 2025 covisit Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logics

import (
	"context"
	"math"
	"testing"

	"github.com/covisit/covisit/dataset"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// users 1..5 over items A and B: users 1 and 2 interacted with both.
func newTestDataset() *dataset.Dataset {
	d := dataset.NewDataset(0)
	d.Add("1", "A")
	d.Add("2", "A")
	d.Add("3", "A")
	d.Add("4", "A")
	d.Add("1", "B")
	d.Add("2", "B")
	d.Add("5", "B")
	return d
}

func TestFit(t *testing.T) {
	scores, err := NewItemToItem().Fit(context.Background(), newTestDataset(), nil)
	require.NoError(t, err)
	require.Len(t, scores, 2)

	assert.Equal(t, "A", scores[0].ItemId)
	assert.Equal(t, "B", scores[0].RecommendedId)
	assert.Equal(t, 2, scores[0].CommonUsers)
	assert.InDelta(t, 6.0/5.0, scores[0].ExpectedUsers, 1e-9)
	assert.InDelta(t, 0.5418, scores[0].Score, 1e-4)

	assert.Equal(t, "B", scores[1].ItemId)
	assert.Equal(t, "A", scores[1].RecommendedId)
	assert.Equal(t, 2, scores[1].CommonUsers)
	assert.InDelta(t, 8.0/5.0, scores[1].ExpectedUsers, 1e-9)
	assert.InDelta(t, 0.2346, scores[1].Score, 1e-4)

	// directional: the two orientations disagree
	assert.NotEqual(t, scores[0].Score, scores[1].Score)
}

func TestFitScoreReproducible(t *testing.T) {
	scores, err := NewItemToItem().Fit(context.Background(), newTestDataset(), nil)
	require.NoError(t, err)
	for _, row := range scores {
		assert.GreaterOrEqual(t, row.CommonUsers, 1)
		assert.False(t, math.IsNaN(row.Score))
		assert.False(t, math.IsInf(row.Score, 0))
		recomputed := (float64(row.CommonUsers) - row.ExpectedUsers) *
			math.Log(float64(row.CommonUsers)+0.1) / math.Sqrt(row.ExpectedUsers)
		assert.InDelta(t, recomputed, row.Score, 1e-12)
	}
}

func TestFitAnchored(t *testing.T) {
	scores, err := NewItemToItem().Fit(context.Background(), newTestDataset(), NewFitConfig().SetItem("A"))
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "A", scores[0].ItemId)
	assert.Equal(t, "B", scores[0].RecommendedId)
}

func TestFitUnknownAnchor(t *testing.T) {
	_, err := NewItemToItem().Fit(context.Background(), newTestDataset(), NewFitConfig().SetItem("Z"))
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestFitEmptyDataset(t *testing.T) {
	_, err := NewItemToItem().Fit(context.Background(), dataset.NewDataset(0), nil)
	assert.ErrorIs(t, err, dataset.ErrEmptyDataset)
	_, err = NewItemToItem().Fit(context.Background(), nil, nil)
	assert.ErrorIs(t, err, dataset.ErrEmptyDataset)
}

func TestFitNoOverlap(t *testing.T) {
	d := dataset.NewDataset(0)
	d.Add("1", "A")
	d.Add("2", "B")
	d.Add("3", "C")
	scores, err := NewItemToItem().Fit(context.Background(), d, nil)
	assert.NoError(t, err)
	assert.Empty(t, scores)
	assert.Empty(t, Recommend(scores, "A", 10))
}

func TestFitIdempotent(t *testing.T) {
	d := newTestDataset()
	d.Add("1", "C")
	d.Add("3", "C")
	d.Add("5", "C")
	first, err := NewItemToItem().Fit(context.Background(), d, NewFitConfig().SetJobs(1))
	require.NoError(t, err)
	for _, jobs := range []int{1, 2, 4, 8} {
		again, err := NewItemToItem().Fit(context.Background(), d, NewFitConfig().SetJobs(jobs))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestFitSingleCommonUser(t *testing.T) {
	// one user, two items: the common user has exactly one interaction beyond
	// the anchor, so the expectation collapses to the observed count and the
	// score must come out zero, never non-finite
	d := dataset.NewDataset(0)
	d.Add("1", "A")
	d.Add("1", "B")
	scores, err := NewItemToItem().Fit(context.Background(), d, nil)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	for _, row := range scores {
		assert.Equal(t, 1, row.CommonUsers)
		assert.InDelta(t, 1.0, row.ExpectedUsers, 1e-9)
		assert.Zero(t, row.Score)
		assert.False(t, math.IsNaN(row.Score))
		assert.False(t, math.IsInf(row.Score, 0))
	}
}

func TestFitDirectional(t *testing.T) {
	scores, err := NewItemToItem().Fit(context.Background(), newTestDataset(), nil)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.NotEqual(t, scores[0].ExpectedUsers, scores[1].ExpectedUsers)
	assert.NotEqual(t, scores[0].Score, scores[1].Score)
}

func TestRecommend(t *testing.T) {
	scores, err := NewItemToItem().Fit(context.Background(), newTestDataset(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, Recommend(scores, "A", 10))
	assert.Equal(t, []string{"A"}, Recommend(scores, "B", 0))
	assert.Empty(t, Recommend(scores, "C", 10))
}

func TestRecommendTopN(t *testing.T) {
	scores := []Score{
		{ItemId: "A", RecommendedId: "B", Score: 0.5},
		{ItemId: "A", RecommendedId: "C", Score: 1.5},
		{ItemId: "A", RecommendedId: "D", Score: 1.5},
		{ItemId: "A", RecommendedId: "E", Score: -0.5},
		{ItemId: "B", RecommendedId: "A", Score: 9.0},
	}
	// sorted by score, ties keep row order, anchor rows only
	assert.Equal(t, []string{"C", "D", "B", "E"}, Recommend(scores, "A", 10))
	assert.Equal(t, []string{"C", "D"}, Recommend(scores, "A", 2))
	// the anchor item itself is never recommended
	assert.NotContains(t, Recommend(scores, "A", 10), "A")
}

func TestGeneratePairs(t *testing.T) {
	items := []string{"A", "B", "C"}
	assert.Equal(t, []itemPair{
		{itemId: "A", recommendedId: "B"},
		{itemId: "A", recommendedId: "C"},
		{itemId: "B", recommendedId: "A"},
		{itemId: "B", recommendedId: "C"},
		{itemId: "C", recommendedId: "A"},
		{itemId: "C", recommendedId: "B"},
	}, generatePairs(items, ""))
	assert.Equal(t, []itemPair{
		{itemId: "B", recommendedId: "A"},
		{itemId: "B", recommendedId: "C"},
	}, generatePairs(items, "B"))
}
