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

// Package logics implements item-to-item collaborative filtering over implicit
// feedback: for every ordered item pair (x, y) the observed number of common
// users is compared against the number expected if interactions were
// independent, and candidates are ranked by the normalized difference.
package logics

import (
	"context"
	"math"

	"github.com/covisit/covisit/base/log"
	"github.com/covisit/covisit/common/parallel"
	"github.com/covisit/covisit/dataset"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

type FitConfig struct {
	// Jobs is the degree of parallelism for pair scoring. The result does not
	// depend on it; 1 means sequential execution.
	Jobs int
	// Item restricts scoring to pairs anchored at this item. Empty means all
	// ordered pairs of distinct items, which is quadratic in the item count.
	Item string
}

func NewFitConfig() *FitConfig {
	return &FitConfig{
		Jobs: 2,
	}
}

func (config *FitConfig) SetJobs(jobs int) *FitConfig {
	config.Jobs = jobs
	return config
}

func (config *FitConfig) SetItem(itemId string) *FitConfig {
	config.Item = itemId
	return config
}

// ItemToItem scores item pairs by co-occurrence against a chance baseline.
type ItemToItem struct{}

func NewItemToItem() *ItemToItem {
	return &ItemToItem{}
}

type itemPair struct {
	itemId        string
	recommendedId string
}

// generatePairs enumerates the candidate pairs to score: either every ordered
// pair of distinct items, or every pair anchored at one item. Items keep their
// first-seen order.
func generatePairs(items []string, anchor string) []itemPair {
	if anchor != "" {
		pairs := make([]itemPair, 0, len(items)-1)
		for _, itemId := range items {
			if itemId != anchor {
				pairs = append(pairs, itemPair{itemId: anchor, recommendedId: itemId})
			}
		}
		return pairs
	}
	pairs := make([]itemPair, 0, len(items)*(len(items)-1))
	for _, itemId := range items {
		for _, recommendedId := range items {
			if itemId != recommendedId {
				pairs = append(pairs, itemPair{itemId: itemId, recommendedId: recommendedId})
			}
		}
	}
	return pairs
}

// commonUsers counts the users that interacted with both items of a pair. A
// pair referencing an item missing from the index means the pairs and the
// index were derived from different datasets, which is fatal.
func commonUsers(idx *dataset.Index, pair itemPair) (int, error) {
	users, exist := idx.UserSet(pair.itemId)
	if !exist {
		return 0, errors.NotFoundf("item %q in index", pair.itemId)
	}
	recommendedUsers, exist := idx.UserSet(pair.recommendedId)
	if !exist {
		return 0, errors.NotFoundf("item %q in index", pair.recommendedId)
	}
	return users.Intersect(recommendedUsers).Cardinality(), nil
}

// expectedUsers computes the number of common users the pair would have by
// chance alone. With p the population probability of interacting with the
// recommended item and c(u) the number of other items of user u, the chance of
// u hitting the recommended item in c(u) independent interactions is
// 1-(1-p)^c(u); the expectation sums this over the users of the anchor item.
// Users are visited in first-seen order so the floating point sum is
// reproducible. Directional: (x, y) and (y, x) differ in general.
func expectedUsers(idx *dataset.Index, probabilities dataset.Probabilities, pair itemPair) float64 {
	p := probabilities[pair.recommendedId]
	var expected float64
	for _, userId := range idx.Users(pair.itemId) {
		expected += 1 - math.Pow(1-p, float64(idx.OtherItems(userId)))
	}
	return expected
}

// score combines observed and expected common users into the relatedness
// statistic. Positive means the items co-occur more than chance predicts. The
// logarithm dampens large raw counts and the denominator normalizes by the
// scale of the baseline. Callers must guarantee actual >= 1 and expected > 0.
func score(expected float64, actual int) float64 {
	return (float64(actual) - expected) * math.Log(float64(actual)+0.1) / math.Sqrt(expected)
}

// Fit computes the scored recommendation table for the dataset. The returned
// rows keep pair generation order, contain only pairs with at least one common
// user, and every score is finite and reproducible from the row's own actual
// and expected columns. Zero surviving pairs yields an empty table.
func (i2i *ItemToItem) Fit(ctx context.Context, d *dataset.Dataset, config *FitConfig) ([]Score, error) {
	if config == nil {
		config = NewFitConfig()
	}
	if d == nil || d.Count() == 0 {
		return nil, errors.Trace(dataset.ErrEmptyDataset)
	}
	// Indices are rebuilt from scratch on every call so a fit can never read
	// state derived from a previous dataset.
	idx := dataset.BuildIndex(d)
	probabilities, err := dataset.BuildProbabilities(idx)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if config.Item != "" && !idx.HasItem(config.Item) {
		return nil, errors.NotValidf("item %q not in dataset", config.Item)
	}
	pairs := generatePairs(idx.Items(), config.Item)

	// Count observed common users for every pair. Pairs are independent and
	// the index is read-only, so they fan out freely.
	counts := make([]int, len(pairs))
	if err := parallel.Parallel(ctx, len(pairs), config.Jobs, func(_, jobId int) error {
		count, err := commonUsers(idx, pairs[jobId])
		if err != nil {
			return errors.Trace(err)
		}
		counts[jobId] = count
		return nil
	}); err != nil {
		return nil, errors.Trace(err)
	}

	// Pairs without common users carry no evidence of relatedness.
	survivors := make([]itemPair, 0, len(pairs))
	survivorCounts := make([]int, 0, len(pairs))
	for i, pair := range pairs {
		if counts[i] > 0 {
			survivors = append(survivors, pair)
			survivorCounts = append(survivorCounts, counts[i])
		}
	}

	expected := make([]float64, len(survivors))
	if err := parallel.Parallel(ctx, len(survivors), config.Jobs, func(_, jobId int) error {
		expected[jobId] = expectedUsers(idx, probabilities, survivors[jobId])
		return nil
	}); err != nil {
		return nil, errors.Trace(err)
	}

	scores := make([]Score, 0, len(survivors))
	for i, pair := range survivors {
		if expected[i] == 0 {
			// Every user of the anchor item has no other interactions, so the
			// score denominator vanishes. Such a pair carries no usable
			// evidence and is excluded instead of emitting a non-finite score.
			log.Logger().Warn("excluded pair with zero expected common users",
				zap.String("item", pair.itemId),
				zap.String("recommended_item", pair.recommendedId),
				zap.Int("common_users", survivorCounts[i]))
			continue
		}
		scores = append(scores, Score{
			ItemId:        pair.itemId,
			RecommendedId: pair.recommendedId,
			CommonUsers:   survivorCounts[i],
			ExpectedUsers: expected[i],
			Score:         score(expected[i], survivorCounts[i]),
		})
	}
	return scores, nil
}
