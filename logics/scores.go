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
	"github.com/covisit/covisit/common/heap"
)

// Score is one row of the scored recommendation table: a directional item
// pair with its observed and expected common-user counts and the relatedness
// score. Rows are never mutated after Fit returns them.
type Score struct {
	ItemId        string
	RecommendedId string
	CommonUsers   int
	ExpectedUsers float64
	Score         float64
}

// DefaultRecommendations is the number of items Recommend returns when the
// caller does not ask for a specific count.
const DefaultRecommendations = 10

// Recommend returns the ids of the top n items recommended for an item,
// sorted by score in decreasing order. Ties keep the row order of the scored
// table. An item without rows yields an empty slice. If n is not positive,
// DefaultRecommendations is used.
func Recommend(scores []Score, itemId string, n int) []string {
	if n <= 0 {
		n = DefaultRecommendations
	}
	filter := heap.NewTopKFilter[string, float64](n)
	for _, row := range scores {
		if row.ItemId == itemId {
			filter.Push(row.RecommendedId, row.Score)
		}
	}
	recommended, _ := filter.PopAll()
	return recommended
}
