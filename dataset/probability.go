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

package dataset

import (
	"github.com/juju/errors"
)

// Probabilities maps an item to the fraction of the user population that
// interacted with it. Values are in [0, 1]. Items are not mutually exclusive,
// so the values do not sum to one.
type Probabilities map[string]float64

// BuildProbabilities derives interaction probabilities from an index. The
// index is used instead of the raw dataset so the distinct user and item
// counts are computed once, not re-scanned per item.
func BuildProbabilities(idx *Index) (Probabilities, error) {
	if idx.CountUsers() == 0 {
		return nil, errors.Trace(ErrEmptyDataset)
	}
	probabilities := make(Probabilities, idx.CountItems())
	total := float64(idx.CountUsers())
	for _, itemId := range idx.Items() {
		users, _ := idx.UserSet(itemId)
		probabilities[itemId] = float64(users.Cardinality()) / total
	}
	return probabilities, nil
}
