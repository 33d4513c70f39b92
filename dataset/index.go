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
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/samber/lo"
)

// Index is the inverted view of a dataset: for every item the set of distinct
// users that interacted with it, and for every user the number of distinct
// items interacted with beyond a fixed reference item. The index is built once
// per fit and never mutated afterwards.
type Index struct {
	items      []string // distinct items in first-seen order
	itemUsers  map[string]mapset.Set[string]
	itemOrder  map[string][]string // distinct users per item in first-seen order
	otherItems map[string]int
	numUsers   int
}

// BuildIndex derives a fresh index from the dataset. Duplicate (user, item)
// records collapse into a single interaction.
func BuildIndex(d *Dataset) *Index {
	idx := &Index{
		itemUsers: make(map[string]mapset.Set[string]),
		itemOrder: make(map[string][]string),
	}
	userItems := make(map[string]mapset.Set[string])
	for _, interaction := range d.Interactions() {
		users, exist := idx.itemUsers[interaction.ItemId]
		if !exist {
			users = mapset.NewSet[string]()
			idx.itemUsers[interaction.ItemId] = users
			idx.items = append(idx.items, interaction.ItemId)
		}
		if users.Add(interaction.UserId) {
			idx.itemOrder[interaction.ItemId] = append(idx.itemOrder[interaction.ItemId], interaction.UserId)
		}
		items, exist := userItems[interaction.UserId]
		if !exist {
			items = mapset.NewSet[string]()
			userItems[interaction.UserId] = items
		}
		items.Add(interaction.ItemId)
	}
	// The reference item of a user is always among the user's own items, so
	// the count of "other" items is the distinct item count minus one.
	idx.otherItems = lo.MapValues(userItems, func(items mapset.Set[string], _ string) int {
		return items.Cardinality() - 1
	})
	idx.numUsers = len(userItems)
	return idx
}

// Items returns the distinct items in first-seen order.
func (idx *Index) Items() []string {
	return idx.items
}

// UserSet returns the set of distinct users of an item.
func (idx *Index) UserSet(itemId string) (mapset.Set[string], bool) {
	users, exist := idx.itemUsers[itemId]
	return users, exist
}

// Users returns the distinct users of an item in first-seen order.
func (idx *Index) Users(itemId string) []string {
	return idx.itemOrder[itemId]
}

// OtherItems returns the number of distinct items a user interacted with
// beyond a fixed reference item. Zero for unknown users.
func (idx *Index) OtherItems(userId string) int {
	return idx.otherItems[userId]
}

// HasItem reports whether the item appears in the dataset.
func (idx *Index) HasItem(itemId string) bool {
	_, exist := idx.itemUsers[itemId]
	return exist
}

// CountItems returns the number of distinct items.
func (idx *Index) CountItems() int {
	return len(idx.items)
}

// CountUsers returns the number of distinct users.
func (idx *Index) CountUsers() int {
	return idx.numUsers
}
