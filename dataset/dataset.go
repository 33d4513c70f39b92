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

// Package dataset holds interaction logs and the immutable indices derived
// from them. An interaction is implicit feedback: a user viewed, purchased or
// otherwise touched an item. Interaction strength is out of scope, only
// presence matters.
package dataset

import (
	"github.com/juju/errors"
)

const (
	// DefaultUserColumn is the default name of the user id column.
	DefaultUserColumn = "user_id"
	// DefaultItemColumn is the default name of the item id column.
	DefaultItemColumn = "item_id"
)

// ErrEmptyDataset is returned when a computation requires at least one interaction.
var ErrEmptyDataset = errors.New("dataset is empty")

// Interaction is a single user-item interaction record.
type Interaction struct {
	UserId string
	ItemId string
}

// Dataset is an ordered sequence of interactions. Duplicate (user, item)
// records are allowed here; derived indices apply set semantics.
type Dataset struct {
	interactions []Interaction
}

// NewDataset creates an empty dataset with the given capacity.
func NewDataset(capacity int) *Dataset {
	return &Dataset{
		interactions: make([]Interaction, 0, capacity),
	}
}

// Add appends an interaction record.
func (d *Dataset) Add(userId, itemId string) {
	d.interactions = append(d.interactions, Interaction{UserId: userId, ItemId: itemId})
}

// Count returns the number of interaction records, duplicates included.
func (d *Dataset) Count() int {
	return len(d.interactions)
}

// Interactions returns the interaction records in insertion order.
func (d *Dataset) Interactions() []Interaction {
	return d.interactions
}
