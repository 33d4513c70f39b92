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
	"encoding/csv"
	"io"
	"os"

	"github.com/juju/errors"
)

// ReadCSV reads interactions from a header-bearing CSV stream. The user and
// item columns are located by header name; extra columns, such as a
// transaction id, are ignored.
func ReadCSV(r io.Reader, userColumn, itemColumn string) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true
	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.Trace(ErrEmptyDataset)
	} else if err != nil {
		return nil, errors.Trace(err)
	}
	userIndex, itemIndex := -1, -1
	for i, name := range header {
		switch name {
		case userColumn:
			userIndex = i
		case itemColumn:
			itemIndex = i
		}
	}
	if userIndex < 0 {
		return nil, errors.NotValidf("missing column %q", userColumn)
	}
	if itemIndex < 0 {
		return nil, errors.NotValidf("missing column %q", itemColumn)
	}
	dataset := NewDataset(0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, errors.Trace(err)
		}
		dataset.Add(record[userIndex], record[itemIndex])
	}
	return dataset, nil
}

// LoadCSV reads interactions from a CSV file.
func LoadCSV(path, userColumn, itemColumn string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	defer file.Close()
	return ReadCSV(file, userColumn, itemColumn)
}
