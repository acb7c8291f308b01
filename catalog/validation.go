// Copyright 2025 MMG Tools
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package catalog

import "fmt"

// ValidateRecord validates a Record according to domain rules.
//
// Validation rules:
//   - Path must not be empty
//   - ScanNumber must not be negative
//
// NOT validated (populated by the repository or the ingest pipeline):
//   - ID (0 is replaced with IDFromPath on insert)
//   - Metadata (a file can carry none of the extracted fields)
//   - IngestedAt, UpdatedAt (set on insert and update)
//   - FileModTime (file systems disagree about clocks)
func ValidateRecord(record *Record) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidRecord)
	}

	if record.Path == "" {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrEmptyPath)
	}

	if record.ScanNumber < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, ErrNegativeScanNumber)
	}

	return nil
}
