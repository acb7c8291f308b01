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


// Package catalog defines the scan catalog: the record model for ingested
// scan files and the repository abstraction used to persist them.
//
// A Record is the searchable footprint of one scan file. It carries the
// file path, the scan number parsed from the file name, and the metadata
// strings extracted from the file's tree. Records are keyed by an ID
// derived from the file path, so re-ingesting the same file always maps
// to the same record.
//
// # Constructor Return Type Pattern
//
// Public constructors of backend packages return the catalog.Repository
// interface rather than their concrete types:
//
//	repo, err := badger.NewRecordRepository(backend)  // returns catalog.Repository
//
// This keeps callers decoupled from any one backend and lets tests swap
// in alternative implementations without modification.
//
// # Architecture
//
// The catalog follows the Repository pattern: this package owns the
// Record model, validation, serialization, and the Repository interface;
// backend subpackages (catalog/badger) own the persistence details.
package catalog
