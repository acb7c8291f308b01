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


// Package ingest provides the pipeline that turns scan files into catalog
// records.
//
// The Pipeline type manages the ingest workflow for scan files, including:
//   - Decoding each file into its tree
//   - Extracting searchable metadata fields from the tree
//   - Upserting the resulting record into the catalog
//
// Files are processed concurrently using a worker pool to maximize
// throughput. Errors on individual files are logged and counted but do not
// fail the surrounding walk.
package ingest
