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


package search

import "errors"

var (
	// ErrNoTokens is returned when a search is attempted with an empty
	// token list. An exhausted search is nil, not an error; an empty
	// query is a caller bug.
	ErrNoTokens = errors.New("at least one search token required")

	// ErrNilRoot is returned when a search is attempted without a root group.
	ErrNilRoot = errors.New("root group required")
)
