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


package render

import "errors"

var (
	// ErrUnresolvedVariable is returned when an expression references a
	// name that does not resolve to a numeric scalar in the tree.
	ErrUnresolvedVariable = errors.New("expression variable not found in tree")

	// ErrNotNumeric is returned when an expression evaluates to a
	// non-numeric result.
	ErrNotNumeric = errors.New("expression result is not numeric")
)
