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


// Package search locates nodes in a hierarchical data tree by semantic
// identity rather than literal path.
//
// A search consumes a list of tokens left to right while descending the
// tree. A token matches a child through any entry of its identity set:
//   - the literal child name
//   - the NX_class attribute, e.g. "NXentry"
//   - the local_name attribute, e.g. "eta.eta"
//   - the value of a child dataset named "definition", e.g. "NXxas"
//   - "axes" or "signal" when the parent group nominates the child
//
// The last token may alternatively be a slash-separated path resolved
// directly. Find returns the first match under a deliberate traversal
// order (the @default child first, then datasets, then the rest);
// FindAll returns every match in natural order.
//
// A search that matches nothing is not an error: Find returns nil and
// FindValue returns the caller's fallback.
package search
