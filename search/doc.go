// Copyright 2026 Medisearch Authors
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


// Package search composes embedding and filtered similarity search into a
// single query operation.
//
// The Searcher is a thin composition point: it validates the query text and
// result limit, embeds the text, and delegates to the store. It applies no
// re-ranking of its own, so two identical queries against an unchanged index
// return identical ordered results. Query-time failures (embedding errors,
// timeouts, out-of-range limits) surface as typed errors rather than empty
// result sets, keeping "no matches" distinguishable from "query failed".
package search
