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


// Package ingestion builds the searchable index from structured hospital rows.
//
// Each row becomes one record: a canonical natural-language description is
// synthesized for embedding, the structured fields become typed metadata,
// and a content-hash ID keeps re-ingestion idempotent. Records are embedded
// in bounded-size chunks on a worker pool with retry, then upserted chunk by
// chunk. The resulting Report accounts for every input row exactly once as
// inserted, updated, or failed.
package ingestion
