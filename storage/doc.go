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


// Package storage provides the index store abstraction.
//
// It defines the RecordRepository interface that decouples the retrieval
// core from the storage implementation, plus the serialization shims used
// by backends to encode stored values.
//
// # Constructor Return Type Pattern
//
// Public backend constructors return the storage interface rather than the
// concrete type:
//
//	repo, err := badger.NewRecordRepository(backend)  // returns storage.RecordRepository
//
// so consumers never couple to backend specifics and tests can substitute
// in-memory implementations.
//
// # Ranking
//
// FindSimilar ranks by cosine similarity, computed as the dot product of
// unit-normalized vectors. Ties are broken by insertion sequence (earlier
// record first), which makes search output deterministic for identical
// inputs against an unchanged index.
//
// # Thread Safety
//
// Implementations must support concurrent searches. Upserts are serialized
// relative to each other, and a record's vector and metadata become visible
// together or not at all.
package storage
