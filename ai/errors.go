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


package ai

import "errors"

var (
	// ErrEmbedding indicates the embedding backend failed to produce a vector.
	ErrEmbedding = errors.New("embedding failed")

	// ErrEmptyInput indicates an empty or whitespace-only embedding input.
	ErrEmptyInput = errors.New("embedding input cannot be empty")

	// ErrEmbeddingTimeout indicates the embedding backend did not respond
	// within the caller's deadline.
	ErrEmbeddingTimeout = errors.New("embedding timed out")
)
