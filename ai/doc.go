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


// Package ai defines the embedding abstraction used by ingestion and search.
//
// The Embedder interface maps text to fixed-dimension dense vectors. It is an
// explicitly constructed, injected dependency: the underlying model client is
// built once (it is expensive to construct and stateless to use), shared
// across concurrent callers, and released with Close.
//
// Subpackages provide implementations:
//   - ai/openai: OpenAI-compatible embedding APIs via langchaingo
//   - ai/mock: deterministic embedder for tests
package ai
