// Copyright 2025 Poiesic Systems
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

// Package ai defines the Completion Service boundary used by the digest
// pipeline.
//
// The pipeline never talks to a model vendor directly. Keyword extraction,
// chunk summarization, enrichment notes and digest questions all go through
// the Completer interface, which accepts a system and user message pair and
// returns generated text together with token usage. Concrete providers live
// in subpackages (ai/langchain for real services, ai/mock for tests).
//
// The package also carries small helpers for cleaning model output, such as
// stripping Markdown code fences and repairing keys with missing quotes.
package ai
