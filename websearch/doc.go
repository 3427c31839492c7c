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

// Package websearch defines the Web Search Service boundary: a query string
// with a result count and region hint in, an ordered list of web results out.
//
// Searches may legitimately return zero results. Implementations live in
// subpackages; websearch/duckduckgo scrapes DuckDuckGo's HTML endpoint and
// needs no API key.
package websearch
