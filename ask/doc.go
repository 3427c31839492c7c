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

// Package ask answers free-form questions about the latest archived digest.
//
// The Asker loads the most recent core.DigestResult from a
// storage.DigestRepository, renders it as a plain-text context with the
// records that mention the question's words first, and passes the context and
// question to the Completion Service.
package ask
