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

// Package storage defines the digest archive.
//
// Each successful run's core.DigestResult is stored under its RunID and
// recorded as the latest digest, so downstream tools such as the ask
// command can query the most recent digest without re-running the pipeline.
//
// # Constructor Return Type Pattern
//
// Public constructors return the storage.DigestRepository interface:
//
//	repo, err := badger.NewDigestRepository(backend)
//
// Internal helpers may return concrete types since they are only used within
// the implementation package.
//
// # Usage
//
// Open a repository on disk:
//
//	backend, err := badger.OpenBackend("/path/to/db", false, logger)
//	if err != nil {
//	    return err
//	}
//	defer backend.Close()
//	repo := badger.NewDigestRepository(backend)
//
// Use in tests with in-memory storage:
//
//	repo, backend, err := badger.NewMemoryRepository()
//
// # Thread Safety
//
// Repository implementations must be safe for concurrent use.
package storage
