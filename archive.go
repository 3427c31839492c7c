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

package bookdigest

import (
	"log/slog"

	"github.com/poiesic/bookdigest/ai"
	"github.com/poiesic/bookdigest/ask"
	"github.com/poiesic/bookdigest/storage"
	"github.com/poiesic/bookdigest/storage/badger"
)

// Archive is the on-disk digest history shared by the run and ask commands.
type Archive struct {
	backend    *badger.Backend
	digestRepo storage.DigestRepository
	logger     *slog.Logger
}

// ArchiveOption configures an Archive.
type ArchiveOption func(*archiveOptions)

type archiveOptions struct {
	inMemory bool
	logger   *slog.Logger
}

// InMemory keeps the archive in memory; the path is ignored.
func InMemory() ArchiveOption {
	return func(o *archiveOptions) {
		o.inMemory = true
	}
}

// WithArchiveLogger sets the logger used by the archive and its storage engine.
func WithArchiveLogger(logger *slog.Logger) ArchiveOption {
	return func(o *archiveOptions) {
		o.logger = logger
	}
}

// OpenArchive opens or creates the archive at filePath.
func OpenArchive(filePath string, opts ...ArchiveOption) (*Archive, error) {
	options := &archiveOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory, options.logger)
	if err != nil {
		return nil, err
	}

	return &Archive{
		backend:    backend,
		digestRepo: badger.NewDigestRepository(backend),
		logger:     options.logger,
	}, nil
}

func (a *Archive) Close() error {
	if err := a.backend.Close(); err != nil {
		a.logger.Error("error closing archive storage", "err", err)
		return err
	}
	return nil
}

func (a *Archive) DigestRepository() storage.DigestRepository {
	return a.digestRepo
}

// NewAsker answers questions against the latest digest in this archive.
func (a *Archive) NewAsker(completer ai.Completer, opts ...ask.Option) (*ask.Asker, error) {
	opts = append([]ask.Option{ask.WithLogger(a.logger)}, opts...)
	return ask.NewAsker(a.digestRepo, completer, opts...)
}
