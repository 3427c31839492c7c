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

// Package langchain implements ai.Provider on top of langchaingo.
//
// Two backends are supported: Anthropic's Messages API and any
// OpenAI-compatible chat completions endpoint (OpenAI itself, Ollama,
// LocalAI or vLLM). Both are driven through the llms.Model interface, so
// request shaping, per-call timeouts and token accounting are shared.
//
// # Usage
//
//	config := ai.NewConfig(ai.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")))
//	provider, err := langchain.NewProvider(config, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	out, err := provider.Completer().Complete(ctx, ai.CompletionRequest{
//	    Model:     config.NoteModel,
//	    Prompt:    "Summarize this in one sentence: ...",
//	    MaxTokens: 200,
//	})
package langchain
