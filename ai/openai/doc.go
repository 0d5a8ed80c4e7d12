// Package openai provides an ai.Embedder backed by OpenAI-compatible
// embedding APIs (OpenAI, Ollama, LocalAI, vLLM) through langchaingo.
package openai
