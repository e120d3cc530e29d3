// Package model defines the provider-neutral completion and embedding
// contracts the gateway is built against, plus scripted mocks for tests.
// Concrete adapters live in the model/openai and model/anthropic subpackages.
package model
