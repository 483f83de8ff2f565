package factory

import (
	"fmt"

	"smartdraft-be/pkg/llm"
	"smartdraft-be/pkg/llm/ollama"
)

func NewGenerator(providerType, modelName, baseURL string) (llm.Generator, error) {
	switch providerType {
	case "ollama":
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
