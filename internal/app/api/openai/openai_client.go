package openai

import (
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// NewClient builds a go-openai client, pointing it at baseURL when set.
func NewClient(apiKey, baseURL string) (*openai.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(config), nil
}
