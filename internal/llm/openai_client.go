// ABOUTME: OpenAI client for embeddings and answer generation
// ABOUTME: L2-normalizes embeddings so inner product equals cosine similarity
package llm

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/harper/medrag/internal/util"
)

const (
	// DefaultChatModel is the default model for answer generation
	DefaultChatModel = "gpt-4o-mini"
	// DefaultEmbeddingModel is the default model for embeddings
	DefaultEmbeddingModel = openai.SmallEmbedding3
)

// Disclaimer is included in every generation prompt
const Disclaimer = "DISCLAIMER: This is for educational purposes only and should not be considered medical advice."

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey         string
	ChatModel      string
	EmbeddingModel openai.EmbeddingModel
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:         apiKey,
		ChatModel:      DefaultChatModel,
		EmbeddingModel: DefaultEmbeddingModel,
		Timeout:        30 * time.Second,
		MaxRetries:     3,
		RetryDelay:     2 * time.Second,
	}
}

// OpenAIClient wraps the OpenAI API client with retry logic.
// It serves as both the embedding collaborator and the generation
// collaborator for the RAG pipeline.
type OpenAIClient struct {
	client         *openai.Client
	chatModel      string
	embeddingModel openai.EmbeddingModel
	timeout        time.Duration
	maxRetries     int
	retryDelay     time.Duration
}

// NewOpenAIClient creates a new OpenAI client with default configuration
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom configuration
func NewOpenAIClientWithConfig(config *ClientConfig) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if config.ChatModel == "" {
		config.ChatModel = DefaultChatModel
	}
	if config.EmbeddingModel == "" {
		config.EmbeddingModel = DefaultEmbeddingModel
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = 2 * time.Second
	}

	return &OpenAIClient{
		client:         openai.NewClient(config.APIKey),
		chatModel:      config.ChatModel,
		embeddingModel: config.EmbeddingModel,
		timeout:        config.Timeout,
		maxRetries:     config.MaxRetries,
		retryDelay:     config.RetryDelay,
	}, nil
}

// Dimension returns the embedding dimension for the configured model.
// Known before any embedding call is made.
func (c *OpenAIClient) Dimension() int {
	return DimensionForModel(c.embeddingModel)
}

// DimensionForModel maps embedding models to their fixed output dimension
func DimensionForModel(model openai.EmbeddingModel) int {
	switch model {
	case openai.LargeEmbedding3:
		return 3072
	case openai.AdaEmbeddingV2, openai.SmallEmbedding3:
		return 1536
	default:
		return 1536
	}
}

// EmbedBatch generates one L2-normalized embedding per input text,
// in the same order as the inputs.
func (c *OpenAIClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var embeddings [][]float32

	err := util.Retry(ctx, c.maxRetries, c.retryDelay, func() error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.client.CreateEmbeddings(callCtx, openai.EmbeddingRequestStrings{
			Input: texts,
			Model: c.embeddingModel,
		})
		if err != nil {
			return err
		}
		if len(resp.Data) != len(texts) {
			return fmt.Errorf("got %d embeddings for %d texts", len(resp.Data), len(texts))
		}

		embeddings = make([][]float32, len(texts))
		for _, item := range resp.Data {
			vec := make([]float32, len(item.Embedding))
			copy(vec, item.Embedding)
			l2Normalize(vec)
			embeddings[item.Index] = vec
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("embedding %d texts: %w", len(texts), err)
	}

	return embeddings, nil
}

// EmbedQuery generates an L2-normalized embedding for a single query string
func (c *OpenAIClient) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("cannot embed empty text")
	}

	vecs, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// Generate produces an answer for the given prompt via chat completion.
// The caller's context bounds the whole call, including retries, so a
// timeout or cancellation set upstream cuts generation short.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string, maxNewTokens int, temperature float64) (string, error) {
	var answer string

	err := util.Retry(ctx, c.maxRetries, c.retryDelay, func() error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
			MaxTokens:   maxNewTokens,
			Temperature: float32(temperature),
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 {
			return fmt.Errorf("no completion choices returned")
		}

		answer = strings.TrimSpace(resp.Choices[0].Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}

	return answer, nil
}

// FormatPrompt implements the generation collaborator's formatting contract
func (c *OpenAIClient) FormatPrompt(question, contextText string) string {
	return FormatPrompt(question, contextText)
}

// FormatPrompt builds the instruction prompt for a medical question.
// When context is non-empty the model is asked to ground its answer in
// it; either way the educational disclaimer is part of the prompt.
func FormatPrompt(question, contextText string) string {
	if contextText != "" {
		return fmt.Sprintf(`### Instruction:
You are a medical AI assistant. Answer the following question based on the provided context.
Be accurate, concise, and cite relevant information from the context.

%s

### Context:
%s

### Question:
%s

### Response:
`, Disclaimer, contextText, question)
	}

	return fmt.Sprintf(`### Instruction:
You are a medical AI assistant. Answer the following question accurately and concisely.

%s

### Question:
%s

### Response:
`, Disclaimer, question)
}

// l2Normalize scales v to unit length in place
func l2Normalize(v []float32) {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(float64(sum)))
	for i := range v {
		v[i] *= inv
	}
}
