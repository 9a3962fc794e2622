// ABOUTME: Tests for the OpenAI client wrapper
// ABOUTME: Verifies configuration, prompt formatting, and vector normalization
package llm

import (
	"math"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

func TestNewOpenAIClient_RequiresAPIKey(t *testing.T) {
	if _, err := NewOpenAIClient(""); err == nil {
		t.Error("NewOpenAIClient(\"\") should fail")
	}
}

func TestNewOpenAIClientWithConfig_Defaults(t *testing.T) {
	client, err := NewOpenAIClientWithConfig(&ClientConfig{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewOpenAIClientWithConfig() error = %v", err)
	}

	if client.chatModel != DefaultChatModel {
		t.Errorf("chatModel = %q, want %q", client.chatModel, DefaultChatModel)
	}
	if client.embeddingModel != DefaultEmbeddingModel {
		t.Errorf("embeddingModel = %q, want %q", client.embeddingModel, DefaultEmbeddingModel)
	}
}

func TestDimensionForModel(t *testing.T) {
	tests := []struct {
		model openai.EmbeddingModel
		want  int
	}{
		{openai.SmallEmbedding3, 1536},
		{openai.LargeEmbedding3, 3072},
		{openai.AdaEmbeddingV2, 1536},
	}

	for _, tt := range tests {
		t.Run(string(tt.model), func(t *testing.T) {
			if got := DimensionForModel(tt.model); got != tt.want {
				t.Errorf("DimensionForModel(%s) = %d, want %d", tt.model, got, tt.want)
			}
		})
	}
}

func TestDimension_KnownBeforeAnyCall(t *testing.T) {
	client, err := NewOpenAIClientWithConfig(&ClientConfig{
		APIKey:         "test-key",
		EmbeddingModel: openai.LargeEmbedding3,
	})
	if err != nil {
		t.Fatalf("NewOpenAIClientWithConfig() error = %v", err)
	}

	if client.Dimension() != 3072 {
		t.Errorf("Dimension() = %d, want 3072", client.Dimension())
	}
}

func TestFormatPrompt_WithContext(t *testing.T) {
	prompt := FormatPrompt("What is diabetes?", "Diabetes is a metabolic disorder.")

	for _, want := range []string{
		"### Context:",
		"Diabetes is a metabolic disorder.",
		"### Question:",
		"What is diabetes?",
		"### Response:",
		Disclaimer,
		"based on the provided context",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestFormatPrompt_WithoutContext(t *testing.T) {
	prompt := FormatPrompt("What is diabetes?", "")

	if strings.Contains(prompt, "### Context:") {
		t.Error("prompt without context should have no context section")
	}
	for _, want := range []string{"### Question:", "What is diabetes?", Disclaimer} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestL2Normalize(t *testing.T) {
	v := []float32{3, 4}
	l2Normalize(v)

	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if math.Abs(norm-1.0) > 1e-6 {
		t.Errorf("norm after normalization = %f, want 1.0", norm)
	}
	if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
		t.Errorf("normalized vector = %v, want [0.6, 0.8]", v)
	}
}

func TestL2Normalize_ZeroVector(t *testing.T) {
	v := []float32{0, 0, 0}
	l2Normalize(v)

	for i, x := range v {
		if x != 0 {
			t.Errorf("v[%d] = %f, want 0", i, x)
		}
	}
}
