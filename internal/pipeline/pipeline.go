// ABOUTME: Pipeline orchestrates ingestion, chunking, embedding, indexing, and querying
// ABOUTME: Owns the build-vs-load decision and lazy collaborator lifecycle
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/harper/medrag/internal/config"
	"github.com/harper/medrag/internal/index"
	"github.com/harper/medrag/internal/ingestion"
	"github.com/harper/medrag/internal/llm"
	"github.com/harper/medrag/internal/models"
)

// ErrNotInitialized is returned when retrieval is attempted before any
// index has been built or loaded
var ErrNotInitialized = errors.New("index not built")

// contextSeparator joins retrieved chunk texts into one context block
const contextSeparator = "\n\n---\n\n"

// Loader is the document ingestion collaborator
type Loader interface {
	LoadAll() ([]models.Document, error)
}

// Embedder is the embedding collaborator. Dimension is fixed per model
// and queryable before any embedding call.
type Embedder interface {
	Dimension() int
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Generator is the text generation collaborator
type Generator interface {
	FormatPrompt(question, contextText string) string
	Generate(ctx context.Context, prompt string, maxNewTokens int, temperature float64) (string, error)
}

// Observer receives query notifications. It is owned by the serving
// layer and passed in explicitly; the pipeline never keeps ambient
// global metrics state of its own.
type Observer interface {
	RecordQuery(question string, chunksRetrieved int, latency time.Duration, err error)
}

// Collaborators lets callers swap in alternate collaborator factories.
// Zero-value fields fall back to the production defaults.
type Collaborators struct {
	Loader    func() (Loader, error)
	Embedder  func() (Embedder, error)
	Generator func() (Generator, error)
}

// Pipeline sequences build-time and query-time workflows over the
// similarity index. Collaborators are constructed lazily on first use,
// exactly once, and reused for the life of the process.
type Pipeline struct {
	cfg *config.Config
	obs Observer

	newLoader    func() (Loader, error)
	newEmbedder  func() (Embedder, error)
	newGenerator func() (Generator, error)

	loaderOnce sync.Once
	loader     Loader
	loaderErr  error

	chunkerOnce sync.Once
	chunker     *ingestion.TextChunker
	chunkerErr  error

	embedderOnce sync.Once
	embedder     Embedder
	embedderErr  error

	generatorOnce sync.Once
	generator     Generator
	generatorErr  error
	modelLoaded   atomic.Bool

	// buildMu serializes BuildIndex (and the implicit load in Retrieve)
	// so two builds never race on the persisted location.
	buildMu sync.Mutex

	// mu guards idx; the index is swapped in whole on completion, so
	// readers see either the previous complete index or the new one.
	mu  sync.RWMutex
	idx *index.Index
}

// New creates a pipeline with production collaborators
func New(cfg *config.Config) *Pipeline {
	return NewWithCollaborators(cfg, Collaborators{})
}

// NewWithCollaborators creates a pipeline with custom collaborator factories
func NewWithCollaborators(cfg *config.Config, c Collaborators) *Pipeline {
	p := &Pipeline{cfg: cfg}

	p.newLoader = c.Loader
	if p.newLoader == nil {
		p.newLoader = func() (Loader, error) {
			return ingestion.NewDocumentLoader(cfg.DataDir)
		}
	}

	p.newEmbedder = c.Embedder
	if p.newEmbedder == nil {
		p.newEmbedder = func() (Embedder, error) {
			return newOpenAIClient(cfg)
		}
	}

	p.newGenerator = c.Generator
	if p.newGenerator == nil {
		p.newGenerator = func() (Generator, error) {
			return newOpenAIClient(cfg)
		}
	}

	return p
}

func newOpenAIClient(cfg *config.Config) (*llm.OpenAIClient, error) {
	return llm.NewOpenAIClientWithConfig(&llm.ClientConfig{
		APIKey:         cfg.OpenAIKey,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: openai.EmbeddingModel(cfg.EmbeddingModel),
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
	})
}

// SetObserver attaches an optional query observer. Must be called
// before the pipeline starts serving queries.
func (p *Pipeline) SetObserver(obs Observer) {
	p.obs = obs
}

// getLoader lazily constructs the document loader
func (p *Pipeline) getLoader() (Loader, error) {
	p.loaderOnce.Do(func() {
		p.loader, p.loaderErr = p.newLoader()
	})
	return p.loader, p.loaderErr
}

// getChunker lazily constructs the text chunker
func (p *Pipeline) getChunker() (*ingestion.TextChunker, error) {
	p.chunkerOnce.Do(func() {
		p.chunker, p.chunkerErr = ingestion.NewTextChunker(p.cfg.ChunkSize, p.cfg.ChunkOverlap)
	})
	return p.chunker, p.chunkerErr
}

// getEmbedder lazily constructs the embedding collaborator
func (p *Pipeline) getEmbedder() (Embedder, error) {
	p.embedderOnce.Do(func() {
		p.embedder, p.embedderErr = p.newEmbedder()
	})
	return p.embedder, p.embedderErr
}

// getGenerator lazily constructs the generation collaborator. Loading
// the model is expensive, so this only happens when generation is
// actually requested.
func (p *Pipeline) getGenerator() (Generator, error) {
	p.generatorOnce.Do(func() {
		p.generator, p.generatorErr = p.newGenerator()
		if p.generatorErr == nil {
			p.modelLoaded.Store(true)
		}
	})
	return p.generator, p.generatorErr
}

// currentIndex returns the active index, or nil if none is built yet
func (p *Pipeline) currentIndex() *index.Index {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.idx
}

func (p *Pipeline) setIndex(ix *index.Index) {
	p.mu.Lock()
	p.idx = ix
	p.mu.Unlock()
}

// IndexBuilt reports whether an index has been built or loaded
func (p *Pipeline) IndexBuilt() bool {
	return p.currentIndex() != nil
}

// IndexSize returns the number of indexed chunks, 0 when not built
func (p *Pipeline) IndexSize() int {
	if ix := p.currentIndex(); ix != nil {
		return ix.Size()
	}
	return 0
}

// ModelLoaded reports whether the generation collaborator has been constructed
func (p *Pipeline) ModelLoaded() bool {
	return p.modelLoaded.Load()
}

// BuildIndex builds the vector index from the document directory.
// With force false and a complete persisted index on disk, the index
// is loaded as-is without re-running ingestion, chunking, or embedding.
// Returns the number of indexed chunks. Zero documents is not an
// error: it logs a warning and returns 0 without building anything.
func (p *Pipeline) BuildIndex(ctx context.Context, force bool) (int, error) {
	p.buildMu.Lock()
	defer p.buildMu.Unlock()

	if !force && index.Exists(p.cfg.IndexDir) {
		ix, err := index.Load(p.cfg.IndexDir)
		if err != nil {
			return 0, fmt.Errorf("loading existing index: %w", err)
		}
		p.setIndex(ix)
		log.Printf("Loaded existing index from %s (%d chunks)", p.cfg.IndexDir, ix.Size())
		return ix.Size(), nil
	}

	loader, err := p.getLoader()
	if err != nil {
		return 0, fmt.Errorf("initializing document loader: %w", err)
	}

	log.Println("Step 1/4: Loading documents...")
	documents, err := loader.LoadAll()
	if err != nil {
		return 0, fmt.Errorf("loading documents: %w", err)
	}
	if len(documents) == 0 {
		log.Printf("Warning: no documents found in %s, nothing to index", p.cfg.DataDir)
		return 0, nil
	}

	chunker, err := p.getChunker()
	if err != nil {
		return 0, fmt.Errorf("initializing chunker: %w", err)
	}

	log.Println("Step 2/4: Chunking documents...")
	chunks := chunker.ChunkDocuments(documents)

	embedder, err := p.getEmbedder()
	if err != nil {
		return 0, fmt.Errorf("initializing embedder: %w", err)
	}

	log.Printf("Step 3/4: Embedding %d chunks...", len(chunks))
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding chunks: %w", err)
	}

	log.Println("Step 4/4: Building index...")
	fresh, err := index.New(embedder.Dimension())
	if err != nil {
		return 0, fmt.Errorf("creating index: %w", err)
	}

	refs := make([]models.ChunkRef, len(chunks))
	for i, c := range chunks {
		refs[i] = c.Ref()
	}
	if err := fresh.Add(vectors, refs); err != nil {
		return 0, fmt.Errorf("adding vectors to index: %w", err)
	}

	if err := fresh.Save(p.cfg.IndexDir); err != nil {
		return 0, fmt.Errorf("persisting index: %w", err)
	}

	p.setIndex(fresh)
	log.Printf("Index built: %d chunks from %d documents", fresh.Size(), len(documents))
	return fresh.Size(), nil
}

// Retrieve embeds the query and returns the topK most similar chunks.
// If no index is in memory it makes one attempt to load the persisted
// index; failing that, it returns ErrNotInitialized.
func (p *Pipeline) Retrieve(ctx context.Context, query string, topK int) ([]models.RetrievalResult, error) {
	ix := p.currentIndex()
	if ix == nil {
		var err error
		ix, err = p.loadPersisted()
		if err != nil {
			return nil, err
		}
	}

	if topK <= 0 {
		topK = p.cfg.TopK
	}

	embedder, err := p.getEmbedder()
	if err != nil {
		return nil, fmt.Errorf("initializing embedder: %w", err)
	}

	queryVec, err := embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	results, err := ix.Search(queryVec, topK)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	if len(results) == 0 {
		log.Printf("Retrieved no chunks for query %q (index size %d)", truncateForLog(query), ix.Size())
	} else {
		log.Printf("Retrieved %d chunks for query %q", len(results), truncateForLog(query))
	}
	return results, nil
}

// loadPersisted makes the implicit load attempt for Retrieve,
// serialized against concurrent builds.
func (p *Pipeline) loadPersisted() (*index.Index, error) {
	p.buildMu.Lock()
	defer p.buildMu.Unlock()

	// A build may have completed while we waited for the lock
	if ix := p.currentIndex(); ix != nil {
		return ix, nil
	}

	ix, err := index.Load(p.cfg.IndexDir)
	if err != nil {
		if errors.Is(err, index.ErrNoIndex) {
			return nil, fmt.Errorf("%w: build the index first", ErrNotInitialized)
		}
		return nil, fmt.Errorf("loading persisted index: %w", err)
	}

	p.setIndex(ix)
	return ix, nil
}

// Query runs the full RAG flow: retrieve context, format a grounded
// prompt, and generate an answer. topK and maxNewTokens fall back to
// the configured defaults when non-positive.
func (p *Pipeline) Query(ctx context.Context, question string, topK, maxNewTokens int) (models.Answer, error) {
	start := time.Now()

	answer, err := p.queryWithRAG(ctx, question, topK, maxNewTokens)
	if p.obs != nil {
		p.obs.RecordQuery(question, answer.ChunksRetrieved, time.Since(start), err)
	}
	return answer, err
}

func (p *Pipeline) queryWithRAG(ctx context.Context, question string, topK, maxNewTokens int) (models.Answer, error) {
	results, err := p.Retrieve(ctx, question, topK)
	if err != nil {
		return models.Answer{}, err
	}

	contextParts := make([]string, len(results))
	sourceSet := make(map[string]struct{})
	for i, r := range results {
		contextParts[i] = r.Metadata.Text
		sourceSet[r.Metadata.Source] = struct{}{}
	}
	contextText := strings.Join(contextParts, contextSeparator)

	sources := make([]string, 0, len(sourceSet))
	for s := range sourceSet {
		sources = append(sources, s)
	}
	sort.Strings(sources)

	generator, err := p.getGenerator()
	if err != nil {
		return models.Answer{}, fmt.Errorf("initializing generator: %w", err)
	}

	if maxNewTokens <= 0 {
		maxNewTokens = p.cfg.MaxNewTokens
	}

	prompt := generator.FormatPrompt(question, contextText)
	response, err := generator.Generate(ctx, prompt, maxNewTokens, p.cfg.Temperature)
	if err != nil {
		return models.Answer{}, fmt.Errorf("generating answer: %w", err)
	}

	return models.Answer{
		Answer:          response,
		Sources:         sources,
		Context:         contextText,
		ChunksRetrieved: len(results),
	}, nil
}

// QueryWithoutRAG generates an answer with no retrieved context,
// for comparison against the RAG-augmented path.
func (p *Pipeline) QueryWithoutRAG(ctx context.Context, question string) (models.Answer, error) {
	start := time.Now()

	answer, err := p.queryDirect(ctx, question)
	if p.obs != nil {
		p.obs.RecordQuery(question, 0, time.Since(start), err)
	}
	return answer, err
}

func (p *Pipeline) queryDirect(ctx context.Context, question string) (models.Answer, error) {
	generator, err := p.getGenerator()
	if err != nil {
		return models.Answer{}, fmt.Errorf("initializing generator: %w", err)
	}

	prompt := generator.FormatPrompt(question, "")
	response, err := generator.Generate(ctx, prompt, p.cfg.MaxNewTokens, p.cfg.Temperature)
	if err != nil {
		return models.Answer{}, fmt.Errorf("generating answer: %w", err)
	}

	return models.Answer{
		Answer:          response,
		Sources:         []string{},
		Context:         "",
		ChunksRetrieved: 0,
	}, nil
}

func truncateForLog(s string) string {
	runes := []rune(s)
	if len(runes) <= 50 {
		return s
	}
	return string(runes[:50]) + "..."
}
