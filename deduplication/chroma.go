package deduplication

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"dedupgate/config"
)

// Chroma wraps the Chroma vector database REST API. Chroma v2 expects
// client-supplied embeddings, so every write and query goes through the
// configured embeddings provider.
type Chroma struct {
	baseURL        string
	tenant         string
	database       string
	collectionName string
	collectionID   string
	httpClient     *http.Client
	embedder       EmbeddingsProvider
}

// ChromaConfig holds configuration for the Chroma connection.
type ChromaConfig struct {
	Host           string
	Port           int
	CollectionName string
	EmbeddingModel string
}

// GetResults represents the response from a get request.
type GetResults struct {
	IDs       []string                 `json:"ids"`
	Metadatas []map[string]interface{} `json:"metadatas"`
	Documents []string                 `json:"documents"`
}

// NewChroma creates a Chroma wrapper with an embeddings provider and ensures
// the collection exists.
func NewChroma(ctx context.Context, cfg ChromaConfig) (*Chroma, error) {
	wrapper := newChromaBase(cfg)

	wrapper.embedder = NewDefaultEmbeddingsProvider(cfg.EmbeddingModel)
	if wrapper.embedder == nil {
		return nil, fmt.Errorf("no embeddings provider configured: set COHERE_API_KEY or OPENAI_API_KEY (Chroma v2 requires client-side embeddings)")
	}
	log.Printf("Using embeddings provider: %s", wrapper.embedder.ModelName())

	collectionID, err := wrapper.getOrCreateCollection(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create collection: %w", err)
	}
	wrapper.collectionID = collectionID
	return wrapper, nil
}

// NewChromaReadOnly creates a wrapper without an embeddings provider, enough
// for count and clear operations.
func NewChromaReadOnly(ctx context.Context, cfg ChromaConfig) (*Chroma, error) {
	wrapper := newChromaBase(cfg)

	collectionID, err := wrapper.getOrCreateCollection(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create collection: %w", err)
	}
	wrapper.collectionID = collectionID
	return wrapper, nil
}

func newChromaBase(cfg ChromaConfig) *Chroma {
	name := cfg.CollectionName
	if name == "" {
		name = config.DefaultCollection
	}
	return &Chroma{
		baseURL:        fmt.Sprintf("http://%s:%d/api/v2", cfg.Host, cfg.Port),
		tenant:         "default_tenant",
		database:       "default_database",
		collectionName: name,
		httpClient:     &http.Client{},
	}
}

// EmbeddingModel returns the model identifier the collection is tied to.
func (c *Chroma) EmbeddingModel() string {
	if c.embedder == nil {
		return config.DefaultEmbeddingModel
	}
	return c.embedder.ModelName()
}

// getOrCreateCollection gets an existing collection or creates a new one.
func (c *Chroma) getOrCreateCollection(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/tenants/%s/databases/%s/collections/%s", c.baseURL, c.tenant, c.database, c.collectionName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)

	if err == nil && resp.StatusCode == http.StatusOK {
		defer resp.Body.Close()
		var result map[string]interface{}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return "", err
		}
		id, ok := result["id"].(string)
		if !ok {
			return "", fmt.Errorf("collection response missing id")
		}
		log.Printf("Using existing collection: %s", c.collectionName)
		return id, nil
	}
	if resp != nil {
		resp.Body.Close()
	}

	log.Printf("Creating new collection: %s", c.collectionName)
	createURL := fmt.Sprintf("%s/tenants/%s/databases/%s/collections", c.baseURL, c.tenant, c.database)
	payload := map[string]interface{}{
		"name": c.collectionName,
		"metadata": map[string]interface{}{
			"description":  "customer registration deduplication corpus",
			"vector_index": IndexName(config.IndexBackend, c.EmbeddingModel()),
		},
		"get_or_create": true,
	}

	var result map[string]interface{}
	if err := c.postJSON(ctx, createURL, payload, &result); err != nil {
		return "", fmt.Errorf("failed to create collection: %w", err)
	}

	id, ok := result["id"].(string)
	if !ok {
		return "", fmt.Errorf("create collection response missing id")
	}
	return id, nil
}

// collectionURL returns the base URL for collection operations.
func (c *Chroma) collectionURL() string {
	return fmt.Sprintf("%s/tenants/%s/databases/%s/collections/%s", c.baseURL, c.tenant, c.database, c.collectionID)
}

// AddDocument adds a single document to the collection.
func (c *Chroma) AddDocument(ctx context.Context, doc Document) error {
	return c.AddDocuments(ctx, []Document{doc})
}

// AddDocuments adds multiple documents to the collection in one call.
func (c *Chroma) AddDocuments(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}
	if c.embedder == nil {
		return fmt.Errorf("embeddings provider not configured")
	}

	documents := make([]string, len(docs))
	metadatas := make([]map[string]interface{}, len(docs))
	ids := make([]string, len(docs))
	for i, doc := range docs {
		documents[i] = doc.Content
		metadatas[i] = doc.Metadata
		ids[i] = doc.ID
	}

	embs, err := c.embedder.EmbedTexts(ctx, documents)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}

	payload := map[string]interface{}{
		"documents":  documents,
		"metadatas":  metadatas,
		"ids":        ids,
		"embeddings": embs,
	}

	if err := c.postJSON(ctx, c.collectionURL()+"/add", payload, nil); err != nil {
		return fmt.Errorf("failed to add documents: %w", err)
	}

	log.Printf("Added %d document(s) to collection %s", len(docs), c.collectionName)
	return nil
}

// QuerySimilar searches for the nResults nearest documents, projecting ids,
// distances, metadatas and documents.
func (c *Chroma) QuerySimilar(ctx context.Context, queryText string, nResults int) (*QueryResults, error) {
	if c.embedder == nil {
		return nil, fmt.Errorf("embeddings provider not configured")
	}

	embs, err := c.embedder.EmbedTexts(ctx, []string{queryText})
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embeddings: %w", err)
	}

	payload := map[string]interface{}{
		"n_results":        nResults,
		"include":          []string{"metadatas", "documents", "distances"},
		"query_embeddings": embs,
	}

	var result QueryResults
	if err := c.postJSON(ctx, c.collectionURL()+"/query", payload, &result); err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}
	return &result, nil
}

// GetDocument retrieves a document by ID.
func (c *Chroma) GetDocument(ctx context.Context, id string) (*GetResults, error) {
	payload := map[string]interface{}{
		"ids": []string{id},
	}

	var result GetResults
	if err := c.postJSON(ctx, c.collectionURL()+"/get", payload, &result); err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &result, nil
}

// Count returns the number of documents in the collection.
func (c *Chroma) Count(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.collectionURL()+"/count", nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("failed to count documents: %s", string(body))
	}

	var count int
	if err := json.NewDecoder(resp.Body).Decode(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// ClearCollection removes every document from the collection.
func (c *Chroma) ClearCollection(ctx context.Context) error {
	// An empty where clause matches all documents.
	payload := map[string]interface{}{
		"where": map[string]interface{}{},
	}

	if err := c.postJSON(ctx, c.collectionURL()+"/delete", payload, nil); err != nil {
		return fmt.Errorf("failed to clear collection: %w", err)
	}

	log.Printf("Cleared collection %s", c.collectionName)
	return nil
}

// Close cleans up the wrapper. The REST client holds no persistent
// connection state, so this is a no-op kept for interface symmetry.
func (c *Chroma) Close() error {
	return nil
}

func (c *Chroma) postJSON(ctx context.Context, url string, payload, out interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return err
		}
	}
	return nil
}
