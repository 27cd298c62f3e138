package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"dedupgate/deduplication"
	"dedupgate/types"
)

// stubVectorStore returns every stored document for any query, which is
// enough to drive the comparison stage deterministically.
type stubVectorStore struct {
	docs    []deduplication.Document
	failing bool
}

func (s *stubVectorStore) QuerySimilar(ctx context.Context, queryText string, nResults int) (*deduplication.QueryResults, error) {
	if s.failing {
		return nil, fmt.Errorf("vector backend unavailable")
	}

	n := len(s.docs)
	if n > nResults {
		n = nResults
	}

	ids := make([]string, n)
	distances := make([]float32, n)
	metadatas := make([]map[string]interface{}, n)
	documents := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = s.docs[i].ID
		distances[i] = 0.1
		metadatas[i] = s.docs[i].Metadata
		documents[i] = s.docs[i].Content
	}

	return &deduplication.QueryResults{
		IDs:       [][]string{ids},
		Distances: [][]float32{distances},
		Metadatas: [][]map[string]interface{}{metadatas},
		Documents: [][]string{documents},
	}, nil
}

func (s *stubVectorStore) AddDocument(ctx context.Context, doc deduplication.Document) error {
	s.docs = append(s.docs, doc)
	return nil
}

func (s *stubVectorStore) AddDocuments(ctx context.Context, docs []deduplication.Document) error {
	s.docs = append(s.docs, docs...)
	return nil
}

func (s *stubVectorStore) Count(ctx context.Context) (int, error) { return len(s.docs), nil }

func (s *stubVectorStore) ClearCollection(ctx context.Context) error {
	s.docs = nil
	return nil
}

func (s *stubVectorStore) EmbeddingModel() string { return "stub-test-model" }

func (s *stubVectorStore) Close() error { return nil }

func newTestServer(t *testing.T, store *stubVectorStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dedup, err := deduplication.NewDeduplicatorWithClient(store, deduplication.DeduplicatorConfig{})
	if err != nil {
		t.Fatalf("failed to create deduplicator: %v", err)
	}
	return NewRouter(dedup)
}

func seededStore(t *testing.T) *stubVectorStore {
	t.Helper()

	store := &stubVectorStore{}
	rec := types.CustomerRecord{
		ID:       "cust-1",
		FullName: "Gesche Herrmann",
		Email:    "g.herrmann@web.de",
		Address:  "Gartenweg 3 10115 Berlin",
		Phone:    "030 1234567",
	}
	rec.Details = deduplication.RecordDetails(&rec)
	if err := store.AddDocument(context.Background(), deduplication.DocumentFromRecord(&rec)); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	return store
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewBuffer(b)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestServer(t, &stubVectorStore{})

	w := doRequest(t, router, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestCheckFlagsDuplicate(t *testing.T) {
	router := newTestServer(t, seededStore(t))

	w := doRequest(t, router, http.MethodPost, "/api/registration/check", map[string]interface{}{
		"registration": map[string]string{
			"full_name": "Gesche Herrmann",
			"email":     "g.herrmann@web.de",
			"address":   "Gartenweg 3 10115 Berlin",
			"phone":     "0301234567",
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var result types.CheckResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !result.IsDuplicate {
		t.Fatalf("expected duplicate verdict: %s", w.Body.String())
	}
	if result.Matches[0].ID != "cust-1" || result.Matches[0].CompositeScore != 4 {
		t.Fatalf("unexpected match: %+v", result.Matches[0])
	}
}

func TestCheckAcceptsNewCustomer(t *testing.T) {
	router := newTestServer(t, seededStore(t))

	w := doRequest(t, router, http.MethodPost, "/api/registration/check", map[string]interface{}{
		"registration": map[string]string{
			"full_name": "Theresa Vogel",
			"email":     "theresa.vogel@outlook.de",
			"phone":     "0351 777888",
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var result types.CheckResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.IsDuplicate {
		t.Fatalf("unrelated registration flagged: %s", w.Body.String())
	}
}

func TestCheckEmptyRegistrationIsUnprocessable(t *testing.T) {
	router := newTestServer(t, seededStore(t))

	w := doRequest(t, router, http.MethodPost, "/api/registration/check", map[string]interface{}{
		"registration": map[string]string{},
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422: %s", w.Code, w.Body.String())
	}
}

func TestCheckMissingRegistrationIsBadRequest(t *testing.T) {
	router := newTestServer(t, seededStore(t))

	w := doRequest(t, router, http.MethodPost, "/api/registration/check", map[string]interface{}{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
	}
}

func TestCheckUnknownMethodIsBadRequest(t *testing.T) {
	router := newTestServer(t, seededStore(t))

	w := doRequest(t, router, http.MethodPost, "/api/registration/check", map[string]interface{}{
		"registration": map[string]string{"email": "x@web.de"},
		"method":       "soundex",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
	}
}

func TestCheckRetrievalFailureIsBadGateway(t *testing.T) {
	router := newTestServer(t, &stubVectorStore{failing: true})

	w := doRequest(t, router, http.MethodPost, "/api/registration/check", map[string]interface{}{
		"registration": map[string]string{"email": "x@web.de"},
	})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502: %s", w.Code, w.Body.String())
	}
}

func TestRegisterAdmitsAndIndexes(t *testing.T) {
	store := seededStore(t)
	router := newTestServer(t, store)
	before := len(store.docs)

	w := doRequest(t, router, http.MethodPost, "/api/registration/register", map[string]interface{}{
		"registration": map[string]string{
			"full_name": "Theresa Vogel",
			"email":     "theresa.vogel@outlook.de",
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var result RegisterResponse
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Status != "registered" {
		t.Fatalf("status = %s, want registered", result.Status)
	}
	if result.Customer == nil || result.Customer.ID == "" {
		t.Fatalf("expected created customer in response: %s", w.Body.String())
	}
	if len(store.docs) != before+1 {
		t.Fatalf("corpus size = %d, want %d", len(store.docs), before+1)
	}
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	store := seededStore(t)
	router := newTestServer(t, store)
	before := len(store.docs)

	w := doRequest(t, router, http.MethodPost, "/api/registration/register", map[string]interface{}{
		"registration": map[string]string{
			"full_name": "Gesche Herrmann",
			"email":     "g.herrmann@web.de",
			"phone":     "030 1234567",
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var result RegisterResponse
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Status != "duplicate" {
		t.Fatalf("status = %s, want duplicate", result.Status)
	}
	if result.Customer != nil {
		t.Fatal("rejected registration must not create a customer")
	}
	if len(store.docs) != before {
		t.Fatalf("corpus size changed from %d to %d", before, len(store.docs))
	}
}

func TestCorpusCountAndClear(t *testing.T) {
	store := seededStore(t)
	router := newTestServer(t, store)

	w := doRequest(t, router, http.MethodGet, "/api/corpus/count", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("count status = %d, want 200", w.Code)
	}
	var count struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &count); err != nil {
		t.Fatalf("failed to decode count: %v", err)
	}
	if count.Count != 1 {
		t.Fatalf("count = %d, want 1", count.Count)
	}

	w = doRequest(t, router, http.MethodDelete, "/api/corpus/clear", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("clear status = %d, want 200", w.Code)
	}
	if len(store.docs) != 0 {
		t.Fatalf("store not cleared: %d docs left", len(store.docs))
	}
}

func TestCorpusAdd(t *testing.T) {
	store := &stubVectorStore{}
	router := newTestServer(t, store)

	w := doRequest(t, router, http.MethodPost, "/api/corpus/add", map[string]interface{}{
		"customer": map[string]string{
			"id":        "cust-9",
			"full_name": "Ronja Winkler",
			"phone":     "089 112233",
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if len(store.docs) != 1 || store.docs[0].ID != "cust-9" {
		t.Fatalf("customer not indexed: %+v", store.docs)
	}
}
