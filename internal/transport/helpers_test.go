package transport

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"menu-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// testEnvelope mirrors the response envelope with the payload left raw so
// each test can decode it into the shape it expects.
type testEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type testStack struct {
	router          chi.Router
	categoryRepo    *mockCategoryRepository
	subCategoryRepo *mockSubCategoryRepository
	itemRepo        *mockItemRepository
	assets          *mockAssetStore
}

func newTestStack() *testStack {
	categoryRepo := newMockCategoryRepository()
	subCategoryRepo := newMockSubCategoryRepository()
	itemRepo := newMockItemRepository()
	assets := &mockAssetStore{}
	logger := zap.NewNop()

	categoryService := service.NewCategoryService(categoryRepo, assets, logger)
	subCategoryService := service.NewSubCategoryService(subCategoryRepo, categoryRepo, assets, logger)
	itemService := service.NewItemService(itemRepo, categoryRepo, subCategoryRepo, assets, logger)

	router := chi.NewRouter()
	NewCategoryHandler(categoryService, logger).RegisterRoutes(router)
	NewSubCategoryHandler(subCategoryService, logger).RegisterRoutes(router)
	NewItemHandler(itemService, logger).RegisterRoutes(router)

	return &testStack{
		router:          router,
		categoryRepo:    categoryRepo,
		subCategoryRepo: subCategoryRepo,
		itemRepo:        itemRepo,
		assets:          assets,
	}
}

func (s *testStack) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// multipartRequest builds a multipart form request with the given fields
// and, when withImage is set, a small PNG-named file part.
func multipartRequest(t *testing.T, method, url string, fields map[string]string, withImage bool) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("write field %s: %v", name, err)
		}
	}
	if withImage {
		part, err := writer.CreateFormFile("image", "photo.png")
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := part.Write([]byte("not-a-real-png")); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func jsonRequest(t *testing.T, method, url string, body any) *http.Request {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(method, url, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func newRequest(method, url string) *http.Request {
	return httptest.NewRequest(method, url, nil)
}

func mustUnmarshal(t *testing.T, raw json.RawMessage, v any) {
	t.Helper()
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
}

func decodeEnvelope(t *testing.T, body io.Reader) testEnvelope {
	t.Helper()

	var envelope testEnvelope
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return envelope
}
