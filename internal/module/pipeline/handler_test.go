package pipeline

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/quickai/server/internal/module/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(f *fixture, caller *Caller) *gin.Engine {
	r := gin.New()
	if caller != nil {
		r.Use(func(c *gin.Context) {
			SetCaller(c, *caller)
			c.Next()
		})
	}
	NewHandler(f.pipeline, zap.NewNop()).RegisterRoutes(r.Group("/api/ai"))
	return r
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postForm(t *testing.T, r http.Handler, path, fileField string, fileData []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, "upload.bin")
		require.NoError(t, err)
		_, err = fw.Write(fileData)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestHandler_GenerateArticle(t *testing.T) {
	f := newFixture(t)
	caller := freeCaller(1)
	r := newTestRouter(f, &caller)

	f.llm.On("Complete", mock.Anything, "Write a haiku", 50).Return("old pond", nil)
	f.records.On("Record", mock.Anything, mock.Anything).Return(nil)
	f.usage.On("Increment", mock.Anything, "user_1").Return(nil)

	w := postJSON(r, "/api/ai/generate-article", `{"prompt":"Write a haiku","length":50}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"success": true, "content": "old pond"}, decode(t, w))
}

func TestHandler_LimitReached(t *testing.T) {
	f := newFixture(t)
	caller := freeCaller(10)
	r := newTestRouter(f, &caller)

	w := postJSON(r, "/api/ai/generate-blog-title", `{"prompt":"go"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"success": false, "message": "Limit reached. Upgrade to continue"}, decode(t, w))
}

func TestHandler_PremiumOnly(t *testing.T) {
	f := newFixture(t)
	caller := freeCaller(0)
	r := newTestRouter(f, &caller)

	w := postJSON(r, "/api/ai/generate-image", `{"prompt":"a cat"}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, map[string]any{"success": false, "message": "This feature is available in premium plan"}, decode(t, w))
}

func TestHandler_ImageFailureIncludesError(t *testing.T) {
	f := newFixture(t)
	caller := premiumCaller()
	r := newTestRouter(f, &caller)

	f.images.On("Generate", mock.Anything, "a cat").Return(nil, errors.New("upstream 402"))

	w := postJSON(r, "/api/ai/generate-image", `{"prompt":"a cat","publish":true}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Failed to generate image", body["message"])
	assert.Equal(t, "upstream 402", body["error"])
}

func TestHandler_TextFailureHasNoErrorField(t *testing.T) {
	f := newFixture(t)
	caller := freeCaller(0)
	r := newTestRouter(f, &caller)

	f.llm.On("Complete", mock.Anything, "go", 100).Return("", errors.New("boom"))

	w := postJSON(r, "/api/ai/generate-blog-title", `{"prompt":"go"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]any{"success": false, "message": "Failed to generate blog title"}, decode(t, w))
}

func TestHandler_MalformedBody(t *testing.T) {
	f := newFixture(t)
	caller := freeCaller(0)
	r := newTestRouter(f, &caller)

	w := postJSON(r, "/api/ai/generate-article", `{"prompt":`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])
	f.assertNoSideEffects(t)
}

func TestHandler_RemoveImageObject(t *testing.T) {
	f := newFixture(t)
	caller := premiumCaller()
	r := newTestRouter(f, &caller)

	f.store.On("Upload", mock.Anything, mock.MatchedBy(func(in *media.UploadInput) bool {
		return string(in.Data) == "jpeg-bytes" && in.Filename == "upload.bin"
	})).Return(&media.Asset{PublicID: "p1", SecureURL: "https://cdn/p1"}, nil)
	f.store.On("TransformURL", "p1", "e_gen_remove:car").Return("https://cdn/e_gen_remove:car/p1", nil)
	f.records.On("Record", mock.Anything, mock.Anything).Return(nil)

	w := postForm(t, r, "/api/ai/remove-image-object", "image", []byte("jpeg-bytes"), map[string]string{"object": "car"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"success": true, "secure_url": "https://cdn/e_gen_remove:car/p1"}, decode(t, w))
}

func TestHandler_RemoveImageBackground_MissingFile(t *testing.T) {
	f := newFixture(t)
	caller := premiumCaller()
	r := newTestRouter(f, &caller)

	w := postForm(t, r, "/api/ai/remove-image-background", "", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"success": false, "message": "Image file is required"}, decode(t, w))
}

func TestHandler_ResumeReview(t *testing.T) {
	f := newFixture(t)
	caller := premiumCaller()
	r := newTestRouter(f, &caller)

	f.extractor.On("ExtractText", mock.Anything, mock.Anything, int64(8)).Return("resume", nil)
	f.llm.On("Complete", mock.Anything, mock.Anything, 4096).Return("good", nil)
	f.records.On("Record", mock.Anything, mock.Anything).Return(nil)

	w := postForm(t, r, "/api/ai/resume-review", "resume", []byte("%PDF-1.4"), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{"success": true, "content": "good"}, decode(t, w))
}

func TestHandler_WithoutCaller(t *testing.T) {
	f := newFixture(t)
	r := newTestRouter(f, nil)

	w := postJSON(r, "/api/ai/generate-article", `{"prompt":"x"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	f.assertNoSideEffects(t)
}
