package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"readleaf/batch"
	"readleaf/cmd/api/dto"
	"readleaf/cmd/api/handlers"
	"readleaf/cmd/api/services"
	"readleaf/models"
)

type stubFinder struct {
	called bool
}

func (f *stubFinder) FindIDsByDateRange(ctx context.Context, from, to time.Time) ([]string, error) {
	f.called = true
	return nil, nil
}

type stubValidating struct {
	mu    sync.Mutex
	calls int
}

func (v *stubValidating) Validate(ctx context.Context, articleID string) models.ValidationReport {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls++
	outcomes := make([]models.ValidationOutcome, 0, len(models.AllTasks))
	for _, task := range models.AllTasks {
		outcomes = append(outcomes, models.ValidationOutcome{Task: task, Status: models.OutcomePass})
	}
	return models.ValidationReport{ArticleID: articleID, Outcomes: outcomes}
}

func validateRouter(finder *stubFinder, validating *stubValidating) *gin.Engine {
	gin.SetMode(gin.TestMode)
	repairer := batch.NewRepairer(finder, validating, nil, 2, time.Second)
	svc := services.NewValidationService(repairer)

	r := gin.New()
	r.POST("/api/v1/articles/validate", handlers.ValidateArticlesHandler(svc))
	return r
}

func postValidate(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/articles/validate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestValidateHandlerRejectsMalformedDateBeforeAnyWork(t *testing.T) {
	finder := &stubFinder{}
	validating := &stubValidating{}
	r := validateRouter(finder, validating)

	w := postValidate(t, r, `{"filterDate": "03-15-2026"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, finder.called, "no id resolution on malformed date")
	assert.Zero(t, validating.calls, "no validation on malformed date")
}

func TestValidateHandlerRejectsEmptySelector(t *testing.T) {
	r := validateRouter(&stubFinder{}, &stubValidating{})
	w := postValidate(t, r, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateHandlerRejectsMalformedJSON(t *testing.T) {
	r := validateRouter(&stubFinder{}, &stubValidating{})
	w := postValidate(t, r, `{"ids":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateHandlerSummarizesBatch(t *testing.T) {
	validating := &stubValidating{}
	r := validateRouter(&stubFinder{}, validating)

	w := postValidate(t, r, `{"ids": ["a", "b", "c"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ValidateResponseDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 3, resp.Success)
	assert.Equal(t, 0, resp.Failed)
	assert.Equal(t, 3, validating.calls)
}

func TestValidateHandlerEmitsEmptyDetailsArrayWhenNothingMatches(t *testing.T) {
	finder := &stubFinder{}
	r := validateRouter(finder, &stubValidating{})

	w := postValidate(t, r, `{"filterDate": "2026-03-15"}`)
	require.Equal(t, http.StatusOK, w.Code)

	assert.True(t, finder.called)
	assert.JSONEq(t, `{"total": 0, "success": 0, "failed": 0, "details": []}`, w.Body.String())
}

type stubReader struct {
	article *models.Article
	err     error
}

func (s *stubReader) GetByID(ctx context.Context, id string) (*models.Article, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.article, nil
}

func (s *stubReader) IncrementReadCount(ctx context.Context, id string) error {
	return s.err
}

type stubURLs struct{}

func (stubURLs) PublicURL(key string) string { return "https://cdn.example.com/" + key }

func TestGetArticleHandlerRejectsBadHex(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := services.NewArticleService(&stubReader{err: primitive.ErrInvalidHex}, stubURLs{})

	r := gin.New()
	r.GET("/api/v1/articles/:id", handlers.GetArticleHandler(svc))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/articles/not-hex", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetArticleHandlerResolvesMediaURLs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	id := primitive.NewObjectID()
	svc := services.NewArticleService(&stubReader{article: &models.Article{ID: id, Title: "The Fox"}}, stubURLs{})

	r := gin.New()
	r.GET("/api/v1/articles/:id", handlers.GetArticleHandler(svc))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/articles/"+id.Hex(), nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ArticleDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "The Fox", resp.Title)
	assert.Equal(t, "https://cdn.example.com/images/"+id.Hex()+".png", resp.ImageURL)
	assert.Equal(t, "https://cdn.example.com/audio/"+id.Hex()+".mp3", resp.AudioURL)
}
