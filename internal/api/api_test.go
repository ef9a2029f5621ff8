package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lesser-scholar/internal/api"
	"github.com/lesser-scholar/internal/config"
	"github.com/lesser-scholar/internal/mocks"
	"github.com/lesser-scholar/internal/models"
	"github.com/lesser-scholar/internal/service"
	"github.com/lesser-scholar/internal/validation"
	"github.com/rs/zerolog"
)

type testMocks struct {
	comment    *mocks.MockCommentService
	moderation *mocks.MockModerationService
	stats      *mocks.MockStatsService
}

func setupTestRouter() (*gin.Engine, *testMocks) {
	gin.SetMode(gin.TestMode)

	m := &testMocks{
		comment:    mocks.NewMockCommentService(),
		moderation: mocks.NewMockModerationService(),
		stats:      mocks.NewMockStatsService(),
	}

	services := &service.Services{
		Comment:    m.comment,
		Moderation: m.moderation,
		Stats:      m.stats,
	}

	cfg := config.Default()
	cfg.Admin.User = "admin"
	cfg.Admin.Password = "secret"

	router := api.NewRouter(services, cfg, zerolog.Nop())
	gin.SetMode(gin.TestMode)

	return router, m
}

func authed(req *http.Request) *http.Request {
	req.SetBasicAuth("admin", "secret")
	return req
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := setupTestRouter()

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)

	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", response["status"])
	}
	if response["service"] != "lesser-scholar" {
		t.Errorf("Expected service name, got %v", response["service"])
	}
}

func TestEveryRequestIsRecorded(t *testing.T) {
	router, m := setupTestRouter()

	for _, req := range []*http.Request{
		httptest.NewRequest("GET", "/health", nil),
		httptest.NewRequest("GET", "/a/intro?x=1", nil),
		httptest.NewRequest("GET", "/comment_approval", nil),
	} {
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	want := []string{"GET /health", "GET /a/intro", "GET /comment_approval"}
	got := m.stats.Recorded()
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Line %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestGetArticle(t *testing.T) {
	router, m := setupTestRouter()
	m.comment.ArticleFunc = func(ctx context.Context, name string) (*models.ArticleView, error) {
		if name != "intro" {
			return nil, service.ErrArticleNotFound
		}
		return &models.ArticleView{
			Name: "intro",
			Comments: []models.DisplayComment{
				{Author: "Anon", BodyHTML: "<p>hi</p>\n", PostIndex: 0, Replies: []int64{}},
			},
		}, nil
	}

	req := httptest.NewRequest("GET", "/a/intro", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var view models.ArticleView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(view.Comments) != 1 || view.Comments[0].Author != "Anon" {
		t.Errorf("Unexpected comments %+v", view.Comments)
	}

	req = httptest.NewRequest("GET", "/a/missing", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestGetIndex(t *testing.T) {
	router, m := setupTestRouter()
	m.comment.IndexFunc = func(ctx context.Context) (*models.Index, error) {
		return &models.Index{
			Articles: []models.Article{{Name: "intro", Title: "Introduction"}},
			Tags:     []models.Tag{{Name: "go", Count: 1, Articles: []string{"intro"}}},
		}, nil
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var index models.Index
	json.Unmarshal(w.Body.Bytes(), &index)
	if len(index.Articles) != 1 || len(index.Tags) != 1 || index.Tags[0].Name != "go" {
		t.Errorf("Unexpected index %+v", index)
	}
}

func TestGetTag(t *testing.T) {
	router, m := setupTestRouter()
	m.comment.TagFunc = func(ctx context.Context, name string) (*models.TagView, error) {
		if name != "go" {
			return nil, service.ErrTagNotFound
		}
		return &models.TagView{
			Tag:      models.Tag{Name: "go", Count: 1, Articles: []string{"intro"}},
			Articles: []models.Article{{Name: "intro", Title: "Introduction"}},
		}, nil
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/tag/go", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var view models.TagView
	json.Unmarshal(w.Body.Bytes(), &view)
	if view.Tag.Name != "go" || len(view.Articles) != 1 || view.Articles[0].Title != "Introduction" {
		t.Errorf("Unexpected tag view %+v", view)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/tag/cooking", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestSubmitComment_InvalidUTF8IsRejected(t *testing.T) {
	router, m := setupTestRouter()
	validator := validation.NewValidator(validation.DefaultLimits())
	m.comment.SubmitFunc = func(ctx context.Context, form *validation.CommentForm) (*models.UnmoderatedComment, error) {
		if errs := validator.ValidateComment(form); len(errs) > 0 {
			return nil, validation.Errors(errs)
		}
		return &models.UnmoderatedComment{ID: "ok"}, nil
	}

	req := httptest.NewRequest("POST", "/comment/intro", strings.NewReader("text=bad%FFtext"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestGetRecent(t *testing.T) {
	router, m := setupTestRouter()
	m.comment.RecentFunc = func(ctx context.Context) ([]models.Article, error) {
		return []models.Article{{Name: "intro", Title: "Introduction"}}, nil
	}

	req := httptest.NewRequest("GET", "/recent", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var response struct {
		Recent []models.Article `json:"recent"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	if len(response.Recent) != 1 || response.Recent[0].Title != "Introduction" {
		t.Errorf("Unexpected recent list %+v", response.Recent)
	}
}

func TestSubmitComment(t *testing.T) {
	router, m := setupTestRouter()

	form := url.Values{}
	form.Set("author", "Ada")
	form.Set("text", "@0 nice post")
	req := httptest.NewRequest("POST", "/comment/intro", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("Expected status 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/a/intro" {
		t.Errorf("Expected redirect to /a/intro, got %s", loc)
	}
	if len(m.comment.Submitted) != 1 {
		t.Fatalf("Expected 1 submission, got %d", len(m.comment.Submitted))
	}
	got := m.comment.Submitted[0]
	if got.Article != "intro" || got.Author != "Ada" || got.Text != "@0 nice post" || got.Website != "" {
		t.Errorf("Unexpected form %+v", got)
	}
}

func TestSubmitComment_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", validation.Errors{{Field: "text", Message: "comment is empty"}}, http.StatusBadRequest},
		{"unknown article", service.ErrArticleNotFound, http.StatusNotFound},
		{"storage", fmt.Errorf("write failed"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := setupTestRouter()
			m.comment.SubmitFunc = func(ctx context.Context, form *validation.CommentForm) (*models.UnmoderatedComment, error) {
				return nil, tt.err
			}

			req := httptest.NewRequest("POST", "/comment/intro", strings.NewReader("text="))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestModerationRequiresAuth(t *testing.T) {
	router, m := setupTestRouter()

	routes := []struct {
		method string
		path   string
	}{
		{"GET", "/comment_approval"},
		{"POST", "/comment_approval"},
		{"POST", "/comment_approval/by-id"},
		{"GET", "/stats"},
	}

	for _, r := range routes {
		req := httptest.NewRequest(r.method, r.path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected status 401, got %d", r.method, r.path, w.Code)
		}
		if got := w.Header().Get("WWW-Authenticate"); got != `Basic realm="Lesser Scholar"` {
			t.Errorf("%s %s: unexpected challenge %q", r.method, r.path, got)
		}
	}

	req := httptest.NewRequest("GET", "/comment_approval", nil)
	req.SetBasicAuth("admin", "wrong")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 for wrong password, got %d", w.Code)
	}

	if len(m.moderation.Applied) != 0 {
		t.Error("Expected no decisions applied without auth")
	}
}

func TestListPending(t *testing.T) {
	router, m := setupTestRouter()
	m.moderation.PendingFunc = func(ctx context.Context) ([]models.PendingComment, error) {
		return []models.PendingComment{
			{UnmoderatedComment: models.UnmoderatedComment{ID: "a", ArticleID: "intro", RawText: "hi"}, Position: 0, PreviewHTML: "<p>hi</p>\n"},
		}, nil
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authed(httptest.NewRequest("GET", "/comment_approval", nil)))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var response struct {
		Count   int                     `json:"count"`
		Pending []models.PendingComment `json:"pending"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response.Count != 1 || response.Pending[0].ID != "a" {
		t.Errorf("Unexpected response %+v", response)
	}
}

func TestApplyDecisions_KeepsBodyOrder(t *testing.T) {
	router, m := setupTestRouter()

	body := "k=ignore&k=approve&x=delete&k=approve"
	req := authed(httptest.NewRequest("POST", "/comment_approval", strings.NewReader(body)))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(m.moderation.Applied) != 1 {
		t.Fatalf("Expected 1 batch, got %d", len(m.moderation.Applied))
	}

	want := []models.Decision{models.DecisionIgnore, models.DecisionApprove, models.DecisionDelete, models.DecisionApprove}
	got := m.moderation.Applied[0]
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Decision %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestApplyDecisions_MalformedBatch(t *testing.T) {
	router, m := setupTestRouter()
	m.moderation.ApplyFunc = func(ctx context.Context, decisions []models.Decision) (*models.ModerationResult, error) {
		return nil, fmt.Errorf("%w: too many decisions", service.ErrMalformedBatch)
	}

	req := authed(httptest.NewRequest("POST", "/comment_approval", strings.NewReader("k=approve")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestApplyByID(t *testing.T) {
	router, m := setupTestRouter()

	body, _ := json.Marshal(map[string]interface{}{
		"decisions": map[string]string{"abc": "approve", "def": "delete"},
	})
	req := authed(httptest.NewRequest("POST", "/comment_approval/by-id", bytes.NewReader(body)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if len(m.moderation.AppliedByID) != 1 {
		t.Fatalf("Expected 1 batch, got %d", len(m.moderation.AppliedByID))
	}
	got := m.moderation.AppliedByID[0]
	if got["abc"] != models.DecisionApprove || got["def"] != models.DecisionDelete {
		t.Errorf("Unexpected decisions %v", got)
	}

	req = authed(httptest.NewRequest("POST", "/comment_approval/by-id", strings.NewReader("not json")))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for invalid body, got %d", w.Code)
	}
}

func TestGetStats(t *testing.T) {
	router, m := setupTestRouter()
	m.stats.StatsFunc = func(ctx context.Context) ([]models.StatEntry, error) {
		return []models.StatEntry{{Line: "GET /", Count: 3}}, nil
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authed(httptest.NewRequest("GET", "/stats", nil)))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var response struct {
		Count int                `json:"count"`
		Stats []models.StatEntry `json:"stats"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	if response.Count != 1 || response.Stats[0].Count != 3 {
		t.Errorf("Unexpected stats %+v", response)
	}
}

func TestParseDecisions(t *testing.T) {
	tests := []struct {
		body    string
		want    []models.Decision
		wantErr bool
	}{
		{"", nil, false},
		{"k=approve", []models.Decision{"approve"}, false},
		{"a=ignore&b=%61pprove", []models.Decision{"ignore", "approve"}, false},
		{"k=approve&broken", nil, true},
		{"k=%zz", nil, true},
	}

	for _, tt := range tests {
		got, err := api.ParseDecisions(tt.body)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDecisions(%q) error = %v, wantErr %v", tt.body, err, tt.wantErr)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("ParseDecisions(%q) = %v, want %v", tt.body, got, tt.want)
			continue
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("ParseDecisions(%q)[%d] = %s, want %s", tt.body, i, got[i], tt.want[i])
			}
		}
	}
}
