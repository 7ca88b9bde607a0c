package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dubey-IITB/resume-tracker/internal/bootstrap"
	"github.com/Dubey-IITB/resume-tracker/internal/config"
	"github.com/Dubey-IITB/resume-tracker/internal/lock"
	"github.com/Dubey-IITB/resume-tracker/internal/matching"
	"github.com/Dubey-IITB/resume-tracker/internal/middleware"
	"github.com/Dubey-IITB/resume-tracker/internal/repository"
	"github.com/Dubey-IITB/resume-tracker/internal/service"
	"github.com/Dubey-IITB/resume-tracker/internal/usecase"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// plainText treats uploaded bytes as the resume text.
type plainText struct{}

func (plainText) ExtractText(_ context.Context, data []byte) (string, error) {
	return string(data), nil
}

type scriptedCompleter func(prompt string) string

func (f scriptedCompleter) Complete(_ context.Context, prompt string) (string, error) {
	return f(prompt), nil
}

func oracleReplies(prompt string) string {
	switch {
	case strings.Contains(prompt, "Return ONLY the email address"):
		return "No email found"
	case strings.Contains(prompt, "Evaluate how well the candidate"):
		if strings.Contains(prompt, "Kubernetes") {
			return `{"score": 0.9}`
		}
		return "0.3"
	case strings.Contains(prompt, "Compare the following candidates"):
		return `{"1": 0.7, "2": 0.4}`
	case strings.Contains(prompt, "RESUME 1:"):
		if strings.Contains(prompt, "unreachable") {
			return "the model is overloaded"
		}
		return "```json\n" + `{"rankings":[{"resume_id":1,"overall_score":0.8}],"comparative_analysis":{"best_match":1,"reasoning":"operator experience"}}` + "\n```"
	}
	return "{}"
}

func newTestApp(t *testing.T, authRequired bool) (*fiber.App, *service.TokenService, *usecase.AuthUsecase) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, bootstrap.Migrate(db))

	log := zap.NewNop()
	candidates := repository.NewCandidateRepository(db)
	jobs := repository.NewJobRepository(db)
	oracle := service.NewOracleService(scriptedCompleter(oracleReplies), &config.OracleConfig{Timeout: time.Second}, log)
	tokens := service.NewTokenService("handler-secret", time.Hour)

	ranking := usecase.NewRankingUsecase(candidates, jobs, repository.NewMatchRepository(db), oracle, lock.NewLocalLocker(), matching.DefaultWeights(), 2, log)
	candidateUC := usecase.NewCandidateUsecase(candidates, jobs, service.NewLocalFileStorage(t.TempDir()), plainText{}, oracle, ranking, log)
	authUC := usecase.NewAuthUsecase(repository.NewUserRepository(db), tokens)

	app := fiber.New()
	api := app.Group("/api")
	guard := middleware.JWT(tokens, authRequired)
	NewCandidateHandler(candidateUC).RegisterRoutes(api, guard)
	NewJobHandler(usecase.NewJobUsecase(jobs)).RegisterRoutes(api, guard)
	NewRankingHandler(ranking).RegisterRoutes(api, guard)
	NewAuthHandler(authUC).RegisterRoutes(api, middleware.JWT(tokens, true))
	return app, tokens, authUC
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, gjson.Result) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, gjson.ParseBytes(body)
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

type resumeFile struct {
	name string
	text string
}

func uploadRequest(t *testing.T, target string, files []resumeFile, fields map[string][]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := w.CreateFormFile("resumes", f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.text))
		require.NoError(t, err)
	}
	for key, values := range fields {
		for _, v := range values {
			require.NoError(t, w.WriteField(key, v))
		}
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func TestJobLifecycle(t *testing.T) {
	app, _, _ := newTestApp(t, false)

	code, body := do(t, app, jsonRequest(http.MethodPost, "/api/jobs", `{"title":"SRE","jd_text":"Container orchestration","min_budget":90000,"max_budget":100000}`))
	require.Equal(t, fiber.StatusCreated, code, body.Raw)
	assert.Equal(t, "active", body.Get("data.status").String())
	id := body.Get("data.id").String()

	code, body = do(t, app, jsonRequest(http.MethodPost, "/api/jobs", `{"title":"","status":"archived"}`))
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.True(t, body.Get("details.status").Exists())

	code, _ = do(t, app, jsonRequest(http.MethodPut, "/api/jobs/"+id, `{"status":"draft"}`))
	assert.Equal(t, fiber.StatusOK, code)

	code, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/jobs/"+id, nil))
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "draft", body.Get("data.status").String())

	code, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/jobs/999", nil))
	assert.Equal(t, fiber.StatusNotFound, code)
	code, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/jobs/abc", nil))
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = do(t, app, httptest.NewRequest(http.MethodDelete, "/api/jobs/"+id, nil))
	assert.Equal(t, fiber.StatusOK, code)
	code, _ = do(t, app, httptest.NewRequest(http.MethodDelete, "/api/jobs/"+id, nil))
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestUploadRankAndCurate(t *testing.T) {
	app, _, _ := newTestApp(t, false)

	code, body := do(t, app, jsonRequest(http.MethodPost, "/api/jobs", `{"title":"SRE","jd_text":"Container orchestration","min_budget":90000,"max_budget":100000}`))
	require.Equal(t, fiber.StatusCreated, code, body.Raw)
	id := body.Get("data.id").String()

	code, body = do(t, app, httptest.NewRequest(http.MethodPost, "/api/jobs/"+id+"/rank", nil))
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
	assert.Equal(t, "fetching", body.Get("details.stage").String())

	files := []resumeFile{
		{name: "ana.pdf", text: "Ana Kubernetes operator ana@ops.io"},
		{name: "ben.pdf", text: "Ben frontend developer ben@web.io"},
	}
	code, body = do(t, app, uploadRequest(t, "/api/candidates/upload", files, map[string][]string{
		"current_ctc":  {"80000"},
		"expected_ctc": {"100000", "100000"},
	}))
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.True(t, body.Get("details.current_ctc").Exists())

	code, body = do(t, app, uploadRequest(t, "/api/candidates/upload", files, map[string][]string{
		"current_ctc":  {"80000,70000"},
		"expected_ctc": {"100000", "100000"},
	}))
	require.Equal(t, fiber.StatusOK, code, body.Raw)
	assert.Equal(t, int64(2), body.Get("meta.processed").Int())
	assert.Equal(t, "ana@ops.io", body.Get("data.0.email").String())

	code, body = do(t, app, httptest.NewRequest(http.MethodPost, "/api/jobs/"+id+"/rank", nil))
	require.Equal(t, fiber.StatusOK, code, body.Raw)
	assert.Equal(t, "ana@ops.io", body.Get("data.best_match").String())
	assert.InDelta(t, 0.4*0.9+0.3*0.7+0.3, body.Get("data.candidates.0.overall_score").Float(), 1e-9)
	assert.Equal(t, "Within budget", body.Get("data.candidates.0.salary_analysis.budget_fit").String())

	code, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/jobs/"+id+"/ranking", nil))
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "ben@web.io", body.Get("data.candidates.1.candidate_email").String())
	assert.Equal(t, "ben", body.Get("data.candidates.1.name").String())

	statusURL := "/api/jobs/" + id + "/matches/ben@web.io/status"
	code, _ = do(t, app, jsonRequest(http.MethodPatch, statusURL, `{"status":"hired"}`))
	assert.Equal(t, fiber.StatusBadRequest, code)
	code, _ = do(t, app, jsonRequest(http.MethodPatch, statusURL, `{"status":"saved"}`))
	assert.Equal(t, fiber.StatusOK, code)
	code, _ = do(t, app, jsonRequest(http.MethodPatch, "/api/jobs/"+id+"/matches/nobody@x.io/status", `{"status":"saved"}`))
	assert.Equal(t, fiber.StatusNotFound, code)

	code, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/candidates?page=1&page_size=1", nil))
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, int64(2), body.Get("pagination.total_items").Int())
	assert.True(t, body.Get("pagination.has_more").Bool())
}

func TestRankResumesWithoutStoring(t *testing.T) {
	app, _, _ := newTestApp(t, false)
	files := []resumeFile{
		{name: "ana.pdf", text: "Ana Kubernetes operator ana@ops.io"},
		{name: "ben.pdf", text: "Ben frontend developer ben@web.io"},
	}

	code, body := do(t, app, uploadRequest(t, "/api/candidates/rank", files, map[string][]string{"job_description": {"Container orchestration"}}))
	require.Equal(t, fiber.StatusOK, code, body.Raw)
	assert.Equal(t, "ana.pdf", body.Get("data.resumes.0").String())
	assert.Equal(t, int64(1), body.Get("data.analysis.comparative_analysis.best_match").Int())
	assert.InDelta(t, 0.8, body.Get("data.analysis.rankings.0.overall_score").Float(), 1e-9)

	code, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/candidates", nil))
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, int64(0), body.Get("pagination.total_items").Int())

	code, body = do(t, app, uploadRequest(t, "/api/candidates/rank", files, nil))
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "invalid_input", body.Get("error_code").String())

	code, body = do(t, app, uploadRequest(t, "/api/candidates/rank", files, map[string][]string{"job_description": {"unreachable"}}))
	assert.Equal(t, fiber.StatusBadGateway, code)
	assert.Equal(t, "analysis_unavailable", body.Get("error_code").String())
}

func TestProcessAndMatchRejectedBatch(t *testing.T) {
	app, _, _ := newTestApp(t, false)
	code, body := do(t, app, uploadRequest(t, "/api/candidates/process-and-match", []resumeFile{{name: "a.pdf", text: "Ana ana@ops.io"}}, map[string][]string{
		"job_description": {"Container orchestration"},
		"budget":          {"100000"},
		"current_ctc":     {"-1"},
		"expected_ctc":    {"100000"},
	}))
	assert.Equal(t, fiber.StatusUnprocessableEntity, code, body.Raw)
	assert.Equal(t, "batch_rejected", body.Get("error_code").String())
	assert.Equal(t, "a.pdf", body.Get("details.0.file_name").String())

	code, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/jobs", nil))
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, int64(0), body.Get("pagination.total_items").Int())
}

func TestProcessAndMatchReturnsAnalysis(t *testing.T) {
	app, _, _ := newTestApp(t, false)
	code, body := do(t, app, uploadRequest(t, "/api/candidates/process-and-match", []resumeFile{{name: "ana.pdf", text: "Ana Kubernetes operator ana@ops.io"}}, map[string][]string{
		"job_description": {"Kubernetes operator"},
		"budget":          {"100000"},
		"current_ctc":     {"80000"},
		"expected_ctc":    {"95000"},
	}))
	require.Equal(t, fiber.StatusOK, code, body.Raw)
	assert.Equal(t, "ana@ops.io", body.Get("data.best_match").String())
	assert.Equal(t, "ana@ops.io", body.Get("data.ranking_analysis.resumes.0").String())
	assert.Equal(t, "operator experience", body.Get("data.ranking_analysis.analysis.comparative_analysis.reasoning").String())
	assert.Equal(t, "Budget: 100000", body.Get("data.ranking.comparative_analysis.salary_considerations").String())
}

func TestGetCandidateByEscapedEmail(t *testing.T) {
	app, _, _ := newTestApp(t, false)
	code, body := do(t, app, uploadRequest(t, "/api/candidates/upload", []resumeFile{{name: "ana.pdf", text: "Ana ana@ops.io"}}, map[string][]string{
		"current_ctc":  {"1"},
		"expected_ctc": {"1"},
	}))
	require.Equal(t, fiber.StatusOK, code, body.Raw)

	code, body = do(t, app, httptest.NewRequest(http.MethodGet, "/api/candidates/ana%40ops.io", nil))
	require.Equal(t, fiber.StatusOK, code, body.Raw)
	assert.Equal(t, "ana@ops.io", body.Get("data.email").String())

	code, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/candidates/nobody%40x.io", nil))
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestUploadRejectsNonPDF(t *testing.T) {
	app, _, _ := newTestApp(t, false)
	code, _ := do(t, app, uploadRequest(t, "/api/candidates/upload", []resumeFile{{name: "cv.docx", text: "x"}}, map[string][]string{
		"current_ctc":  {"1"},
		"expected_ctc": {"1"},
	}))
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestAuthGuard(t *testing.T) {
	app, _, authUC := newTestApp(t, true)
	_, err := authUC.CreateUser(context.Background(), "rita@corp.io", "Rita", "correct-horse")
	require.NoError(t, err)

	code, _ := do(t, app, jsonRequest(http.MethodPost, "/api/jobs", `{"title":"SRE"}`))
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, _ = do(t, app, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"rita@corp.io","password":"nope-nope"}`))
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, body := do(t, app, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"rita@corp.io","password":"correct-horse"}`))
	require.Equal(t, fiber.StatusOK, code, body.Raw)
	token := body.Get("data.access_token").String()

	req := jsonRequest(http.MethodPost, "/api/jobs", `{"title":"SRE"}`)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	code, _ = do(t, app, req)
	assert.Equal(t, fiber.StatusCreated, code)

	me := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	me.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	code, body = do(t, app, me)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "rita@corp.io", body.Get("data.email").String())

	code, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/api/jobs", nil))
	assert.Equal(t, fiber.StatusOK, code)
}
