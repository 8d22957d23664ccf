package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fmuoria/interview-coach/internal/agent"
	"github.com/fmuoria/interview-coach/internal/ingestion"
	"github.com/fmuoria/interview-coach/internal/models"
	"github.com/fmuoria/interview-coach/internal/results"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const starAnswer = "I led a team of five engineers, for example when we shipped a new checkout flow. " +
	"We resulted in a 20% conversion lift. It was a challenging project. I learned to delegate effectively."

type stubReviewer struct {
	err error
}

func (s stubReviewer) Review(_ context.Context, _ models.InterviewRecord) (models.CoachingReport, error) {
	if s.err != nil {
		return models.CoachingReport{}, s.err
	}
	return models.CoachingReport{Summary: "Good pacing.", Tips: []string{"Quantify results"}}, nil
}

type testEnv struct {
	agent      *agent.InterviewAgent
	handler    http.Handler
	uploadsDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	a := agent.NewInterviewAgent(results.NewMemoryStore(), ingestion.NewFileHandler(dir), []string{"Describe a challenging project"})
	t.Cleanup(func() { a.Close() })
	return &testEnv{agent: a, handler: NewServer(a).Router(), uploadsDir: dir}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) submit(t *testing.T, company, answer string) models.InterviewRecord {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/interviews", models.Submission{
		Company:         company,
		Questions:       []string{"Describe a challenging project"},
		Answers:         []string{answer},
		ConfidenceLevel: 70,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var record models.InterviewRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	return record
}

func multipartBody(t *testing.T, fields map[string]string, fileField, filename, content string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestRootAndHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Interview Coach")

	rec = env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","coach":false}`, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuestions(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/questions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"questions":["Describe a challenging project"]}`, rec.Body.String())
}

func TestEvaluate(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/evaluate", models.EvaluateRequest{
		Questions:       []string{"Describe a project"},
		Answers:         []string{starAnswer},
		ConfidenceLevel: 80,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result models.InterviewResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 90, result.OverallScore)
	require.Len(t, result.DetailedFeedback, 1)
}

func TestEvaluate_BadRequests(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body interface{}
	}{
		{name: "malformed json", body: `{"questions": [`},
		{name: "length mismatch", body: models.EvaluateRequest{Questions: []string{"Q1", "Q2"}, Answers: []string{"A"}}},
		{name: "confidence out of range", body: models.EvaluateRequest{Questions: []string{"Q"}, Answers: []string{"A"}, ConfidenceLevel: -5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/evaluate", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decodeError(t, rec))
		})
	}
}

func TestSubmitGetAndList(t *testing.T) {
	env := newTestEnv(t)

	acme := env.submit(t, "Acme", starAnswer)
	env.submit(t, "Globex", "")

	assert.Equal(t, "Acme Interview", acme.Title)
	assert.Equal(t, 90, acme.Score)

	rec := env.do(t, http.MethodGet, "/interviews/"+acme.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.InterviewRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, acme.ID, got.ID)

	rec = env.do(t, http.MethodGet, "/interviews?sort=Score+(Low+to+High)", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Count      int                      `json:"count"`
		Interviews []models.InterviewRecord `json:"interviews"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Equal(t, 2, list.Count)
	assert.Equal(t, "Globex Interview", list.Interviews[0].Title)

	rec = env.do(t, http.MethodGet, "/interviews?filter=90%25%2B", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)

	rec = env.do(t, http.MethodGet, "/interviews?filter=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/interviews?sort=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetInterview_Errors(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/interviews/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/interviews/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteInterview(t *testing.T) {
	env := newTestEnv(t)
	record := env.submit(t, "Acme", starAnswer)

	rec := env.do(t, http.MethodDelete, "/interviews/"+record.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodDelete, "/interviews/"+record.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddNote(t *testing.T) {
	env := newTestEnv(t)
	record := env.submit(t, "Acme", starAnswer)

	rec := env.do(t, http.MethodPost, "/interviews/"+record.ID.String()+"/notes", models.Comment{Title: "Reminder", Text: "Research the team"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.InterviewRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Reminder", updated.Comments[len(updated.Comments)-1].Title)

	rec = env.do(t, http.MethodPost, "/interviews/"+record.ID.String()+"/notes", models.Comment{Text: "missing title"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCoach(t *testing.T) {
	env := newTestEnv(t)
	record := env.submit(t, "Acme", starAnswer)
	path := "/interviews/" + record.ID.String() + "/coach"

	rec := env.do(t, http.MethodPost, path, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	env.agent.SetCoach(stubReviewer{})
	rec = env.do(t, http.MethodPost, path, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"summary":"Good pacing.","tips":["Quantify results"]}`, rec.Body.String())

	env.agent.SetCoach(stubReviewer{err: errors.New("upstream failure")})
	rec = env.do(t, http.MethodPost, path, nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestExport(t *testing.T) {
	env := newTestEnv(t)
	record := env.submit(t, "Acme", starAnswer)

	rec := env.do(t, http.MethodGet, "/interviews/"+record.ID.String()+"/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), record.ID.String())

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Summary", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Interview", title)
}

func TestSubmitTranscript_Upload(t *testing.T) {
	env := newTestEnv(t)

	transcript := "Q: Describe a challenging project\nA: " + starAnswer + "\n"
	body, contentType := multipartBody(t, map[string]string{"company": "Initech", "confidence_level": "75"}, "transcript", "initech.txt", transcript)

	req := httptest.NewRequest(http.MethodPost, "/interviews/transcript", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var record models.InterviewRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, "Initech Interview", record.Title)
	assert.Equal(t, 75, record.Result.ConfidenceLevel)
	assert.Equal(t, 90, record.Score)
}

func TestSubmitTranscript_Errors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name     string
		fields   map[string]string
		filename string
		content  string
		want     int
	}{
		{name: "no file or document", fields: map[string]string{"company": "Acme"}, want: http.StatusBadRequest},
		{name: "bad confidence", fields: map[string]string{"confidence_level": "high"}, filename: "t.txt", content: "Q: a\nA: b", want: http.StatusBadRequest},
		{name: "not txt", filename: "t.pdf", content: "%PDF-1.4", want: http.StatusBadRequest},
		{name: "no questions", filename: "t.txt", content: "no markers here", want: http.StatusBadRequest},
		{name: "unknown document", fields: map[string]string{"document": "missing.txt"}, want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileField := ""
			if tt.filename != "" {
				fileField = "transcript"
			}
			body, contentType := multipartBody(t, tt.fields, fileField, tt.filename, tt.content)

			req := httptest.NewRequest(http.MethodPost, "/interviews/transcript", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			env.handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestDocuments(t *testing.T) {
	env := newTestEnv(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range map[string]string{
		"acme_transcript.txt": "Q: Describe a challenging project\nA: " + starAnswer,
		"photo.png":           "png",
	} {
		fw, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"saved":["acme_transcript.txt"],"skipped":["photo.png"]}`, rec.Body.String())

	_, err := os.Stat(filepath.Join(env.uploadsDir, "acme_transcript.txt"))
	require.NoError(t, err)

	rec = env.do(t, http.MethodGet, "/documents", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"kind":"transcript"`)

	// Evaluate the stored transcript by name
	body, contentType := multipartBody(t, map[string]string{"document": "acme_transcript.txt", "company": "Acme"}, "", "", "")
	req = httptest.NewRequest(http.MethodPost, "/interviews/transcript", body)
	req.Header.Set("Content-Type", contentType)
	rec = httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodDelete, "/documents/acme_transcript.txt", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(t, http.MethodDelete, "/documents/acme_transcript.txt", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUploadDocuments_NoFiles(t *testing.T) {
	env := newTestEnv(t)

	body, contentType := multipartBody(t, map[string]string{"x": "y"}, "", "", "")
	req := httptest.NewRequest(http.MethodPost, "/documents", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.Contains(decodeError(t, rec), "no files"))
}
