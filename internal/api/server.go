package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fmuoria/interview-coach/internal/agent"
	"github.com/fmuoria/interview-coach/internal/export"
	"github.com/fmuoria/interview-coach/internal/ingestion"
	"github.com/fmuoria/interview-coach/internal/models"
	"github.com/fmuoria/interview-coach/internal/results"
	"github.com/fmuoria/interview-coach/internal/scoring"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	maxJSONBody   = 1 << 20  // 1 MB
	maxUploadBody = 32 << 20 // 32 MB
)

// Server handles HTTP requests
type Server struct {
	agent *agent.InterviewAgent
}

// NewServer creates a new API server
func NewServer(agent *agent.InterviewAgent) *Server {
	return &Server{
		agent: agent,
	}
}

// Router returns the HTTP router
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /questions", s.handleQuestions)
	mux.HandleFunc("POST /evaluate", s.handleEvaluate)

	mux.HandleFunc("POST /interviews", s.handleSubmit)
	mux.HandleFunc("POST /interviews/transcript", s.handleSubmitTranscript)
	mux.HandleFunc("GET /interviews", s.handleListInterviews)
	mux.HandleFunc("GET /interviews/{id}", s.handleGetInterview)
	mux.HandleFunc("DELETE /interviews/{id}", s.handleDeleteInterview)
	mux.HandleFunc("POST /interviews/{id}/notes", s.handleAddNote)
	mux.HandleFunc("POST /interviews/{id}/coach", s.handleCoach)
	mux.HandleFunc("GET /interviews/{id}/export", s.handleExport)

	mux.HandleFunc("POST /documents", s.handleUploadDocuments)
	mux.HandleFunc("GET /documents", s.handleListDocuments)
	mux.HandleFunc("DELETE /documents/{name}", s.handleDeleteDocument)

	return s.loggingMiddleware(mux)
}

// handleRoot provides API information
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"service": "Interview Coach",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"GET /questions":              "Configured interview questions",
			"POST /evaluate":              "Score answers without storing them",
			"POST /interviews":            "Submit a mock interview",
			"POST /interviews/transcript": "Submit a Q:/A: transcript file or library document",
			"GET /interviews":             "List results (filter, sort, search)",
			"GET /interviews/{id}":        "Get one result",
			"DELETE /interviews/{id}":     "Delete a result",
			"POST /interviews/{id}/notes": "Attach a note to a result",
			"POST /interviews/{id}/coach": "Ask the AI coach to review a result",
			"GET /interviews/{id}/export": "Download a result as Excel",
			"POST /documents":             "Upload documents to the library",
			"GET /documents":              "List library documents",
			"DELETE /documents/{name}":    "Delete a library document",
			"GET /health":                 "Health check",
		},
	})
}

// handleHealth provides a health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"coach":  s.agent.HasCoach(),
	})
}

func (s *Server) handleQuestions(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string][]string{
		"questions": s.agent.Questions(),
	})
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req models.EvaluateRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	result, err := s.agent.Evaluate(req)
	if err != nil {
		s.respondAgentError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var sub models.Submission
	if !s.decodeJSON(w, r, &sub) {
		return
	}

	record, err := s.agent.Submit(r.Context(), sub)
	if err != nil {
		s.respondAgentError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, record)
}

// handleSubmitTranscript accepts a multipart form holding either an uploaded
// "transcript" file or the name of a library document in "document"
func (s *Server) handleSubmitTranscript(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBody); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse form: %v", err))
		return
	}

	sub := models.Submission{
		Company:  r.FormValue("company"),
		Position: r.FormValue("position"),
		Notes:    r.FormValue("notes"),
	}
	if v := r.FormValue("confidence_level"); v != "" {
		confidence, err := strconv.Atoi(v)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "confidence_level must be an integer")
			return
		}
		sub.ConfidenceLevel = confidence
	}

	if name := r.FormValue("document"); name != "" {
		record, err := s.agent.SubmitDocument(r.Context(), sub, name)
		if err != nil {
			s.respondAgentError(w, err)
			return
		}
		s.respondJSON(w, http.StatusCreated, record)
		return
	}

	file, header, err := r.FormFile("transcript")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "a transcript file or document name is required")
		return
	}
	defer file.Close()

	if strings.ToLower(filepath.Ext(header.Filename)) != ".txt" {
		s.respondError(w, http.StatusBadRequest, "uploaded transcripts must be .txt; upload other formats to /documents first")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to read transcript: %v", err))
		return
	}
	if ingestion.IsBinaryData(string(data)) {
		s.respondError(w, http.StatusBadRequest, "transcript does not contain readable text")
		return
	}

	record, err := s.agent.SubmitTranscript(r.Context(), sub, string(data))
	if err != nil {
		s.respondAgentError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, record)
}

func (s *Server) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter, err := results.ParseFilter(query.Get("filter"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	sortOrder, err := results.ParseSortOrder(query.Get("sort"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	records, err := s.agent.List(r.Context(), results.Query{
		Filter: filter,
		Search: query.Get("search"),
		Sort:   sortOrder,
	})
	if err != nil {
		s.respondAgentError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":      len(records),
		"interviews": records,
	})
}

func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	record, err := s.agent.Get(r.Context(), id)
	if err != nil {
		s.respondAgentError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, record)
}

func (s *Server) handleDeleteInterview(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	if err := s.agent.Delete(r.Context(), id); err != nil {
		s.respondAgentError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddNote(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	var note models.Comment
	if !s.decodeJSON(w, r, &note) {
		return
	}

	record, err := s.agent.AddNote(r.Context(), id, note.Title, note.Text)
	if err != nil {
		s.respondAgentError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, record)
}

func (s *Server) handleCoach(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	report, err := s.agent.Coach(r.Context(), id)
	if err != nil {
		s.respondAgentError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r)
	if !ok {
		return
	}

	record, err := s.agent.Get(r.Context(), id)
	if err != nil {
		s.respondAgentError(w, err)
		return
	}

	// Build the workbook in memory so a failure can still be reported as JSON
	var buf bytes.Buffer
	if err := export.WriteInterview(record, &buf); err != nil {
		s.respondAgentError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "interview_"+id.String()+".xlsx"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("Failed to write export for %s: %v", id, err)
	}
}

// handleUploadDocuments saves every file in the "files" form field to the document library
func (s *Server) handleUploadDocuments(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBody); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Failed to parse form: %v", err))
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		s.respondError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	saved := []string{}
	skipped := []string{}
	for _, fileHeader := range files {
		if !ingestion.IsSupported(fileHeader.Filename) {
			log.Printf("Skipping unsupported file type: %s", fileHeader.Filename)
			skipped = append(skipped, fileHeader.Filename)
			continue
		}

		if err := s.saveUpload(fileHeader); err != nil {
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		log.Printf("Saved file: %s", fileHeader.Filename)
		saved = append(saved, fileHeader.Filename)
	}

	s.respondJSON(w, http.StatusCreated, map[string][]string{
		"saved":   saved,
		"skipped": skipped,
	})
}

func (s *Server) saveUpload(fileHeader *multipart.FileHeader) error {
	file, err := fileHeader.Open()
	if err != nil {
		return fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	if _, err := s.agent.FileHandler.SaveUploadedFile(fileHeader.Filename, file); err != nil {
		return fmt.Errorf("failed to save file %s: %w", fileHeader.Filename, err)
	}
	return nil
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.agent.FileHandler.ListDocuments()
	if err != nil {
		s.respondAgentError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":     len(docs),
		"documents": docs,
	})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.agent.FileHandler.DeleteDocument(r.PathValue("name")); err != nil {
		s.respondAgentError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pathID parses the {id} path segment, answering 400 when it is not a UUID
func (s *Server) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid interview id")
		return uuid.Nil, false
	}
	return id, true
}

// decodeJSON reads a JSON request body into v, answering 400 on failure
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid JSON body: %v", err))
		return false
	}
	return true
}

// respondAgentError maps domain errors onto HTTP status codes
func (s *Server) respondAgentError(w http.ResponseWriter, err error) {
	var scoringErr *scoring.ValidationError
	var fieldErrs validator.ValidationErrors

	switch {
	case errors.As(err, &scoringErr), errors.As(err, &fieldErrs):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, results.ErrNotFound), errors.Is(err, ingestion.ErrDocumentNotFound):
		s.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, agent.ErrCoachUnavailable):
		s.respondError(w, http.StatusServiceUnavailable, err.Error())
	default:
		log.Printf("Request failed: %v", err)
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// respondJSON sends a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON response: %v", err)
	}
}

// respondError sends an error response
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("%s %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
	})
}
