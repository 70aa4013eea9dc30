package server

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/pratham/resumeats/internal/analysis"
	"github.com/pratham/resumeats/internal/db"
	"github.com/pratham/resumeats/internal/extraction"
	"github.com/pratham/resumeats/internal/fetch"
	"github.com/pratham/resumeats/internal/server/middleware"
	"github.com/pratham/resumeats/internal/types"
)

// maxUploadBytes caps the analyze request body at 10 MiB, enforced with
// MaxBytesReader so oversized uploads never spill to disk.
const maxUploadBytes = 10 << 20

var requestValidator = validator.New()

// handleAnalyze scores an uploaded resume and returns the breakdown plus the
// generated narrative. Multipart form fields: resume (file, required),
// job_description or job_url (optional, mutually exclusive), analysis_type.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "Resume upload exceeds the 10 MiB limit")
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("resume")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "A resume document is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read resume upload: "+err.Error())
		return
	}

	resumeText, err := extraction.Text(header.Filename, data)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to extract resume text: "+err.Error())
		return
	}

	jobDescription := r.FormValue("job_description")
	jobURL := r.FormValue("job_url")
	if jobDescription != "" && jobURL != "" {
		s.errorResponse(w, http.StatusBadRequest, "job_description and job_url are mutually exclusive")
		return
	}
	if jobURL != "" {
		jobDescription, err = fetch.JobDescription(r.Context(), jobURL)
		if err != nil {
			s.errorResponse(w, http.StatusBadGateway, "Failed to fetch job description: "+err.Error())
			return
		}
	}

	depth, err := analysis.ParseDepth(r.FormValue("analysis_type"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	cache := s.sessions.CacheFor(userID)
	result, err := s.analyzer.Analyze(r.Context(), cache, resumeText, jobDescription, depth)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Analysis failed: "+err.Error())
		return
	}
	if result.NarrativeError != "" {
		log.Printf("Narrative generation failed for user %s: %s", userID, result.NarrativeError)
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleChat answers a follow-up question about a previous analysis.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := requestValidator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	cache := s.sessions.CacheFor(userID)
	answer, err := s.analyzer.Chat(r.Context(), cache, req.ResumeText, req.PreviousAnalysis, req.Question)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, "Failed to generate answer: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, types.ChatResponse{Answer: answer})
}

// handleFeedback stores a feedback message from the authenticated user.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req types.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := requestValidator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	fb, err := s.store.CreateFeedback(r.Context(), userID, req.Message)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to store feedback: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, fb)
}

// handleListFeedback returns the authenticated user's feedback messages,
// newest first. An optional limit query parameter caps the page size.
func (s *Server) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
	}

	items, err := s.store.ListFeedbackByUser(r.Context(), userID, limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to list feedback: "+err.Error())
		return
	}
	if items == nil {
		items = []db.Feedback{}
	}

	s.jsonResponse(w, http.StatusOK, items)
}

// handleMe returns the authenticated user's account.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := s.userService.Get(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, user)
}
