// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"legallens/internal/analysis"
	"legallens/internal/extract"
	"legallens/internal/version"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	msgNoFile        = "No file uploaded"
	msgNoFileName    = "No file selected"
	msgNoText        = "Could not extract text"
	msgTooLarge      = "File too large"
	msgInternalError = "Internal server error"
)

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, statusResponse{Status: "live", Message: "LegalLens Backend is Running!"})
}

type healthResponse struct {
	Status        string            `json:"status"`
	Timestamp     string            `json:"timestamp"`
	Service       string            `json:"service"`
	Version       string            `json:"version"`
	UptimeSeconds int64             `json:"uptime_seconds"`
	CachedResults int               `json:"cached_results"`
	BuildInfo     map[string]string `json:"build_info"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:        "healthy",
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Service:       "legallens-analyzer",
		Version:       version.Short(),
		UptimeSeconds: int64(time.Since(s.started).Seconds()),
		BuildInfo:     version.Full(),
	}
	if s.results != nil {
		resp.CachedResults = s.results.ItemCount()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnalyzeInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, statusResponse{Status: "waiting", Message: "Send a POST request with a file to analyze."})
}

func (s *Server) handleAnalyzeOptions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	log := s.logger.With(zap.String("request_id", RequestID(r.Context())))

	limit := s.cfg.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, msgTooLarge)
			return
		}
		log.Debug("Unparseable upload", zap.Error(err))
		s.writeError(w, http.StatusBadRequest, msgNoFile)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		// A part named "file" without a filename is parsed as a plain value.
		if _, present := r.MultipartForm.Value["file"]; present {
			s.writeError(w, http.StatusBadRequest, msgNoFileName)
			return
		}
		s.writeError(w, http.StatusBadRequest, msgNoFile)
		return
	}
	defer file.Close()
	if header.Filename == "" {
		s.writeError(w, http.StatusBadRequest, msgNoFileName)
		return
	}

	content, err := io.ReadAll(file)
	if err != nil {
		log.Error("Reading upload failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}
	upload := analysis.Upload{FileName: header.Filename, Content: content}

	key := cacheKey(upload)
	if result, ok := s.cached(key); ok {
		log.Debug("Serving cached analysis", zap.String("file_name", upload.FileName))
		s.writeJSON(w, http.StatusOK, result)
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), upload)
	switch {
	case errors.Is(err, extract.ErrNoText), errors.Is(err, extract.ErrInvalidPDF):
		log.Info("No text extracted", zap.String("file_name", upload.FileName), zap.Error(err))
		s.writeError(w, http.StatusUnprocessableEntity, msgNoText)
		return
	case err != nil:
		log.Error("Analysis failed", zap.String("file_name", upload.FileName), zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	if s.results != nil {
		s.results.Set(key, result.Clone(), cache.DefaultExpiration)
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) cached(key string) (*analysis.Result, bool) {
	if s.results == nil {
		return nil, false
	}
	v, found := s.results.Get(key)
	if !found {
		return nil, false
	}
	result, ok := v.(*analysis.Result)
	if !ok {
		return nil, false
	}
	return result.Clone(), true
}

// cacheKey hashes the file name together with the content, so renaming a
// document yields a result carrying the new name.
func cacheKey(upload analysis.Upload) string {
	h := sha256.New()
	h.Write([]byte(upload.FileName))
	h.Write([]byte{0})
	h.Write(upload.Content)
	return hex.EncodeToString(h.Sum(nil))
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("Writing response failed", zap.Error(err))
	}
}
