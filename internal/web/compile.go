package web

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/vertere-lang/vertere/compiler/codegen"
	"github.com/vertere-lang/vertere/compiler/errors"
	"github.com/vertere-lang/vertere/internal/diag"
)

type compileRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type diagnosticDTO struct {
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
}

type compileResponse struct {
	Code        string          `json:"code,omitempty"`
	Diagnostics []diagnosticDTO `json:"diagnostics,omitempty"`
	Cached      bool            `json:"cached"`
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	var req compileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	target := codegen.TargetName(req.Target)
	ctx := r.Context()

	program, diags := diag.Compile(req.Source, "playground")
	if diag.HasErrors(diags) {
		writeJSON(w, http.StatusOK, compileResponse{Diagnostics: toDTOs(diags)})
		return
	}

	if s.cache != nil {
		if result, ok := s.cache.Lookup(ctx, req.Source, target); ok {
			writeJSON(w, http.StatusOK, compileResponse{Code: result.Code, Diagnostics: toDTOs(diags), Cached: true})
			return
		}
	}

	result, err := codegen.Generate(program, target)
	if err != nil {
		s.logger.Warn("codegen failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if s.cache != nil {
		s.storeCacheAsync(ctx, req.Source, target, result)
	}

	writeJSON(w, http.StatusOK, compileResponse{Code: result.Code, Diagnostics: toDTOs(diags)})
}

func (s *Server) storeCacheAsync(ctx context.Context, source string, target codegen.TargetName, result codegen.Result) {
	if err := s.cache.Store(ctx, source, target, result); err != nil {
		s.logger.Warn("cache store failed", zap.Error(err))
	}
}

func toDTOs(diags []errors.CompilerError) []diagnosticDTO {
	dtos := make([]diagnosticDTO, 0, len(diags))
	for _, d := range diags {
		dtos = append(dtos, diagnosticDTO{
			Severity: severityName(d.Severity),
			Message:  d.Message,
			Line:     d.Location.Line,
			Column:   d.Location.Column,
		})
	}
	return dtos
}

func severityName(sev errors.Severity) string {
	switch sev {
	case errors.Info:
		return "info"
	case errors.Warning:
		return "warning"
	case errors.Fatal:
		return "fatal"
	default:
		return "error"
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
