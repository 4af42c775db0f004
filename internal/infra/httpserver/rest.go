package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/tedpecoulas/claude-skills-mcp/internal/domain"
	"github.com/tedpecoulas/claude-skills-mcp/internal/infra/telemetry"
)

type healthPayload struct {
	Status    string `json:"status"`
	Server    string `json:"server"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

type skillListPayload struct {
	Total  int                   `json:"total"`
	Skills []domain.SkillSummary `json:"skills"`
}

type skillDetailPayload struct {
	Skill   domain.SkillSummary `json:"skill"`
	Content string              `json:"content"`
}

type restError struct {
	Error     string   `json:"error"`
	Available []string `json:"available,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthPayload{
		Status:    "healthy",
		Server:    domain.ServerName,
		Version:   domain.ServerVersion,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleListSkills(w http.ResponseWriter, _ *http.Request) {
	skills := s.catalog.All()
	payload := skillListPayload{
		Total:  len(skills),
		Skills: make([]domain.SkillSummary, 0, len(skills)),
	}
	for _, skill := range skills {
		payload.Skills = append(payload.Skills, skill.Summary())
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleGetSkill(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	skill, ok := s.catalog.Lookup(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, restError{
			Error:     "skill not found: " + name,
			Available: s.catalog.Names(),
		})
		return
	}

	content, err := s.fetcher.Fetch(r.Context(), name)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrSourceUnavailable) {
			status = http.StatusBadGateway
		}
		s.logger.Warn("skill content unavailable",
			telemetry.SkillField(name), zap.Error(err))
		writeJSON(w, status, restError{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, skillDetailPayload{
		Skill:   skill.Summary(),
		Content: content,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
