package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"forestfest/internal/conflict"
	"forestfest/internal/ics"
	"forestfest/internal/lineup"
	appLog "forestfest/internal/log"
	"forestfest/internal/model"
	"forestfest/internal/reminder"
)

const maxImportBytes = 1 << 20

// performanceView is a performance as listed by the API.
type performanceView struct {
	ID string `json:"id"`
	model.Performance
	StageLabel string `json:"stageLabel"`
	DayLabel   string `json:"dayLabel"`
	Duration   string `json:"duration"`
	Favorite   bool   `json:"favorite"`
}

type lineupResponse struct {
	Count        int               `json:"count"`
	Performances []performanceView `json:"performances"`
}

type favoritesResponse struct {
	IDs          []string          `json:"ids"`
	Count        int               `json:"count"`
	Performances []performanceView `json:"performances"`
}

type conflictsResponse struct {
	Scope      string          `json:"scope"`
	ClashCount int             `json:"clashCount"`
	Conflicts  []conflict.Pair `json:"conflicts"`
}

func (s *Server) views(perfs []model.Performance) []performanceView {
	favs := make(map[string]struct{})
	for _, id := range s.deps.Favorites.IDs() {
		favs[id] = struct{}{}
	}
	out := make([]performanceView, 0, len(perfs))
	for _, p := range perfs {
		id := s.deps.Catalog.ID(p)
		_, fav := favs[id]
		out = append(out, performanceView{
			ID:          id,
			Performance: p,
			StageLabel:  p.Stage.Label(),
			DayLabel:    p.Day.Label(),
			Duration:    p.Duration(),
			Favorite:    fav,
		})
	}
	return out
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleLineup(w http.ResponseWriter, r *http.Request) {
	var q lineup.Query
	params := r.URL.Query()
	if v := params.Get("stage"); v != "" {
		st, err := model.ParseStage(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		q.Stage = st
	}
	if v := params.Get("day"); v != "" {
		d, err := model.ParseDay(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		q.Day = d
	}
	switch params.Get("favorites") {
	case "1", "true", "yes":
		q.FavoritesOnly = true
		q.FavoriteIDs = s.deps.Favorites.IDs()
	}

	perfs := s.deps.Catalog.Filter(q)
	writeJSON(w, http.StatusOK, lineupResponse{Count: len(perfs), Performances: s.views(perfs)})
}

func (s *Server) handleFavorites(w http.ResponseWriter, _ *http.Request) {
	ids := s.deps.Favorites.IDs()
	writeJSON(w, http.StatusOK, favoritesResponse{
		IDs:          ids,
		Count:        len(ids),
		Performances: s.views(s.deps.Favorites.Favorited()),
	})
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.deps.Catalog.Known(id) {
		writeError(w, http.StatusNotFound, "unknown performance id "+id)
		return
	}
	favorited, err := s.deps.Favorites.Toggle(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":        id,
		"favorited": favorited,
		"count":     s.deps.Favorites.Count(),
	})
}

func (s *Server) handleClearFavorites(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Favorites.Clear(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": 0})
}

func (s *Server) handleExportFavorites(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Disposition", `attachment; filename="forestfest-favorites.json"`)
	writeJSON(w, http.StatusOK, s.deps.Favorites.Export())
}

// handleImportFavorites accepts an export document, a plain ID list, an
// {"ids": [...]} object or a text/calendar body.
func (s *Server) handleImportFavorites(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	var ids []string
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "text/calendar" {
		ids, err = ics.ParseFavoriteIDs(bytes.NewReader(body))
	} else {
		ids, err = decodeImport(body)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	n, err := s.deps.Favorites.Import(r.Context(), ids)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{
		"imported": n,
		"ignored":  len(ids) - n,
		"count":    s.deps.Favorites.Count(),
	})
}

func decodeImport(body []byte) ([]string, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, errors.New("empty import body")
	}
	if body[0] == '{' {
		var doc struct {
			IDs []string `json:"ids"`
		}
		if err := json.Unmarshal(body, &doc); err != nil {
			return nil, err
		}
		return doc.IDs, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(raw))
	for _, item := range raw {
		var id string
		if err := json.Unmarshal(item, &id); err == nil {
			ids = append(ids, id)
			continue
		}
		var rec struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, err
		}
		if rec.ID != "" {
			ids = append(ids, rec.ID)
		}
	}
	return ids, nil
}

func (s *Server) handleFavoritesCalendar(w http.ResponseWriter, r *http.Request) {
	settings := s.deps.Reminders.Settings()
	lead := parseIntDefault(r.URL.Query().Get("lead"), settings.LeadMinutes)
	name := "Forest Fest favorites"
	if s.deps.Config != nil {
		name = s.deps.Config.Festival.Name + " favorites"
	}

	out, err := ics.ExportFavorites(s.deps.Favorites.Favorited(), s.deps.Calendar, ics.ExportOptions{
		Name:        name,
		LeadMinutes: lead,
		IDs:         s.deps.Catalog.Strategy(),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="forestfest-favorites.ics"`)
	_, _ = io.WriteString(w, out)
}

func (s *Server) handleSchedule(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Catalog.Schedule(s.deps.Favorites.IDs()))
}

// handleConflicts lists clashes among favorites, or across the whole
// lineup with ?scope=lineup.
func (s *Server) handleConflicts(w http.ResponseWriter, r *http.Request) {
	scope := "favorites"
	perfs := s.deps.Favorites.Favorited()
	if r.URL.Query().Get("scope") == "lineup" {
		scope = "lineup"
		perfs = s.deps.Catalog.All()
	}
	writeJSON(w, http.StatusOK, conflictsResponse{
		Scope:      scope,
		ClashCount: conflict.ClashCount(perfs),
		Conflicts:  conflict.FindAllOverlaps(perfs),
	})
}

func (s *Server) handleTimetable(w http.ResponseWriter, r *http.Request) {
	day, err := model.ParseDay(chi.URLParam(r, "day"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tt, err := s.deps.Catalog.Timetable(day, s.deps.Favorites.IDs())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tt)
}

func (s *Server) handleGetNotificationSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Reminders.Settings())
}

type settingsRequest struct {
	Enabled     *bool `json:"enabled"`
	LeadMinutes *int  `json:"leadMinutes"`
}

type settingsResponse struct {
	reminder.Settings
	PermissionDenied bool `json:"permissionDenied,omitempty"`
}

func (s *Server) handlePutNotificationSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxImportBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx := r.Context()
	if req.LeadMinutes != nil {
		if err := s.deps.Reminders.SetLeadMinutes(ctx, *req.LeadMinutes); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, reminder.ErrInvalidLead) {
				status = http.StatusBadRequest
			}
			writeError(w, status, err.Error())
			return
		}
	}

	var resp settingsResponse
	if req.Enabled != nil {
		got, err := s.deps.Reminders.SetEnabled(ctx, *req.Enabled)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.PermissionDenied = *req.Enabled && !got
	}
	resp.Settings = s.deps.Reminders.Settings()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReminders(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"settings":  s.deps.Reminders.Settings(),
		"reminders": s.deps.Reminders.Snapshot(),
	})
}

type testRequest struct {
	Kind         string `json:"kind"`
	DelaySeconds int    `json:"delaySeconds"`
	UseRealData  bool   `json:"useRealData"`
	Immediate    bool   `json:"immediate"`
}

func (s *Server) handleTestNotification(w http.ResponseWriter, r *http.Request) {
	var req testRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(io.LimitReader(r.Body, maxImportBytes)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	kind := reminder.Kind(strings.ToLower(req.Kind))
	switch kind {
	case "":
		kind = reminder.KindTest
	case reminder.KindPerformance, reminder.KindConflict, reminder.KindTest:
	default:
		writeError(w, http.StatusBadRequest, "unknown kind "+req.Kind)
		return
	}

	rem, err := s.deps.Reminders.SendTest(r.Context(), reminder.TestRequest{
		Kind:        kind,
		Delay:       time.Duration(req.DelaySeconds) * time.Second,
		UseRealData: req.UseRealData,
		Immediate:   req.Immediate,
	})
	switch {
	case errors.Is(err, reminder.ErrNotificationsDisabled):
		writeError(w, http.StatusConflict, "notifications are disabled")
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, rem)
}

func (s *Server) handleWeather(w http.ResponseWriter, _ *http.Request) {
	if s.deps.Weather == nil {
		writeError(w, http.StatusServiceUnavailable, "weather is not configured")
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Weather.Snapshot())
}

func (s *Server) handleWeatherRefresh(w http.ResponseWriter, r *http.Request) {
	if s.deps.Weather == nil {
		writeError(w, http.StatusServiceUnavailable, "weather is not configured")
		return
	}
	if err := s.deps.Weather.Refresh(r.Context()); err != nil {
		appLog.Debug("weather refresh via API failed", "error", err.Error())
		writeJSON(w, http.StatusBadGateway, s.deps.Weather.Snapshot())
		return
	}
	writeJSON(w, http.StatusOK, s.deps.Weather.Snapshot())
}
