/*
handlers.go - HTTP API handlers for the overtime analysis service

PURPOSE:
  Exposes the analysis engine via REST. Handles HTTP request/response,
  JSON serialization, and delegates to the engine and the settings store.

ENDPOINTS:
  Analysis:
    POST   /api/analysis                Run a calculation over a batch

  Overrides:
    GET    /api/overrides               List all person overrides
    GET    /api/persons/{id}/override   Get one person's override
    PUT    /api/persons/{id}/override   Create or replace an override
    DELETE /api/persons/{id}/override   Remove an override

  Settings:
    GET    /api/settings                Current config and parameters
    PUT    /api/settings                Replace config and parameters

  Calendars:
    GET    /api/persons/{id}/holidays   List a person's holidays
    POST   /api/persons/{id}/holidays   Add holidays (ranges expand)
    GET    /api/persons/{id}/timeoff    List a person's time off
    POST   /api/persons/{id}/timeoff    Add a time-off entry

  Scenarios:
    GET    /api/scenarios               List demo scenarios
    POST   /api/scenarios/run           Run a demo scenario end-to-end

REQUEST FLOW (analysis):
  1. Decode the batch
  2. Merge stored settings/overrides/calendars under request-supplied ones
  3. engine.Calculate over the assembled snapshot
  4. Serialize per-person analyses and per-record annotations

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors
  The engine itself never fails; only decoding and storage can.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario definitions
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warp/overtime-engine/engine"
	"github.com/warp/overtime-engine/factory"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   engine.SettingsRepository
	Factory *factory.ConfigFactory
}

// NewHandler creates a new handler over the given settings repository.
func NewHandler(store engine.SettingsRepository) *Handler {
	return &Handler{
		Store:   store,
		Factory: factory.NewConfigFactory(),
	}
}

// =============================================================================
// ANALYSIS
// =============================================================================

// RunAnalysis runs one calculation over the posted batch.
// POST /api/analysis
func (h *Handler) RunAnalysis(w http.ResponseWriter, r *http.Request) {
	var req AnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	calcCtx, err := h.buildContext(r, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid analysis request", err)
		return
	}

	result := engine.Calculate(calcCtx)
	writeJSON(w, http.StatusOK, toAnalysisResponse(result))
}

// buildContext assembles the engine context for a request: stored
// settings, overrides and calendars form the base, and anything supplied
// inline in the request wins over it.
func (h *Handler) buildContext(r *http.Request, req AnalysisRequest) (engine.Context, error) {
	ctx := r.Context()

	var calcCtx engine.Context

	if req.From != "" {
		from, err := engine.ParseDay(req.From)
		if err != nil {
			return engine.Context{}, err
		}
		calcCtx.From = from
	}
	if req.To != "" {
		to, err := engine.ParseDay(req.To)
		if err != nil {
			return engine.Context{}, err
		}
		calcCtx.To = to
	}

	cfg, params, err := h.Store.LoadSettings(ctx)
	if err != nil {
		return engine.Context{}, err
	}
	if req.Settings != nil {
		cfg, params, err = h.Factory.BuildSettings(*req.Settings)
		if err != nil {
			return engine.Context{}, err
		}
	}
	calcCtx.Config = cfg
	calcCtx.Params = params

	for _, p := range req.Persons {
		calcCtx.Persons = append(calcCtx.Persons, engine.Person{ID: engine.PersonID(p.ID), Name: p.Name})
	}
	for _, rec := range req.Records {
		calcCtx.Records = append(calcCtx.Records, toEngineRecord(rec))
	}

	if len(req.Profiles) > 0 {
		calcCtx.Profiles = make(map[engine.PersonID]engine.PersonProfile, len(req.Profiles))
		for id, p := range req.Profiles {
			calcCtx.Profiles[engine.PersonID(id)] = toEngineProfile(p)
		}
	}

	overrides, err := h.Store.ListOverrides(ctx)
	if err != nil {
		return engine.Context{}, err
	}
	for id, js := range req.Overrides {
		override, err := h.Factory.BuildOverride(js)
		if err != nil {
			return engine.Context{}, err
		}
		overrides[engine.PersonID(id)] = override
	}
	calcCtx.Overrides = overrides

	holidays, timeOff, err := h.loadCalendars(r, req)
	if err != nil {
		return engine.Context{}, err
	}
	calcCtx.Holidays = holidays
	calcCtx.TimeOff = timeOff

	return calcCtx, nil
}

// loadCalendars merges stored holiday/time-off entries with the ones
// supplied inline, inline entries winning per date.
func (h *Handler) loadCalendars(r *http.Request, req AnalysisRequest) (
	map[engine.PersonID]map[engine.Day]engine.Holiday,
	map[engine.PersonID]map[engine.Day]engine.TimeOffRecord,
	error,
) {
	ctx := r.Context()
	holidays := make(map[engine.PersonID]map[engine.Day]engine.Holiday)
	timeOff := make(map[engine.PersonID]map[engine.Day]engine.TimeOffRecord)

	for _, p := range req.Persons {
		id := engine.PersonID(p.ID)
		stored, err := h.Store.ListHolidays(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		if len(stored) > 0 {
			holidays[id] = stored
		}
		storedOff, err := h.Store.ListTimeOff(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		if len(storedOff) > 0 {
			timeOff[id] = storedOff
		}
	}

	for personID, entries := range req.Holidays {
		id := engine.PersonID(personID)
		for _, dto := range entries {
			expanded, err := expandHolidayDTO(dto)
			if err != nil {
				return nil, nil, err
			}
			if holidays[id] == nil {
				holidays[id] = make(map[engine.Day]engine.Holiday)
			}
			for _, hol := range expanded {
				holidays[id][hol.Date] = hol
			}
		}
	}

	for personID, entries := range req.TimeOff {
		id := engine.PersonID(personID)
		for _, dto := range entries {
			day, err := engine.ParseDay(dto.Date)
			if err != nil {
				return nil, nil, err
			}
			if timeOff[id] == nil {
				timeOff[id] = make(map[engine.Day]engine.TimeOffRecord)
			}
			timeOff[id][day] = engine.TimeOffRecord{
				Date:    day,
				FullDay: dto.FullDay,
				Hours:   engine.HoursOf(dto.Hours),
			}
		}
	}

	return holidays, timeOff, nil
}

func expandHolidayDTO(dto HolidayDTO) ([]engine.Holiday, error) {
	from, err := engine.ParseDay(dto.Date)
	if err != nil {
		return nil, err
	}
	to := from
	if dto.EndDate != "" {
		to, err = engine.ParseDay(dto.EndDate)
		if err != nil {
			return nil, err
		}
	}
	return engine.ExpandHoliday(dto.Name, engine.ProjectID(dto.ProjectID), from, to), nil
}

// =============================================================================
// OVERRIDES
// =============================================================================

// ListOverrides returns all stored overrides.
// GET /api/overrides
func (h *Handler) ListOverrides(w http.ResponseWriter, r *http.Request) {
	overrides, err := h.Store.ListOverrides(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list overrides", err)
		return
	}

	out := make(map[string]factory.OverrideJSON, len(overrides))
	for id, override := range overrides {
		out[string(id)] = h.Factory.FormatOverride(override)
	}
	writeJSON(w, http.StatusOK, out)
}

// GetOverride returns one person's override.
// GET /api/persons/{id}/override
func (h *Handler) GetOverride(w http.ResponseWriter, r *http.Request) {
	person := engine.PersonID(chi.URLParam(r, "id"))

	override, err := h.Store.GetOverride(r.Context(), person)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get override", err)
		return
	}
	if override == nil {
		writeError(w, http.StatusNotFound, "No override for person", nil)
		return
	}
	writeJSON(w, http.StatusOK, h.Factory.FormatOverride(*override))
}

// PutOverride creates or replaces one person's override.
// PUT /api/persons/{id}/override
func (h *Handler) PutOverride(w http.ResponseWriter, r *http.Request) {
	person := engine.PersonID(chi.URLParam(r, "id"))

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read body", err)
		return
	}
	override, err := h.Factory.ParseOverride(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid override", err)
		return
	}

	if err := h.Store.SaveOverride(r.Context(), person, override); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save override", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Factory.FormatOverride(override))
}

// DeleteOverride removes one person's override.
// DELETE /api/persons/{id}/override
func (h *Handler) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	person := engine.PersonID(chi.URLParam(r, "id"))

	if err := h.Store.DeleteOverride(r.Context(), person); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete override", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// =============================================================================
// SETTINGS
// =============================================================================

// GetSettings returns the stored config and calculation parameters.
// GET /api/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	cfg, params, err := h.Store.LoadSettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Factory.FormatSettings(cfg, params))
}

// PutSettings replaces the stored config and calculation parameters.
// PUT /api/settings
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read body", err)
		return
	}
	cfg, params, err := h.Factory.ParseSettings(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid settings", err)
		return
	}

	if err := h.Store.SaveSettings(r.Context(), cfg, params); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Factory.FormatSettings(cfg, params))
}

// =============================================================================
// CALENDARS
// =============================================================================

// ListHolidays returns one person's stored holidays.
// GET /api/persons/{id}/holidays
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	person := engine.PersonID(chi.URLParam(r, "id"))

	holidays, err := h.Store.ListHolidays(r.Context(), person)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}

	out := make([]HolidayDTO, 0, len(holidays))
	for _, hol := range holidays {
		out = append(out, HolidayDTO{
			Date:      hol.Date.String(),
			Name:      hol.Name,
			ProjectID: string(hol.ProjectID),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// AddHolidays stores holidays for a person; date ranges expand to one
// entry per covered date.
// POST /api/persons/{id}/holidays
func (h *Handler) AddHolidays(w http.ResponseWriter, r *http.Request) {
	person := engine.PersonID(chi.URLParam(r, "id"))

	var dto HolidayDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	expanded, err := expandHolidayDTO(dto)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid holiday", err)
		return
	}

	for _, hol := range expanded {
		if err := h.Store.SaveHoliday(r.Context(), person, hol); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to save holiday", err)
			return
		}
	}
	writeJSON(w, http.StatusCreated, map[string]int{"saved": len(expanded)})
}

// ListTimeOff returns one person's stored time-off entries.
// GET /api/persons/{id}/timeoff
func (h *Handler) ListTimeOff(w http.ResponseWriter, r *http.Request) {
	person := engine.PersonID(chi.URLParam(r, "id"))

	entries, err := h.Store.ListTimeOff(r.Context(), person)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list time off", err)
		return
	}

	out := make([]TimeOffDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, TimeOffDTO{
			Date:    entry.Date.String(),
			FullDay: entry.FullDay,
			Hours:   entry.Hours.Float(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// AddTimeOff stores one time-off entry for a person.
// POST /api/persons/{id}/timeoff
func (h *Handler) AddTimeOff(w http.ResponseWriter, r *http.Request) {
	person := engine.PersonID(chi.URLParam(r, "id"))

	var dto TimeOffDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	day, err := engine.ParseDay(dto.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid time-off date", err)
		return
	}

	entry := engine.TimeOffRecord{Date: day, FullDay: dto.FullDay, Hours: engine.HoursOf(dto.Hours)}
	if err := h.Store.SaveTimeOff(r.Context(), person, entry); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save time off", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "saved"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
