package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/de-tools/salespulse/pkg/adapters"
	"github.com/de-tools/salespulse/pkg/models/api"
	"github.com/de-tools/salespulse/pkg/models/domain"
	"github.com/de-tools/salespulse/pkg/runtime/plot"
	"github.com/de-tools/salespulse/pkg/services/session"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type SessionService interface {
	Create(ctx context.Context) session.Session
	Get(ctx context.Context, id string) (session.Session, error)
	Delete(ctx context.Context, id string) error
	SetPrimaryTab(ctx context.Context, id, tab string) (session.Session, error)
	SetSecondaryTab(ctx context.Context, id, tab string) (session.Session, error)
	SetFilter(ctx context.Context, id, key, value string) (session.Session, error)
	ResetFilters(ctx context.Context, id string) (session.Session, error)
	Render(ctx context.Context, id string) (domain.View, session.Session, error)
}

type ChartRenderer interface {
	Render(w io.Writer, c domain.TitledChart) error
}

type Handler struct {
	sessions SessionService
	charts   ChartRenderer
}

func NewHandler(sessions SessionService, charts ChartRenderer) *Handler {
	return &Handler{
		sessions: sessions,
		charts:   charts,
	}
}

func (h *Handler) ListFilters(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, adapters.MapFilterOptionsToApi())
}

func (h *Handler) ListTabs(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, adapters.MapTabsToApi())
}

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := h.sessions.Create(ctx)
	writeJSON(ctx, w, http.StatusCreated, adapters.MapSelectionDomainToApi(s.ID, s.Selection, s.Revision))
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s, err := h.sessions.Get(ctx, chi.URLParam(r, "id"))
	h.respondSession(ctx, w, s, err)
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.sessions.Delete(ctx, chi.URLParam(r, "id")); err != nil {
		writeError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetPrimaryTab(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req api.TabRequest
	if !decode(ctx, w, r, &req) {
		return
	}
	s, err := h.sessions.SetPrimaryTab(ctx, chi.URLParam(r, "id"), req.Tab)
	h.respondSession(ctx, w, s, err)
}

func (h *Handler) SetSecondaryTab(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req api.TabRequest
	if !decode(ctx, w, r, &req) {
		return
	}
	s, err := h.sessions.SetSecondaryTab(ctx, chi.URLParam(r, "id"), req.Tab)
	h.respondSession(ctx, w, s, err)
}

func (h *Handler) SetFilter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req api.FilterRequest
	if !decode(ctx, w, r, &req) {
		return
	}
	s, err := h.sessions.SetFilter(ctx, chi.URLParam(r, "id"), chi.URLParam(r, "key"), req.Value)
	h.respondSession(ctx, w, s, err)
}

func (h *Handler) ResetFilters(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s, err := h.sessions.ResetFilters(ctx, chi.URLParam(r, "id"))
	h.respondSession(ctx, w, s, err)
}

func (h *Handler) GetView(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	view, _, err := h.sessions.Render(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, adapters.MapViewDomainToApi(view))
}

func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		writeJSON(ctx, w, http.StatusBadRequest, api.Error{Error: "bad_request", Message: "chart index must be a non-negative integer"})
		return
	}

	view, _, err := h.sessions.Render(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if index >= len(view.Charts) {
		writeJSON(ctx, w, http.StatusNotFound, api.Error{Error: "not_found", Message: "no chart at index " + strconv.Itoa(index)})
		return
	}

	var buf bytes.Buffer
	err = h.charts.Render(&buf, view.Charts[index])
	if errors.Is(err, plot.ErrNoData) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		logger.Error().Err(err).Int("chart", index).Msg("failed to render chart")
		writeJSON(ctx, w, http.StatusInternalServerError, api.Error{Error: "internal", Message: "failed to render chart"})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := buf.WriteTo(w); err != nil {
		logger.Error().Err(err).Msg("failed to write chart")
	}
}

func (h *Handler) respondSession(ctx context.Context, w http.ResponseWriter, s session.Session, err error) {
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, adapters.MapSelectionDomainToApi(s.ID, s.Selection, s.Revision))
}

func decode(ctx context.Context, w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(ctx, w, http.StatusBadRequest, api.Error{Error: "bad_request", Message: "invalid request body"})
		return false
	}
	return true
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var selErr *domain.SelectionError
	switch {
	case errors.As(err, &selErr):
		writeJSON(ctx, w, http.StatusUnprocessableEntity, api.Error{Error: "invalid_selection", Message: selErr.Error()})
	case errors.Is(err, session.ErrNotFound):
		writeJSON(ctx, w, http.StatusNotFound, api.Error{Error: "not_found", Message: err.Error()})
	case errors.Is(err, session.ErrStaleRender):
		writeJSON(ctx, w, http.StatusConflict, api.Error{Error: "stale_render", Message: err.Error()})
	default:
		zerolog.Ctx(ctx).Error().Err(err).Msg("data source failure")
		writeJSON(ctx, w, http.StatusBadGateway, api.Error{Error: "data_source", Message: "failed to load sales data"})
	}
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(ctx).Error().
			Err(err).
			Msg("failed to encode response")
	}
}
