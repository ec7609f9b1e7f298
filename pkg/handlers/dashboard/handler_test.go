package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/de-tools/salespulse/pkg/models/api"
	"github.com/de-tools/salespulse/pkg/models/domain"
	"github.com/de-tools/salespulse/pkg/runtime/plot"
	"github.com/de-tools/salespulse/pkg/services/session"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) Create(ctx context.Context) session.Session {
	return m.Called(ctx).Get(0).(session.Session)
}

func (m *mockSessions) Get(ctx context.Context, id string) (session.Session, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(session.Session), args.Error(1)
}

func (m *mockSessions) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockSessions) SetPrimaryTab(ctx context.Context, id, tab string) (session.Session, error) {
	args := m.Called(ctx, id, tab)
	return args.Get(0).(session.Session), args.Error(1)
}

func (m *mockSessions) SetSecondaryTab(ctx context.Context, id, tab string) (session.Session, error) {
	args := m.Called(ctx, id, tab)
	return args.Get(0).(session.Session), args.Error(1)
}

func (m *mockSessions) SetFilter(ctx context.Context, id, key, value string) (session.Session, error) {
	args := m.Called(ctx, id, key, value)
	return args.Get(0).(session.Session), args.Error(1)
}

func (m *mockSessions) ResetFilters(ctx context.Context, id string) (session.Session, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(session.Session), args.Error(1)
}

func (m *mockSessions) Render(ctx context.Context, id string) (domain.View, session.Session, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.View), args.Get(1).(session.Session), args.Error(2)
}

type mockCharts struct {
	mock.Mock
}

func (m *mockCharts) Render(w io.Writer, c domain.TitledChart) error {
	args := m.Called(w, c)
	if data, ok := args.Get(0).([]byte); ok {
		_, _ = w.Write(data)
	}
	return args.Error(1)
}

func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func defaultSession(id string) session.Session {
	return session.Session{
		ID: id,
		Selection: domain.Selection{
			PrimaryTab:   domain.TabDescriptive,
			SecondaryTab: domain.SubTabExecutiveSummary,
			Filters:      map[domain.FilterKey]string{},
		},
	}
}

func TestListFilters(t *testing.T) {
	h := NewHandler(new(mockSessions), new(mockCharts))
	rec := httptest.NewRecorder()

	h.ListFilters(rec, httptest.NewRequest(http.MethodGet, "/filters", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var response []api.FilterOption
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	require.Len(t, response, len(domain.FilterKeys))
	assert.Equal(t, "year", response[0].Key)
	assert.Equal(t, []string{"All", "2022", "2023"}, response[0].Options)
}

func TestSetFilter(t *testing.T) {
	updated := defaultSession("s1")
	updated.Selection.Filters[domain.FilterRegion] = "Region 2"
	updated.Revision = 1

	tests := []struct {
		name           string
		body           string
		setupMock      func(*mockSessions)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "valid value",
			body: `{"value":"Region 2"}`,
			setupMock: func(m *mockSessions) {
				m.On("SetFilter", mock.Anything, "s1", "region", "Region 2").Return(updated, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "value outside enumeration",
			body: `{"value":"Region 9"}`,
			setupMock: func(m *mockSessions) {
				m.On("SetFilter", mock.Anything, "s1", "region", "Region 9").
					Return(session.Session{}, &domain.SelectionError{Field: "Region", Value: "Region 9", Reason: "unknown"})
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedError:  "invalid_selection",
		},
		{
			name: "unknown session",
			body: `{"value":"Region 2"}`,
			setupMock: func(m *mockSessions) {
				m.On("SetFilter", mock.Anything, "s1", "region", "Region 2").Return(session.Session{}, session.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "not_found",
		},
		{
			name:           "malformed body",
			body:           `{`,
			setupMock:      func(*mockSessions) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "bad_request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := new(mockSessions)
			tt.setupMock(sessions)
			h := NewHandler(sessions, new(mockCharts))

			req := httptest.NewRequest(http.MethodPut, "/sessions/s1/filters/region", strings.NewReader(tt.body))
			req = withURLParams(req, map[string]string{"id": "s1", "key": "region"})
			rec := httptest.NewRecorder()

			h.SetFilter(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedError != "" {
				var response api.Error
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
				assert.Equal(t, tt.expectedError, response.Error)
			} else {
				var response api.Session
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
				assert.Equal(t, "Region 2", response.Filters["region"])
				assert.Equal(t, uint64(1), response.Revision)
			}
			sessions.AssertExpectations(t)
		})
	}
}

func TestGetView_DataSourceFailure(t *testing.T) {
	sessions := new(mockSessions)
	sessions.On("Render", mock.Anything, "s1").Return(domain.View{}, session.Session{}, assert.AnError)
	h := NewHandler(sessions, new(mockCharts))

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/sessions/s1/view", nil), map[string]string{"id": "s1"})
	rec := httptest.NewRecorder()
	h.GetView(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestGetChart(t *testing.T) {
	chart := domain.TitledChart{Title: "Performance", Spec: domain.ChartSpec{Kind: domain.ChartTimeSeries}}
	view := domain.View{Charts: []domain.TitledChart{chart}}

	tests := []struct {
		name           string
		index          string
		setupMock      func(*mockSessions, *mockCharts)
		expectedStatus int
		expectedType   string
	}{
		{
			name:  "png",
			index: "0",
			setupMock: func(s *mockSessions, c *mockCharts) {
				s.On("Render", mock.Anything, "s1").Return(view, defaultSession("s1"), nil)
				c.On("Render", mock.Anything, chart).Return([]byte("\x89PNG"), nil)
			},
			expectedStatus: http.StatusOK,
			expectedType:   "image/png",
		},
		{
			name:  "no data",
			index: "0",
			setupMock: func(s *mockSessions, c *mockCharts) {
				s.On("Render", mock.Anything, "s1").Return(view, defaultSession("s1"), nil)
				c.On("Render", mock.Anything, chart).Return(nil, plot.ErrNoData)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name:  "out of range",
			index: "5",
			setupMock: func(s *mockSessions, _ *mockCharts) {
				s.On("Render", mock.Anything, "s1").Return(view, defaultSession("s1"), nil)
			},
			expectedStatus: http.StatusNotFound,
			expectedType:   "application/json",
		},
		{
			name:           "not a number",
			index:          "first",
			setupMock:      func(*mockSessions, *mockCharts) {},
			expectedStatus: http.StatusBadRequest,
			expectedType:   "application/json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := new(mockSessions)
			charts := new(mockCharts)
			tt.setupMock(sessions, charts)
			h := NewHandler(sessions, charts)

			req := httptest.NewRequest(http.MethodGet, "/sessions/s1/charts/"+tt.index+".png", nil)
			req = withURLParams(req, map[string]string{"id": "s1", "index": tt.index})
			rec := httptest.NewRecorder()

			h.GetChart(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedType != "" {
				assert.Equal(t, tt.expectedType, rec.Header().Get("Content-Type"))
			}
			if tt.expectedType == "image/png" {
				assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")))
			}
			sessions.AssertExpectations(t)
			charts.AssertExpectations(t)
		})
	}
}

func TestPage(t *testing.T) {
	t.Run("redirects to a new session", func(t *testing.T) {
		sessions := new(mockSessions)
		sessions.On("Get", mock.Anything, "").Return(session.Session{}, session.ErrNotFound)
		sessions.On("Create", mock.Anything).Return(defaultSession("fresh"))
		h := NewHandler(sessions, new(mockCharts))

		rec := httptest.NewRecorder()
		h.Page(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/?session=fresh", rec.Header().Get("Location"))
	})

	t.Run("renders metrics and chart images", func(t *testing.T) {
		s := defaultSession("s1")
		view := domain.View{
			PrimaryTab:   domain.TabDescriptive,
			SecondaryTab: domain.SubTabExecutiveSummary,
			Metrics:      []domain.MetricCard{{Label: "Sell out Value", Formatted: "R$1.5K", YOYAvailable: true, YOYDeltaPercent: 12.5}},
			Charts:       []domain.TitledChart{{Title: "Performance"}},
		}
		sessions := new(mockSessions)
		sessions.On("Get", mock.Anything, "s1").Return(s, nil)
		sessions.On("Render", mock.Anything, "s1").Return(view, s, nil)
		h := NewHandler(sessions, new(mockCharts))

		rec := httptest.NewRecorder()
		h.Page(rec, httptest.NewRequest(http.MethodGet, "/?session=s1", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "Sell out Value")
		assert.Contains(t, body, "R$1.5K")
		assert.Contains(t, body, "12.5% YOY")
		assert.Contains(t, body, "/api/v1/sessions/s1/charts/0.png")
		assert.Contains(t, body, "Executive Summary")
		assert.Contains(t, body, `<p id="message" role="alert" hidden></p>`)
		// failed control events show the API message instead of reloading
		assert.Contains(t, body, "if (res.ok)")
		assert.Contains(t, body, "body.message")
	})

	t.Run("shows the render failure", func(t *testing.T) {
		s := defaultSession("s1")
		sessions := new(mockSessions)
		sessions.On("Get", mock.Anything, "s1").Return(s, nil)
		sessions.On("Render", mock.Anything, "s1").Return(domain.View{}, session.Session{}, assert.AnError)
		h := NewHandler(sessions, new(mockCharts))

		rec := httptest.NewRecorder()
		h.Page(rec, httptest.NewRequest(http.MethodGet, "/?session=s1", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `<p id="message" role="alert">The dashboard could not be rendered. Try again.</p>`)
	})
}
