package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/ecosangam/internal/advisor"
	"example.com/ecosangam/internal/auth"
	"example.com/ecosangam/internal/domain"
	"example.com/ecosangam/internal/emissions"
	"example.com/ecosangam/internal/events"
	"example.com/ecosangam/internal/persistence/memory"
)

var testAuth = auth.Config{Secret: "test-secret", Issuer: "ecosangam.identity"}

type stubAdvisor struct {
	tons   []float64
	prompt string
	err    error
}

func (s *stubAdvisor) Tip(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return "Use a reusable bag.", nil
}

func (s *stubAdvisor) Advice(_ context.Context, tons float64) (string, error) {
	s.tons = append(s.tons, tons)
	if s.err != nil {
		return "", s.err
	}
	return "EcoSangam suggests you to...", nil
}

type stubCertificates struct {
	sent []events.GoalCompleted
	err  error
}

func (s *stubCertificates) SendCertificate(_ context.Context, completed events.GoalCompleted) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, completed)
	return nil
}

type stubLogin struct {
	profile auth.Profile
	err     error
	code    string
}

func (s *stubLogin) Configured() bool { return true }

func (s *stubLogin) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + url.QueryEscape(state)
}

func (s *stubLogin) Exchange(_ context.Context, code string) (auth.Profile, error) {
	s.code = code
	return s.profile, s.err
}

type testServer struct {
	handler http.Handler
	repo    *memory.Repository
	advisor *stubAdvisor
	certs   *stubCertificates
	login   *stubLogin
	issuer  *auth.Issuer
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	repo := memory.NewRepository()
	ts := &testServer{
		repo:    repo,
		advisor: &stubAdvisor{},
		certs:   &stubCertificates{},
		login:   &stubLogin{profile: auth.Profile{ID: "google-1", Email: "alice@example.com", Name: "Alice"}},
		issuer:  auth.NewIssuer(testAuth, time.Hour),
	}
	h := NewHandler(Deps{
		Service:      domain.NewService(repo, repo),
		Estimator:    emissions.NewEstimator(),
		Advisor:      ts.advisor,
		Certificates: ts.certs,
		Login:        ts.login,
		Issuer:       ts.issuer,
		FrontendURL:  "http://localhost:5173",
	})
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	ts.handler = auth.NewMiddleware(testAuth, auth.PublicPaths(PublicPaths...)).Wrap(mux)
	return ts
}

func (ts *testServer) token(t *testing.T, scopes ...string) string {
	t.Helper()
	if len(scopes) == 0 {
		scopes = auth.DefaultScopes
	}
	token, _, err := ts.issuer.Issue("user-1", "alice@example.com", "Alice", scopes...)
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	return out
}

func TestHealthzAndAuthRequired(t *testing.T) {
	ts := newTestServer(t)
	rr := ts.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.do(t, http.MethodGet, "/v1/goals", "", nil)
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.do(t, http.MethodPost, "/v1/goals", ts.token(t, auth.ScopeGoalsRead), CreateGoalRequest{})
	require.Equal(t, http.StatusForbidden, rr.Code)
}

func TestCalculatePublishesToFootprint(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t)

	rr := ts.do(t, http.MethodPost, "/v1/emissions/car", token, map[string]any{"mileage": "10000", "efficiency": 120})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	car := decode[CalculateResponse](t, rr)
	require.Equal(t, emissions.CategoryCar, car.Category)
	require.Equal(t, 1.2, car.Tons)
	require.Equal(t, 2, car.Precision)
	require.Equal(t, 1.2, car.TotalTons)

	rr = ts.do(t, http.MethodPost, "/v1/emissions/bus?advice=true", token, map[string]any{"distance": 100, "busType": "electric"})
	require.Equal(t, http.StatusOK, rr.Code)
	bus := decode[CalculateResponse](t, rr)
	require.Equal(t, 0.005, bus.Tons)
	require.Equal(t, 1.205, bus.TotalTons)
	require.Equal(t, "EcoSangam suggests you to...", bus.Advice)
	require.Equal(t, []float64{0.005}, ts.advisor.tons)

	rr = ts.do(t, http.MethodGet, "/v1/emissions/footprint", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	fp := decode[FootprintResponse](t, rr)
	require.Len(t, fp.Results, 2)
	require.Equal(t, 1.205, fp.TotalTons)
	require.Len(t, fp.Equivalencies, 4)
	require.Contains(t, fp.Summary, "miles")

	require.Len(t, ts.repo.Events(), 2)
}

func TestCalculateEdgeCases(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t)

	rr := ts.do(t, http.MethodPost, "/v1/emissions/spaceship", token, nil)
	require.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.do(t, http.MethodPost, "/v1/emissions/house", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Zero(t, decode[CalculateResponse](t, rr).Tons)

	req := httptest.NewRequest(http.MethodPost, "/v1/emissions/car", strings.NewReader("{not json"))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rr = ts.do(t, http.MethodPost, "/v1/emissions/bus", token, map[string]any{"busType": 5, "distance": 100})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Zero(t, decode[CalculateResponse](t, rr).Tons)

	ts.advisor.err = advisor.ErrUnavailable
	rr = ts.do(t, http.MethodPost, "/v1/emissions/car?advice=1", token, map[string]any{"mileage": 100, "efficiency": 100})
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[CalculateResponse](t, rr)
	require.Equal(t, 0.01, resp.Tons)
	require.NotEmpty(t, resp.AdviceError)
}

func TestGoalLifecycle(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t)

	rr := ts.do(t, http.MethodPost, "/v1/goals", token, map[string]any{"type": "carbon", "target": 100, "days": 10})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	goal := decode[GoalView](t, rr)
	require.Equal(t, "Reduce Carbon Footprint by 100", goal.Title)

	rr = ts.do(t, http.MethodPost, "/v1/goals/"+goal.ID+"/activities", token, map[string]any{"activity": "Worked from home", "impact": 60})
	require.Equal(t, http.StatusOK, rr.Code)
	logged := decode[LogActivityResponse](t, rr)
	require.Equal(t, 60.0, logged.Goal.Progress)
	require.True(t, logged.FirstToday)
	require.False(t, logged.JustCompleted)

	rr = ts.do(t, http.MethodPost, "/v1/goals/"+goal.ID+"/activities", token, map[string]any{"customActivity": "Fixed a leak", "impact": 70})
	logged = decode[LogActivityResponse](t, rr)
	require.Equal(t, 100.0, logged.Goal.Progress)
	require.True(t, logged.JustCompleted)
	require.True(t, logged.Goal.Completed)
	require.Equal(t, 1, logged.Goal.Streak)
	require.Equal(t, 100.0, logged.Goal.CarbonSaved)

	var completed int
	for _, e := range ts.repo.Events() {
		if e.Type == domain.EventGoalCompleted {
			completed++
			payload := e.Payload.(domain.GoalCompleted)
			require.Equal(t, "alice@example.com", payload.Email)
		}
	}
	require.Equal(t, 1, completed)

	rr = ts.do(t, http.MethodGet, "/v1/goals/"+goal.ID, token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.do(t, http.MethodGet, "/v1/goals/"+goal.ID+"/calendar", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	cal := decode[domain.Calendar](t, rr)
	require.Len(t, cal.Days, 10)
	require.True(t, cal.Completed)

	rr = ts.do(t, http.MethodGet, "/v1/goals/missing", token, nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGoalValidationErrors(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t)

	rr := ts.do(t, http.MethodPost, "/v1/goals", token, map[string]any{"type": "water", "days": 3})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	body := decode[map[string]string](t, rr)
	require.Equal(t, "validation_failed", body["type"])
	require.Contains(t, body["detail"], "target")

	for _, days := range []int64{domain.MaxGoalDays + 1, 1 << 50} {
		rr = ts.do(t, http.MethodPost, "/v1/goals", token, map[string]any{"type": "water", "target": 5, "days": days})
		require.Equal(t, http.StatusBadRequest, rr.Code)
		body = decode[map[string]string](t, rr)
		require.Equal(t, "validation_failed", body["type"])
		require.Contains(t, body["detail"], "days")
	}

	rr = ts.do(t, http.MethodPost, "/v1/goals", token, map[string]any{"type": "water", "target": 5, "days": 3})
	goal := decode[GoalView](t, rr)
	rr = ts.do(t, http.MethodPost, "/v1/goals/"+goal.ID+"/activities", token, map[string]any{"activity": "Shorter shower"})
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListGoalsPaginates(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t)
	for i := 0; i < 3; i++ {
		rr := ts.do(t, http.MethodPost, "/v1/goals", token, map[string]any{"type": "plants", "target": 3, "days": 3})
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr := ts.do(t, http.MethodGet, "/v1/goals?limit=2", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	page := decode[ListGoalsResponse](t, rr)
	require.Len(t, page.Items, 2)
	require.NotEmpty(t, page.NextCursor)

	rr = ts.do(t, http.MethodGet, "/v1/goals?limit=2&cursor="+page.NextCursor, token, nil)
	page = decode[ListGoalsResponse](t, rr)
	require.Len(t, page.Items, 1)
	require.Empty(t, page.NextCursor)

	rr = ts.do(t, http.MethodGet, "/v1/goals?cursor=!!!", token, nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestPublicCatalogs(t *testing.T) {
	ts := newTestServer(t)
	rr := ts.do(t, http.MethodGet, "/v1/goal-types", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	types := decode[struct {
		Items []domain.GoalTypeInfo `json:"items"`
	}](t, rr)
	require.Len(t, types.Items, 18)

	rr = ts.do(t, http.MethodGet, "/v1/emissions/vehicles", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "india-car-database")
}

func TestAdviceAndTips(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t)

	rr := ts.do(t, http.MethodPost, "/v1/advice", token, map[string]any{"result": 4.2})
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "EcoSangam suggests you to...", decode[map[string]string](t, rr)["summary"])

	rr = ts.do(t, http.MethodPost, "/v1/advice", token, map[string]any{})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.do(t, http.MethodPost, "/v1/tips", token, map[string]any{"prompt": "kitchen"})
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "Use a reusable bag.", decode[map[string]string](t, rr)["tip"])
	require.Equal(t, "kitchen", ts.advisor.prompt)

	ts.advisor.err = errors.Join(advisor.ErrUnavailable, errors.New("quota"))
	rr = ts.do(t, http.MethodPost, "/v1/tips", token, nil)
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
	require.Equal(t, "Could not fetch sustainability tip.", decode[map[string]string](t, rr)["detail"])
}

func TestCompleteEcoGoal(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t)

	rr := ts.do(t, http.MethodPost, "/completedecogoal", token, map[string]any{
		"goal": "Grow Plants by 3", "startDate": "2025-06-01", "endDate": "2025-06-03T10:00:00Z",
		"carbonSaved": 66, "streak": 3,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Equal(t, "Certificate sent successfully!", decode[map[string]string](t, rr)["message"])
	require.Len(t, ts.certs.sent, 1)
	sent := ts.certs.sent[0]
	require.Equal(t, "Alice", sent.Name)
	require.Equal(t, "alice@example.com", sent.Email)
	require.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), sent.StartDate)

	ts.certs.err = errors.New("mail down")
	rr = ts.do(t, http.MethodPost, "/completedecogoal", token, map[string]any{"goal": "x"})
	require.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestGoogleSignInFlow(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, http.MethodGet, "/auth/google", "", nil)
	require.Equal(t, http.StatusFound, rr.Code)
	var state *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.StateCookie {
			state = c
		}
	}
	require.NotNil(t, state)
	require.Contains(t, rr.Header().Get("Location"), url.QueryEscape(state.Value))

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc&state=wrong", nil)
	req.AddCookie(state)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=abc&state="+url.QueryEscape(state.Value), nil)
	req.AddCookie(state)
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusFound, rec.Code)
	require.Equal(t, "http://localhost:5173/home", rec.Header().Get("Location"))
	require.Equal(t, "abc", ts.login.code)

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookie {
			session = c
		}
	}
	require.NotNil(t, session)

	req = httptest.NewRequest(http.MethodGet, "/auth/google/current_user", nil)
	req.AddCookie(session)
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	user := decode[CurrentUserResponse](t, rec)
	require.Equal(t, "google-1", user.ID)
	require.Equal(t, "Alice", user.Name)
	require.ElementsMatch(t, auth.DefaultScopes, user.Scopes)

	rr = ts.do(t, http.MethodGet, "/auth/logout", "", nil)
	require.Equal(t, http.StatusFound, rr.Code)
	require.Equal(t, "http://localhost:5173", rr.Header().Get("Location"))
}
