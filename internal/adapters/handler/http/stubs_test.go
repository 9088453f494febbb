package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
	"github.com/vncsmyrnk/escrutinio/internal/core/ports"
)

type stubAuth struct {
	actors    map[string]*domain.Actor
	loginErr  error
	loggedOut []*domain.Actor
	revoked   []string
}

func (s *stubAuth) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &ports.LoginResult{
		AccessToken:  "access-" + username,
		RefreshToken: "refresh-" + username,
		User:         &domain.User{ID: uuid.New(), Username: username, Role: domain.RoleOperator},
	}, nil
}

func (s *stubAuth) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken != "good-refresh" {
		return "", domain.ErrUnauthenticated
	}
	return "fresh-access", nil
}

func (s *stubAuth) Logout(ctx context.Context, actor *domain.Actor, refreshToken string) error {
	s.loggedOut = append(s.loggedOut, actor)
	s.revoked = append(s.revoked, refreshToken)
	return nil
}

func (s *stubAuth) Authenticate(ctx context.Context, accessToken string) (*domain.Actor, error) {
	if a, ok := s.actors[accessToken]; ok {
		return a, nil
	}
	return nil, domain.ErrUnauthenticated
}

type stubSubmission struct {
	got    *ports.SubmitInput
	result *ports.SubmitResult
	err    error
}

func (s *stubSubmission) Submit(ctx context.Context, actor *domain.Actor, input ports.SubmitInput) (*ports.SubmitResult, error) {
	s.got = &input
	if s.err != nil {
		return nil, s.err
	}
	if err := actor.Require(domain.CapSubmitVotes); err != nil {
		return nil, err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &ports.SubmitResult{StationNumber: input.StationNumber, OfficeVotes: len(input.OfficeVotes)}, nil
}

type stubStations struct {
	pendingOnly bool
	err         error
}

func (s *stubStations) StationData(ctx context.Context, actor *domain.Actor, number int) (*domain.StationData, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.StationData{StationNumber: number, Tallied: true}, nil
}

func (s *stubStations) ListForOperator(ctx context.Context, actor *domain.Actor, pendingOnly bool) ([]domain.Station, error) {
	s.pendingOnly = pendingOnly
	return []domain.Station{{Number: 1001, SiteID: 1}}, nil
}

type stubBallot struct{}

func (stubBallot) Ballot(ctx context.Context, actor *domain.Actor) (*domain.Ballot, error) {
	if err := actor.Require(domain.CapReadBallot); err != nil {
		return nil, err
	}
	return &domain.Ballot{Offices: []domain.Office{{ID: 1, Name: "Concejales"}}}, nil
}

func (stubBallot) ResolveOffice(ctx context.Context, ref string) (*domain.Office, error) {
	return nil, domain.ErrOfficeNotFound
}

type stubAggregation struct {
	refs []string
	err  error
}

func (s *stubAggregation) SummaryByOffice(ctx context.Context, actor *domain.Actor, officeRef string) (*domain.OfficeSummary, error) {
	s.refs = append(s.refs, officeRef)
	if err := actor.Require(domain.CapViewResults); err != nil {
		return nil, err
	}
	if s.err != nil {
		return nil, s.err
	}
	return &domain.OfficeSummary{
		Office:     domain.Office{ID: 1, Name: "Concejales"},
		Parties:    []domain.PartyTotal{{ListNumber: 501, Party: "Frente Rojo", Votes: 10, Percentage: 100}},
		TotalValid: 10,
	}, nil
}

func (s *stubAggregation) SummaryCombined(ctx context.Context, actor *domain.Actor, refA, refB string) (*domain.CombinedSummary, error) {
	s.refs = append(s.refs, refA, refB)
	if err := actor.Require(domain.CapViewResults); err != nil {
		return nil, err
	}
	return &domain.CombinedSummary{Rows: []domain.CombinedRow{}}, nil
}

func (s *stubAggregation) CompletionBySubjurisdiction(ctx context.Context, actor *domain.Actor) ([]domain.SubjurisdictionProgress, error) {
	return []domain.SubjurisdictionProgress{{Name: "Norte", Tallied: 1, Total: 2, Percentage: 50}}, nil
}

func (s *stubAggregation) GlobalCompletion(ctx context.Context, actor *domain.Actor) (*domain.Completion, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Completion{TotalStations: 4, StationsWithVotes: 1, Percentage: 25}, nil
}

type stubUsers struct{}

func (stubUsers) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return &domain.User{ID: id, Username: "fiscal1", Role: domain.RoleOperator}, nil
}

func (stubUsers) Create(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	return nil, errors.New("not used")
}

func (stubUsers) OnlineUsers(ctx context.Context, actor *domain.Actor) ([]domain.OnlineUser, error) {
	if err := actor.Require(domain.CapViewPresence); err != nil {
		return nil, err
	}
	return []domain.OnlineUser{{Username: "fiscal1", Role: domain.RoleOperator, Online: true}}, nil
}

type okPinger struct{ err error }

func (p okPinger) PingContext(ctx context.Context) error { return p.err }

type testServer struct {
	router      http.Handler
	auth        *stubAuth
	submission  *stubSubmission
	stations    *stubStations
	aggregation *stubAggregation
}

const (
	operatorToken = "op-token"
	panelToken    = "panel-token"
)

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	site := int64(1)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ts := &testServer{
		auth: &stubAuth{actors: map[string]*domain.Actor{
			operatorToken: {UserID: uuid.New(), Username: "fiscal1", Role: domain.RoleOperator, SiteID: &site},
			panelToken:    {UserID: uuid.New(), Username: "panel", Role: domain.RolePanelist},
		}},
		submission:  &stubSubmission{},
		stations:    &stubStations{},
		aggregation: &stubAggregation{},
	}

	ts.router = NewHandler(Handlers{
		Auth:       NewAuthHandler(ts.auth, CookieConfig{Secure: true}, logger),
		User:       NewUserHandler(stubUsers{}, logger),
		Submission: NewSubmissionHandler(ts.submission, logger),
		Station:    NewStationHandler(ts.stations, logger),
		Ballot:     NewBallotHandler(stubBallot{}, logger),
		Panel:      NewPanelHandler(ts.aggregation, "DIPUTADOS", "CONCEJALES", logger),
		Health:     NewHealthHandler(okPinger{}, logger),
	}, ts.auth, RouterConfig{AllowedOrigins: []string{"https://panel.example.org"}, Logger: logger})
	return ts
}

func (ts *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: token})
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}
