package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
	"github.com/vncsmyrnk/escrutinio/internal/core/ports"
)

type officeKey struct {
	station    int
	nomination int64
}

type specialKey struct {
	station  int
	office   int64
	category domain.SpecialCategory
}

type ledgerState struct {
	stations     map[int]domain.Station
	officeVotes  map[officeKey]int
	specialVotes map[specialKey]int
	summaries    map[int]domain.ReconciliationSummary
}

func (s ledgerState) clone() ledgerState {
	c := ledgerState{
		stations:     make(map[int]domain.Station, len(s.stations)),
		officeVotes:  make(map[officeKey]int, len(s.officeVotes)),
		specialVotes: make(map[specialKey]int, len(s.specialVotes)),
		summaries:    make(map[int]domain.ReconciliationSummary, len(s.summaries)),
	}
	for k, v := range s.stations {
		c.stations[k] = v
	}
	for k, v := range s.officeVotes {
		c.officeVotes[k] = v
	}
	for k, v := range s.specialVotes {
		c.specialVotes[k] = v
	}
	for k, v := range s.summaries {
		c.summaries[k] = v
	}
	return c
}

// memLedger is a transactional in-memory ledger. Transactions are fully
// serialized and work on a copy that replaces the state on commit.
type memLedger struct {
	mu          sync.Mutex
	state       ledgerState
	nominations map[int64]bool
	offices     map[int64]bool

	failSpecial error
}

func newMemLedger() *memLedger {
	return &memLedger{
		state: ledgerState{
			stations:     make(map[int]domain.Station),
			officeVotes:  make(map[officeKey]int),
			specialVotes: make(map[specialKey]int),
			summaries:    make(map[int]domain.ReconciliationSummary),
		},
		nominations: make(map[int64]bool),
		offices:     make(map[int64]bool),
	}
}

func (m *memLedger) addStation(number int, siteID int64) {
	m.state.stations[number] = domain.Station{Number: number, SiteID: siteID}
}

func (m *memLedger) snapshot() ledgerState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

func (m *memLedger) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ports.LedgerTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memTx{ledger: m, state: m.state.clone()}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	m.state = tx.state
	return nil
}

func (m *memLedger) StationData(ctx context.Context, number int) (*domain.StationData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data := &domain.StationData{StationNumber: number}
	if s, ok := m.state.summaries[number]; ok {
		data.Reconciliation = s
	}
	for k, v := range m.state.officeVotes {
		if k.station == number {
			data.OfficeVotes = append(data.OfficeVotes, domain.OfficeVoteRecord{StationNumber: number, NominationID: k.nomination, Votes: v})
		}
	}
	for k, v := range m.state.specialVotes {
		if k.station == number {
			data.SpecialVotes = append(data.SpecialVotes, domain.SpecialVoteRecord{StationNumber: number, OfficeID: k.office, Category: k.category, Votes: v})
		}
	}
	return data, nil
}

type memTx struct {
	ledger *memLedger
	state  ledgerState
}

func (t *memTx) LockStation(ctx context.Context, number int, siteID int64) (*domain.Station, error) {
	s, ok := t.state.stations[number]
	if !ok || s.SiteID != siteID {
		return nil, domain.ErrStationNotFound
	}
	return &s, nil
}

func (t *memTx) UpsertOfficeVote(ctx context.Context, rec domain.OfficeVoteRecord) error {
	if !t.ledger.nominations[rec.NominationID] {
		return domain.ErrValidation
	}
	t.state.officeVotes[officeKey{rec.StationNumber, rec.NominationID}] = rec.Votes
	return nil
}

func (t *memTx) UpsertSpecialVote(ctx context.Context, rec domain.SpecialVoteRecord) error {
	if t.ledger.failSpecial != nil {
		return t.ledger.failSpecial
	}
	if !t.ledger.offices[rec.OfficeID] {
		return domain.ErrValidation
	}
	t.state.specialVotes[specialKey{rec.StationNumber, rec.OfficeID, rec.Category}] = rec.Votes
	return nil
}

func (t *memTx) UpsertReconciliation(ctx context.Context, summary domain.ReconciliationSummary) error {
	t.state.summaries[summary.StationNumber] = summary
	return nil
}

func (t *memTx) MarkTallied(ctx context.Context, number int) error {
	s := t.state.stations[number]
	s.Tallied = true
	t.state.stations[number] = s
	return nil
}

type memStations struct {
	ledger *memLedger
}

func (r *memStations) GetForSite(ctx context.Context, number int, siteID int64) (*domain.Station, error) {
	state := r.ledger.snapshot()
	s, ok := state.stations[number]
	if !ok || s.SiteID != siteID {
		return nil, domain.ErrStationNotFound
	}
	return &s, nil
}

func (r *memStations) ListBySite(ctx context.Context, siteID int64, pendingOnly bool) ([]domain.Station, error) {
	state := r.ledger.snapshot()
	var out []domain.Station
	for _, s := range state.stations {
		if s.SiteID == siteID && (!pendingOnly || !s.Tallied) {
			out = append(out, s)
		}
	}
	return out, nil
}

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (a *recordingAudit) Record(ctx context.Context, event domain.AuditEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, event)
}

func (a *recordingAudit) actions() []domain.AuditAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]domain.AuditAction, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.Action)
	}
	return out
}

type memBallot struct {
	offices     []domain.Office
	parties     []domain.Party
	nominations []domain.Nomination
}

func (b *memBallot) ListOffices(ctx context.Context) ([]domain.Office, error) { return b.offices, nil }
func (b *memBallot) ListParties(ctx context.Context) ([]domain.Party, error)  { return b.parties, nil }
func (b *memBallot) ListNominations(ctx context.Context) ([]domain.Nomination, error) {
	return b.nominations, nil
}

func (b *memBallot) GetOfficeByID(ctx context.Context, id int64) (*domain.Office, error) {
	for _, o := range b.offices {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, domain.ErrOfficeNotFound
}

func (b *memBallot) GetOfficeByName(ctx context.Context, name string) (*domain.Office, error) {
	for _, o := range b.offices {
		if strings.EqualFold(o.Name, name) {
			return &o, nil
		}
	}
	return nil, domain.ErrOfficeNotFound
}

type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[uuid.UUID]*domain.User)}
}

func (r *memUsers) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memUsers) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *memUsers) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	c := *user
	r.users[user.ID] = &c
	return nil
}

func (r *memUsers) SetPresence(ctx context.Context, id uuid.UUID, online bool, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.Online = online
		u.LastSeenAt = &at
	}
	return nil
}

func (r *memUsers) List(ctx context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

type memTokens struct {
	mu     sync.Mutex
	tokens map[string]*domain.RefreshToken
}

func newMemTokens() *memTokens {
	return &memTokens{tokens: make(map[string]*domain.RefreshToken)}
}

func (r *memTokens) StoreRefreshToken(ctx context.Context, token *domain.RefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token.ID = uuid.New()
	token.CreatedAt = time.Now()
	r.tokens[token.TokenHash] = token
	return nil
}

func (r *memTokens) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[tokenHash]
	if !ok {
		return nil, nil
	}
	c := *t
	return &c, nil
}

func (r *memTokens) RevokeRefreshToken(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.ID.String() == id {
			t.Revoked = true
		}
	}
	return nil
}

func operator(siteID int64) *domain.Actor {
	return &domain.Actor{UserID: uuid.New(), Username: "op", Role: domain.RoleOperator, SiteID: &siteID}
}

func panelist() *domain.Actor {
	return &domain.Actor{UserID: uuid.New(), Username: "panel", Role: domain.RolePanelist}
}

func ptr[T any](v T) *T {
	return &v
}
