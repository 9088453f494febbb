package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	repo "github.com/vncsmyrnk/escrutinio/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/escrutinio/internal/core/domain"
)

type testDB struct {
	DB        *sql.DB
	Container testcontainers.Container
}

func (d *testDB) Teardown(t *testing.T) {
	d.DB.Close()
	if err := d.Container.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

func setupDB(t *testing.T) *testDB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("user"),
		tcpostgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(ctx, db))

	return &testDB{DB: db, Container: container}
}

func intp(v int) *int { return &v }

// sampleStructure has two sites in one subjurisdiction, one site without
// subjurisdiction and two offices sharing three parties.
func sampleStructure() domain.Structure {
	return domain.Structure{
		Subjurisdictions: []string{"Norte"},
		Sites: []domain.StructureSite{
			{Name: "Escuela 1", Subjurisdiction: "Norte", Stations: []int{1001, 1002}},
			{Name: "Escuela 2", Subjurisdiction: "Norte", Stations: []int{1003}},
			{Name: "Escuela Rural", Stations: []int{9001}},
		},
		Parties: []domain.Party{
			{ListNumber: 501, Name: "Frente Rojo", Abbreviation: "FR", DisplayOrder: intp(2)},
			{ListNumber: 502, Name: "Alianza Azul", Abbreviation: "AA", DisplayOrder: intp(1)},
			{ListNumber: 503, Name: "Verdes", Abbreviation: "V"},
		},
		Elections: []domain.StructureElect{
			{
				Name: "Generales",
				Kind: domain.KindLegislative,
				Offices: []domain.StructureOffice{
					{Name: "Diputados Provinciales", Parties: []int{501, 502, 503}},
					{Name: "Concejales", Parties: []int{501, 502}},
				},
			},
		},
	}
}

type fixture struct {
	db          *testDB
	siteID      map[string]int64
	officeID    map[string]int64
	nominations map[int64]map[int]int64 // office -> list number -> nomination id
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	db := setupDB(t)
	ctx := context.Background()

	_, err := repo.NewStructureRepository(db.DB).Load(ctx, sampleStructure())
	require.NoError(t, err)

	f := &fixture{
		db:          db,
		siteID:      map[string]int64{},
		officeID:    map[string]int64{},
		nominations: map[int64]map[int]int64{},
	}

	rows, err := db.DB.QueryContext(ctx, `SELECT id, name FROM sites`)
	require.NoError(t, err)
	for rows.Next() {
		var (
			id   int64
			name string
		)
		require.NoError(t, rows.Scan(&id, &name))
		f.siteID[name] = id
	}
	rows.Close()

	ballot := repo.NewBallotRepository(db.DB)
	offices, err := ballot.ListOffices(ctx)
	require.NoError(t, err)
	for _, o := range offices {
		f.officeID[o.Name] = o.ID
	}
	nominations, err := ballot.ListNominations(ctx)
	require.NoError(t, err)
	for _, n := range nominations {
		if f.nominations[n.OfficeID] == nil {
			f.nominations[n.OfficeID] = map[int]int64{}
		}
		f.nominations[n.OfficeID][n.PartyListNumber] = n.ID
	}
	return f
}

func (f *fixture) nomination(office string, list int) int64 {
	return f.nominations[f.officeID[office]][list]
}

func operatorAt(siteID int64) *domain.Actor {
	return &domain.Actor{UserID: uuid.New(), Username: "op", Role: domain.RoleOperator, SiteID: &siteID}
}

type nopAudit struct{}

func (nopAudit) Record(ctx context.Context, event domain.AuditEvent) {}
