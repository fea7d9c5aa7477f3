//go:build integration

// Package integration runs the document service against real PostgreSQL and
// Redis containers started with testcontainers.
package integration

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/profitmap/docflow/internal/domain/document"
	"github.com/profitmap/docflow/internal/infrastructure/config"
	"github.com/profitmap/docflow/internal/infrastructure/logger"
	"github.com/profitmap/docflow/internal/infrastructure/migration"
	"github.com/profitmap/docflow/internal/infrastructure/persistence"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// TestDB is a migrated PostgreSQL database in its own container
type TestDB struct {
	*persistence.Database
	Container testcontainers.Container
	t         *testing.T
}

// NewTestDB starts a PostgreSQL container and applies the embedded migrations
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("docflow_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("admin123"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	cfg := &config.DatabaseConfig{
		Host:           host,
		Port:           port.Int(),
		User:           "postgres",
		Password:       "admin123",
		DBName:         "docflow_test",
		SSLMode:        "disable",
		MaxOpenConns:   20,
		MaxIdleConns:   5,
		ConnectTimeout: 30 * time.Second,
	}

	gormLog := gormlogger.Default.LogMode(gormlogger.Silent)
	if os.Getenv("TEST_DB_DEBUG") != "" {
		gormLog = logger.NewGormLogger(zap.NewExample(), gormlogger.Info)
	}
	db, err := persistence.NewDatabase(ctx, cfg, gormLog, zap.NewNop())
	require.NoError(t, err, "Failed to connect to database")
	t.Cleanup(func() { _ = db.Close() })

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	m, err := migration.New(sqlDB, "", zap.NewNop())
	require.NoError(t, err, "Failed to create migrator")
	require.NoError(t, m.Up(), "Failed to run migrations")

	return &TestDB{Database: db, Container: container, t: t}
}

// CreateCompany stores a company numbering offers as OFF-<year> and invoices as INV-<year>
func (tdb *TestDB) CreateCompany(year int) *document.Company {
	tdb.t.Helper()

	company := &document.Company{
		ID:            uuid.New(),
		Name:          fmt.Sprintf("Company %d", year),
		OfferPrefix:   "OFF",
		OfferYear:     strconv.Itoa(year),
		InvoicePrefix: "INV",
		InvoiceYear:   strconv.Itoa(year),
	}
	require.NoError(tdb.t, persistence.NewGormCompanyDirectory(tdb.DB).Save(context.Background(), company))
	return company
}
