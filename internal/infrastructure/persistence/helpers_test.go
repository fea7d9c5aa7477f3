package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/profitmap/docflow/internal/domain/document"
	"github.com/profitmap/docflow/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a file-backed SQLite database. Transactions begin IMMEDIATE so
// concurrent writers queue on the database lock the way postgres callers queue
// on the series row lock.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_busy_timeout=30000&_txlock=immediate", filepath.Join(t.TempDir(), "documents.db"))
	db, err := open(sqlite.Open(dsn), gormlogger.Default.LogMode(gormlogger.Silent))
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.CompanyModel{},
		&models.DocumentSeriesModel{},
		&models.DocumentClientModel{},
		&models.DocumentModel{},
		&models.DocumentItemModel{},
		&models.DocumentRelationshipModel{},
	))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// newMockPostgresDB creates a GORM postgres connection over sqlmock
func newMockPostgresDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	db, err := open(dialector, gormlogger.Default.LogMode(gormlogger.Silent))
	require.NoError(t, err)

	return db, mock, mockDB
}

func seedCompany(t *testing.T, db *gorm.DB) *document.Company {
	t.Helper()

	company := &document.Company{
		ID:            uuid.New(),
		Name:          "Profit d.o.o.",
		OfferPrefix:   "OFF",
		OfferYear:     "2025",
		InvoicePrefix: "INV",
		InvoiceYear:   "2025",
	}
	require.NoError(t, NewGormCompanyDirectory(db).Save(context.Background(), company))
	return company
}

// seedDocument stores a snapshot and a document built from draft
func seedDocument(t *testing.T, db *gorm.DB, companyID uuid.UUID, number string, draft document.Draft) *document.Document {
	t.Helper()
	ctx := context.Background()

	client, err := document.NewClientSnapshot(document.ClientDetails{Name: "Acme", Email: "billing@acme.test"})
	require.NoError(t, err)
	require.NoError(t, NewGormClientSnapshotRepository(db).Create(ctx, client))

	doc, err := document.NewDocument(companyID, number, draft, client)
	require.NoError(t, err)
	require.NoError(t, NewGormDocumentRepository(db).Create(ctx, doc))
	return doc
}

func offerDraft(date time.Time) document.Draft {
	return document.Draft{
		Type:         document.TypeOffer,
		DocumentDate: date,
		Items: []document.ItemInput{
			{Name: "Consulting", Quantity: 2, Price: decimal.NewFromInt(50), DiscountPercentage: decimal.NewFromInt(10)},
			{Name: "Travel", Comment: "Zagreb", Quantity: 1, Price: decimal.NewFromInt(5), DiscountPercentage: decimal.Zero},
		},
	}
}
