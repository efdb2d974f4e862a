package documents

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

var documentColumns = []string{
	"id", "customer_id", "filename", "extension", "fingerprint",
	"size_bytes", "content_type", "storage_key", "created_at",
}

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGCreateMapsFingerprintUniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec("INSERT INTO documents").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "documents_customer_fingerprint_key"})

	err := repo.Create(context.Background(), Document{ID: "doc-1", CustomerID: "cust-1", Fingerprint: "fp-a"})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestPGCreateInsertsDocument(t *testing.T) {
	repo, mock := newMockRepo(t)

	doc := Document{
		ID:          "doc-1",
		CustomerID:  "cust-1",
		Filename:    "report.pdf",
		Extension:   "pdf",
		Fingerprint: "fp-a",
		SizeBytes:   42,
		ContentType: "application/pdf",
		StorageKey:  "cust/abc_report.pdf",
		CreatedAt:   time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO documents").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestPGGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT id, customer_id, filename").
		WithArgs("cust-1", "doc-missing").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.GetByID(context.Background(), "cust-1", "doc-missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGGetByIDScansNullableColumns(t *testing.T) {
	repo, mock := newMockRepo(t)

	created := time.Now().UTC().Truncate(time.Second)
	rows := sqlmock.NewRows(documentColumns).
		AddRow("doc-1", "cust-1", "notes.txt", "txt", "fp-a", int64(9), nil, nil, created)

	mock.ExpectQuery("SELECT id, customer_id, filename").
		WithArgs("cust-1", "doc-1").
		WillReturnRows(rows)

	doc, err := repo.GetByID(context.Background(), "cust-1", "doc-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if doc.ContentType != "" || doc.StorageKey != "" {
		t.Fatalf("expected empty nullable fields, got %+v", doc)
	}
	if doc.Fingerprint != "fp-a" || doc.SizeBytes != 9 {
		t.Fatalf("unexpected document %+v", doc)
	}
}

func TestPGListByCustomer(t *testing.T) {
	repo, mock := newMockRepo(t)

	created := time.Now().UTC().Truncate(time.Second)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("cust-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	rows := sqlmock.NewRows(documentColumns).
		AddRow("doc-2", "cust-1", "b.txt", "txt", "fp-b", int64(2), "text/plain", "k2", created).
		AddRow("doc-1", "cust-1", "a.txt", "txt", "fp-a", int64(1), "text/plain", "k1", created.Add(-time.Minute))

	mock.ExpectQuery("SELECT id, customer_id, filename").
		WithArgs("cust-1", 2, 0).
		WillReturnRows(rows)

	docs, total, err := repo.ListByCustomer(context.Background(), "cust-1", 2, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 {
		t.Fatalf("total = %d, want 3", total)
	}
	if len(docs) != 2 || docs[0].ID != "doc-2" {
		t.Fatalf("unexpected page: %+v", docs)
	}
}

func TestPGDeleteNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("DELETE FROM documents").
		WithArgs("cust-1", "doc-missing").
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.Delete(context.Background(), "cust-1", "doc-missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGDeleteReturnsDeletedRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	created := time.Now().UTC().Truncate(time.Second)
	rows := sqlmock.NewRows(documentColumns).
		AddRow("doc-1", "cust-1", "a.txt", "txt", "fp-a", int64(1), "text/plain", "k1", created)

	mock.ExpectQuery("DELETE FROM documents").
		WithArgs("cust-1", "doc-1").
		WillReturnRows(rows)

	doc, err := repo.Delete(context.Background(), "cust-1", "doc-1")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if doc.StorageKey != "k1" {
		t.Fatalf("unexpected deleted row: %+v", doc)
	}
}
