package firms

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"legal-file-auditor/internal/cmsadapter"
)

var firmColumnNames = []string{
	"id", "name", "contact_email", "contact_phone", "provider", "api_url", "api_key", "api_secret",
	"org_id", "endpoints", "active", "created_at", "updated_at", "last_scanned_at",
}

func newMock(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func TestPGRepoCreateEncodesEndpoints(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	f := Firm{
		ID:        "firm-1",
		Name:      "Smith & Jones",
		Provider:  cmsadapter.ProviderMyCase,
		APIURL:    "https://api.mycase.test",
		APIKey:    "k",
		Endpoints: &cmsadapter.Endpoints{Cases: "/v1/cases"},
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectExec("INSERT INTO firms").
		WithArgs(
			f.ID, f.Name, "", "", "mycase", f.APIURL, "k", "", "",
			[]byte(`{"cases":"/v1/cases"}`),
			true, now, now,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), f); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetDecodesRow(t *testing.T) {
	repo, mock := newMock(t)
	created := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	scanned := created.Add(48 * time.Hour)

	rows := sqlmock.NewRows(firmColumnNames).AddRow(
		"firm-1", "Smith & Jones", "ops@smith.test", "", "filevine", "https://api.filevine.io",
		"key", "secret", "org-9", []byte(`{"documents":"/docs/{caseId}"}`), true, created, created, scanned,
	)
	mock.ExpectQuery("SELECT (.+) FROM firms WHERE id = \\$1").
		WithArgs("firm-1").
		WillReturnRows(rows)

	f, err := repo.Get(context.Background(), "firm-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if f.Provider != cmsadapter.ProviderFilevine || f.OrgID != "org-9" {
		t.Fatalf("unexpected firm: %+v", f)
	}
	if f.Endpoints == nil || f.Endpoints.Documents != "/docs/{caseId}" {
		t.Fatalf("expected decoded endpoints, got %+v", f.Endpoints)
	}
	if f.LastScannedAt == nil || !f.LastScannedAt.Equal(scanned) {
		t.Fatalf("expected last scanned %s, got %v", scanned, f.LastScannedAt)
	}
}

func TestPGRepoGetNotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("SELECT (.+) FROM firms").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(firmColumnNames))

	if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoListActiveOnly(t *testing.T) {
	repo, mock := newMock(t)
	now := time.Now().UTC()
	rows := sqlmock.NewRows(firmColumnNames).
		AddRow("firm-2", "B", "", "", "clio", "https://app.clio.com", "k", "", "", nil, true, now, now, nil).
		AddRow("firm-1", "A", "", "", "casepeer", "https://casepeer.test", "k", "", "", nil, true, now, now, nil)
	mock.ExpectQuery("FROM firms WHERE active = TRUE ORDER BY created_at DESC").
		WillReturnRows(rows)

	list, err := repo.List(context.Background(), true)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].ID != "firm-2" || list[1].Endpoints != nil {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestPGRepoDeleteMissing(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectExec("DELETE FROM firms").
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "ghost"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoMarkScanned(t *testing.T) {
	repo, mock := newMock(t)
	at := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE firms SET last_scanned_at").
		WithArgs("firm-1", at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkScanned(context.Background(), "firm-1", at); err != nil {
		t.Fatalf("MarkScanned: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
