package organization

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"chorale/internal/org/models"
	"chorale/pkg/domain"
	"chorale/pkg/platform/sentinel"
	"chorale/pkg/platform/tx"
)

// PostgresStore persists organizations in PostgreSQL. All methods join an
// ambient transaction from context when one is present.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const orgColumns = `id, name, verification, logo_url, about, created_at, updated_at`

func scanOrganization(row interface{ Scan(...any) error }) (*models.Organization, error) {
	var org models.Organization
	err := row.Scan(&org.ID, &org.Name, &org.Verification, &org.LogoURL, &org.About, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan organization: %w", err)
	}
	return &org, nil
}

func (s *PostgresStore) CreateIfNameAvailable(ctx context.Context, org *models.Organization) error {
	q := tx.Resolve(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO organizations (id, name, verification, logo_url, about, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, org.ID, org.Name, org.Verification, org.LogoURL, org.About, org.CreatedAt, org.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert organization: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.OrganizationID) (*models.Organization, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx, `SELECT `+orgColumns+` FROM organizations WHERE id = $1`, id)
	return scanOrganization(row)
}

func (s *PostgresStore) FindByName(ctx context.Context, name string) (*models.Organization, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx, `SELECT `+orgColumns+` FROM organizations WHERE lower(name) = lower($1)`, name)
	return scanOrganization(row)
}

func (s *PostgresStore) Update(ctx context.Context, org *models.Organization) error {
	q := tx.Resolve(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE organizations
		SET name = $2, verification = $3, logo_url = $4, about = $5, updated_at = $6
		WHERE id = $1
	`, org.ID, org.Name, org.Verification, org.LogoURL, org.About, org.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update organization: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update organization: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// Execute reads the row FOR UPDATE, validates, mutates, and writes it back.
// Within a surrounding transaction the lock holds until commit; standalone it
// degrades to read-validate-write on the bare connection.
func (s *PostgresStore) Execute(ctx context.Context, id domain.OrganizationID, validate func(*models.Organization) error, mutate func(*models.Organization)) (*models.Organization, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx, `SELECT `+orgColumns+` FROM organizations WHERE id = $1 FOR UPDATE`, id)
	org, err := scanOrganization(row)
	if err != nil {
		return nil, err
	}
	if err := validate(org); err != nil {
		return nil, err
	}
	mutate(org)
	if err := s.Update(ctx, org); err != nil {
		return nil, err
	}
	return org, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*models.Organization, error) {
	q := tx.Resolve(ctx, s.db)
	rows, err := q.QueryContext(ctx, `SELECT `+orgColumns+` FROM organizations ORDER BY lower(name)`)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	defer rows.Close()

	var out []*models.Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, org)
	}
	return out, rows.Err()
}
