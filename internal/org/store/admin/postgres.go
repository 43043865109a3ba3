package admin

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

// PostgresStore persists administrators in PostgreSQL. A unique index on
// organization_id enforces at most one administrator per organization.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const adminColumns = `id, organization_id, email, display_name, verification, created_at, updated_at`

func scanAdministrator(row interface{ Scan(...any) error }) (*models.Administrator, error) {
	var admin models.Administrator
	err := row.Scan(&admin.ID, &admin.OrganizationID, &admin.Email, &admin.DisplayName, &admin.Verification, &admin.CreatedAt, &admin.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan administrator: %w", err)
	}
	return &admin, nil
}

func (s *PostgresStore) Create(ctx context.Context, admin *models.Administrator) error {
	q := tx.Resolve(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO administrators (id, organization_id, email, display_name, verification, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, admin.ID, admin.OrganizationID, admin.Email, admin.DisplayName, admin.Verification, admin.CreatedAt, admin.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert administrator: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.AdministratorID) (*models.Administrator, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM administrators WHERE id = $1`, id)
	return scanAdministrator(row)
}

func (s *PostgresStore) FindByOrganization(ctx context.Context, orgID domain.OrganizationID) (*models.Administrator, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx, `SELECT `+adminColumns+` FROM administrators WHERE organization_id = $1`, orgID)
	return scanAdministrator(row)
}

func (s *PostgresStore) Update(ctx context.Context, admin *models.Administrator) error {
	q := tx.Resolve(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE administrators
		SET email = $2, display_name = $3, verification = $4, updated_at = $5
		WHERE id = $1
	`, admin.ID, admin.Email, admin.DisplayName, admin.Verification, admin.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update administrator: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update administrator: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
