package artist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"chorale/internal/catalog/models"
	"chorale/internal/catalog/policy"
	"chorale/pkg/domain"
	"chorale/pkg/platform/sentinel"
	"chorale/pkg/platform/tx"
)

// PostgresStore persists artists in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const artistColumns = `id, organization_id, name, image_url, bio, is_active, is_deleted, albums_count, songs_count, created_at, updated_at`

func scanArtist(row interface{ Scan(...any) error }) (*models.Artist, error) {
	var a models.Artist
	err := row.Scan(&a.ID, &a.OrganizationID, &a.Name, &a.ImageURL, &a.Bio, &a.IsActive, &a.IsDeleted,
		&a.Stats.AlbumsCount, &a.Stats.SongsCount, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan artist: %w", err)
	}
	return &a, nil
}

func (s *PostgresStore) Create(ctx context.Context, artist *models.Artist) error {
	q := tx.Resolve(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO artists (id, organization_id, name, image_url, bio, is_active, is_deleted, albums_count, songs_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, artist.ID, artist.OrganizationID, artist.Name, artist.ImageURL, artist.Bio, artist.IsActive, artist.IsDeleted,
		artist.Stats.AlbumsCount, artist.Stats.SongsCount, artist.CreatedAt, artist.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert artist: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.ArtistID) (*models.Artist, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx, `SELECT `+artistColumns+` FROM artists WHERE id = $1`, id)
	return scanArtist(row)
}

func (s *PostgresStore) Update(ctx context.Context, artist *models.Artist) error {
	q := tx.Resolve(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE artists
		SET name = $2, image_url = $3, bio = $4, is_active = $5, is_deleted = $6, updated_at = $7
		WHERE id = $1
	`, artist.ID, artist.Name, artist.ImageURL, artist.Bio, artist.IsActive, artist.IsDeleted, artist.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update artist: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) Execute(ctx context.Context, id domain.ArtistID, validate func(*models.Artist) error, mutate func(*models.Artist)) (*models.Artist, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx, `SELECT `+artistColumns+` FROM artists WHERE id = $1 FOR UPDATE`, id)
	artist, err := scanArtist(row)
	if err != nil {
		return nil, err
	}
	if err := validate(artist); err != nil {
		return nil, err
	}
	mutate(artist)
	if err := s.Update(ctx, artist); err != nil {
		return nil, err
	}
	return artist, nil
}

func (s *PostgresStore) List(ctx context.Context, filter policy.ListFilter) ([]*models.Artist, error) {
	query := `SELECT ` + artistColumns + ` FROM artists`
	where, args := buildArtistWhere(filter)
	query += where + ` ORDER BY lower(name)`

	q := tx.Resolve(ctx, s.db)
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list artists: %w", err)
	}
	defer rows.Close()

	var out []*models.Artist
	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, artist)
	}
	return out, rows.Err()
}

func buildArtistWhere(filter policy.ListFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if filter.OrganizationID != nil {
		clauses = append(clauses, "organization_id = "+arg(*filter.OrganizationID))
	}
	if filter.Deleted != nil {
		clauses = append(clauses, "is_deleted = "+arg(*filter.Deleted))
	}
	if filter.VisibleOnly {
		clauses = append(clauses, "is_active = TRUE")
	}
	if len(clauses) == 0 {
		return "", nil
	}
	where := " WHERE " + clauses[0]
	for _, c := range clauses[1:] {
		where += " AND " + c
	}
	return where, args
}

func (s *PostgresStore) HardDelete(ctx context.Context, id domain.ArtistID) error {
	q := tx.Resolve(ctx, s.db)
	res, err := q.ExecContext(ctx, `DELETE FROM artists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("hard delete artist: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) ApplyStatsDelta(ctx context.Context, id domain.ArtistID, albumsDelta, songsDelta int) error {
	q := tx.Resolve(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE artists
		SET albums_count = GREATEST(albums_count + $2, 0),
		    songs_count = GREATEST(songs_count + $3, 0)
		WHERE id = $1
	`, id, albumsDelta, songsDelta)
	if err != nil {
		return fmt.Errorf("artist stats delta: %w", err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
