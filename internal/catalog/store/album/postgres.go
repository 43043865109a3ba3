package album

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

// PostgresStore persists albums in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const albumColumns = `id, organization_id, artist_id, title, cover_url, is_published, is_featured, is_deleted, songs_count, released_at, created_at, updated_at`

func scanAlbum(row interface{ Scan(...any) error }) (*models.Album, error) {
	var a models.Album
	err := row.Scan(&a.ID, &a.OrganizationID, &a.ArtistID, &a.Title, &a.CoverURL, &a.IsPublished, &a.IsFeatured,
		&a.IsDeleted, &a.Stats.SongsCount, &a.ReleasedAt, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan album: %w", err)
	}
	return &a, nil
}

func (s *PostgresStore) Create(ctx context.Context, album *models.Album) error {
	q := tx.Resolve(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO albums (id, organization_id, artist_id, title, cover_url, is_published, is_featured, is_deleted, songs_count, released_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, album.ID, album.OrganizationID, album.ArtistID, album.Title, album.CoverURL, album.IsPublished, album.IsFeatured,
		album.IsDeleted, album.Stats.SongsCount, album.ReleasedAt, album.CreatedAt, album.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert album: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.AlbumID) (*models.Album, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx, `SELECT `+albumColumns+` FROM albums WHERE id = $1`, id)
	return scanAlbum(row)
}

func (s *PostgresStore) Update(ctx context.Context, album *models.Album) error {
	q := tx.Resolve(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE albums
		SET title = $2, cover_url = $3, is_published = $4, is_featured = $5, is_deleted = $6, released_at = $7, updated_at = $8
		WHERE id = $1
	`, album.ID, album.Title, album.CoverURL, album.IsPublished, album.IsFeatured, album.IsDeleted, album.ReleasedAt, album.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update album: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) Execute(ctx context.Context, id domain.AlbumID, validate func(*models.Album) error, mutate func(*models.Album)) (*models.Album, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx, `SELECT `+albumColumns+` FROM albums WHERE id = $1 FOR UPDATE`, id)
	album, err := scanAlbum(row)
	if err != nil {
		return nil, err
	}
	if err := validate(album); err != nil {
		return nil, err
	}
	mutate(album)
	if err := s.Update(ctx, album); err != nil {
		return nil, err
	}
	return album, nil
}

func (s *PostgresStore) List(ctx context.Context, filter policy.ListFilter) ([]*models.Album, error) {
	query := `SELECT ` + albumColumns + ` FROM albums`
	where, args := buildAlbumWhere(filter)
	query += where + ` ORDER BY lower(title)`

	q := tx.Resolve(ctx, s.db)
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	defer rows.Close()

	var out []*models.Album
	for rows.Next() {
		album, err := scanAlbum(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, album)
	}
	return out, rows.Err()
}

func buildAlbumWhere(filter policy.ListFilter) (string, []any) {
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
	if filter.ArtistID != nil {
		clauses = append(clauses, "artist_id = "+arg(*filter.ArtistID))
	}
	if filter.Deleted != nil {
		clauses = append(clauses, "is_deleted = "+arg(*filter.Deleted))
	}
	if filter.VisibleOnly {
		clauses = append(clauses, "is_published = TRUE")
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

func (s *PostgresStore) HardDelete(ctx context.Context, id domain.AlbumID) error {
	q := tx.Resolve(ctx, s.db)
	res, err := q.ExecContext(ctx, `DELETE FROM albums WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("hard delete album: %w", err)
	}
	return requireAffected(res)
}

// DeleteByArtist removes all albums under an artist as part of an artist
// hard-delete. Zero rows affected is fine; the artist may have no albums.
func (s *PostgresStore) DeleteByArtist(ctx context.Context, artistID domain.ArtistID) error {
	q := tx.Resolve(ctx, s.db)
	if _, err := q.ExecContext(ctx, `DELETE FROM albums WHERE artist_id = $1`, artistID); err != nil {
		return fmt.Errorf("delete albums by artist: %w", err)
	}
	return nil
}

func (s *PostgresStore) ApplyStatsDelta(ctx context.Context, id domain.AlbumID, songsDelta int) error {
	q := tx.Resolve(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE albums
		SET songs_count = GREATEST(songs_count + $2, 0)
		WHERE id = $1
	`, id, songsDelta)
	if err != nil {
		return fmt.Errorf("album stats delta: %w", err)
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
