package song

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

// PostgresStore persists songs in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const songColumns = `id, organization_id, artist_id, album_id, title, audio_url, duration_seconds, track_number, status, is_deleted, created_at, updated_at`

func scanSong(row interface{ Scan(...any) error }) (*models.Song, error) {
	var s models.Song
	err := row.Scan(&s.ID, &s.OrganizationID, &s.ArtistID, &s.AlbumID, &s.Title, &s.AudioURL,
		&s.DurationSeconds, &s.TrackNumber, &s.Status, &s.IsDeleted, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan song: %w", err)
	}
	return &s, nil
}

func (s *PostgresStore) Create(ctx context.Context, song *models.Song) error {
	q := tx.Resolve(ctx, s.db)
	_, err := q.ExecContext(ctx, `
		INSERT INTO songs (id, organization_id, artist_id, album_id, title, audio_url, duration_seconds, track_number, status, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, song.ID, song.OrganizationID, song.ArtistID, song.AlbumID, song.Title, song.AudioURL,
		song.DurationSeconds, song.TrackNumber, song.Status, song.IsDeleted, song.CreatedAt, song.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert song: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id domain.SongID) (*models.Song, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx, `SELECT `+songColumns+` FROM songs WHERE id = $1`, id)
	return scanSong(row)
}

func (s *PostgresStore) Update(ctx context.Context, song *models.Song) error {
	q := tx.Resolve(ctx, s.db)
	res, err := q.ExecContext(ctx, `
		UPDATE songs
		SET title = $2, audio_url = $3, duration_seconds = $4, track_number = $5, status = $6, is_deleted = $7, updated_at = $8
		WHERE id = $1
	`, song.ID, song.Title, song.AudioURL, song.DurationSeconds, song.TrackNumber, song.Status, song.IsDeleted, song.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update song: %w", err)
	}
	return requireAffected(res)
}

func (s *PostgresStore) Execute(ctx context.Context, id domain.SongID, validate func(*models.Song) error, mutate func(*models.Song)) (*models.Song, error) {
	q := tx.Resolve(ctx, s.db)
	row := q.QueryRowContext(ctx, `SELECT `+songColumns+` FROM songs WHERE id = $1 FOR UPDATE`, id)
	song, err := scanSong(row)
	if err != nil {
		return nil, err
	}
	if err := validate(song); err != nil {
		return nil, err
	}
	mutate(song)
	if err := s.Update(ctx, song); err != nil {
		return nil, err
	}
	return song, nil
}

func (s *PostgresStore) List(ctx context.Context, filter policy.ListFilter) ([]*models.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs`
	where, args := buildSongWhere(filter)
	query += where + ` ORDER BY track_number, lower(title)`

	q := tx.Resolve(ctx, s.db)
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer rows.Close()

	var out []*models.Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, song)
	}
	return out, rows.Err()
}

func buildSongWhere(filter policy.ListFilter) (string, []any) {
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
	if filter.AlbumID != nil {
		clauses = append(clauses, "album_id = "+arg(*filter.AlbumID))
	}
	if filter.Deleted != nil {
		clauses = append(clauses, "is_deleted = "+arg(*filter.Deleted))
	}
	if filter.VisibleOnly {
		clauses = append(clauses, "status = 'active'")
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

func (s *PostgresStore) HardDelete(ctx context.Context, id domain.SongID) error {
	q := tx.Resolve(ctx, s.db)
	res, err := q.ExecContext(ctx, `DELETE FROM songs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("hard delete song: %w", err)
	}
	return requireAffected(res)
}

// DeleteByAlbum removes all songs under an album as part of an album
// hard-delete. Zero rows affected is fine.
func (s *PostgresStore) DeleteByAlbum(ctx context.Context, albumID domain.AlbumID) error {
	q := tx.Resolve(ctx, s.db)
	if _, err := q.ExecContext(ctx, `DELETE FROM songs WHERE album_id = $1`, albumID); err != nil {
		return fmt.Errorf("delete songs by album: %w", err)
	}
	return nil
}

// DeleteByArtist removes all songs under an artist as part of an artist
// hard-delete.
func (s *PostgresStore) DeleteByArtist(ctx context.Context, artistID domain.ArtistID) error {
	q := tx.Resolve(ctx, s.db)
	if _, err := q.ExecContext(ctx, `DELETE FROM songs WHERE artist_id = $1`, artistID); err != nil {
		return fmt.Errorf("delete songs by artist: %w", err)
	}
	return nil
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
