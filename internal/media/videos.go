package media

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brijmohangurjar/kishan/internal/apperr"
)

type VideoRepo struct{ DB *pgxpool.Pool }

const videoCols = `video_id, title, description, video_url, thumbnail_url, category,
	duration, is_active, display_order, created_by, created_at, updated_at`

func scanVideo(row pgx.Row) (Video, error) {
	var v Video
	err := row.Scan(&v.ID, &v.Title, &v.Description, &v.VideoURL, &v.ThumbnailURL,
		&v.Category, &v.Duration, &v.IsActive, &v.DisplayOrder, &v.CreatedBy,
		&v.CreatedAt, &v.UpdatedAt)
	return v, err
}

func validateVideo(in VideoInput) error {
	if in.Title == "" {
		return apperr.Invalid("title", "required")
	}
	if in.VideoURL == "" {
		return apperr.Invalid("videoUrl", "required")
	}
	return nil
}

// ListActive returns the videos shown in the app slider, in display order.
func (r *VideoRepo) ListActive(ctx context.Context) ([]Video, error) {
	return r.collect(ctx,
		`SELECT `+videoCols+` FROM videos WHERE is_active ORDER BY display_order, video_id`)
}

func (r *VideoRepo) ListAll(ctx context.Context) ([]Video, error) {
	return r.collect(ctx, `SELECT `+videoCols+` FROM videos ORDER BY display_order, video_id`)
}

func (r *VideoRepo) collect(ctx context.Context, query string, args ...any) ([]Video, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Video
	for rows.Next() {
		v, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *VideoRepo) Get(ctx context.Context, videoID int64) (Video, error) {
	v, err := scanVideo(r.DB.QueryRow(ctx,
		`SELECT `+videoCols+` FROM videos WHERE video_id=$1`, videoID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Video{}, fmt.Errorf("video %d: %w", videoID, apperr.ErrNotFound)
	}
	if err != nil {
		return Video{}, fmt.Errorf("get video %d: %w", videoID, err)
	}
	return v, nil
}

func (r *VideoRepo) Create(ctx context.Context, adminID int64, in VideoInput) (Video, error) {
	if err := validateVideo(in); err != nil {
		return Video{}, err
	}
	category := in.Category
	if category == "" {
		category = "General"
	}
	v, err := scanVideo(r.DB.QueryRow(ctx, `
		INSERT INTO videos(title, description, video_url, thumbnail_url, category,
		                   duration, is_active, display_order, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING `+videoCols,
		in.Title, in.Description, in.VideoURL, in.ThumbnailURL, category,
		in.Duration, in.IsActive, in.DisplayOrder, adminID))
	if err != nil {
		return Video{}, fmt.Errorf("create video: %w", err)
	}
	return v, nil
}

func (r *VideoRepo) Update(ctx context.Context, videoID int64, in VideoInput) (Video, error) {
	if err := validateVideo(in); err != nil {
		return Video{}, err
	}
	v, err := scanVideo(r.DB.QueryRow(ctx, `
		UPDATE videos SET title=$2, description=$3, video_url=$4, thumbnail_url=$5,
		       category=$6, duration=$7, is_active=$8, display_order=$9, updated_at=now()
		WHERE video_id=$1
		RETURNING `+videoCols,
		videoID, in.Title, in.Description, in.VideoURL, in.ThumbnailURL,
		in.Category, in.Duration, in.IsActive, in.DisplayOrder))
	if errors.Is(err, pgx.ErrNoRows) {
		return Video{}, fmt.Errorf("video %d: %w", videoID, apperr.ErrNotFound)
	}
	if err != nil {
		return Video{}, fmt.Errorf("update video %d: %w", videoID, err)
	}
	return v, nil
}

func (r *VideoRepo) Delete(ctx context.Context, videoID int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM videos WHERE video_id=$1`, videoID)
	if err != nil {
		return fmt.Errorf("delete video %d: %w", videoID, err)
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("video %d: %w", videoID, apperr.ErrNotFound)
	}
	return nil
}
