package repository

import (
	"context"
	"errors"

	"github.com/SergeiKhy/todo-shorturl/internal/apperrors"
	"github.com/SergeiKhy/todo-shorturl/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation   = "23505"
	linksShortIDKey     = "links_short_id_key"
	linksDestinationKey = "links_destination_url_key"
)

type postgresLinkRepository struct {
	db *PostgresDB
}

func NewPostgresLinkRepository(db *PostgresDB) LinkRepository {
	return &postgresLinkRepository{db: db}
}

func (r *postgresLinkRepository) Insert(ctx context.Context, link *models.Link) error {
	query := `
		INSERT INTO links (short_id, destination_url, created_at, click_count)
		VALUES ($1, $2, $3, 0)
		ON CONFLICT ON CONSTRAINT ` + linksDestinationKey + ` DO NOTHING
		RETURNING id, created_at, click_count
	`

	err := r.db.Pool.QueryRow(
		ctx,
		query,
		link.ShortID,
		link.DestinationURL,
		link.CreatedAt,
	).Scan(&link.ID, &link.CreatedAt, &link.ClickCount)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrDestinationExists
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			if pgErr.ConstraintName == linksDestinationKey {
				return ErrDestinationExists
			}
			return ErrShortIDTaken
		}
		return apperrors.NewStorageError("insert link", err)
	}

	return nil
}

func (r *postgresLinkRepository) GetByShortID(ctx context.Context, shortID string) (*models.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE short_id = $1`
	return r.queryOne(ctx, "get link by short id", query, shortID)
}

func (r *postgresLinkRepository) GetByDestinationURL(ctx context.Context, destinationURL string) (*models.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE destination_url = $1`
	return r.queryOne(ctx, "get link by destination", query, destinationURL)
}

func (r *postgresLinkRepository) IncrementClicks(ctx context.Context, shortID string) (*models.Link, error) {
	query := `
		UPDATE links SET click_count = click_count + 1
		WHERE short_id = $1
		RETURNING ` + linkColumns
	return r.queryOne(ctx, "increment clicks", query, shortID)
}

func (r *postgresLinkRepository) queryOne(ctx context.Context, op, query string, arg any) (*models.Link, error) {
	link := &models.Link{}
	err := r.db.Pool.QueryRow(ctx, query, arg).Scan(
		&link.ID,
		&link.ShortID,
		&link.DestinationURL,
		&link.CreatedAt,
		&link.ClickCount,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, apperrors.NewStorageError(op, err)
	}

	return link, nil
}
