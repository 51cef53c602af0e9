package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/SergeiKhy/todo-shorturl/internal/apperrors"
	"github.com/SergeiKhy/todo-shorturl/internal/models"
)

var (
	ErrLinkNotFound = errors.New("link not found")
	// ErrShortIDTaken коллизия короткого идентификатора при вставке
	ErrShortIDTaken = errors.New("short id already exists")
	// ErrDestinationExists для этого URL уже есть связь
	ErrDestinationExists = errors.New("destination url already mapped")
)

// LinkRepository хранилище связей. Каждый метод выполняется одним SQL-выражением.
type LinkRepository interface {
	// Insert заполняет ID и CreatedAt у link. Возвращает ErrShortIDTaken или
	// ErrDestinationExists, если сработало соответствующее ограничение уникальности.
	Insert(ctx context.Context, link *models.Link) error
	GetByShortID(ctx context.Context, shortID string) (*models.Link, error)
	GetByDestinationURL(ctx context.Context, destinationURL string) (*models.Link, error)
	// IncrementClicks атомарно увеличивает счётчик и возвращает обновлённую строку
	IncrementClicks(ctx context.Context, shortID string) (*models.Link, error)
}

type sqliteLinkRepository struct {
	db *SQLiteDB
}

func NewSQLiteLinkRepository(db *SQLiteDB) LinkRepository {
	return &sqliteLinkRepository{db: db}
}

const linkColumns = `id, short_id, destination_url, created_at, click_count`

func (r *sqliteLinkRepository) Insert(ctx context.Context, link *models.Link) error {
	query := `
		INSERT INTO links (short_id, destination_url, created_at, click_count)
		VALUES (?, ?, ?, 0)
		ON CONFLICT (destination_url) DO NOTHING
		RETURNING id, created_at, click_count
	`

	err := r.db.DB.QueryRowContext(
		ctx,
		query,
		link.ShortID,
		link.DestinationURL,
		formatSQLiteTime(link.CreatedAt),
	).Scan(&link.ID, sqliteTime{&link.CreatedAt}, &link.ClickCount)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrDestinationExists
		}
		if isSQLiteUniqueViolation(err) {
			return ErrShortIDTaken
		}
		return apperrors.NewStorageError("insert link", err)
	}

	return nil
}

func (r *sqliteLinkRepository) GetByShortID(ctx context.Context, shortID string) (*models.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE short_id = ?`
	return r.queryOne(ctx, "get link by short id", query, shortID)
}

func (r *sqliteLinkRepository) GetByDestinationURL(ctx context.Context, destinationURL string) (*models.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links WHERE destination_url = ?`
	return r.queryOne(ctx, "get link by destination", query, destinationURL)
}

func (r *sqliteLinkRepository) IncrementClicks(ctx context.Context, shortID string) (*models.Link, error) {
	query := `
		UPDATE links SET click_count = click_count + 1
		WHERE short_id = ?
		RETURNING ` + linkColumns
	return r.queryOne(ctx, "increment clicks", query, shortID)
}

func (r *sqliteLinkRepository) queryOne(ctx context.Context, op, query string, arg any) (*models.Link, error) {
	link := &models.Link{}
	err := r.db.DB.QueryRowContext(ctx, query, arg).Scan(
		&link.ID,
		&link.ShortID,
		&link.DestinationURL,
		sqliteTime{&link.CreatedAt},
		&link.ClickCount,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, apperrors.NewStorageError(op, err)
	}

	return link, nil
}
