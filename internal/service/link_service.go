package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SergeiKhy/todo-shorturl/internal/models"
	"github.com/SergeiKhy/todo-shorturl/internal/repository"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
)

// Константы генератора коротких идентификаторов
const (
	DefaultShortIDLength = 6
	ShortIDAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// GenerateCandidate возвращает случайный токен из 62-символьного алфавита.
// Уникальность не гарантируется, её обеспечивает ограничение в хранилище.
func GenerateCandidate(length int) (string, error) {
	if length <= 0 {
		length = DefaultShortIDLength
	}
	return gonanoid.Generate(ShortIDAlphabet, length)
}

// LinkService интерфейс хранилища коротких ссылок
type LinkService interface {
	// CreateOrGet возвращает существующую связь для URL или создаёт новую.
	// URL должен быть провалидирован вызывающим.
	CreateOrGet(ctx context.Context, destinationURL string) (*models.Link, error)
	// Resolve увеличивает счётчик переходов и возвращает связь
	Resolve(ctx context.Context, shortID string) (*models.Link, error)
	// GetStats читает связь без изменения счётчика
	GetStats(ctx context.Context, shortID string) (*models.Link, error)
}

// linkService реализация поверх LinkRepository
type linkService struct {
	linkRepo repository.LinkRepository
	logger   *zap.Logger
	generate func(length int) (string, error)
	length   int
	reserved map[string]bool
	now      func() time.Time
}

type LinkServiceOption func(*linkService)

// WithGenerator подменяет генератор токенов (используется в тестах)
func WithGenerator(generate func(length int) (string, error)) LinkServiceOption {
	return func(s *linkService) {
		s.generate = generate
	}
}

// WithReservedIDs запрещает выдавать идентификаторы, совпадающие с маршрутами HTTP
func WithReservedIDs(ids ...string) LinkServiceOption {
	return func(s *linkService) {
		for _, id := range ids {
			s.reserved[id] = true
		}
	}
}

func WithShortIDLength(length int) LinkServiceOption {
	return func(s *linkService) {
		if length > 0 {
			s.length = length
		}
	}
}

// NewLinkService создаёт новый экземпляр сервиса
func NewLinkService(linkRepo repository.LinkRepository, logger *zap.Logger, opts ...LinkServiceOption) LinkService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &linkService{
		linkRepo: linkRepo,
		logger:   logger,
		generate: GenerateCandidate,
		length:   DefaultShortIDLength,
		reserved: make(map[string]bool),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateOrGet вставляет связь одним выражением и повторяет попытку при коллизии
// идентификатора. Лимита попыток нет: вероятность коллизии ничтожна, но не нулевая.
func (s *linkService) CreateOrGet(ctx context.Context, destinationURL string) (*models.Link, error) {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		existing, err := s.linkRepo.GetByDestinationURL(ctx, destinationURL)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, repository.ErrLinkNotFound) {
			return nil, err
		}

		shortID, err := s.generate(s.length)
		if err != nil {
			return nil, fmt.Errorf("failed to generate short id: %w", err)
		}
		if s.reserved[shortID] {
			continue
		}

		link := &models.Link{
			ShortID:        shortID,
			DestinationURL: destinationURL,
			CreatedAt:      s.now().UTC().Truncate(time.Microsecond),
		}

		err = s.linkRepo.Insert(ctx, link)
		switch {
		case err == nil:
			s.logger.Info("Short link created",
				zap.String("short_id", link.ShortID),
				zap.Int("attempt", attempt),
			)
			return link, nil
		case errors.Is(err, repository.ErrShortIDTaken):
			s.logger.Debug("Short id collision, retrying",
				zap.String("short_id", shortID),
				zap.Int("attempt", attempt),
			)
		case errors.Is(err, repository.ErrDestinationExists):
			// Параллельный запрос успел создать связь, перечитываем её
			s.logger.Debug("Destination mapped concurrently", zap.String("short_id", shortID))
		default:
			return nil, err
		}
	}
}

func (s *linkService) Resolve(ctx context.Context, shortID string) (*models.Link, error) {
	return s.linkRepo.IncrementClicks(ctx, shortID)
}

func (s *linkService) GetStats(ctx context.Context, shortID string) (*models.Link, error) {
	return s.linkRepo.GetByShortID(ctx, shortID)
}
