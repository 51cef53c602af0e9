package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/SergeiKhy/todo-shorturl/internal/apperrors"
	"github.com/SergeiKhy/todo-shorturl/internal/models"
	"github.com/SergeiKhy/todo-shorturl/internal/repository"
	"github.com/SergeiKhy/todo-shorturl/internal/service"
	"github.com/SergeiKhy/todo-shorturl/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestService создаёт тестовое окружение с моковым репозиторием
func setupTestService(opts ...service.LinkServiceOption) (service.LinkService, *mocks.MockLinkRepository) {
	linkRepo := mocks.NewMockLinkRepository()
	logger, _ := zap.NewDevelopment()
	return service.NewLinkService(linkRepo, logger, opts...), linkRepo
}

// sequenceGenerator выдаёт заранее заданные токены по порядку
func sequenceGenerator(tokens ...string) func(int) (string, error) {
	var mu sync.Mutex
	i := 0
	return func(int) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		if i >= len(tokens) {
			return "", errors.New("sequence exhausted")
		}
		token := tokens[i]
		i++
		return token, nil
	}
}

// TestGenerateCandidate проверяет длину и алфавит токенов
func TestGenerateCandidate(t *testing.T) {
	for i := 0; i < 1000; i++ {
		token, err := service.GenerateCandidate(service.DefaultShortIDLength)
		require.NoError(t, err)
		require.Len(t, token, 6)
		for _, r := range token {
			assert.True(t, strings.ContainsRune(service.ShortIDAlphabet, r), "недопустимый символ %q", r)
		}
	}
}

func TestGenerateCandidate_Length(t *testing.T) {
	tests := []struct {
		name   string
		length int
		want   int
	}{
		{"length 1", 1, 1},
		{"length 8", 8, 8},
		{"length 12", 12, 12},
		{"zero falls back to default", 0, service.DefaultShortIDLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := service.GenerateCandidate(tt.length)
			require.NoError(t, err)
			assert.Len(t, token, tt.want)
		})
	}
}

func TestShortIDAlphabet(t *testing.T) {
	assert.Len(t, service.ShortIDAlphabet, 62)
}

// TestLinkService_CreateOrGet_New проверяет создание новой связи
func TestLinkService_CreateOrGet_New(t *testing.T) {
	linkService, linkRepo := setupTestService()

	link, err := linkService.CreateOrGet(context.Background(), "https://example.org")

	require.NoError(t, err)
	assert.Len(t, link.ShortID, 6)
	assert.Equal(t, "https://example.org", link.DestinationURL)
	assert.Zero(t, link.ClickCount)
	assert.False(t, link.CreatedAt.IsZero())
	assert.Equal(t, 1, linkRepo.Count())
}

// TestLinkService_CreateOrGet_Idempotent проверяет, что повторный вызов возвращает ту же связь
func TestLinkService_CreateOrGet_Idempotent(t *testing.T) {
	linkService, linkRepo := setupTestService()
	ctx := context.Background()

	first, err := linkService.CreateOrGet(ctx, "https://example.com/same")
	require.NoError(t, err)

	_, err = linkService.Resolve(ctx, first.ShortID)
	require.NoError(t, err)

	second, err := linkService.CreateOrGet(ctx, "https://example.com/same")
	require.NoError(t, err)

	assert.Equal(t, first.ShortID, second.ShortID)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
	// Счётчик не сбрасывается
	assert.Equal(t, int64(1), second.ClickCount)
	assert.Equal(t, 1, linkRepo.Count())
	assert.Equal(t, 1, linkRepo.Inserts())
}

// TestLinkService_CreateOrGet_LiteralEquality URL сравниваются без нормализации
func TestLinkService_CreateOrGet_LiteralEquality(t *testing.T) {
	linkService, linkRepo := setupTestService()
	ctx := context.Background()

	urls := []string{
		"https://example.com/path",
		"https://example.com/path/",
		"HTTPS://example.com/path",
		"https://example.com/path?b=2&a=1",
		"https://example.com/path?a=1&b=2",
	}

	seen := make(map[string]bool)
	for _, u := range urls {
		link, err := linkService.CreateOrGet(ctx, u)
		require.NoError(t, err)
		assert.False(t, seen[link.ShortID], "URL %s получил чужой идентификатор", u)
		seen[link.ShortID] = true
	}
	assert.Equal(t, len(urls), linkRepo.Count())
}

// TestLinkService_CreateOrGet_DistinctURLs разные URL получают разные идентификаторы
func TestLinkService_CreateOrGet_DistinctURLs(t *testing.T) {
	linkService, _ := setupTestService()
	ctx := context.Background()

	ids := make(map[string]bool)
	for i := 0; i < 200; i++ {
		link, err := linkService.CreateOrGet(ctx, fmt.Sprintf("https://example.com/test/%d", i))
		require.NoError(t, err)
		assert.NotContains(t, ids, link.ShortID, "Короткие идентификаторы должны быть уникальными")
		ids[link.ShortID] = true
	}
}

// TestLinkService_CreateOrGet_CollisionRetry коллизия повторяется без ошибки
func TestLinkService_CreateOrGet_CollisionRetry(t *testing.T) {
	linkService, linkRepo := setupTestService(
		service.WithGenerator(sequenceGenerator("AAAAAA", "AAAAAA", "AAAAAA", "BBBBBB")),
	)
	linkRepo.Seed(models.Link{ShortID: "AAAAAA", DestinationURL: "https://taken.example"})

	link, err := linkService.CreateOrGet(context.Background(), "https://example.com/new")

	require.NoError(t, err)
	assert.Equal(t, "BBBBBB", link.ShortID)
	assert.Equal(t, 4, linkRepo.Inserts())
	assert.Equal(t, 2, linkRepo.Count())
}

func TestLinkService_CreateOrGet_GeneratorError(t *testing.T) {
	linkService, linkRepo := setupTestService(service.WithGenerator(sequenceGenerator()))

	link, err := linkService.CreateOrGet(context.Background(), "https://example.com")

	assert.Error(t, err)
	assert.Nil(t, link)
	assert.Zero(t, linkRepo.Count())
}

func TestLinkService_CreateOrGet_StorageError(t *testing.T) {
	linkService, linkRepo := setupTestService()
	linkRepo.FailWith(apperrors.NewStorageError("get link by destination", errors.New("disk I/O error")))

	link, err := linkService.CreateOrGet(context.Background(), "https://example.com")

	assert.Nil(t, link)
	assert.True(t, apperrors.IsStorageError(err))
	assert.Zero(t, linkRepo.Count())
}

func TestLinkService_CreateOrGet_ContextCanceled(t *testing.T) {
	linkService, _ := setupTestService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := linkService.CreateOrGet(ctx, "https://example.com")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLinkService_WithShortIDLength(t *testing.T) {
	linkService, _ := setupTestService(service.WithShortIDLength(10))

	link, err := linkService.CreateOrGet(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Len(t, link.ShortID, 10)
}

// TestLinkService_Scenario сценарий: создать, перейти, посмотреть статистику
func TestLinkService_Scenario(t *testing.T) {
	linkService, _ := setupTestService()
	ctx := context.Background()

	link, err := linkService.CreateOrGet(ctx, "https://example.org")
	require.NoError(t, err)
	assert.Len(t, link.ShortID, 6)
	assert.Zero(t, link.ClickCount)

	resolved, err := linkService.Resolve(ctx, link.ShortID)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org", resolved.DestinationURL)
	assert.Equal(t, int64(1), resolved.ClickCount)

	stats, err := linkService.GetStats(ctx, link.ShortID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.ClickCount)

	_, err = linkService.Resolve(ctx, "zzzzzz")
	assert.ErrorIs(t, err, repository.ErrLinkNotFound)
}

// TestLinkService_GetStats_DoesNotCount статистика не меняет счётчик
func TestLinkService_GetStats_DoesNotCount(t *testing.T) {
	linkService, _ := setupTestService()
	ctx := context.Background()

	link, err := linkService.CreateOrGet(ctx, "https://example.com")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		stats, err := linkService.GetStats(ctx, link.ShortID)
		require.NoError(t, err)
		assert.Zero(t, stats.ClickCount)
	}
}

func TestLinkService_NotFound(t *testing.T) {
	linkService, _ := setupTestService()
	ctx := context.Background()

	link, err := linkService.Resolve(ctx, "nope00")
	assert.ErrorIs(t, err, repository.ErrLinkNotFound)
	assert.Nil(t, link)

	link, err = linkService.GetStats(ctx, "nope00")
	assert.ErrorIs(t, err, repository.ErrLinkNotFound)
	assert.Nil(t, link)
}

// TestLinkService_ConcurrentResolve ни один переход не теряется
func TestLinkService_ConcurrentResolve(t *testing.T) {
	linkService, _ := setupTestService()
	ctx := context.Background()

	link, err := linkService.CreateOrGet(ctx, "https://example.com/hot")
	require.NoError(t, err)

	const n = 100
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := linkService.Resolve(ctx, link.ShortID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stats, err := linkService.GetStats(ctx, link.ShortID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), stats.ClickCount)
}

// TestLinkService_ConcurrentCreateSameURL параллельные создания дают одну связь
func TestLinkService_ConcurrentCreateSameURL(t *testing.T) {
	linkService, linkRepo := setupTestService()
	ctx := context.Background()

	const n = 20
	results := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			link, err := linkService.CreateOrGet(ctx, "https://example.com/race")
			if assert.NoError(t, err) {
				results[i] = link.ShortID
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, linkRepo.Count())
	for _, shortID := range results {
		assert.Equal(t, results[0], shortID)
	}
}

func TestLinkService_CreateOrGet_SkipsReservedIDs(t *testing.T) {
	linkService, _ := setupTestService(
		service.WithReservedIDs("health"),
		service.WithGenerator(sequenceGenerator("health", "abc123")),
	)

	link, err := linkService.CreateOrGet(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "abc123", link.ShortID)
}
