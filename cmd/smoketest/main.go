// Command smoketest прогоняет базовый сценарий против запущенных сервисов todo и shorturl.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type options struct {
	TodoURL     string
	ShortURL    string
	TargetURL   string
	StartupWait time.Duration
	Timeout     time.Duration
}

func loadOptions(args []string) (options, error) {
	fs := pflag.NewFlagSet("smoketest", pflag.ContinueOnError)
	fs.String("todo-url", "http://localhost:8000", "base URL of the todo service")
	fs.String("shorturl-url", "http://localhost:8001", "base URL of the shorturl service")
	fs.String("target", "https://github.com", "URL to shorten")
	fs.Duration("wait", 3*time.Second, "delay before the first request")
	fs.Duration("timeout", 10*time.Second, "per-request timeout")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	// Флаги можно задать и через окружение: SMOKETEST_TODO_URL и т.д.
	v := viper.New()
	v.SetEnvPrefix("smoketest")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return options{}, err
	}

	return options{
		TodoURL:     strings.TrimRight(v.GetString("todo-url"), "/"),
		ShortURL:    strings.TrimRight(v.GetString("shorturl-url"), "/"),
		TargetURL:   v.GetString("target"),
		StartupWait: v.GetDuration("wait"),
		Timeout:     v.GetDuration("timeout"),
	}, nil
}

func main() {
	opts, err := loadOptions(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	fmt.Println("🚀 Запускаем тестирование микросервисов...")
	time.Sleep(opts.StartupWait)

	c := &client{http: &http.Client{Timeout: opts.Timeout}, out: os.Stdout}
	ctx := context.Background()

	if err := run(ctx, c, opts); err != nil {
		var netErr net.Error
		var opErr *net.OpError
		if errors.As(err, &opErr) || errors.As(err, &netErr) {
			fmt.Println("❌ Ошибка подключения. Убедитесь, что сервисы запущены!")
			fmt.Println("   Запустите: go run ./cmd/todo и go run ./cmd/shorturl")
		} else {
			fmt.Printf("❌ Ошибка при тестировании: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, c *client, opts options) error {
	if err := c.testTodo(ctx, opts.TodoURL); err != nil {
		return err
	}
	return c.testShortURL(ctx, opts.ShortURL, opts.TargetURL)
}

type client struct {
	http *http.Client
	out  io.Writer
}

type task struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

func (c *client) testTodo(ctx context.Context, baseURL string) error {
	fmt.Fprintln(c.out, "🧪 Тестируем ToDo сервис...")

	fmt.Fprintln(c.out, "1. Создаем задачу...")
	var created task
	status, err := c.do(ctx, http.MethodPost, baseURL+"/items", map[string]any{
		"title":       "Купить продукты",
		"description": "Молоко, хлеб, яйца",
		"completed":   false,
	}, &created)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "   Ответ: %d\n", status)
	fmt.Fprintf(c.out, "   Создана задача: %s (ID: %d)\n", created.Title, created.ID)

	fmt.Fprintln(c.out, "\n2. Получаем все задачи...")
	var tasks []task
	if _, err := c.do(ctx, http.MethodGet, baseURL+"/items", nil, &tasks); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "   Найдено задач: %d\n", len(tasks))

	fmt.Fprintln(c.out, "\n3. Обновляем задачу...")
	var updated task
	if _, err := c.do(ctx, http.MethodPut, fmt.Sprintf("%s/items/%d", baseURL, created.ID),
		map[string]any{"completed": true}, &updated); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "   Задача обновлена: completed=%t\n", updated.Completed)
	if !updated.Completed {
		return errors.New("task was not marked completed")
	}

	fmt.Fprintln(c.out, "✅ ToDo сервис работает корректно!")
	fmt.Fprintln(c.out)
	return nil
}

func (c *client) testShortURL(ctx context.Context, baseURL, target string) error {
	fmt.Fprintln(c.out, "🧪 Тестируем URL Shortener сервис...")

	fmt.Fprintln(c.out, "1. Создаем короткую ссылку...")
	var created struct {
		ShortID  string `json:"short_id"`
		ShortURL string `json:"short_url"`
	}
	status, err := c.do(ctx, http.MethodPost, baseURL+"/shorten", map[string]string{"url": target}, &created)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "   Ответ: %d\n", status)
	fmt.Fprintf(c.out, "   Создана короткая ссылка: %s\n", created.ShortURL)

	fmt.Fprintln(c.out, "\n2. Получаем статистику...")
	var stats map[string]any
	if _, err := c.do(ctx, http.MethodGet, baseURL+"/stats/"+created.ShortID, nil, &stats); err != nil {
		return err
	}
	pretty, _ := json.MarshalIndent(stats, "   ", "    ")
	fmt.Fprintf(c.out, "   Статистика: %s\n", pretty)

	fmt.Fprintln(c.out, "✅ URL Shortener сервис работает корректно!")
	return nil
}

// do отправляет JSON-запрос и декодирует ответ в out. Статусы 4xx/5xx считаются ошибкой.
func (c *client) do(ctx context.Context, method, url string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return resp.StatusCode, fmt.Errorf("%s %s: status %d: %s", method, url, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, fmt.Errorf("%s %s: decode response: %w", method, url, err)
		}
	}
	return resp.StatusCode, nil
}
