package client

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"news_admin/internal/models"
	"news_admin/internal/store"
)

// Client отправляет документ новостей на операцию сохранения сервиса.
// Токен считается так же, как его считала браузерная админ-панель:
// SHA-256 от hex-строки хэша пароля.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New создаёт Client для сервиса по адресу baseURL.
func New(baseURL, passwordHash string) *Client {
	sum := sha256.Sum256([]byte(passwordHash))
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   hex.EncodeToString(sum[:]),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// saveResult повторяет конверт ответа сервера.
type saveResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Bytes   int    `json:"bytes"`
}

// Save отправляет документ целиком. Возвращает число байт, записанных
// сервером. Любой неуспешный ответ превращается в ошибку с сообщением
// сервера; повторная отправка — единственный способ восстановления.
func (c *Client) Save(ctx context.Context, doc models.Document) (int, error) {
	data, err := store.Encode(models.Document{News: doc.Sorted()})
	if err != nil {
		return 0, fmt.Errorf("encoding document: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/save-news", bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Auth-Token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("saving to server: %w", err)
	}
	defer resp.Body.Close()

	var result saveResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decoding server response (status %d): %w", resp.StatusCode, err)
	}

	if !result.Success {
		msg := result.Error
		if msg == "" {
			msg = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		}
		return 0, fmt.Errorf("server rejected save: %s", msg)
	}

	return result.Bytes, nil
}

// Load запрашивает текущий документ хранилища с публичного пути данных.
func (c *Client) Load(ctx context.Context) (models.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/data/news.json", nil)
	if err != nil {
		return models.Document{}, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return models.Document{}, fmt.Errorf("loading document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Document{}, fmt.Errorf("loading document: unexpected status %d", resp.StatusCode)
	}

	var doc models.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return models.Document{}, fmt.Errorf("parsing document: %w", err)
	}
	if doc.News == nil {
		doc.News = []models.Article{}
	}
	return doc, nil
}
