package server

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/samber/lo"

	"news_admin/internal/content"
	"news_admin/internal/logger"
	"news_admin/internal/models"
	"news_admin/internal/store"
)

// AuthHeader — заголовок с токеном доступа к операции сохранения.
const AuthHeader = "X-Auth-Token"

// Server хранит зависимости HTTP-обработчиков: файловое хранилище и
// ожидаемый токен авторизации.
type Server struct {
	store         *store.Store
	expectedToken string
	publicLimit   int
}

// NewServer создаёт Server. Ожидаемый токен вычисляется один раз как
// SHA-256 от hex-строки хэша пароля — ровно так его считает и клиент
// админ-панели. Схема сознательно не усилена, чтобы не ломать
// совместимость с существующими клиентами.
func NewServer(st *store.Store, passwordHash string, publicLimit int) *Server {
	sum := sha256.Sum256([]byte(passwordHash))
	return &Server{
		store:         st,
		expectedToken: hex.EncodeToString(sum[:]),
		publicLimit:   publicLimit,
	}
}

// saveResponse — конверт ответа операции сохранения.
type saveResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Bytes   int    `json:"bytes,omitempty"`
}

// newsListItem — строка публичного списка новостей.
type newsListItem struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Category string `json:"category"`
	Title    string `json:"title"`
}

// newsDetail — публичная карточка новости с безопасным HTML-телом.
type newsDetail struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Category string `json:"category"`
	Title    string `json:"title"`
	Body     string `json:"body"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WithComponent("server").Errorf("Failed to encode response: %v", err)
	}
}

// HealthCheck отвечает 200 OK, если хранилище читается, иначе 503.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.Load(); err != nil {
		http.Error(w, "Store unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("OK"))
}

// SaveNews принимает документ целиком и заменяет файл хранилища.
// Последовательность проверок фиксирована: метод, токен, тело, структура;
// до успешной авторизации файл не читается и не пишется.
func (s *Server) SaveNews(w http.ResponseWriter, r *http.Request) {
	log := logger.WithComponent("server")

	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, saveResponse{Error: "Method not allowed"})
		return
	}

	provided := r.Header.Get(AuthHeader)
	if subtle.ConstantTimeCompare([]byte(provided), []byte(s.expectedToken)) != 1 {
		log.WithField("remote_addr", r.RemoteAddr).Warn("Rejected save with bad token")
		writeJSON(w, http.StatusForbidden, saveResponse{Error: "Unauthorized"})
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		writeJSON(w, http.StatusBadRequest, saveResponse{Error: "Empty request body"})
		return
	}

	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		writeJSON(w, http.StatusBadRequest, saveResponse{Error: "Invalid JSON"})
		return
	}

	if _, ok := doc["news"].([]any); !ok {
		writeJSON(w, http.StatusBadRequest, saveResponse{Error: "Invalid data structure: missing news array"})
		return
	}

	n, err := s.store.SaveDocument(doc)
	if err != nil {
		// Единственная ошибка, которую клиент лечит повторной отправкой.
		log.Errorf("Failed to write store file: %v", err)
		writeJSON(w, http.StatusInternalServerError, saveResponse{Error: "Failed to write file"})
		return
	}

	log.WithField("bytes", n).Info("Store file saved")
	writeJSON(w, http.StatusOK, saveResponse{Success: true, Message: "Saved successfully", Bytes: n})
}

// GetNews возвращает JSON-массив новостей, отсортированных по дате по
// убыванию, не более limit штук (limit=0 — все). Ошибка чтения хранилища
// деградирует до пустого списка, посетитель сырых ошибок не видит.
func (s *Server) GetNews(w http.ResponseWriter, r *http.Request) {
	limit := s.publicLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			n = s.publicLimit
		}
		limit = n
	}

	doc, err := s.store.Load()
	if err != nil {
		logger.WithComponent("server").Errorf("Failed to load store: %v", err)
		writeJSON(w, http.StatusOK, []newsListItem{})
		return
	}

	sorted := doc.Sorted()
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}

	writeJSON(w, http.StatusOK, listItems(sorted))
}

// GetNewsDetail возвращает карточку новости по id. Если новость не найдена
// или хранилище не читается, вместо 404 возвращается список — поведение
// публичной страницы.
func (s *Server) GetNewsDetail(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Load()
	if err != nil {
		logger.WithComponent("server").Errorf("Failed to load store: %v", err)
		writeJSON(w, http.StatusOK, []newsListItem{})
		return
	}

	article, ok := doc.Find(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusOK, listItems(doc.Sorted()))
		return
	}

	writeJSON(w, http.StatusOK, newsDetail{
		ID:       article.ID,
		Date:     content.FormatDate(article.Date),
		Category: article.Category,
		Title:    article.Title,
		Body:     content.RenderBody(article.Content),
	})
}

func listItems(articles []models.Article) []newsListItem {
	return lo.Map(articles, func(a models.Article, _ int) newsListItem {
		return newsListItem{
			ID:       a.ID,
			Date:     content.FormatDate(a.Date),
			Category: a.Category,
			Title:    a.Title,
		}
	})
}
