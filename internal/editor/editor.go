package editor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/samber/lo"

	"news_admin/internal/models"
	"news_admin/internal/store"
)

// ErrInvalidDocument возвращается при импорте документа без массива news.
var ErrInvalidDocument = errors.New("invalid document: missing news array")

// ErrNotFound возвращается при попытке обновить новость с неизвестным id.
var ErrNotFound = errors.New("article not found")

// ValidationError описывает отсутствующее обязательное поле новости.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// Session хранит рабочую копию списка новостей администратора.
// Копия одноразовая: загружается целиком, правится в памяти и целиком
// отправляется на сохранение. Отложенное удаление хранится явно,
// а не в глобальной переменной.
type Session struct {
	articles      []models.Article
	pendingDelete string
}

func NewSession() *Session {
	return &Session{articles: []models.Article{}}
}

// Load принимает документ целиком, отбрасывая прежнюю рабочую копию.
func (s *Session) Load(doc models.Document) {
	s.articles = make([]models.Article, len(doc.News))
	copy(s.articles, doc.News)
	s.pendingDelete = ""
}

// Len возвращает число новостей в рабочей копии.
func (s *Session) Len() int {
	return len(s.articles)
}

// Upsert создаёт или обновляет новость. Дата, категория и непустой после
// обрезки пробелов заголовок обязательны. Пустой id означает создание:
// генерируется новый id и запись добавляется в конец. Совпавший id означает
// правку: изменяемые поля заменяются на месте, остальные записи не трогаются.
// Возвращает сохранённую запись (с присвоенным id при создании).
func (s *Session) Upsert(a models.Article) (models.Article, error) {
	a.Title = strings.TrimSpace(a.Title)
	if a.Date == "" {
		return models.Article{}, &ValidationError{Field: "date"}
	}
	if a.Category == "" {
		return models.Article{}, &ValidationError{Field: "category"}
	}
	if a.Title == "" {
		return models.Article{}, &ValidationError{Field: "title"}
	}

	if a.ID == "" {
		a.ID = s.generateID(a.Date)
		s.articles = append(s.articles, a)
		return a, nil
	}

	_, idx, ok := lo.FindIndexOf(s.articles, func(item models.Article) bool {
		return item.ID == a.ID
	})
	if !ok {
		return models.Article{}, ErrNotFound
	}
	s.articles[idx].Date = a.Date
	s.articles[idx].Category = a.Category
	s.articles[idx].Title = a.Title
	s.articles[idx].Content = a.Content
	return s.articles[idx], nil
}

// generateID строит id вида <дата без разделителей>-<трёхзначное случайное
// число>. При коллизии с существующим id число выбирается заново.
func (s *Session) generateID(date string) string {
	prefix := strings.ReplaceAll(date, "-", "")
	for {
		id := fmt.Sprintf("%s-%d", prefix, rand.Intn(900)+100)
		exists := lo.ContainsBy(s.articles, func(a models.Article) bool {
			return a.ID == id
		})
		if !exists {
			return id
		}
	}
}

// Remove удаляет новость по id. Отсутствующий id — не ошибка.
func (s *Session) Remove(id string) {
	s.articles = lo.Filter(s.articles, func(a models.Article, _ int) bool {
		return a.ID != id
	})
}

// StageDelete помечает новость на удаление до подтверждения пользователем.
func (s *Session) StageDelete(id string) {
	s.pendingDelete = id
}

// ConfirmDelete выполняет отложенное удаление. Возвращает false, если
// удаление не было помечено.
func (s *Session) ConfirmDelete() bool {
	if s.pendingDelete == "" {
		return false
	}
	s.Remove(s.pendingDelete)
	s.pendingDelete = ""
	return true
}

// CancelDelete снимает пометку удаления.
func (s *Session) CancelDelete() {
	s.pendingDelete = ""
}

// List возвращает копию списка; при sorted=true — по дате по убыванию.
func (s *Session) List(sorted bool) []models.Article {
	doc := s.Document()
	if sorted {
		return doc.Sorted()
	}
	return doc.News
}

// Document возвращает рабочую копию как документ.
func (s *Session) Document() models.Document {
	out := make([]models.Article, len(s.articles))
	copy(out, s.articles)
	return models.Document{News: out}
}

// ExportDocument сериализует рабочую копию в канонический вид
// {"news": [...]} с сортировкой по дате по убыванию.
func (s *Session) ExportDocument() ([]byte, error) {
	return store.Encode(models.Document{News: s.Document().Sorted()})
}

// ImportDocument проверяет структуру данных и целиком заменяет рабочую
// копию. При ошибке разбора или отсутствии массива news состояние не
// меняется. Возвращает число загруженных новостей.
func (s *Session) ImportDocument(data []byte) (int, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	raw, ok := probe["news"]
	if !ok || string(bytes.TrimSpace(raw)) == "null" {
		return 0, ErrInvalidDocument
	}

	var articles []models.Article
	if err := json.Unmarshal(raw, &articles); err != nil {
		return 0, fmt.Errorf("%w: news is not an array", ErrInvalidDocument)
	}

	if articles == nil {
		articles = []models.Article{}
	}
	s.articles = articles
	s.pendingDelete = ""
	return len(articles), nil
}
