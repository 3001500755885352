package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"news_admin/internal/logger"
	"news_admin/internal/models"
)

const backupTimeFormat = "20060102_150405"

// Store инкапсулирует файл news.json и каталог его резервных копий.
// Мьютекс сериализует запись внутри процесса; между процессами действует
// принцип «последняя запись побеждает».
type Store struct {
	mu         sync.Mutex
	dataFile   string
	backupDir  string
	maxBackups int
}

// NewStore создаёт Store для файла dataFile с резервными копиями в backupDir.
// Хранится не более maxBackups копий, старые удаляются первыми.
func NewStore(dataFile, backupDir string, maxBackups int) *Store {
	return &Store{
		dataFile:   dataFile,
		backupDir:  backupDir,
		maxBackups: maxBackups,
	}
}

// DataFile возвращает путь к файлу данных.
func (s *Store) DataFile() string {
	return s.dataFile
}

// Load читает и декодирует документ хранилища.
// Отсутствующий файл — не ошибка: возвращается пустой документ.
func (s *Store) Load() (models.Document, error) {
	data, err := os.ReadFile(s.dataFile)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Document{News: []models.Article{}}, nil
		}
		return models.Document{}, fmt.Errorf("reading %s: %w", s.dataFile, err)
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return models.Document{}, fmt.Errorf("parsing %s: %w", s.dataFile, err)
	}
	if doc.News == nil {
		doc.News = []models.Article{}
	}
	return doc, nil
}

// Encode сериализует значение в канонический вид документа: отступ в два
// пробела, HTML-экранирование выключено, чтобы не искажать не-ASCII символы
// и разметку в содержимом.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save сортирует документ по дате и записывает его целиком.
// Возвращает количество записанных байт.
func (s *Store) Save(doc models.Document) (int, error) {
	return s.SaveDocument(models.Document{News: doc.Sorted()})
}

// SaveDocument записывает уже проверенное значение документа целиком,
// предварительно сделав резервную копию текущего файла. Значение принимается
// как any, чтобы сохранять неизвестные поля тела запроса без изменений.
func (s *Store) SaveDocument(v any) (int, error) {
	data, err := Encode(v)
	if err != nil {
		return 0, fmt.Errorf("encoding document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.backup(); err != nil {
		return 0, err
	}

	if dir := filepath.Dir(s.dataFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("creating data dir: %w", err)
		}
	}

	// Запись целиком через временный файл и переименование: файл хранилища
	// никогда не остаётся в полузаписанном состоянии.
	tmp := s.dataFile + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return 0, fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.dataFile); err != nil {
		os.Remove(tmp)
		return 0, fmt.Errorf("replacing %s: %w", s.dataFile, err)
	}

	return len(data), nil
}

// backup копирует текущий файл данных в каталог резервных копий с именем
// news_YYYYMMDD_HHMMSS.json и удаляет копии сверх лимита. Формат имени
// фиксированной ширины, поэтому лексикографическая сортировка имён совпадает
// с хронологической.
func (s *Store) backup() error {
	data, err := os.ReadFile(s.dataFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s for backup: %w", s.dataFile, err)
	}

	if err := os.MkdirAll(s.backupDir, 0o755); err != nil {
		return fmt.Errorf("creating backup dir: %w", err)
	}

	name := fmt.Sprintf("news_%s.json", time.Now().Format(backupTimeFormat))
	if err := os.WriteFile(filepath.Join(s.backupDir, name), data, 0o644); err != nil {
		return fmt.Errorf("writing backup %s: %w", name, err)
	}

	if err := s.prune(); err != nil {
		// Неудачная очистка не должна блокировать сохранение.
		logger.WithComponent("store").Warnf("Backup prune failed: %v", err)
	}
	return nil
}

func (s *Store) prune() error {
	backups, err := filepath.Glob(filepath.Join(s.backupDir, "news_*.json"))
	if err != nil {
		return err
	}
	if len(backups) <= s.maxBackups {
		return nil
	}

	sort.Strings(backups)
	for _, old := range backups[:len(backups)-s.maxBackups] {
		if err := os.Remove(old); err != nil {
			return err
		}
	}
	return nil
}

// Backups возвращает имена существующих резервных копий в хронологическом порядке.
func (s *Store) Backups() ([]string, error) {
	backups, err := filepath.Glob(filepath.Join(s.backupDir, "news_*.json"))
	if err != nil {
		return nil, err
	}
	sort.Strings(backups)
	return backups, nil
}
