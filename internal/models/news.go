package models

import "sort"

// Article представляет одну новость сайта.
// Поле Content хранит либо простой текст (старый формат), либо HTML-фрагмент.
type Article struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Category string `json:"category"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

// Document представляет канонический документ хранилища: {"news": [...]}.
type Document struct {
	News []Article `json:"news"`
}

// Sorted возвращает копию списка новостей, отсортированную по дате по убыванию.
// Сортировка стабильная: при равных датах исходный порядок сохраняется.
// Даты в формате YYYY-MM-DD, поэтому лексикографическое сравнение корректно.
func (d Document) Sorted() []Article {
	out := make([]Article, len(d.News))
	copy(out, d.News)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}

// Find возвращает новость по точному совпадению id.
func (d Document) Find(id string) (Article, bool) {
	for _, a := range d.News {
		if a.ID == id {
			return a, true
		}
	}
	return Article{}, false
}
