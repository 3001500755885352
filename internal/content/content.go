package content

import (
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ErrUnsupportedURL возвращается, если ссылка на видео не распознана.
// Частичная подстановка не выполняется: либо каноничный embed-URL, либо отказ.
var ErrUnsupportedURL = errors.New("unsupported video URL: only YouTube and Vimeo are supported")

var (
	// Простая эвристика наличия открывающего HTML-тега, не полный парсер.
	// Используется только для различения старого текстового формата.
	htmlTagRe = regexp.MustCompile(`(?is)<[a-z].*>`)

	youtubeRes = []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([a-zA-Z0-9_-]{11})`),
		regexp.MustCompile(`youtube\.com/shorts/([a-zA-Z0-9_-]{11})`),
	}
	vimeoRe = regexp.MustCompile(`vimeo\.com/(\d+)`)
)

// sanitizer повторяет allow-list, с которым публичная страница чистила
// HTML: базовая UGC-политика, дополнительно iframe с атрибутами встраивания
// видео, схемы URL ограничены http/https/data.
var sanitizer = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("iframe")
	p.AllowAttrs(
		"allow", "allowfullscreen", "frameborder", "scrolling",
		"src", "width", "height", "style",
	).OnElements("iframe")
	p.AllowAttrs("class").Globally()
	p.AllowURLSchemes("http", "https", "data")
	p.AllowDataURIImages()
	return p
}

// IsPlainText сообщает, что содержимое — простой текст старого формата,
// то есть не содержит открывающего HTML-тега.
func IsPlainText(content string) bool {
	return !htmlTagRe.MatchString(content)
}

// PlainTextToHTML разбивает текст по переводам строк и оборачивает каждую
// строку, экранированную для HTML, в элемент абзаца.
func PlainTextToHTML(text string) string {
	lines := strings.Split(text, "\n")
	var b strings.Builder
	for _, line := range lines {
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(line))
		b.WriteString("</p>")
	}
	return b.String()
}

// Sanitize очищает HTML-фрагмент по allow-list перед публичным показом.
// Это единственная защита от хранимого XSS: содержимое приходит из
// rich-text поля администратора и может содержать вставленный сырой HTML.
func Sanitize(html string) string {
	return sanitizer.Sanitize(html)
}

// RenderBody приводит содержимое новости к безопасному HTML для показа:
// старый текстовый формат конвертируется в абзацы, HTML-формат очищается.
func RenderBody(content string) string {
	if IsPlainText(content) {
		return PlainTextToHTML(content)
	}
	return Sanitize(content)
}

// EmbedURL распознаёт ссылки YouTube (watch, короткие, embed, shorts)
// и Vimeo и возвращает каноничный URL для встраивания.
func EmbedURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)

	for _, re := range youtubeRes {
		if m := re.FindStringSubmatch(raw); m != nil {
			return "https://www.youtube.com/embed/" + m[1], nil
		}
	}

	if m := vimeoRe.FindStringSubmatch(raw); m != nil {
		return "https://player.vimeo.com/video/" + m[1], nil
	}

	return "", ErrUnsupportedURL
}

// FormatDate переводит дату из YYYY-MM-DD в YYYY.MM.DD для показа.
func FormatDate(date string) string {
	parts := strings.SplitN(date, "-", 3)
	if len(parts) != 3 {
		return date
	}
	return fmt.Sprintf("%s.%s.%s", parts[0], parts[1], parts[2])
}
