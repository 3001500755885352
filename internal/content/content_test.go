package content_test

import (
	"testing"

	"news_admin/internal/content"

	"github.com/stretchr/testify/require"
)

func TestIsPlainText(t *testing.T) {
	require.True(t, content.IsPlainText(""))
	require.True(t, content.IsPlainText("просто текст\nвторая строка"))
	require.True(t, content.IsPlainText("math: 1 < 2"))
	require.False(t, content.IsPlainText("<p>abc</p>"))
	require.False(t, content.IsPlainText("text with <B>bold</B> inside"))
}

func TestPlainTextToHTML(t *testing.T) {
	require.Equal(t, "<p>a</p><p>b</p>", content.PlainTextToHTML("a\nb"))
	require.Equal(t, "<p></p>", content.PlainTextToHTML(""))
	require.Equal(t, "<p>a</p><p></p><p>b</p>", content.PlainTextToHTML("a\n\nb"))
}

func TestPlainTextToHTML_EscapesMarkup(t *testing.T) {
	got := content.PlainTextToHTML("1 < 2 & <script>")
	require.NotContains(t, got, "<script>")
	require.Contains(t, got, "&lt;")
	require.Contains(t, got, "&amp;")
}

func TestSanitize_StripsScript(t *testing.T) {
	got := content.Sanitize(`<p>ok</p><script>alert(1)</script>`)
	require.Contains(t, got, "<p>ok</p>")
	require.NotContains(t, got, "script")
}

func TestSanitize_StripsEventHandlers(t *testing.T) {
	got := content.Sanitize(`<p onclick="alert(1)">ok</p><img src="x" onerror="alert(1)">`)
	require.NotContains(t, got, "onclick")
	require.NotContains(t, got, "onerror")
}

func TestSanitize_KeepsVideoIframe(t *testing.T) {
	in := `<iframe class="ql-video-embed" src="https://www.youtube.com/embed/dQw4w9WgXcQ" frameborder="0" allowfullscreen="true" width="100%" height="360"></iframe>`
	got := content.Sanitize(in)
	require.Contains(t, got, "<iframe")
	require.Contains(t, got, `src="https://www.youtube.com/embed/dQw4w9WgXcQ"`)
	require.Contains(t, got, "allowfullscreen")
}

func TestSanitize_KeepsDataURIImage(t *testing.T) {
	in := `<p><img src="data:image/jpeg;base64,/9j/4AAQSkZJRg=="></p>`
	got := content.Sanitize(in)
	require.Contains(t, got, "data:image/jpeg;base64")
}

func TestSanitize_RejectsJavascriptScheme(t *testing.T) {
	got := content.Sanitize(`<a href="javascript:alert(1)">x</a>`)
	require.NotContains(t, got, "javascript:")
}

func TestRenderBody(t *testing.T) {
	require.Equal(t, "<p>a</p><p>b</p>", content.RenderBody("a\nb"))
	require.Equal(t, "<p>ok</p>", content.RenderBody(`<p>ok</p><script>x</script>`))
}

func TestEmbedURL_YouTube(t *testing.T) {
	cases := []string{
		"https://youtu.be/dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"https://www.youtube.com/embed/dQw4w9WgXcQ",
		"https://www.youtube.com/shorts/dQw4w9WgXcQ",
		"  https://youtu.be/dQw4w9WgXcQ  ",
	}
	for _, raw := range cases {
		got, err := content.EmbedURL(raw)
		require.NoError(t, err, raw)
		require.Equal(t, "https://www.youtube.com/embed/dQw4w9WgXcQ", got, raw)
	}
}

func TestEmbedURL_Vimeo(t *testing.T) {
	got, err := content.EmbedURL("https://vimeo.com/123456789")
	require.NoError(t, err)
	require.Equal(t, "https://player.vimeo.com/video/123456789", got)
}

func TestEmbedURL_Unsupported(t *testing.T) {
	for _, raw := range []string{
		"https://example.com/video",
		"https://www.youtube.com/watch?v=short",
		"",
	} {
		_, err := content.EmbedURL(raw)
		require.ErrorIs(t, err, content.ErrUnsupportedURL, raw)
	}
}

func TestFormatDate(t *testing.T) {
	require.Equal(t, "2024.03.15", content.FormatDate("2024-03-15"))
	require.Equal(t, "garbage", content.FormatDate("garbage"))
}
