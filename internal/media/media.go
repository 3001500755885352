package media

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
)

const (
	// MaxWidth — предельная ширина встраиваемого изображения в пикселях.
	MaxWidth = 800
	// Quality — качество JPEG при перекодировании (аналог фактора 0.7).
	Quality = 70
	// ConfirmThreshold — размер файла, начиная с которого требуется
	// подтверждение пользователя перед сжатием.
	ConfirmThreshold = 5 * 1024 * 1024
)

// ErrUnreadableImage возвращается, если данные не декодируются как изображение.
var ErrUnreadableImage = errors.New("unreadable image")

// ErrAborted возвращается, если пользователь отказался от вставки
// слишком большого файла.
var ErrAborted = errors.New("image insert aborted")

// Compress декодирует изображение, пропорционально уменьшает его до ширины
// MaxWidth и перекодирует в JPEG. Возвращает data URI для встраивания в
// содержимое новости. Преобразование одностороннее: исходный файл после
// встраивания не сохраняется.
func Compress(r io.Reader) (string, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableImage, err)
	}

	if img.Bounds().Dx() > MaxWidth {
		// Высота 0 означает пропорциональное масштабирование.
		img = imaging.Resize(img, MaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(Quality)); err != nil {
		return "", fmt.Errorf("encoding jpeg: %w", err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// CompressFile открывает файл и сжимает его через Compress. Для файлов
// крупнее ConfirmThreshold вызывается confirm; отказ прерывает вставку
// без какого-либо результата.
func CompressFile(path string, confirm func(size int64) bool) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.Size() > ConfirmThreshold {
		if confirm == nil || !confirm(info.Size()) {
			return "", ErrAborted
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return Compress(f)
}
