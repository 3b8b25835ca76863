package main

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var errNoImage = errors.New("clipboard holds no image")

// readClipboard is swapped out in tests.
var readClipboard = readClipboardText

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

type imagePastedMsg struct {
	image Image
	err   error
}

// pasteImageCmd reads the system clipboard off the update loop and decodes
// whatever image it refers to.
func pasteImageCmd() tea.Cmd {
	return func() tea.Msg {
		text, err := readClipboard()
		if err != nil {
			return imagePastedMsg{err: fmt.Errorf("read clipboard: %w", err)}
		}
		img, err := decodeImagePaste(text)
		return imagePastedMsg{image: img, err: err}
	}
}

// pastedTextCmd handles pasted text the same way: a data URI or the path
// of an image file becomes an image shape.
func pastedTextCmd(text string) tea.Cmd {
	return func() tea.Msg {
		img, err := decodeImagePaste(text)
		return imagePastedMsg{image: img, err: err}
	}
}

// decodeImagePaste accepts a data:image URI or a path to an image file and
// returns an unplaced image shape at half its natural size.
func decodeImagePaste(text string) (Image, error) {
	text = strings.TrimSpace(text)
	var (
		raw []byte
		err error
	)
	switch {
	case strings.HasPrefix(text, "data:image/"):
		raw, err = decodeDataURI(text)
		if err != nil {
			return Image{}, err
		}
	case text != "":
		path := strings.Trim(text, `"'`)
		if strings.HasPrefix(path, "file://") {
			path = strings.TrimPrefix(path, "file://")
		}
		raw, err = os.ReadFile(path)
		if err != nil {
			return Image{}, errNoImage
		}
	default:
		return Image{}, errNoImage
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return Image{}, fmt.Errorf("decode image: %w", err)
	}
	return Image{
		X:      defaultPointer.X,
		Y:      defaultPointer.Y,
		Width:  math.Max(minShapeSize, float64(cfg.Width)/imageInitialScale),
		Height: math.Max(minShapeSize, float64(cfg.Height)/imageInitialScale),
		Src:    encodeDataURI(raw),
	}, nil
}

func decodeDataURI(uri string) ([]byte, error) {
	header, payload, ok := strings.Cut(uri, ",")
	if !ok {
		return nil, fmt.Errorf("malformed data uri")
	}
	if !strings.HasSuffix(header, ";base64") {
		return nil, fmt.Errorf("data uri is not base64")
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode data uri: %w", err)
	}
	return raw, nil
}

func encodeDataURI(raw []byte) string {
	mime := http.DetectContentType(raw)
	if !strings.HasPrefix(mime, "image/") {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(raw)
}

// decodeImageSrc turns a stored data URI back into pixels for export.
func decodeImageSrc(src string) (image.Image, error) {
	raw, err := decodeDataURI(src)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}
