package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrInvalidDocument marks input that is not a whiteboard document at all:
// malformed JSON or a root that is not an object.
var ErrInvalidDocument = errors.New("invalid whiteboard document")

// DecodeBoard parses a saved document. Missing collections become empty and
// unknown keys are ignored.
func DecodeBoard(data []byte) (Board, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return Board{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if root == nil {
		return Board{}, fmt.Errorf("%w: root is not an object", ErrInvalidDocument)
	}
	var b Board
	if err := json.Unmarshal(data, &b); err != nil {
		return Board{}, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	for i, l := range b.Lines {
		if l.Type == "" {
			b.Lines[i].Type = LineTypeLine
		}
	}
	return b, nil
}

// EncodeBoard renders b as indented JSON with every collection present.
func EncodeBoard(b Board) ([]byte, error) {
	out := b.Clone()
	if out.Circles == nil {
		out.Circles = []Circle{}
	}
	if out.Lines == nil {
		out.Lines = []Line{}
	}
	if out.Rects == nil {
		out.Rects = []Rect{}
	}
	if out.Texts == nil {
		out.Texts = []Text{}
	}
	if out.Images == nil {
		out.Images = []Image{}
	}
	if out.Terminals == nil {
		out.Terminals = []Terminal{}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode board: %w", err)
	}
	return data, nil
}

func saveFileName(now time.Time) string {
	return "whiteboard-" + now.UTC().Format("2006-01-02T15-04-05") + ".json"
}

// SaveBoardFile writes b to a timestamped file in the configured save
// directory and returns its path.
func SaveBoardFile(cfg *Config, b Board, now time.Time) (string, error) {
	path, err := cfg.GetSavePath(saveFileName(now))
	if err != nil {
		return "", err
	}
	data, err := EncodeBoard(b)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// ReadBoardFile loads a document from disk. Nothing is applied on error.
func ReadBoardFile(path string) (Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Board{}, fmt.Errorf("read %s: %w", path, err)
	}
	b, err := DecodeBoard(data)
	if err != nil {
		return Board{}, fmt.Errorf("load %s: %w", path, err)
	}
	return b, nil
}
