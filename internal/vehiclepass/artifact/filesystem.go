package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const qrSizePx = 256

// FilesystemStore renders payloads as QR PNG files under a root directory,
// one <personID>.png per person.  These are the files the operator prints
// and hands out.
type FilesystemStore struct {
	root string
}

func NewFilesystemStore(root string) (*FilesystemStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir artifact dir: %w", err)
	}
	return &FilesystemStore{root: root}, nil
}

func (s *FilesystemStore) path(personID string) (string, error) {
	if personID == "" || strings.ContainsAny(personID, `/\`) || personID == ".." {
		return "", fmt.Errorf("invalid artifact key %q", personID)
	}
	return filepath.Join(s.root, personID+".png"), nil
}

func (s *FilesystemStore) Store(_ context.Context, personID, payload string) (string, error) {
	dst, err := s.path(personID)
	if err != nil {
		return "", err
	}

	png, err := qrcode.Encode(payload, qrcode.Medium, qrSizePx)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}

	// Write-then-rename so a crash mid-write never leaves a half PNG where
	// the previous artifact was.
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, png, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("replace artifact: %w", err)
	}
	return dst, nil
}

func (s *FilesystemStore) Retrieve(_ context.Context, personID string) ([]byte, error) {
	p, err := s.path(personID)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	return b, nil
}

func (s *FilesystemStore) Delete(_ context.Context, personID string) error {
	p, err := s.path(personID)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete artifact: %w", err)
	}
	return nil
}
