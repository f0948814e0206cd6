package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// Memory is an in-process Storage used by the service and route tests.
type Memory struct {
	mu      sync.Mutex
	BaseURL string
	Objects map[string][]byte
	Types   map[string]string
}

func NewMemory(baseURL string) *Memory {
	return &Memory{
		BaseURL: baseURL,
		Objects: make(map[string][]byte),
		Types:   make(map[string]string),
	}
}

func (m *Memory) Save(ctx context.Context, key string, body io.Reader, contentType string) error {
	var buf bytes.Buffer
	_, err := io.Copy(&buf, body)
	if err != nil {
		return fmt.Errorf("failed to buffer object: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = buf.Bytes()
	m.Types[key] = contentType
	return nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, key)
	delete(m.Types, key)
	return nil
}

func (m *Memory) URL(ctx context.Context, key string) string {
	return m.BaseURL + "/" + key
}
