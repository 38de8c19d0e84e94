package output

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
)

// manager implements the Manager interface.
type manager struct {
	mu         sync.RWMutex
	formatters map[string]Formatter
}

// NewManager creates a Manager with the built-in formatters registered.
func NewManager(plain bool) Manager {
	m := &manager{
		formatters: make(map[string]Formatter),
	}
	m.RegisterFormatter(NewTextFormatter(plain))
	m.RegisterFormatter(NewJSONFormatter())
	return m
}

// RegisterFormatter registers a new formatter, replacing one with the same name.
func (m *manager) RegisterFormatter(formatter Formatter) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.formatters[formatter.Name()] = formatter
}

// GetFormatter returns a formatter by name.
func (m *manager) GetFormatter(name string) (Formatter, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.formatters[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format: %s", name)
	}
	return f, nil
}

// ListFormatters returns all available formatter names, sorted.
func (m *manager) ListFormatters() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.formatters))
	for name := range m.formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Format writes the frame using the specified formatter.
func (m *manager) Format(ctx context.Context, formatName string, frame *Frame, w io.Writer) error {
	f, err := m.GetFormatter(formatName)
	if err != nil {
		return err
	}
	return f.Format(ctx, frame, w)
}
