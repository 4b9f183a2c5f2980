package bookmarks

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rebeliceyang/lazyjson/internal/export"
	"gopkg.in/yaml.v3"
)

// FileName is the bookmarks file inside the config directory
const FileName = "bookmarks.yaml"

// Bookmark marks a node of a document
type Bookmark struct {
	ID         string    `yaml:"id"`
	Name       string    `yaml:"name"`
	Document   string    `yaml:"document"` // Source name, e.g. the file name
	NodeID     string    `yaml:"node_id"`
	Path       string    `yaml:"path"` // $-notation path, for display
	CreatedAt  time.Time `yaml:"created_at"`
	LastUsed   time.Time `yaml:"last_used,omitempty"`
	UsageCount int       `yaml:"usage_count"`
}

// Manager manages bookmarks
type Manager struct {
	path      string
	bookmarks []Bookmark
}

// NewManager creates a new bookmarks manager
func NewManager(configDir string) (*Manager, error) {
	path := filepath.Join(configDir, FileName)

	m := &Manager{
		path:      path,
		bookmarks: []Bookmark{},
	}

	// Load existing bookmarks if file exists
	if _, err := os.Stat(path); err == nil {
		if err := m.Load(); err != nil {
			return nil, fmt.Errorf("failed to load bookmarks: %w", err)
		}
	}

	return m, nil
}

// Load loads bookmarks from the YAML file
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read bookmarks file: %w", err)
	}

	if err := yaml.Unmarshal(data, &m.bookmarks); err != nil {
		return fmt.Errorf("failed to parse bookmarks: %w", err)
	}

	return nil
}

// Save saves bookmarks to the YAML file
func (m *Manager) Save() error {
	data, err := yaml.Marshal(m.bookmarks)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmarks: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write bookmarks file: %w", err)
	}

	return nil
}

// Add bookmarks a node. A node can be bookmarked once per document; adding it
// again returns the existing bookmark.
func (m *Manager) Add(document, nodeID, path, name string) (*Bookmark, error) {
	if nodeID == "" {
		return nil, fmt.Errorf("bookmark node cannot be empty")
	}

	for _, b := range m.bookmarks {
		if b.Document == document && b.NodeID == nodeID {
			return &b, nil
		}
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = path
	}

	bookmark := Bookmark{
		ID:        uuid.New().String(),
		Name:      name,
		Document:  document,
		NodeID:    nodeID,
		Path:      path,
		CreatedAt: time.Now(),
	}
	m.bookmarks = append(m.bookmarks, bookmark)

	if err := m.Save(); err != nil {
		return nil, fmt.Errorf("failed to save bookmark: %w", err)
	}

	return &bookmark, nil
}

// Delete deletes a bookmark by ID
func (m *Manager) Delete(id string) error {
	for i, b := range m.bookmarks {
		if b.ID == id {
			m.bookmarks = append(m.bookmarks[:i], m.bookmarks[i+1:]...)
			if err := m.Save(); err != nil {
				return fmt.Errorf("failed to save bookmarks after deletion: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("bookmark with ID '%s' was not found", id)
}

// Get returns a bookmark by ID
func (m *Manager) Get(id string) (*Bookmark, error) {
	for _, b := range m.bookmarks {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, fmt.Errorf("bookmark with ID '%s' was not found", id)
}

// GetAll returns all bookmarks
func (m *Manager) GetAll() []Bookmark {
	return m.bookmarks
}

// ForDocument returns the bookmarks of a document in creation order
func (m *Manager) ForDocument(document string) []Bookmark {
	var out []Bookmark
	for _, b := range m.bookmarks {
		if b.Document == document {
			out = append(out, b)
		}
	}
	return out
}

// Next returns the bookmark after the one on currentNodeID, wrapping around.
// When currentNodeID is not bookmarked the first bookmark is returned.
func (m *Manager) Next(document, currentNodeID string) (*Bookmark, bool) {
	list := m.ForDocument(document)
	if len(list) == 0 {
		return nil, false
	}
	for i, b := range list {
		if b.NodeID == currentNodeID {
			next := list[(i+1)%len(list)]
			return &next, true
		}
	}
	return &list[0], true
}

// RecordUsage updates usage statistics for a bookmark
func (m *Manager) RecordUsage(id string) error {
	for i, b := range m.bookmarks {
		if b.ID == id {
			m.bookmarks[i].UsageCount++
			m.bookmarks[i].LastUsed = time.Now()
			if err := m.Save(); err != nil {
				return fmt.Errorf("failed to save usage statistics: %w", err)
			}
			return nil
		}
	}
	return fmt.Errorf("bookmark with ID '%s' was not found", id)
}

// GetMostUsed returns the most frequently used bookmarks
func (m *Manager) GetMostUsed(limit int) []Bookmark {
	sorted := make([]Bookmark, len(m.bookmarks))
	copy(sorted, m.bookmarks)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].UsageCount > sorted[j].UsageCount
	})

	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	return sorted
}

// WriteCSV exports all bookmarks as CSV
func (m *Manager) WriteCSV(w io.Writer) error {
	if len(m.bookmarks) == 0 {
		return fmt.Errorf("no bookmarks to export")
	}

	rows := make([][]string, 0, len(m.bookmarks))
	for _, b := range m.bookmarks {
		lastUsed := ""
		if !b.LastUsed.IsZero() {
			lastUsed = b.LastUsed.Format("2006-01-02 15:04:05")
		}
		rows = append(rows, []string{
			b.Name,
			b.Document,
			b.Path,
			b.CreatedAt.Format("2006-01-02 15:04:05"),
			lastUsed,
			strconv.Itoa(b.UsageCount),
		})
	}

	header := []string{"Name", "Document", "Path", "Created", "Last Used", "Usage Count"}
	return export.WriteCSV(w, header, rows)
}
