package loam

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/plenum/pkg/domain"
)

const (
	ext        = ".md"
	fenceOpen  = "```json\n"
	fenceClose = "\n```"
)

// Store implements ports.ProtocolStore on top of a Loam repository. Each
// document becomes one markdown file with YAML frontmatter and a fenced
// JSON body.
type Store struct {
	raw   core.Repository
	typed *loam.TypedRepository[ProtocolMetadata]
}

// New wraps an initialized Loam repository.
func New(repo core.Repository) *Store {
	return &Store{
		raw:   repo,
		typed: loam.NewTypedRepository[ProtocolMetadata](repo),
	}
}

// Open initializes a Loam repository at path. Versioning is off unless
// re-enabled through opts.
func Open(path string, opts ...loam.Option) (*Store, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve loam path %s: %w", path, err)
	}
	all := append([]loam.Option{loam.WithVersioning(false)}, opts...)
	repo, err := loam.Init(abs, all...)
	if err != nil {
		return nil, fmt.Errorf("failed to init loam repository: %w", err)
	}
	return New(repo), nil
}

// Save renders doc as markdown and writes it through the repository.
func (s *Store) Save(ctx context.Context, doc domain.Document) error {
	if doc.ID == "" {
		return fmt.Errorf("document id cannot be empty")
	}
	content, err := render(doc)
	if err != nil {
		return err
	}
	if err := s.raw.Save(ctx, core.Document{ID: doc.ID + ext, Content: content}); err != nil {
		return fmt.Errorf("loam save failed for %s: %w", doc.ID, err)
	}
	return nil
}

// Load reads a document back from its JSON body.
func (s *Store) Load(ctx context.Context, id string) (domain.Document, error) {
	entry, err := s.typed.Get(ctx, id)
	if err != nil {
		if ok, lerr := s.exists(ctx, id); lerr == nil && !ok {
			return domain.Document{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
		}
		return domain.Document{}, fmt.Errorf("loam get failed for %s: %w", id, err)
	}

	doc, err := parseBody(entry.Content)
	if err != nil {
		return domain.Document{}, fmt.Errorf("document %s: %w", id, err)
	}
	if entry.Data.ID != "" && entry.Data.ID != doc.ID {
		return domain.Document{}, fmt.Errorf("document %s: frontmatter id %q does not match body id %q", id, entry.Data.ID, doc.ID)
	}
	return doc, nil
}

// List returns the ids of all stored documents in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	docs, err := s.typed.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)
		if existing, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: id %q is defined in both %q and %q", id, existing, doc.ID)
		}
		seen[id] = doc.ID
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) exists(ctx context.Context, id string) (bool, error) {
	ids, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	i := sort.SearchStrings(ids, id)
	return i < len(ids) && ids[i] == id, nil
}

func render(doc domain.Document) (string, error) {
	meta := ProtocolMetadata{ID: doc.ID, Source: doc.Source}
	if header := headerInformation(doc.Protocol); header != nil {
		if err := mapstructure.Decode(header, &meta); err != nil {
			return "", fmt.Errorf("failed to decode header of %s: %w", doc.ID, err)
		}
		// Header fields must not override the document identity.
		meta.ID, meta.Source = doc.ID, doc.Source
	}

	front, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("failed to marshal frontmatter: %w", err)
	}
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(front)
	b.WriteString("---\n")
	b.WriteString(fenceOpen)
	b.Write(body)
	b.WriteString(fenceClose)
	b.WriteString("\n")
	return b.String(), nil
}

func parseBody(content string) (domain.Document, error) {
	start := strings.Index(content, fenceOpen)
	if start < 0 {
		return domain.Document{}, fmt.Errorf("missing json block")
	}
	rest := content[start+len(fenceOpen):]
	end := strings.LastIndex(rest, fenceClose)
	if end < 0 {
		return domain.Document{}, fmt.Errorf("unterminated json block")
	}

	var doc domain.Document
	dec := json.NewDecoder(bytes.NewReader([]byte(rest[:end])))
	if err := dec.Decode(&doc); err != nil {
		return domain.Document{}, fmt.Errorf("failed to unmarshal json block: %w", err)
	}
	return doc, nil
}

// headerInformation digs the header record out of a normalized protocol.
func headerInformation(protocol map[string]any) map[string]any {
	sections, _ := protocol["sections"].([]any)
	for _, raw := range sections {
		entry, _ := raw.(map[string]any)
		if entry["section"] != domain.SectionHeader {
			continue
		}
		data, _ := entry["data"].(map[string]any)
		info, _ := data["header_information"].(map[string]any)
		return info
	}
	return nil
}

func trimExtension(id string) string {
	if e := filepath.Ext(id); e != "" {
		id = strings.TrimSuffix(id, e)
	}
	return filepath.ToSlash(id)
}
