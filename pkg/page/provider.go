package page

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/gridshift/pkg/errors"
	"github.com/matzehuels/gridshift/pkg/grid"
	"github.com/matzehuels/gridshift/pkg/store"
)

// storeTimeout bounds each persistence call made from a commit.
const storeTimeout = 5 * time.Second

// Load fetches a page from s.
func Load(ctx context.Context, s store.Store, id string) (*Page, error) {
	data, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data, FormatJSON)
}

// LoadUnchecked fetches a page from s without validating it.
func LoadUnchecked(ctx context.Context, s store.Store, id string) (*Page, error) {
	data, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(data), FormatJSON)
}

// Save writes p to s.
func Save(ctx context.Context, s store.Store, p *Page) error {
	data, err := Marshal(p, FormatJSON)
	if err != nil {
		return err
	}
	return s.Put(ctx, p.ID, data)
}

// Provider serves a page to a drag session and persists every commit.
// Safe for concurrent use.
type Provider struct {
	mu      sync.RWMutex
	page    *Page
	store   store.Store
	logger  *log.Logger
	commits int
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithStore persists commits to s. Without a store commits stay in memory.
func WithStore(s store.Store) ProviderOption {
	return func(p *Provider) { p.store = s }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) ProviderOption {
	return func(p *Provider) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewProvider serves a copy of p.
func NewProvider(p *Page, opts ...ProviderOption) *Provider {
	pr := &Provider{page: p.Clone(), logger: log.Default()}
	for _, opt := range opts {
		opt(pr)
	}
	return pr
}

// Items returns the canonical items.
func (p *Provider) Items() []grid.Item {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]grid.Item(nil), p.page.Items...)
}

// CommitItems replaces the canonical items and persists the page.
func (p *Provider) CommitItems(items []grid.Item) error {
	p.mu.Lock()
	next := p.page.Clone()
	next.Items = append([]grid.Item(nil), items...)
	if err := next.Validate(); err != nil {
		p.mu.Unlock()
		return errors.Wrap(errors.ErrCodeInconsistentState, err, "commit page %s", next.ID)
	}
	p.page = next
	p.commits++
	p.mu.Unlock()

	p.logger.Debug("page committed", "page", next.ID, "items", len(items))
	if p.store == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	return Save(ctx, p.store, next)
}

// Page returns a copy of the current page.
func (p *Provider) Page() *Page {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.page.Clone()
}

// Commits returns how many commits have been accepted.
func (p *Provider) Commits() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.commits
}
