package selection

import (
	"context"
	"fmt"
	"sync"

	"github.com/mailpilot/console/internal/models"
	"github.com/mailpilot/console/internal/services"
)

// EmailPageFetcher is the slice of LabelService the pager needs
type EmailPageFetcher interface {
	EmailsByLabel(ctx context.Context, labelID, query, pageToken string) (*models.EmailPage, error)
}

// TokenCache persists continuation tokens across sessions, keyed by
// (label, query, page index). Implemented by db.SnapshotStore; nil
// disables persistence.
type TokenCache interface {
	SavePageToken(ctx context.Context, labelID, query string, pageIndex int, token string) error
	LoadPageToken(ctx context.Context, labelID, query string, pageIndex int) (string, bool, error)
	ClearPageTokens(ctx context.Context, labelID string) error
}

// TokenPager drives server-cursor pagination for label email browsing.
// Fetched pages and their continuation tokens are cached by page index,
// so back-navigation never refetches; forward navigation past the last
// fetched page needs a network round trip and refuses to move when no
// continuation token is present. Tokens are written through to the
// persistent cache so forward navigation survives a restart.
type TokenPager struct {
	fetcher EmailPageFetcher
	cache   TokenCache // Optional - persisted continuation tokens
	labelID string

	mu      sync.Mutex
	query   string
	pages   map[int][]models.QueueItem
	tokens  map[int]string // token needed to fetch page i; page 0 needs none
	lastSet bool           // true once the final page index is known
	last    int
	current int
	loading bool
}

// NewTokenPager creates a pager over one label's email listing. cache may
// be nil to keep tokens in memory only.
func NewTokenPager(fetcher EmailPageFetcher, labelID string, cache TokenCache) *TokenPager {
	return &TokenPager{
		fetcher: fetcher,
		cache:   cache,
		labelID: labelID,
		pages:   make(map[int][]models.QueueItem),
		tokens:  map[int]string{0: ""},
	}
}

// SetQuery changes the search filter, discarding every cached page and
// token and resetting to the first page
func (p *TokenPager) SetQuery(query string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if query == p.query {
		return
	}
	p.query = query
	p.pages = make(map[int][]models.QueueItem)
	p.tokens = map[int]string{0: ""}
	p.lastSet = false
	p.current = 0
}

// Query returns the current search filter
func (p *TokenPager) Query() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.query
}

// Current returns the current page index
func (p *TokenPager) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Loading reports whether a page fetch is in flight
func (p *TokenPager) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// HasNext reports whether forward navigation is possible from in-memory
// knowledge: either the next page is cached or its continuation token is
// known. Next additionally consults the persistent token cache.
func (p *TokenPager) HasNext() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.lastSet && p.current >= p.last {
		return false
	}
	if _, cached := p.pages[p.current+1]; cached {
		return true
	}
	_, haveToken := p.tokens[p.current+1]
	return haveToken
}

// Items returns the current page if it has been fetched
func (p *TokenPager) Items() ([]models.QueueItem, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	items, ok := p.pages[p.current]
	return items, ok
}

// Load fetches the current page unless it is already cached
func (p *TokenPager) Load(ctx context.Context) ([]models.QueueItem, error) {
	p.mu.Lock()
	if items, ok := p.pages[p.current]; ok {
		p.mu.Unlock()
		return items, nil
	}
	idx := p.current
	p.mu.Unlock()
	return p.fetchPage(ctx, idx)
}

// Refresh discards every cached page and every persisted continuation
// token for this label, then refetches the first page
func (p *TokenPager) Refresh(ctx context.Context) ([]models.QueueItem, error) {
	p.mu.Lock()
	p.pages = make(map[int][]models.QueueItem)
	p.tokens = map[int]string{0: ""}
	p.lastSet = false
	p.current = 0
	p.mu.Unlock()
	if p.cache != nil {
		_ = p.cache.ClearPageTokens(ctx, p.labelID)
	}
	return p.fetchPage(ctx, 0)
}

// Next advances one page. Cached pages are served without a fetch;
// otherwise the next continuation token is required, falling back to the
// persistent cache for tokens learned in an earlier session.
func (p *TokenPager) Next(ctx context.Context) ([]models.QueueItem, error) {
	p.mu.Lock()
	next := p.current + 1
	if items, ok := p.pages[next]; ok {
		p.current = next
		p.mu.Unlock()
		return items, nil
	}
	if p.lastSet && next > p.last {
		p.mu.Unlock()
		return nil, services.ErrNoContinuation
	}
	_, haveToken := p.tokens[next]
	query := p.query
	p.mu.Unlock()

	if !haveToken {
		if p.cache == nil {
			return nil, services.ErrNoContinuation
		}
		token, found, err := p.cache.LoadPageToken(ctx, p.labelID, query, next)
		if err != nil || !found {
			return nil, services.ErrNoContinuation
		}
		p.mu.Lock()
		if query != p.query {
			p.mu.Unlock()
			return nil, services.ErrStaleResult
		}
		p.tokens[next] = token
		p.mu.Unlock()
	}

	items, err := p.fetchPage(ctx, next)
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	p.current = next
	p.mu.Unlock()
	return items, nil
}

// Prev moves back one page, always served from cache
func (p *TokenPager) Prev() ([]models.QueueItem, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == 0 {
		return p.pages[0], nil
	}
	p.current--
	return p.pages[p.current], nil
}

// fetchPage performs the network round trip for one page index, caching
// the result and writing the following page's continuation token through
// to the persistent cache
func (p *TokenPager) fetchPage(ctx context.Context, idx int) ([]models.QueueItem, error) {
	p.mu.Lock()
	if p.loading {
		p.mu.Unlock()
		return nil, fmt.Errorf("page fetch already in flight")
	}
	token, ok := p.tokens[idx]
	if !ok {
		p.mu.Unlock()
		return nil, services.ErrNoContinuation
	}
	query := p.query
	p.loading = true
	p.mu.Unlock()

	page, err := p.fetcher.EmailsByLabel(ctx, p.labelID, query, token)

	p.mu.Lock()
	p.loading = false
	if err != nil {
		p.mu.Unlock()
		return nil, err
	}
	if query != p.query {
		// The filter changed while the fetch was in flight: stale result
		p.mu.Unlock()
		return nil, services.ErrStaleResult
	}
	p.pages[idx] = page.Emails
	if page.NextPageToken != "" {
		p.tokens[idx+1] = page.NextPageToken
	} else {
		p.lastSet = true
		p.last = idx
	}
	p.mu.Unlock()

	// Best-effort write-through; the in-memory token already covers this
	// session
	if p.cache != nil && page.NextPageToken != "" {
		_ = p.cache.SavePageToken(ctx, p.labelID, query, idx+1, page.NextPageToken)
	}
	return page.Emails, nil
}
