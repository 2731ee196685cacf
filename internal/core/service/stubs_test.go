package service

import (
	"context"
	"sort"
	"strings"

	"github.com/newsroom/news-management/internal/core/domain"
	"github.com/newsroom/news-management/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory store shared by the stub repositories
// ---------------------------------------------------------------------------

type memStore struct {
	accounts   map[int]domain.Account
	categories map[int]domain.Category
	tags       map[int]domain.Tag
	articles   map[int]domain.NewsArticle
	links      map[int]map[int]struct{} // article id -> tag ids
	nextID     int

	replaceErr error // if set, NewsTags.Replace returns this error
}

func newMemStore() *memStore {
	return &memStore{
		accounts:   make(map[int]domain.Account),
		categories: make(map[int]domain.Category),
		tags:       make(map[int]domain.Tag),
		articles:   make(map[int]domain.NewsArticle),
		links:      make(map[int]map[int]struct{}),
	}
}

func (s *memStore) id() int {
	s.nextID++
	return s.nextID
}

func (s *memStore) snapshot() *memStore {
	c := newMemStore()
	for k, v := range s.accounts {
		c.accounts[k] = v
	}
	for k, v := range s.categories {
		c.categories[k] = v
	}
	for k, v := range s.tags {
		c.tags[k] = v
	}
	for k, v := range s.articles {
		c.articles[k] = v
	}
	for k, set := range s.links {
		cp := make(map[int]struct{}, len(set))
		for t := range set {
			cp[t] = struct{}{}
		}
		c.links[k] = cp
	}
	c.nextID = s.nextID
	return c
}

func (s *memStore) restore(from *memStore) {
	s.accounts = from.accounts
	s.categories = from.categories
	s.tags = from.tags
	s.articles = from.articles
	s.links = from.links
	s.nextID = from.nextID
}

func (s *memStore) tagIDs(articleID int) []int {
	ids := make([]int, 0, len(s.links[articleID]))
	for id := range s.links[articleID] {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (s *memStore) hydrate(a domain.NewsArticle) domain.NewsArticle {
	if c, ok := s.categories[a.CategoryID]; ok {
		cc := c
		a.Category = &cc
	}
	if acc, ok := s.accounts[a.CreatedByID]; ok {
		ac := acc
		a.CreatedBy = &ac
	}
	a.Tags = []domain.Tag{}
	for _, id := range s.tagIDs(a.ID) {
		a.Tags = append(a.Tags, s.tags[id])
	}
	return a
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func (s *memStore) repos() (stubAccounts, stubCategories, stubTags, stubArticles, stubNewsTags, stubTx) {
	return stubAccounts{s}, stubCategories{s}, stubTags{s}, stubArticles{s}, stubNewsTags{s}, stubTx{s}
}

// ---------------------------------------------------------------------------
// Accounts
// ---------------------------------------------------------------------------

type stubAccounts struct{ s *memStore }

func (r stubAccounts) List(_ context.Context, search string) ([]domain.Account, error) {
	out := []domain.Account{}
	for _, a := range r.s.accounts {
		if search == "" || contains(a.Name, search) || contains(a.Email, search) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r stubAccounts) FindByID(_ context.Context, id int) (*domain.Account, error) {
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return &a, nil
}

func (r stubAccounts) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	for _, a := range r.s.accounts {
		if strings.EqualFold(a.Email, email) {
			found := a
			return &found, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r stubAccounts) Create(ctx context.Context, a *domain.Account) (*domain.Account, error) {
	if _, err := r.FindByEmail(ctx, a.Email); err == nil {
		return nil, domain.ErrEmailTaken
	}
	c := *a
	c.ID = r.s.id()
	r.s.accounts[c.ID] = c
	return &c, nil
}

func (r stubAccounts) Update(_ context.Context, a *domain.Account) error {
	if _, ok := r.s.accounts[a.ID]; !ok {
		return domain.ErrAccountNotFound
	}
	for _, other := range r.s.accounts {
		if other.ID != a.ID && strings.EqualFold(other.Email, a.Email) {
			return domain.ErrEmailTaken
		}
	}
	r.s.accounts[a.ID] = *a
	return nil
}

func (r stubAccounts) Delete(_ context.Context, id int) error {
	if _, ok := r.s.accounts[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.s.accounts, id)
	return nil
}

// ---------------------------------------------------------------------------
// Categories
// ---------------------------------------------------------------------------

type stubCategories struct{ s *memStore }

func (r stubCategories) List(_ context.Context, search string) ([]domain.Category, error) {
	out := []domain.Category{}
	for _, c := range r.s.categories {
		if search == "" || contains(c.Name, search) || contains(c.Description, search) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r stubCategories) FindByID(_ context.Context, id int) (*domain.Category, error) {
	c, ok := r.s.categories[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return &c, nil
}

func (r stubCategories) Create(_ context.Context, c *domain.Category) (*domain.Category, error) {
	cp := *c
	cp.ID = r.s.id()
	r.s.categories[cp.ID] = cp
	return &cp, nil
}

func (r stubCategories) Update(_ context.Context, c *domain.Category) error {
	if _, ok := r.s.categories[c.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	r.s.categories[c.ID] = *c
	return nil
}

func (r stubCategories) Delete(_ context.Context, id int) error {
	if _, ok := r.s.categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(r.s.categories, id)
	return nil
}

// ---------------------------------------------------------------------------
// Tags
// ---------------------------------------------------------------------------

type stubTags struct{ s *memStore }

func (r stubTags) List(_ context.Context, search string) ([]domain.Tag, error) {
	out := []domain.Tag{}
	for _, t := range r.s.tags {
		if search == "" || contains(t.Name, search) || contains(t.Note, search) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r stubTags) FindByID(_ context.Context, id int) (*domain.Tag, error) {
	t, ok := r.s.tags[id]
	if !ok {
		return nil, domain.ErrTagNotFound
	}
	return &t, nil
}

func (r stubTags) FindByIDs(_ context.Context, ids []int) ([]domain.Tag, error) {
	out := []domain.Tag{}
	for _, id := range ids {
		if t, ok := r.s.tags[id]; ok {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r stubTags) Create(_ context.Context, t *domain.Tag) (*domain.Tag, error) {
	cp := *t
	cp.ID = r.s.id()
	r.s.tags[cp.ID] = cp
	return &cp, nil
}

func (r stubTags) Update(_ context.Context, t *domain.Tag) error {
	if _, ok := r.s.tags[t.ID]; !ok {
		return domain.ErrTagNotFound
	}
	r.s.tags[t.ID] = *t
	return nil
}

func (r stubTags) Delete(_ context.Context, id int) error {
	if _, ok := r.s.tags[id]; !ok {
		return domain.ErrTagNotFound
	}
	delete(r.s.tags, id)
	return nil
}

// ---------------------------------------------------------------------------
// Articles and links
// ---------------------------------------------------------------------------

type stubArticles struct{ s *memStore }

func (r stubArticles) List(_ context.Context, f ports.ArticleFilter) ([]domain.NewsArticle, error) {
	out := []domain.NewsArticle{}
	for _, a := range r.s.articles {
		if f.ActiveOnly && a.Status != domain.NewsActive {
			continue
		}
		if f.CreatedByID != 0 && a.CreatedByID != f.CreatedByID {
			continue
		}
		if !f.From.IsZero() && a.CreatedDate.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && a.CreatedDate.After(f.To) {
			continue
		}
		if f.Search != "" && !contains(a.Title, f.Search) && !contains(a.Content, f.Search) {
			continue
		}
		out = append(out, r.s.hydrate(a))
	}
	domain.SortNewest(out)
	return out, nil
}

func (r stubArticles) FindByID(_ context.Context, id int) (*domain.NewsArticle, error) {
	a, ok := r.s.articles[id]
	if !ok {
		return nil, domain.ErrArticleNotFound
	}
	h := r.s.hydrate(a)
	return &h, nil
}

func (r stubArticles) Create(_ context.Context, a *domain.NewsArticle) (*domain.NewsArticle, error) {
	cp := *a
	cp.ID = r.s.id()
	cp.Category, cp.CreatedBy, cp.Tags = nil, nil, nil
	r.s.articles[cp.ID] = cp
	return &cp, nil
}

func (r stubArticles) Update(_ context.Context, a *domain.NewsArticle) error {
	if _, ok := r.s.articles[a.ID]; !ok {
		return domain.ErrArticleNotFound
	}
	cp := *a
	cp.Category, cp.CreatedBy, cp.Tags = nil, nil, nil
	r.s.articles[a.ID] = cp
	return nil
}

func (r stubArticles) Delete(_ context.Context, id int) error {
	if _, ok := r.s.articles[id]; !ok {
		return domain.ErrArticleNotFound
	}
	delete(r.s.articles, id)
	return nil
}

func (r stubArticles) CountByCreator(_ context.Context, accountID int) (int, error) {
	n := 0
	for _, a := range r.s.articles {
		if a.CreatedByID == accountID {
			n++
		}
	}
	return n, nil
}

func (r stubArticles) CountByCategory(_ context.Context, categoryID int) (int, error) {
	n := 0
	for _, a := range r.s.articles {
		if a.CategoryID == categoryID {
			n++
		}
	}
	return n, nil
}

type stubNewsTags struct{ s *memStore }

func (r stubNewsTags) TagIDs(_ context.Context, articleID int) ([]int, error) {
	return r.s.tagIDs(articleID), nil
}

func (r stubNewsTags) Replace(_ context.Context, articleID int, tagIDs []int) error {
	delete(r.s.links, articleID)
	if r.s.replaceErr != nil {
		return r.s.replaceErr
	}
	set := make(map[int]struct{}, len(tagIDs))
	for _, id := range tagIDs {
		set[id] = struct{}{}
	}
	r.s.links[articleID] = set
	return nil
}

func (r stubNewsTags) DeleteByArticle(_ context.Context, articleID int) error {
	delete(r.s.links, articleID)
	return nil
}

func (r stubNewsTags) DeleteByTag(_ context.Context, tagID int) error {
	for _, set := range r.s.links {
		delete(set, tagID)
	}
	return nil
}

// stubTx rolls the whole store back when fn fails.
type stubTx struct{ s *memStore }

func (t stubTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	before := t.s.snapshot()
	if err := fn(ctx); err != nil {
		t.s.restore(before)
		return err
	}
	return nil
}

// stubIdempotency is a map-backed ports.IdempotencyStore.
type stubIdempotency struct {
	keys map[string]int
}

func (s *stubIdempotency) Lookup(_ context.Context, scope, key string) (int, bool, error) {
	id, ok := s.keys[scope+":"+key]
	return id, ok, nil
}

// Remember behaves like SETNX: the first id stored for a key wins.
func (s *stubIdempotency) Remember(_ context.Context, scope, key string, id int) error {
	if _, ok := s.keys[scope+":"+key]; !ok {
		s.keys[scope+":"+key] = id
	}
	return nil
}

func (s *stubIdempotency) Forget(_ context.Context, scope, key string) error {
	delete(s.keys, scope+":"+key)
	return nil
}
