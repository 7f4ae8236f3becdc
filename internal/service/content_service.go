package service

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"eduexpress-backend/internal/apperror"
	"eduexpress-backend/internal/model"
	"eduexpress-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

//go:embed fallback/*.json
var fallbackFS embed.FS

// PublicList is a page of published content. Fallback is set when the page
// was served from the bundled dataset because the store failed.
type PublicList[T any] struct {
	model.Page[T]
	Fallback bool `json:"-"`
}

// ContentConfig describes one content collection.
type ContentConfig[T any] struct {
	Collection   string
	SearchFields []string
	PublicSort   string
	FallbackFile string
	Slug         func(*T) string
}

// Content collections served by the public site.
var (
	UniversityContent = ContentConfig[model.University]{
		Collection:   model.CollectionUniversities,
		SearchFields: []string{"name", "country", "city", "programs"},
		PublicSort:   "ranking",
		FallbackFile: "universities.json",
		Slug:         func(u *model.University) string { return u.Slug },
	}
	UpdateContent = ContentConfig[model.Update]{
		Collection:   model.CollectionUpdates,
		SearchFields: []string{"title", "summary", "category"},
		FallbackFile: "updates.json",
		Slug:         func(u *model.Update) string { return u.Slug },
	}
	SuccessStoryContent = ContentConfig[model.SuccessStory]{
		Collection:   model.CollectionSuccessStories,
		SearchFields: []string{"studentName", "university", "program"},
		FallbackFile: "success_stories.json",
		Slug:         func(s *model.SuccessStory) string { return s.Slug },
	}
	ContentPageContent = ContentConfig[model.ContentPage]{
		Collection:   model.CollectionContentPages,
		SearchFields: []string{"title", "slug", "section"},
		FallbackFile: "content_pages.json",
		Slug:         func(p *model.ContentPage) string { return p.Slug },
	}
)

type ContentService[T any] interface {
	Create(ctx context.Context, doc *T) (*T, error)
	Get(ctx context.Context, id string) (*T, error)
	List(ctx context.Context, q model.ListQuery) (model.Page[T], error)
	Update(ctx context.Context, id string, doc *T) (*T, error)
	Delete(ctx context.Context, id string) error

	Published(ctx context.Context, q model.ListQuery) (PublicList[T], error)
	PublishedBySlug(ctx context.Context, slug string) (*T, bool, error)
}

type contentService[T any] struct {
	store    repository.Store[T]
	cfg      ContentConfig[T]
	validate *validator.Validate
	log      *zap.Logger
	fallback []T
}

// NewContentService constructs a contentService and loads its fallback dataset.
func NewContentService[T any](store repository.Store[T], cfg ContentConfig[T], validate *validator.Validate, log *zap.Logger) (ContentService[T], error) {
	s := &contentService[T]{store: store, cfg: cfg, validate: validate, log: log}
	if cfg.FallbackFile != "" {
		items, err := loadFallback[T](cfg.FallbackFile)
		if err != nil {
			return nil, err
		}
		s.fallback = items
	}
	return s, nil
}

func loadFallback[T any](name string) ([]T, error) {
	raw, err := fallbackFS.ReadFile("fallback/" + name)
	if err != nil {
		return nil, fmt.Errorf("read fallback %s: %w", name, err)
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode fallback %s: %w", name, err)
	}
	return items, nil
}

func (s *contentService[T]) Create(ctx context.Context, doc *T) (*T, error) {
	if err := s.validate.Struct(doc); err != nil {
		return nil, apperror.FromValidator(err)
	}
	if err := s.store.Insert(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *contentService[T]) Get(ctx context.Context, id string) (*T, error) {
	return s.store.FindByID(ctx, id)
}

func (s *contentService[T]) List(ctx context.Context, q model.ListQuery) (model.Page[T], error) {
	q.SearchFields = s.cfg.SearchFields
	return s.store.Find(ctx, q)
}

// Update replaces the editable fields of a stored document with those of doc.
func (s *contentService[T]) Update(ctx context.Context, id string, doc *T) (*T, error) {
	if err := s.validate.Struct(doc); err != nil {
		return nil, apperror.FromValidator(err)
	}
	fields, err := editableFields(doc)
	if err != nil {
		return nil, err
	}
	return s.store.Update(ctx, id, fields)
}

func (s *contentService[T]) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Published lists published items, falling back to the bundled dataset when the store fails.
func (s *contentService[T]) Published(ctx context.Context, q model.ListQuery) (PublicList[T], error) {
	q.Filter = map[string]any{"published": true}
	q.SearchFields = s.cfg.SearchFields
	q.UpdatedSince = nil
	if q.SortField == "" && s.cfg.PublicSort != "" {
		q.SortField = s.cfg.PublicSort
	}

	page, err := s.store.Find(ctx, q)
	if err == nil {
		return PublicList[T]{Page: page}, nil
	}
	if !s.canFallBack(err) {
		return PublicList[T]{}, err
	}

	s.log.Warn("serving fallback content", zap.String("collection", s.cfg.Collection), zap.Error(err))
	q = q.Normalize()
	return PublicList[T]{Page: paginate(s.fallback, q.Limit, q.Offset), Fallback: true}, nil
}

// PublishedBySlug returns one published item. The bool reports a fallback hit.
func (s *contentService[T]) PublishedBySlug(ctx context.Context, slug string) (*T, bool, error) {
	slug = strings.TrimSpace(slug)
	doc, err := s.store.FindOne(ctx, map[string]any{"slug": slug, "published": true})
	if err == nil {
		return doc, false, nil
	}
	if !s.canFallBack(err) || s.cfg.Slug == nil {
		return nil, false, err
	}

	for i := range s.fallback {
		if s.cfg.Slug(&s.fallback[i]) == slug {
			s.log.Warn("serving fallback content", zap.String("collection", s.cfg.Collection), zap.String("slug", slug), zap.Error(err))
			item := s.fallback[i]
			return &item, true, nil
		}
	}
	return nil, false, err
}

func (s *contentService[T]) canFallBack(err error) bool {
	var pe *apperror.PersistenceError
	return len(s.fallback) > 0 && errors.As(err, &pe)
}

func paginate[T any](items []T, limit, offset int64) model.Page[T] {
	total := int64(len(items))
	start := min(offset, total)
	end := min(start+limit, total)
	out := make([]T, end-start)
	copy(out, items[start:end])
	return model.Page[T]{Items: out, Total: total, Limit: limit, Offset: offset}
}

// editableFields flattens doc into a $set map without identity and timestamp fields.
func editableFields(doc any) (map[string]any, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, apperror.NewValidation("invalid document: %v", err)
	}
	var fields bson.M
	if err := bson.Unmarshal(raw, &fields); err != nil {
		return nil, apperror.NewValidation("invalid document: %v", err)
	}
	delete(fields, "_id")
	delete(fields, "createdAt")
	delete(fields, "updatedAt")
	return fields, nil
}
