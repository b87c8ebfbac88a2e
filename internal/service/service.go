// Package service implements the link registry: generation, validation and
// storage of short paths on top of a storage.Store.
//
// Every link is kept as two records: a redirect record (path -> target URL)
// and a metadata record ("meta:" + path -> JSON models.Link). The two writes
// of one mutation are not atomic. A crash between them leaves a link that is
// either resolvable but unlisted or listed but unresolvable; the next update
// or delete of the path restores consistency.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shortlink/internal/models"
	"github.com/vadimbarashkov/shortlink/internal/storage"
	"golang.org/x/sync/errgroup"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	// DefaultPathLength is the length of generated short paths.
	DefaultPathLength = 6

	pathAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	listConcurrency = 16
)

type Option func(*LinkService)

// WithClock overrides the time source used for created/updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *LinkService) {
		s.now = now
	}
}

// LinkService is the link registry. It keeps no state of its own; all state
// lives in the store, so it is safe for concurrent use.
type LinkService struct {
	store      storage.Store
	pathLength int
	validate   *validator.Validate
	now        func() time.Time
}

// NewLinkService creates a LinkService over store. A non-positive pathLength
// falls back to DefaultPathLength.
func NewLinkService(store storage.Store, pathLength int, opts ...Option) *LinkService {
	if pathLength <= 0 {
		pathLength = DefaultPathLength
	}

	s := &LinkService{
		store:      store,
		pathLength: pathLength,
		validate:   newValidate(),
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// GeneratePath returns a random candidate path, each character drawn
// uniformly from the 62 alphanumerics. Uniqueness is not checked.
func (s *LinkService) GeneratePath() (string, error) {
	const op = "service.LinkService.GeneratePath"

	path, err := gonanoid.Generate(pathAlphabet, s.pathLength)
	if err != nil {
		return "", fmt.Errorf("%s: failed to generate path: %w", op, err)
	}

	return path, nil
}

// CreateLink stores a new link to targetURL. With an empty customPath a free
// random path is generated, retrying on collision until one is found or ctx
// is done.
func (s *LinkService) CreateLink(ctx context.Context, targetURL, customPath string) (*models.Link, error) {
	const op = "service.LinkService.CreateLink"

	if err := s.validate.Var(targetURL, "required,absurl"); err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidURL)
	}

	if customPath != "" && !s.validPath(customPath) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidPath)
	}

	path := customPath
	if path != "" {
		if err := s.claimPath(ctx, path, targetURL); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	} else {
		var err error
		if path, err = s.claimGeneratedPath(ctx, targetURL); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	link := &models.Link{
		Path:    path,
		URL:     targetURL,
		Created: s.timestamp(),
	}

	if err := s.putMetadata(ctx, link); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return link, nil
}

func (s *LinkService) claimGeneratedPath(ctx context.Context, targetURL string) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		path, err := s.GeneratePath()
		if err != nil {
			return "", err
		}

		err = s.claimPath(ctx, path, targetURL)
		if errors.Is(err, models.ErrPathTaken) {
			continue
		}
		if err != nil {
			return "", err
		}

		return path, nil
	}
}

// claimPath writes the redirect record for path unless one already exists.
// Stores implementing storage.Creator do this atomically; for the rest there
// is a window between the existence check and the write in which a
// concurrent claim of the same path can win.
func (s *LinkService) claimPath(ctx context.Context, path, targetURL string) error {
	if creator, ok := s.store.(storage.Creator); ok {
		err := creator.Create(ctx, path, targetURL)
		if errors.Is(err, storage.ErrKeyExists) {
			return models.ErrPathTaken
		}
		if err != nil {
			return fmt.Errorf("failed to create redirect record: %w", err)
		}
		return nil
	}

	exists, err := s.exists(ctx, path)
	if err != nil {
		return err
	}
	if exists {
		return models.ErrPathTaken
	}

	if err := s.store.Put(ctx, path, targetURL); err != nil {
		return fmt.Errorf("failed to put redirect record: %w", err)
	}

	return nil
}

// ResolveLink returns the target URL stored for path.
func (s *LinkService) ResolveLink(ctx context.Context, path string) (string, error) {
	const op = "service.LinkService.ResolveLink"

	if !s.validPath(path) {
		return "", fmt.Errorf("%s: %w", op, models.ErrLinkNotFound)
	}

	targetURL, err := s.store.Get(ctx, path)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return "", fmt.Errorf("%s: %w", op, models.ErrLinkNotFound)
		}

		return "", fmt.Errorf("%s: failed to get redirect record: %w", op, err)
	}

	return targetURL, nil
}

// ListLinks returns the metadata of every link, most recently created first.
// Links with equal creation times keep the store's enumeration order.
func (s *LinkService) ListLinks(ctx context.Context) ([]models.Link, error) {
	const op = "service.LinkService.ListLinks"

	keys, err := s.store.List(ctx, models.MetaKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to list metadata records: %w", op, err)
	}

	fetched := make([]*models.Link, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(listConcurrency)

	for i, key := range keys {
		g.Go(func() error {
			raw, err := s.store.Get(gctx, key)
			if err != nil {
				// Deleted after List returned.
				if errors.Is(err, storage.ErrKeyNotFound) {
					return nil
				}
				return fmt.Errorf("failed to get metadata record %q: %w", key, err)
			}

			var link models.Link
			if err := json.Unmarshal([]byte(raw), &link); err != nil {
				return fmt.Errorf("failed to decode metadata record %q: %w", key, err)
			}

			fetched[i] = &link
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	links := make([]models.Link, 0, len(fetched))
	for _, link := range fetched {
		if link != nil {
			links = append(links, *link)
		}
	}

	sort.SliceStable(links, func(i, j int) bool {
		return links[i].Created.After(links[j].Created)
	})

	return links, nil
}

// UpdateLink points an existing path at newURL, keeping its original creation time.
func (s *LinkService) UpdateLink(ctx context.Context, path, newURL string) (*models.Link, error) {
	const op = "service.LinkService.UpdateLink"

	if path == "" || s.validate.Var(newURL, "required,absurl") != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidInput)
	}

	if err := s.mustExist(ctx, path); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.Put(ctx, path, newURL); err != nil {
		return nil, fmt.Errorf("%s: failed to put redirect record: %w", op, err)
	}

	now := s.timestamp()
	created := now

	// An unreadable previous record is treated as missing.
	if prev, err := s.getMetadata(ctx, path); err == nil && !prev.Created.IsZero() {
		created = prev.Created
	}

	link := &models.Link{
		Path:    path,
		URL:     newURL,
		Created: created,
		Updated: &now,
	}

	if err := s.putMetadata(ctx, link); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return link, nil
}

// DeleteLink removes both records of the link at path. The metadata record is
// not deleted if removing the redirect record fails.
func (s *LinkService) DeleteLink(ctx context.Context, path string) error {
	const op = "service.LinkService.DeleteLink"

	if path == "" {
		return fmt.Errorf("%s: %w", op, models.ErrInvalidInput)
	}

	if err := s.mustExist(ctx, path); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.Delete(ctx, path); err != nil {
		return fmt.Errorf("%s: failed to delete redirect record: %w", op, err)
	}

	if err := s.store.Delete(ctx, models.MetaKey(path)); err != nil {
		return fmt.Errorf("%s: failed to delete metadata record: %w", op, err)
	}

	return nil
}

// validPath reports whether path could have been created by CreateLink.
// Anything else, metadata keys included, never names a link.
func (s *LinkService) validPath(path string) bool {
	return s.validate.Var(path, "shortpath") == nil
}

func (s *LinkService) exists(ctx context.Context, path string) (bool, error) {
	_, err := s.store.Get(ctx, path)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get redirect record: %w", err)
	}

	return true, nil
}

func (s *LinkService) mustExist(ctx context.Context, path string) error {
	if !s.validPath(path) {
		return models.ErrLinkNotFound
	}

	exists, err := s.exists(ctx, path)
	if err != nil {
		return err
	}
	if !exists {
		return models.ErrLinkNotFound
	}

	return nil
}

func (s *LinkService) getMetadata(ctx context.Context, path string) (*models.Link, error) {
	raw, err := s.store.Get(ctx, models.MetaKey(path))
	if err != nil {
		return nil, err
	}

	var link models.Link
	if err := json.Unmarshal([]byte(raw), &link); err != nil {
		return nil, err
	}

	return &link, nil
}

func (s *LinkService) putMetadata(ctx context.Context, link *models.Link) error {
	raw, err := json.Marshal(link)
	if err != nil {
		return fmt.Errorf("failed to encode metadata record: %w", err)
	}

	if err := s.store.Put(ctx, models.MetaKey(link.Path), string(raw)); err != nil {
		return fmt.Errorf("failed to put metadata record: %w", err)
	}

	return nil
}

// timestamp returns the current UTC time at millisecond precision.
func (s *LinkService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}
