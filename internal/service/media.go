// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/bakery/internal/cache"
	"github.com/olegiv/bakery/internal/imaging"
	"github.com/olegiv/bakery/internal/model"
	"github.com/olegiv/bakery/internal/storage"
	"github.com/olegiv/bakery/internal/store"
	"github.com/olegiv/bakery/internal/tree"
	"github.com/olegiv/bakery/internal/util"
)

// MaxUploadSize caps the bytes read for one image or document.
const MaxUploadSize = 20 * 1024 * 1024 // 20MB

// ErrFileTooLarge is returned for uploads over MaxUploadSize.
var ErrFileTooLarge = fmt.Errorf("file exceeds %d bytes", MaxUploadSize)

// Upload is the input of CreateImage and CreateDocument.
type Upload struct {
	Title        string
	Filename     string
	Body         io.Reader
	CollectionID int64 // 0 selects the root collection
	Tags         []string
}

// MediaService stores images, renditions, documents and collections. File
// bytes go to the storage backend and metadata to the store.
type MediaService struct {
	db        *sql.DB
	queries   *store.Queries
	backend   storage.Backend
	processor *imaging.Processor
	cache     cache.Cache
	logger    *slog.Logger
	now       clock
}

// NewMediaService creates a media service. c may be nil.
func NewMediaService(db *sql.DB, backend storage.Backend, processor *imaging.Processor, c cache.Cache, logger *slog.Logger) *MediaService {
	if logger == nil {
		logger = slog.Default()
	}
	if processor == nil {
		processor = imaging.NewProcessor(imaging.DefaultQuality)
	}
	return &MediaService{
		db:        db,
		queries:   store.New(db),
		backend:   backend,
		processor: processor,
		cache:     c,
		logger:    logger,
		now:       time.Now,
	}
}

func readUpload(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) > MaxUploadSize {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

func fileHash(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

func (s *MediaService) collectionID(ctx context.Context, id int64) (int64, error) {
	if id == 0 {
		return model.RootCollectionID, nil
	}
	if _, err := s.queries.GetCollection(ctx, id); err != nil {
		if store.IsNotFound(err) {
			return 0, &ReferenceError{Field: "collection", Kind: model.RefCollection, ID: id}
		}
		return 0, err
	}
	return id, nil
}

// storageKey builds a key under dir for filename. Taken keys get a random
// suffix before the extension.
func storageKey(dir, filename, ext string, taken func(string) (bool, error)) (string, error) {
	name, err := util.SanitizeFilename(filename)
	if err != nil {
		name = "file"
	}
	if ext == "" {
		ext = path.Ext(name)
	}
	stem := util.Slugify(strings.TrimSuffix(name, path.Ext(name)))
	if stem == "" {
		stem = "file"
	}
	key := path.Join(dir, stem+ext)
	for range 5 {
		used, err := taken(key)
		if err != nil {
			return "", err
		}
		if !used {
			return key, nil
		}
		key = path.Join(dir, stem+"_"+uuid.NewString()[:7]+ext)
	}
	return "", fmt.Errorf("%w: no free key for %s", store.ErrIntegrityViolation, filename)
}

func exists[T any](ctx context.Context, get func(context.Context, string) (T, error)) func(string) (bool, error) {
	return func(key string) (bool, error) {
		_, err := get(ctx, key)
		if store.IsNotFound(err) {
			return false, nil
		}
		return err == nil, err
	}
}

var formatExt = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
}

// CreateImage normalizes an uploaded picture and stores it with its
// dimensions and hash.
func (s *MediaService) CreateImage(ctx context.Context, up Upload) (model.Image, error) {
	if err := requireText("image", "title", up.Title); err != nil {
		return model.Image{}, err
	}
	data, err := readUpload(up.Body)
	if err != nil {
		return model.Image{}, err
	}
	collectionID, err := s.collectionID(ctx, up.CollectionID)
	if err != nil {
		return model.Image{}, err
	}
	result, err := s.processor.Process(bytes.NewReader(data))
	if err != nil {
		return model.Image{}, fmt.Errorf("processing image %q: %w", up.Filename, err)
	}
	key, err := storageKey(model.OriginalImagesDir, up.Filename, formatExt[result.Format], exists(ctx, s.queries.GetImageByFile))
	if err != nil {
		return model.Image{}, err
	}
	if err := s.backend.Put(ctx, key, bytes.NewReader(result.Data), result.MimeType); err != nil {
		return model.Image{}, fmt.Errorf("storing image %s: %w", key, err)
	}

	row, err := s.queries.CreateImage(ctx, store.CreateImageParams{
		Title:        up.Title,
		File:         key,
		Width:        int64(result.Width),
		Height:       int64(result.Height),
		FileSize:     int64(len(result.Data)),
		FileHash:     fileHash(data),
		MimeType:     result.MimeType,
		CollectionID: collectionID,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		s.removeObject(ctx, key)
		return model.Image{}, fmt.Errorf("creating image record: %w", err)
	}
	if len(up.Tags) > 0 {
		if err := setTags(ctx, s.db, model.TagObjectImage, row.ID, up.Tags); err != nil {
			return model.Image{}, err
		}
	}
	invalidate(ctx, s.cache, s.logger)
	s.logger.Debug("image stored", "id", row.ID, "file", key, "category", model.EventCategoryMedia)
	return s.withImageTags(ctx, row)
}

// GetImage returns an image with its tags.
func (s *MediaService) GetImage(ctx context.Context, id int64) (model.Image, error) {
	row, err := s.queries.GetImage(ctx, id)
	if err != nil {
		return model.Image{}, fmt.Errorf("getting image %d: %w", id, err)
	}
	return s.withImageTags(ctx, row)
}

// ListImages returns every image by id.
func (s *MediaService) ListImages(ctx context.Context) ([]model.Image, error) {
	rows, err := s.queries.ListImages(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}
	images := make([]model.Image, 0, len(rows))
	for _, row := range rows {
		img, err := s.withImageTags(ctx, row)
		if err != nil {
			return nil, err
		}
		images = append(images, img)
	}
	return images, nil
}

func (s *MediaService) withImageTags(ctx context.Context, row store.Image) (model.Image, error) {
	tags, err := s.queries.ListTagNames(ctx, store.ObjectRef{ObjectType: model.TagObjectImage, ObjectID: row.ID})
	if err != nil {
		return model.Image{}, fmt.Errorf("listing tags of image %d: %w", row.ID, err)
	}
	img := ToImage(row)
	img.Tags = tags
	return img, nil
}

// SetImageTags replaces the tags of an image.
func (s *MediaService) SetImageTags(ctx context.Context, id int64, names []string) error {
	if _, err := s.queries.GetImage(ctx, id); err != nil {
		return fmt.Errorf("getting image %d: %w", id, err)
	}
	if err := setTags(ctx, s.db, model.TagObjectImage, id, names); err != nil {
		return err
	}
	invalidate(ctx, s.cache, s.logger)
	return nil
}

// DeleteImage removes an image, its renditions and their files.
func (s *MediaService) DeleteImage(ctx context.Context, id int64) error {
	row, err := s.queries.GetImage(ctx, id)
	if err != nil {
		return fmt.Errorf("getting image %d: %w", id, err)
	}
	renditions, err := s.queries.ListImageRenditions(ctx, id)
	if err != nil {
		return fmt.Errorf("listing renditions of image %d: %w", id, err)
	}
	err = store.InTx(ctx, s.db, func(q *store.Queries) error {
		if err := q.ClearTaggings(ctx, store.ObjectRef{ObjectType: model.TagObjectImage, ObjectID: id}); err != nil {
			return err
		}
		n, err := q.DeleteImage(ctx, id)
		return affected(n, err, "image", id)
	})
	if err != nil {
		return err
	}
	for _, r := range renditions {
		s.removeObject(ctx, r.File)
	}
	s.removeObject(ctx, row.File)
	invalidate(ctx, s.cache, s.logger)
	return nil
}

// Rendition returns the rendition of an image for spec, rendering and
// storing it on first use.
func (s *MediaService) Rendition(ctx context.Context, imageID int64, spec string) (model.Rendition, error) {
	filter, err := model.ParseFilterSpec(spec)
	if err != nil {
		return model.Rendition{}, err
	}
	spec = filter.String()

	existing, err := s.queries.GetImageRendition(ctx, store.GetImageRenditionParams{ImageID: imageID, FilterSpec: spec})
	if err == nil {
		return toRendition(existing), nil
	}
	if !store.IsNotFound(err) {
		return model.Rendition{}, fmt.Errorf("getting rendition %s of image %d: %w", spec, imageID, err)
	}

	img, err := s.queries.GetImage(ctx, imageID)
	if err != nil {
		return model.Rendition{}, fmt.Errorf("getting image %d: %w", imageID, err)
	}
	source, err := s.readObject(ctx, img.File)
	if err != nil {
		return model.Rendition{}, err
	}
	result, err := s.processor.Render(source, filter)
	if err != nil {
		return model.Rendition{}, fmt.Errorf("rendering %s of image %d: %w", spec, imageID, err)
	}
	key := imaging.RenditionKey(img.File, filter)
	if err := s.backend.Put(ctx, key, bytes.NewReader(result.Data), result.MimeType); err != nil {
		return model.Rendition{}, fmt.Errorf("storing rendition %s: %w", key, err)
	}

	row, err := s.queries.CreateImageRendition(ctx, store.CreateImageRenditionParams{
		ImageID:    imageID,
		FilterSpec: spec,
		File:       key,
		Width:      int64(result.Width),
		Height:     int64(result.Height),
	})
	if errors.Is(err, store.ErrIntegrityViolation) {
		// Rendered concurrently by another request.
		row, err = s.queries.GetImageRendition(ctx, store.GetImageRenditionParams{ImageID: imageID, FilterSpec: spec})
	}
	if err != nil {
		return model.Rendition{}, fmt.Errorf("creating rendition record: %w", err)
	}
	return toRendition(row), nil
}

// PersonThumbnail returns the URL of a person's 50x50 thumbnail, or "" when
// the person has no image.
func (s *MediaService) PersonThumbnail(ctx context.Context, p model.Person) (string, error) {
	if p.ImageID == nil {
		return "", nil
	}
	r, err := s.Rendition(ctx, *p.ImageID, model.ThumbnailSpec)
	if err != nil {
		return "", err
	}
	return r.URL(), nil
}

// CountImages returns the number of stored images.
func (s *MediaService) CountImages(ctx context.Context) (int64, error) {
	return s.queries.CountImages(ctx)
}

// CreateDocument stores an uploaded file as-is.
func (s *MediaService) CreateDocument(ctx context.Context, up Upload) (model.Document, error) {
	if err := requireText("document", "title", up.Title); err != nil {
		return model.Document{}, err
	}
	data, err := readUpload(up.Body)
	if err != nil {
		return model.Document{}, err
	}
	collectionID, err := s.collectionID(ctx, up.CollectionID)
	if err != nil {
		return model.Document{}, err
	}
	key, err := storageKey(model.DocumentsDir, up.Filename, "", exists(ctx, s.queries.GetDocumentByFile))
	if err != nil {
		return model.Document{}, err
	}
	mimeType := DetectMimeType(key, data)
	if err := s.backend.Put(ctx, key, bytes.NewReader(data), mimeType); err != nil {
		return model.Document{}, fmt.Errorf("storing document %s: %w", key, err)
	}

	row, err := s.queries.CreateDocument(ctx, store.CreateDocumentParams{
		Title:        up.Title,
		File:         key,
		FileSize:     int64(len(data)),
		FileHash:     fileHash(data),
		MimeType:     mimeType,
		CollectionID: collectionID,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		s.removeObject(ctx, key)
		return model.Document{}, fmt.Errorf("creating document record: %w", err)
	}
	if len(up.Tags) > 0 {
		if err := setTags(ctx, s.db, model.TagObjectDocument, row.ID, up.Tags); err != nil {
			return model.Document{}, err
		}
	}
	invalidate(ctx, s.cache, s.logger)
	return s.withDocumentTags(ctx, row)
}

// GetDocument returns a document with its tags.
func (s *MediaService) GetDocument(ctx context.Context, id int64) (model.Document, error) {
	row, err := s.queries.GetDocument(ctx, id)
	if err != nil {
		return model.Document{}, fmt.Errorf("getting document %d: %w", id, err)
	}
	return s.withDocumentTags(ctx, row)
}

func (s *MediaService) withDocumentTags(ctx context.Context, row store.Document) (model.Document, error) {
	tags, err := s.queries.ListTagNames(ctx, store.ObjectRef{ObjectType: model.TagObjectDocument, ObjectID: row.ID})
	if err != nil {
		return model.Document{}, fmt.Errorf("listing tags of document %d: %w", row.ID, err)
	}
	doc := ToDocument(row)
	doc.Tags = tags
	return doc, nil
}

// FilterImages returns one page of images matching f, with tags, and the
// number of matches before paging.
func (s *MediaService) FilterImages(ctx context.Context, f store.MediaFilter) ([]model.Image, int64, error) {
	rows, total, err := s.queries.ListImagesFiltered(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("filtering images: %w", err)
	}
	images := make([]model.Image, 0, len(rows))
	for _, row := range rows {
		img, err := s.withImageTags(ctx, row)
		if err != nil {
			return nil, 0, err
		}
		images = append(images, img)
	}
	return images, total, nil
}

// FilterDocuments returns one page of documents matching f, with tags, and
// the number of matches before paging.
func (s *MediaService) FilterDocuments(ctx context.Context, f store.MediaFilter) ([]model.Document, int64, error) {
	rows, total, err := s.queries.ListDocumentsFiltered(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("filtering documents: %w", err)
	}
	docs := make([]model.Document, 0, len(rows))
	for _, row := range rows {
		doc, err := s.withDocumentTags(ctx, row)
		if err != nil {
			return nil, 0, err
		}
		docs = append(docs, doc)
	}
	return docs, total, nil
}

// DeleteDocument removes a document and its file.
func (s *MediaService) DeleteDocument(ctx context.Context, id int64) error {
	row, err := s.queries.GetDocument(ctx, id)
	if err != nil {
		return fmt.Errorf("getting document %d: %w", id, err)
	}
	err = store.InTx(ctx, s.db, func(q *store.Queries) error {
		if err := q.ClearTaggings(ctx, store.ObjectRef{ObjectType: model.TagObjectDocument, ObjectID: id}); err != nil {
			return err
		}
		n, err := q.DeleteDocument(ctx, id)
		return affected(n, err, "document", id)
	})
	if err != nil {
		return err
	}
	s.removeObject(ctx, row.File)
	invalidate(ctx, s.cache, s.logger)
	return nil
}

// CountDocuments returns the number of stored documents.
func (s *MediaService) CountDocuments(ctx context.Context) (int64, error) {
	return s.queries.CountDocuments(ctx)
}

// Open streams a stored object by key.
func (s *MediaService) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.backend.Open(ctx, key)
}

// CreateCollection adds a collection as the last child of parentID.
func (s *MediaService) CreateCollection(ctx context.Context, parentID int64, name string) (model.Collection, error) {
	if err := requireText("collection", "name", name); err != nil {
		return model.Collection{}, err
	}
	var row store.Collection
	err := store.InTx(ctx, s.db, func(q *store.Queries) error {
		parent, err := q.GetCollection(ctx, parentID)
		if err != nil {
			return fmt.Errorf("getting collection %d: %w", parentID, err)
		}
		last, err := q.GetLastChildCollectionPath(ctx, parentID)
		if err != nil {
			return err
		}
		childPath, err := tree.NextChild(parent.Path, last)
		if err != nil {
			return fmt.Errorf("allocating path under collection %d: %w", parentID, err)
		}
		row, err = q.CreateCollection(ctx, store.CreateCollectionParams{
			ParentID:  parentID,
			Path:      childPath,
			Name:      name,
			CreatedAt: s.now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("creating collection %q: %w", name, err)
		}
		return q.AddCollectionNumchild(ctx, store.AddNumchildParams{Delta: 1, ID: parentID})
	})
	if err != nil {
		return model.Collection{}, err
	}
	return toCollection(row), nil
}

// GetCollection returns a collection.
func (s *MediaService) GetCollection(ctx context.Context, id int64) (model.Collection, error) {
	row, err := s.queries.GetCollection(ctx, id)
	if err != nil {
		return model.Collection{}, fmt.Errorf("getting collection %d: %w", id, err)
	}
	return toCollection(row), nil
}

// CollectionChildren returns the sub-collections of id in insertion order.
func (s *MediaService) CollectionChildren(ctx context.Context, id int64) ([]model.Collection, error) {
	rows, err := s.queries.ListCollectionChildren(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing collections under %d: %w", id, err)
	}
	items := make([]model.Collection, len(rows))
	for i, row := range rows {
		items[i] = toCollection(row)
	}
	return items, nil
}

func (s *MediaService) readObject(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.backend.Open(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", key, err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return data, nil
}

// removeObject deletes a stored file. Failures are logged; the metadata is
// the source of truth.
func (s *MediaService) removeObject(ctx context.Context, key string) {
	err := s.backend.Delete(ctx, key)
	if err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		s.logger.Warn("failed to delete stored file", "key", key, "error", err, "category", model.EventCategoryMedia)
	}
}

// DetectMimeType picks a content type from the file extension, falling
// back to sniffing the data.
func DetectMimeType(filename string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(path.Ext(filename))); t != "" {
		return t
	}
	return http.DetectContentType(data)
}

// ToImage converts a stored image row.
func ToImage(row store.Image) model.Image {
	return model.Image{
		ID:           row.ID,
		Title:        row.Title,
		File:         row.File,
		Width:        int(row.Width),
		Height:       int(row.Height),
		FileSize:     row.FileSize,
		FileHash:     row.FileHash,
		MimeType:     row.MimeType,
		CollectionID: row.CollectionID,
		CreatedAt:    row.CreatedAt,
	}
}

// ToDocument converts a stored document row.
func ToDocument(row store.Document) model.Document {
	return model.Document{
		ID:           row.ID,
		Title:        row.Title,
		File:         row.File,
		FileSize:     row.FileSize,
		FileHash:     row.FileHash,
		MimeType:     row.MimeType,
		CollectionID: row.CollectionID,
		CreatedAt:    row.CreatedAt,
	}
}

func toRendition(row store.ImageRendition) model.Rendition {
	return model.Rendition{
		ID:         row.ID,
		ImageID:    row.ImageID,
		FilterSpec: row.FilterSpec,
		File:       row.File,
		Width:      int(row.Width),
		Height:     int(row.Height),
	}
}

func toCollection(row store.Collection) model.Collection {
	return model.Collection{
		ID:       row.ID,
		ParentID: row.ParentID.Int64,
		Path:     row.Path,
		Numchild: row.Numchild,
		Name:     row.Name,
	}
}
