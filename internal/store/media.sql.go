// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// Images

const ImageColumns = `id, title, file, width, height, file_size, file_hash, mime_type, collection_id, created_at`

// ScanImage reads one row selected with ImageColumns.
func ScanImage(row rowScanner) (Image, error) {
	var i Image
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.File,
		&i.Width,
		&i.Height,
		&i.FileSize,
		&i.FileHash,
		&i.MimeType,
		&i.CollectionID,
		&i.CreatedAt,
	)
	return i, err
}

const createImage = `INSERT INTO images (title, file, width, height, file_size, file_hash, mime_type, collection_id, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + ImageColumns

type CreateImageParams struct {
	Title        string
	File         string
	Width        int64
	Height       int64
	FileSize     int64
	FileHash     string
	MimeType     string
	CollectionID int64
	CreatedAt    time.Time
}

func (q *Queries) CreateImage(ctx context.Context, arg CreateImageParams) (Image, error) {
	i, err := ScanImage(q.db.QueryRowContext(ctx, createImage,
		arg.Title,
		arg.File,
		arg.Width,
		arg.Height,
		arg.FileSize,
		arg.FileHash,
		arg.MimeType,
		arg.CollectionID,
		arg.CreatedAt,
	))
	return i, mapError(err)
}

const getImage = `SELECT ` + ImageColumns + ` FROM images WHERE id = ?`

func (q *Queries) GetImage(ctx context.Context, id int64) (Image, error) {
	i, err := ScanImage(q.db.QueryRowContext(ctx, getImage, id))
	return i, mapError(err)
}

const getImageByFile = `SELECT ` + ImageColumns + ` FROM images WHERE file = ?`

func (q *Queries) GetImageByFile(ctx context.Context, file string) (Image, error) {
	i, err := ScanImage(q.db.QueryRowContext(ctx, getImageByFile, file))
	return i, mapError(err)
}

const listImages = `SELECT ` + ImageColumns + ` FROM images ORDER BY id`

func (q *Queries) ListImages(ctx context.Context) ([]Image, error) {
	rows, err := q.db.QueryContext(ctx, listImages)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Image
	for rows.Next() {
		i, err := ScanImage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const deleteImage = `DELETE FROM images WHERE id = ?`

func (q *Queries) DeleteImage(ctx context.Context, id int64) (int64, error) {
	return q.execAffected(ctx, deleteImage, id)
}

const countImages = `SELECT COUNT(*) FROM images`

func (q *Queries) CountImages(ctx context.Context) (int64, error) {
	return q.count(ctx, countImages)
}

const getImageRendition = `SELECT id, image_id, filter_spec, file, width, height
FROM image_renditions WHERE image_id = ? AND filter_spec = ?`

type GetImageRenditionParams struct {
	ImageID    int64
	FilterSpec string
}

func (q *Queries) GetImageRendition(ctx context.Context, arg GetImageRenditionParams) (ImageRendition, error) {
	var i ImageRendition
	err := q.db.QueryRowContext(ctx, getImageRendition, arg.ImageID, arg.FilterSpec).
		Scan(&i.ID, &i.ImageID, &i.FilterSpec, &i.File, &i.Width, &i.Height)
	return i, mapError(err)
}

const createImageRendition = `INSERT INTO image_renditions (image_id, filter_spec, file, width, height)
VALUES (?, ?, ?, ?, ?)
RETURNING id, image_id, filter_spec, file, width, height`

type CreateImageRenditionParams struct {
	ImageID    int64
	FilterSpec string
	File       string
	Width      int64
	Height     int64
}

func (q *Queries) CreateImageRendition(ctx context.Context, arg CreateImageRenditionParams) (ImageRendition, error) {
	var i ImageRendition
	err := q.db.QueryRowContext(ctx, createImageRendition, arg.ImageID, arg.FilterSpec, arg.File, arg.Width, arg.Height).
		Scan(&i.ID, &i.ImageID, &i.FilterSpec, &i.File, &i.Width, &i.Height)
	return i, mapError(err)
}

const listImageRenditions = `SELECT id, image_id, filter_spec, file, width, height
FROM image_renditions WHERE image_id = ? ORDER BY filter_spec`

func (q *Queries) ListImageRenditions(ctx context.Context, imageID int64) ([]ImageRendition, error) {
	rows, err := q.db.QueryContext(ctx, listImageRenditions, imageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ImageRendition
	for rows.Next() {
		var i ImageRendition
		if err := rows.Scan(&i.ID, &i.ImageID, &i.FilterSpec, &i.File, &i.Width, &i.Height); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// Documents

const DocumentColumns = `id, title, file, file_size, file_hash, mime_type, collection_id, created_at`

// ScanDocument reads one row selected with DocumentColumns.
func ScanDocument(row rowScanner) (Document, error) {
	var i Document
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.File,
		&i.FileSize,
		&i.FileHash,
		&i.MimeType,
		&i.CollectionID,
		&i.CreatedAt,
	)
	return i, err
}

const createDocument = `INSERT INTO documents (title, file, file_size, file_hash, mime_type, collection_id, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING ` + DocumentColumns

type CreateDocumentParams struct {
	Title        string
	File         string
	FileSize     int64
	FileHash     string
	MimeType     string
	CollectionID int64
	CreatedAt    time.Time
}

func (q *Queries) CreateDocument(ctx context.Context, arg CreateDocumentParams) (Document, error) {
	i, err := ScanDocument(q.db.QueryRowContext(ctx, createDocument,
		arg.Title,
		arg.File,
		arg.FileSize,
		arg.FileHash,
		arg.MimeType,
		arg.CollectionID,
		arg.CreatedAt,
	))
	return i, mapError(err)
}

const getDocument = `SELECT ` + DocumentColumns + ` FROM documents WHERE id = ?`

func (q *Queries) GetDocument(ctx context.Context, id int64) (Document, error) {
	i, err := ScanDocument(q.db.QueryRowContext(ctx, getDocument, id))
	return i, mapError(err)
}

const getDocumentByFile = `SELECT ` + DocumentColumns + ` FROM documents WHERE file = ?`

func (q *Queries) GetDocumentByFile(ctx context.Context, file string) (Document, error) {
	i, err := ScanDocument(q.db.QueryRowContext(ctx, getDocumentByFile, file))
	return i, mapError(err)
}

const deleteDocument = `DELETE FROM documents WHERE id = ?`

func (q *Queries) DeleteDocument(ctx context.Context, id int64) (int64, error) {
	return q.execAffected(ctx, deleteDocument, id)
}

const countDocuments = `SELECT COUNT(*) FROM documents`

func (q *Queries) CountDocuments(ctx context.Context) (int64, error) {
	return q.count(ctx, countDocuments)
}

// Collections

const collectionColumns = `id, parent_id, path, numchild, name, created_at`

func scanCollection(row rowScanner) (Collection, error) {
	var i Collection
	err := row.Scan(&i.ID, &i.ParentID, &i.Path, &i.Numchild, &i.Name, &i.CreatedAt)
	return i, err
}

const getCollection = `SELECT ` + collectionColumns + ` FROM collections WHERE id = ?`

func (q *Queries) GetCollection(ctx context.Context, id int64) (Collection, error) {
	i, err := scanCollection(q.db.QueryRowContext(ctx, getCollection, id))
	return i, mapError(err)
}

const getLastChildCollectionPath = `SELECT COALESCE(MAX(path), '') FROM collections WHERE parent_id = ?`

func (q *Queries) GetLastChildCollectionPath(ctx context.Context, parentID int64) (string, error) {
	var path string
	err := q.db.QueryRowContext(ctx, getLastChildCollectionPath, parentID).Scan(&path)
	return path, mapError(err)
}

const createCollection = `INSERT INTO collections (parent_id, path, name, created_at)
VALUES (?, ?, ?, ?)
RETURNING ` + collectionColumns

type CreateCollectionParams struct {
	ParentID  int64
	Path      string
	Name      string
	CreatedAt time.Time
}

func (q *Queries) CreateCollection(ctx context.Context, arg CreateCollectionParams) (Collection, error) {
	i, err := scanCollection(q.db.QueryRowContext(ctx, createCollection, arg.ParentID, arg.Path, arg.Name, arg.CreatedAt))
	return i, mapError(err)
}

const addCollectionNumchild = `UPDATE collections SET numchild = numchild + ? WHERE id = ?`

func (q *Queries) AddCollectionNumchild(ctx context.Context, arg AddNumchildParams) error {
	_, err := q.db.ExecContext(ctx, addCollectionNumchild, arg.Delta, arg.ID)
	return mapError(err)
}

const listCollectionChildren = `SELECT ` + collectionColumns + ` FROM collections WHERE parent_id = ? ORDER BY path`

func (q *Queries) ListCollectionChildren(ctx context.Context, parentID int64) ([]Collection, error) {
	rows, err := q.db.QueryContext(ctx, listCollectionChildren, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Collection
	for rows.Next() {
		i, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// Tags

const upsertTag = `INSERT INTO tags (name, slug) VALUES (?, ?)
ON CONFLICT (name) DO UPDATE SET name = excluded.name
RETURNING id, name, slug`

type UpsertTagParams struct {
	Name string
	Slug string
}

func (q *Queries) UpsertTag(ctx context.Context, arg UpsertTagParams) (Tag, error) {
	var i Tag
	err := q.db.QueryRowContext(ctx, upsertTag, arg.Name, arg.Slug).Scan(&i.ID, &i.Name, &i.Slug)
	return i, mapError(err)
}

const addTagging = `INSERT INTO taggings (tag_id, object_type, object_id) VALUES (?, ?, ?)
ON CONFLICT DO NOTHING`

type AddTaggingParams struct {
	TagID      int64
	ObjectType string
	ObjectID   int64
}

func (q *Queries) AddTagging(ctx context.Context, arg AddTaggingParams) error {
	_, err := q.db.ExecContext(ctx, addTagging, arg.TagID, arg.ObjectType, arg.ObjectID)
	return mapError(err)
}

const clearTaggings = `DELETE FROM taggings WHERE object_type = ? AND object_id = ?`

type ObjectRef struct {
	ObjectType string
	ObjectID   int64
}

func (q *Queries) ClearTaggings(ctx context.Context, arg ObjectRef) error {
	_, err := q.db.ExecContext(ctx, clearTaggings, arg.ObjectType, arg.ObjectID)
	return mapError(err)
}

const listTagNames = `SELECT t.name FROM taggings tg JOIN tags t ON t.id = tg.tag_id
WHERE tg.object_type = ? AND tg.object_id = ?
ORDER BY t.name`

func (q *Queries) ListTagNames(ctx context.Context, arg ObjectRef) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listTagNames, arg.ObjectType, arg.ObjectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		items = append(items, name)
	}
	return items, rows.Err()
}
