// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

// Countries

const createCountry = `INSERT INTO countries (title) VALUES (?) RETURNING id, title`

func (q *Queries) CreateCountry(ctx context.Context, title string) (Country, error) {
	var i Country
	err := q.db.QueryRowContext(ctx, createCountry, title).Scan(&i.ID, &i.Title)
	return i, mapError(err)
}

const getCountry = `SELECT id, title FROM countries WHERE id = ?`

func (q *Queries) GetCountry(ctx context.Context, id int64) (Country, error) {
	var i Country
	err := q.db.QueryRowContext(ctx, getCountry, id).Scan(&i.ID, &i.Title)
	return i, mapError(err)
}

const getCountryByTitle = `SELECT id, title FROM countries WHERE title = ? ORDER BY id LIMIT 1`

func (q *Queries) GetCountryByTitle(ctx context.Context, title string) (Country, error) {
	var i Country
	err := q.db.QueryRowContext(ctx, getCountryByTitle, title).Scan(&i.ID, &i.Title)
	return i, mapError(err)
}

const listCountries = `SELECT id, title FROM countries ORDER BY title, id`

func (q *Queries) ListCountries(ctx context.Context) ([]Country, error) {
	rows, err := q.db.QueryContext(ctx, listCountries)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Country
	for rows.Next() {
		var i Country
		if err := rows.Scan(&i.ID, &i.Title); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const updateCountry = `UPDATE countries SET title = ? WHERE id = ?`

type UpdateCountryParams struct {
	Title string
	ID    int64
}

func (q *Queries) UpdateCountry(ctx context.Context, arg UpdateCountryParams) (int64, error) {
	return q.execAffected(ctx, updateCountry, arg.Title, arg.ID)
}

const deleteCountry = `DELETE FROM countries WHERE id = ?`

func (q *Queries) DeleteCountry(ctx context.Context, id int64) (int64, error) {
	return q.execAffected(ctx, deleteCountry, id)
}

const countCountries = `SELECT COUNT(*) FROM countries`

func (q *Queries) CountCountries(ctx context.Context) (int64, error) {
	return q.count(ctx, countCountries)
}

// Bread types

const createBreadType = `INSERT INTO bread_types (title) VALUES (?) RETURNING id, title`

func (q *Queries) CreateBreadType(ctx context.Context, title string) (BreadType, error) {
	var i BreadType
	err := q.db.QueryRowContext(ctx, createBreadType, title).Scan(&i.ID, &i.Title)
	return i, mapError(err)
}

const getBreadType = `SELECT id, title FROM bread_types WHERE id = ?`

func (q *Queries) GetBreadType(ctx context.Context, id int64) (BreadType, error) {
	var i BreadType
	err := q.db.QueryRowContext(ctx, getBreadType, id).Scan(&i.ID, &i.Title)
	return i, mapError(err)
}

const getBreadTypeByTitle = `SELECT id, title FROM bread_types WHERE title = ? ORDER BY id LIMIT 1`

func (q *Queries) GetBreadTypeByTitle(ctx context.Context, title string) (BreadType, error) {
	var i BreadType
	err := q.db.QueryRowContext(ctx, getBreadTypeByTitle, title).Scan(&i.ID, &i.Title)
	return i, mapError(err)
}

const listBreadTypes = `SELECT id, title FROM bread_types ORDER BY title, id`

func (q *Queries) ListBreadTypes(ctx context.Context) ([]BreadType, error) {
	rows, err := q.db.QueryContext(ctx, listBreadTypes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []BreadType
	for rows.Next() {
		var i BreadType
		if err := rows.Scan(&i.ID, &i.Title); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const updateBreadType = `UPDATE bread_types SET title = ? WHERE id = ?`

type UpdateBreadTypeParams struct {
	Title string
	ID    int64
}

func (q *Queries) UpdateBreadType(ctx context.Context, arg UpdateBreadTypeParams) (int64, error) {
	return q.execAffected(ctx, updateBreadType, arg.Title, arg.ID)
}

const deleteBreadType = `DELETE FROM bread_types WHERE id = ?`

func (q *Queries) DeleteBreadType(ctx context.Context, id int64) (int64, error) {
	return q.execAffected(ctx, deleteBreadType, id)
}

const countBreadTypes = `SELECT COUNT(*) FROM bread_types`

func (q *Queries) CountBreadTypes(ctx context.Context) (int64, error) {
	return q.count(ctx, countBreadTypes)
}

// Bread ingredients

const createBreadIngredient = `INSERT INTO bread_ingredients (name) VALUES (?) RETURNING id, name`

func (q *Queries) CreateBreadIngredient(ctx context.Context, name string) (BreadIngredient, error) {
	var i BreadIngredient
	err := q.db.QueryRowContext(ctx, createBreadIngredient, name).Scan(&i.ID, &i.Name)
	return i, mapError(err)
}

const getBreadIngredient = `SELECT id, name FROM bread_ingredients WHERE id = ?`

func (q *Queries) GetBreadIngredient(ctx context.Context, id int64) (BreadIngredient, error) {
	var i BreadIngredient
	err := q.db.QueryRowContext(ctx, getBreadIngredient, id).Scan(&i.ID, &i.Name)
	return i, mapError(err)
}

const getBreadIngredientByName = `SELECT id, name FROM bread_ingredients WHERE name = ? ORDER BY id LIMIT 1`

func (q *Queries) GetBreadIngredientByName(ctx context.Context, name string) (BreadIngredient, error) {
	var i BreadIngredient
	err := q.db.QueryRowContext(ctx, getBreadIngredientByName, name).Scan(&i.ID, &i.Name)
	return i, mapError(err)
}

const listBreadIngredients = `SELECT id, name FROM bread_ingredients ORDER BY name, id`

func (q *Queries) ListBreadIngredients(ctx context.Context) ([]BreadIngredient, error) {
	rows, err := q.db.QueryContext(ctx, listBreadIngredients)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []BreadIngredient
	for rows.Next() {
		var i BreadIngredient
		if err := rows.Scan(&i.ID, &i.Name); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const updateBreadIngredient = `UPDATE bread_ingredients SET name = ? WHERE id = ?`

type UpdateBreadIngredientParams struct {
	Name string
	ID   int64
}

func (q *Queries) UpdateBreadIngredient(ctx context.Context, arg UpdateBreadIngredientParams) (int64, error) {
	return q.execAffected(ctx, updateBreadIngredient, arg.Name, arg.ID)
}

const deleteBreadIngredient = `DELETE FROM bread_ingredients WHERE id = ?`

func (q *Queries) DeleteBreadIngredient(ctx context.Context, id int64) (int64, error) {
	return q.execAffected(ctx, deleteBreadIngredient, id)
}

const countBreadIngredients = `SELECT COUNT(*) FROM bread_ingredients`

func (q *Queries) CountBreadIngredients(ctx context.Context) (int64, error) {
	return q.count(ctx, countBreadIngredients)
}

const addBreadPageIngredient = `INSERT INTO bread_page_ingredients (page_id, ingredient_id, sort_order) VALUES (?, ?, ?)`

type AddBreadPageIngredientParams struct {
	PageID       int64
	IngredientID int64
	SortOrder    int64
}

func (q *Queries) AddBreadPageIngredient(ctx context.Context, arg AddBreadPageIngredientParams) error {
	_, err := q.db.ExecContext(ctx, addBreadPageIngredient, arg.PageID, arg.IngredientID, arg.SortOrder)
	return mapError(err)
}

const clearBreadPageIngredients = `DELETE FROM bread_page_ingredients WHERE page_id = ?`

func (q *Queries) ClearBreadPageIngredients(ctx context.Context, pageID int64) error {
	_, err := q.db.ExecContext(ctx, clearBreadPageIngredients, pageID)
	return mapError(err)
}

const listBreadPageIngredients = `SELECT i.id, i.name
FROM bread_page_ingredients bpi
JOIN bread_ingredients i ON i.id = bpi.ingredient_id
WHERE bpi.page_id = ?
ORDER BY bpi.sort_order, i.name`

func (q *Queries) ListBreadPageIngredients(ctx context.Context, pageID int64) ([]BreadIngredient, error) {
	rows, err := q.db.QueryContext(ctx, listBreadPageIngredients, pageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []BreadIngredient
	for rows.Next() {
		var i BreadIngredient
		if err := rows.Scan(&i.ID, &i.Name); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// People

const personColumns = `id, first_name, last_name, job_title, image_id, created_at, updated_at`

func scanPerson(row rowScanner) (Person, error) {
	var i Person
	err := row.Scan(&i.ID, &i.FirstName, &i.LastName, &i.JobTitle, &i.ImageID, &i.CreatedAt, &i.UpdatedAt)
	return i, err
}

const createPerson = `INSERT INTO people (first_name, last_name, job_title, image_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING ` + personColumns

type CreatePersonParams struct {
	FirstName string
	LastName  string
	JobTitle  string
	ImageID   sql.NullInt64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreatePerson(ctx context.Context, arg CreatePersonParams) (Person, error) {
	i, err := scanPerson(q.db.QueryRowContext(ctx, createPerson,
		arg.FirstName, arg.LastName, arg.JobTitle, arg.ImageID, arg.CreatedAt, arg.UpdatedAt))
	return i, mapError(err)
}

const getPerson = `SELECT ` + personColumns + ` FROM people WHERE id = ?`

func (q *Queries) GetPerson(ctx context.Context, id int64) (Person, error) {
	i, err := scanPerson(q.db.QueryRowContext(ctx, getPerson, id))
	return i, mapError(err)
}

const getPersonByName = `SELECT ` + personColumns + ` FROM people
WHERE first_name = ? AND last_name = ? ORDER BY id LIMIT 1`

type GetPersonByNameParams struct {
	FirstName string
	LastName  string
}

func (q *Queries) GetPersonByName(ctx context.Context, arg GetPersonByNameParams) (Person, error) {
	i, err := scanPerson(q.db.QueryRowContext(ctx, getPersonByName, arg.FirstName, arg.LastName))
	return i, mapError(err)
}

const listPeople = `SELECT ` + personColumns + ` FROM people ORDER BY last_name, first_name, id`

func (q *Queries) ListPeople(ctx context.Context) ([]Person, error) {
	rows, err := q.db.QueryContext(ctx, listPeople)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Person
	for rows.Next() {
		i, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const updatePerson = `UPDATE people SET first_name = ?, last_name = ?, job_title = ?, image_id = ?, updated_at = ?
WHERE id = ?`

type UpdatePersonParams struct {
	FirstName string
	LastName  string
	JobTitle  string
	ImageID   sql.NullInt64
	UpdatedAt time.Time
	ID        int64
}

func (q *Queries) UpdatePerson(ctx context.Context, arg UpdatePersonParams) (int64, error) {
	return q.execAffected(ctx, updatePerson,
		arg.FirstName, arg.LastName, arg.JobTitle, arg.ImageID, arg.UpdatedAt, arg.ID)
}

const deletePerson = `DELETE FROM people WHERE id = ?`

func (q *Queries) DeletePerson(ctx context.Context, id int64) (int64, error) {
	return q.execAffected(ctx, deletePerson, id)
}

const countPeople = `SELECT COUNT(*) FROM people`

func (q *Queries) CountPeople(ctx context.Context) (int64, error) {
	return q.count(ctx, countPeople)
}

// Footer texts

const createFooterText = `INSERT INTO footer_texts (body) VALUES (?) RETURNING id, body`

func (q *Queries) CreateFooterText(ctx context.Context, body string) (FooterText, error) {
	var i FooterText
	err := q.db.QueryRowContext(ctx, createFooterText, body).Scan(&i.ID, &i.Body)
	return i, mapError(err)
}

const getFooterText = `SELECT id, body FROM footer_texts WHERE id = ?`

func (q *Queries) GetFooterText(ctx context.Context, id int64) (FooterText, error) {
	var i FooterText
	err := q.db.QueryRowContext(ctx, getFooterText, id).Scan(&i.ID, &i.Body)
	return i, mapError(err)
}

const getLatestFooterText = `SELECT id, body FROM footer_texts ORDER BY id DESC LIMIT 1`

func (q *Queries) GetLatestFooterText(ctx context.Context) (FooterText, error) {
	var i FooterText
	err := q.db.QueryRowContext(ctx, getLatestFooterText).Scan(&i.ID, &i.Body)
	return i, mapError(err)
}

const updateFooterText = `UPDATE footer_texts SET body = ? WHERE id = ?`

type UpdateFooterTextParams struct {
	Body string
	ID   int64
}

func (q *Queries) UpdateFooterText(ctx context.Context, arg UpdateFooterTextParams) (int64, error) {
	return q.execAffected(ctx, updateFooterText, arg.Body, arg.ID)
}

const deleteFooterText = `DELETE FROM footer_texts WHERE id = ?`

func (q *Queries) DeleteFooterText(ctx context.Context, id int64) (int64, error) {
	return q.execAffected(ctx, deleteFooterText, id)
}

const countFooterTexts = `SELECT COUNT(*) FROM footer_texts`

func (q *Queries) CountFooterTexts(ctx context.Context) (int64, error) {
	return q.count(ctx, countFooterTexts)
}

// Generic settings (single row)

const getGenericSettings = `SELECT id, twitter_url, github_url, organisation_url FROM generic_settings WHERE id = 1`

func (q *Queries) GetGenericSettings(ctx context.Context) (GenericSetting, error) {
	var i GenericSetting
	err := q.db.QueryRowContext(ctx, getGenericSettings).Scan(&i.ID, &i.TwitterUrl, &i.GithubUrl, &i.OrganisationUrl)
	return i, mapError(err)
}

const upsertGenericSettings = `INSERT INTO generic_settings (id, twitter_url, github_url, organisation_url)
VALUES (1, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    twitter_url = excluded.twitter_url,
    github_url = excluded.github_url,
    organisation_url = excluded.organisation_url
RETURNING id, twitter_url, github_url, organisation_url`

type UpsertGenericSettingsParams struct {
	TwitterUrl      string
	GithubUrl       string
	OrganisationUrl string
}

func (q *Queries) UpsertGenericSettings(ctx context.Context, arg UpsertGenericSettingsParams) (GenericSetting, error) {
	var i GenericSetting
	err := q.db.QueryRowContext(ctx, upsertGenericSettings, arg.TwitterUrl, arg.GithubUrl, arg.OrganisationUrl).
		Scan(&i.ID, &i.TwitterUrl, &i.GithubUrl, &i.OrganisationUrl)
	return i, mapError(err)
}

func (q *Queries) execAffected(ctx context.Context, query string, args ...any) (int64, error) {
	result, err := q.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, mapError(err)
	}
	return result.RowsAffected()
}

func (q *Queries) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}
