// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, ErrNotFound},
		{"unique", errors.New("constraint failed: UNIQUE constraint failed: pages.path (2067)"), ErrIntegrityViolation},
		{"foreign key", errors.New("FOREIGN KEY constraint failed"), ErrIntegrityViolation},
		{"not null", errors.New("NOT NULL constraint failed: pages.title"), ErrIntegrityViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err)
			if tt.want == nil {
				if got != nil {
					t.Errorf("mapError(nil) = %v", got)
				}
				return
			}
			if !errors.Is(got, tt.want) {
				t.Errorf("mapError(%v) = %v, want %v", tt.err, got, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("mapError dropped the driver error from the chain")
			}
		})
	}

	other := errors.New("disk I/O error")
	if got := mapError(other); got != other {
		t.Errorf("unrelated errors must pass through, got %v", got)
	}
}

func TestGetPageNotFoundViaMock(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM pages p JOIN locales l").
		WithArgs(int64(100000)).
		WillReturnError(sql.ErrNoRows)

	_, err := New(db).GetPage(context.Background(), 100000)
	if !IsNotFound(err) {
		t.Errorf("GetPage() error = %v, want not found", err)
	}

	if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
		t.Errorf("unfulfilled expectations: %v", expectErr)
	}
}

func TestInTxRollsBackOnError(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE pages SET numchild").
		WithArgs(int64(1), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := InTx(context.Background(), db, func(q *Queries) error {
		if err := q.AddNumchild(context.Background(), AddNumchildParams{Delta: 1, ID: 1}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("InTx() error = %v, want %v", err, boom)
	}

	if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
		t.Errorf("unfulfilled expectations: %v", expectErr)
	}
}

func TestInTxCommits(t *testing.T) {
	db, mock, setupErr := sqlmock.New()
	if setupErr != nil {
		t.Fatalf("failed to create sqlmock: %v", setupErr)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	if err := InTx(context.Background(), db, func(*Queries) error { return nil }); err != nil {
		t.Errorf("InTx() error = %v", err)
	}

	if expectErr := mock.ExpectationsWereMet(); expectErr != nil {
		t.Errorf("unfulfilled expectations: %v", expectErr)
	}
}
