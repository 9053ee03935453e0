package repository

import (
	"errors"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a referenced row does not exist or is not
// visible to the caller. Handlers map it to 404; every other error is a
// storage failure.
var ErrNotFound = errors.New("not found")

type Repos struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Repos { return &Repos{db: db} }
