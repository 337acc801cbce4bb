package repository

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicate       = errors.New("already exists")
	ErrNegativeBalance = errors.New("balance would become negative")
)
