package repository

import "errors"

// ErrNotFound возвращается реализациями, когда запись отсутствует
var ErrNotFound = errors.New("record not found")
