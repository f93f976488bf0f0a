// Package migrations содержит SQL-схему сервиса
package migrations

import "embed"

//go:embed *.up.sql
var FS embed.FS
