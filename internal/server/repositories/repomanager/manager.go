// Package repomanager hands out repositories bound to a specific database
// handle, so services can run the same repository code over *sql.DB or a
// transaction started with dbx.WithTx.
package repomanager

import (
	"context"
	"database/sql"

	"taskboard/internal/dbx"
	"taskboard/internal/server/repositories/refreshtokens"
	"taskboard/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
