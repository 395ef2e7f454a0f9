package database

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Connect opens the SQLite database at the provided path.
func Connect(path string, log *zap.Logger) *sqlx.DB {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		log.Fatal("failed to connect to database", zap.String("path", path), zap.Error(err))
	}
	db.SetMaxOpenConns(1)
	return db
}
