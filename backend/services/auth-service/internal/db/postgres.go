package db

import (
	"context"
	"database/sql"

	libdb "fueltracker/backend/libs/db"
	"fueltracker/backend/services/auth-service/internal/repository"
)

// NewPostgres connects to Postgres and creates the users table when missing.
func NewPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	sqlDB, err := libdb.NewPostgresDB(dsn)
	if err != nil {
		return nil, err
	}
	if err := libdb.EnsureSchema(ctx, sqlDB, repository.UsersSchema); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return sqlDB, nil
}
