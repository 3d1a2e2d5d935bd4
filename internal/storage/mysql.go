package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver

	"checkin/internal/config"
)

const (
	createSnapshots = `CREATE TABLE IF NOT EXISTS snapshots (
		k VARCHAR(64) NOT NULL PRIMARY KEY,
		data LONGBLOB NOT NULL,
		updated_at DATETIME NOT NULL
	)`
	selectSnapshot = `SELECT data FROM snapshots WHERE k = ?`
	upsertSnapshot = `INSERT INTO snapshots (k, data, updated_at) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE data = VALUES(data), updated_at = VALUES(updated_at)`
)

// MySQL keeps snapshots as rows of the snapshots table.
type MySQL struct {
	db *sql.DB
}

func NewMySQL(conf *config.Config) (*MySQL, error) {
	if !conf.MySQL.Enabled {
		return nil, fmt.Errorf("mysql is disabled in configuration")
	}
	connectionURI := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		conf.MySQL.UserName, conf.MySQL.Password, conf.MySQL.HostName, conf.MySQL.Port, conf.MySQL.Database)
	db, err := sql.Open("mysql", connectionURI)
	if err != nil {
		return nil, fmt.Errorf("sql connect: %w", err)
	}

	// try to ping three times; wait for a database to start
	for i := 0; i < 3; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		if i == 2 {
			_ = db.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		time.Sleep(5 * time.Second)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if _, err = db.Exec(createSnapshots); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}
	return &MySQL{db: db}, nil
}

func (s *MySQL) Load(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, selectSnapshot, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select snapshot: %w", err)
	}
	return data, nil
}

func (s *MySQL) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.db.ExecContext(ctx, upsertSnapshot, key, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

func (s *MySQL) Close() error {
	return s.db.Close()
}
