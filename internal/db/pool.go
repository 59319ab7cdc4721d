package db

import (
	"context"
	"fmt"
	"net"
	"net/url"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NewDBPoolParams struct {
	DBHost         string
	DBPort         string
	DBName         string
	DBUser         string
	DBPassword     string
	MaxConns       int32
	TracingEnabled bool
}

func (p NewDBPoolParams) connString() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(p.DBHost, p.DBPort),
		Path:   "/" + p.DBName,
	}
	user := p.DBUser
	if user == "" {
		user = "postgres"
	}
	if p.DBPassword != "" {
		u.User = url.UserPassword(user, p.DBPassword)
	} else {
		u.User = url.User(user)
	}
	return u.String()
}

func NewDBPool(ctx context.Context, params NewDBPoolParams) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(params.connString())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	if params.MaxConns > 0 {
		poolConfig.MaxConns = params.MaxConns
	}
	if params.TracingEnabled {
		poolConfig.ConnConfig.Tracer = otelpgx.NewTracer()
	}

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	return db, nil
}
