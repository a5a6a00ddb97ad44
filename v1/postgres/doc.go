// Package postgres opens PostgreSQL targets for the database package.
//
// It turns a configured URL plus credentials into a GORM handle backed by the
// pgx stdlib driver (or another registered database/sql driver) and classifies
// PostgreSQL errors by SQLSTATE. Pool tuning, routing and statement execution
// live in the database package; this package only knows about PostgreSQL.
//
//	gdb, err := postgres.Open(postgres.Connection{
//		URL:      "postgres://db.internal:5432/orders?sslmode=disable",
//		User:     "orders",
//		Password: secret,
//	})
package postgres
