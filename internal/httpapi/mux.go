// Package httpapi assembles the dashboard's HTTP server: mux, healthcheck
// and request logging.
package httpapi

import (
	"database/sql"
	"net/http"
)

func NewMux(db *sql.DB) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, db)
	return mux
}
