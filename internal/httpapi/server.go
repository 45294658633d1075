package httpapi

import "net/http"

func NewServer(addr string, mux *http.ServeMux) *http.Server {
	return &http.Server{
		Addr:    addr,
		Handler: requestLogger(mux),
	}
}
