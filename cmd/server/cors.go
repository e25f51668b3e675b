package main

import (
	"net/http"
	"slices"

	"github.com/rs/cors"
)

// corsOptions allows credentialed requests only from an explicit origin list.
// With a wildcard, rs/cors would reflect any origin and let it send the
// session cookie.
func corsOptions(origins []string) cors.Options {
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: len(origins) > 0 && !slices.Contains(origins, "*"),
	}
}
