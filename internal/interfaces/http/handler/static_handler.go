package handler

import "net/http"

// NewStaticHandler serves files under root for GET and HEAD requests.
// Missing files answer 404, directories follow http.FileServer rules.
func NewStaticHandler(root string) http.Handler {
	return http.FileServer(http.Dir(root))
}
