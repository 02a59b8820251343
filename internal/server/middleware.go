package server

import (
	"net/http"

	"github.com/davseby/adgateway/internal/proxy"
	"github.com/rs/xid"
)

// requestID ensures that every request and its response carry a request
// identifier. A valid inbound identifier is reused, otherwise a new one
// is generated.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(proxy.HeaderRequestID)

		if _, err := xid.FromString(id); err != nil {
			id = xid.New().String()
			r.Header.Set(proxy.HeaderRequestID, id)
		}

		w.Header().Set(proxy.HeaderRequestID, id)

		next.ServeHTTP(w, r)
	})
}
