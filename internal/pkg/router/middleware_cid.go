package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/duoweb/internal/pkg/instrument"
	"github.com/shandysiswandi/duoweb/internal/pkg/uid"
)

const (
	// HeaderCorrelationID is set on every response and accepted on requests.
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is accepted as an alternative from upstream proxies.
	HeaderRequestID = "X-Request-ID"

	maxCorrelationIDLen = 128
)

// incomingCID returns the caller supplied id, trimmed and capped. Values
// carrying line breaks are ignored.
func incomingCID(r *http.Request) string {
	for _, name := range []string{HeaderCorrelationID, HeaderRequestID} {
		v := r.Header.Get(name)
		if strings.ContainsAny(v, "\r\n") {
			continue
		}
		if v = strings.TrimSpace(v); v != "" {
			if len(v) > maxCorrelationIDLen {
				v = v[:maxCorrelationIDLen]
			}
			return v
		}
	}
	return ""
}

func middlewareCorrelationID(gen uid.StringID) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := incomingCID(r)
			if cid == "" && gen != nil {
				cid = gen.Generate()
			}

			if cid != "" {
				w.Header().Set(HeaderCorrelationID, cid)
				r = r.WithContext(instrument.SetCorrelationID(r.Context(), cid))
			}

			next.ServeHTTP(w, r)
		})
	}
}
