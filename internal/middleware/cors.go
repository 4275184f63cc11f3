package middleware

import (
	"net/http"
)

// CORS returns middleware that sets Access-Control-* headers and answers
// OPTIONS preflight requests.
//
// TWO POLICIES:
// The frontend is normally developed with Live Server on a fixed origin, so
// the default deployment allows exactly one origin (credentials included).
// Some deployments instead pass "*", which reflects whatever Origin the
// request carries — that makes the API callable from any page on the web and
// should only be used where that is a deliberate choice. server.New logs a
// warning when it sees it.
//
// Requests from a disallowed origin still execute; they just get no
// Access-Control-Allow-Origin header, so the browser withholds the response
// from the calling page. That is how CORS works — it is a browser-side
// gate, not server-side auth.
func CORS(allowedOrigin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			switch {
			case allowedOrigin == "*" && origin != "":
				// Reflect-any mode. Reflecting the origin (rather than
				// sending a literal *) keeps credentialed requests working,
				// which is exactly what makes this mode dangerous.
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
			case origin == allowedOrigin && origin != "":
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
				w.Header().Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				w.Header().Set("Access-Control-Max-Age", "86400")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
