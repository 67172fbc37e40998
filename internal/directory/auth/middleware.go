package auth

import (
	"net/http"
	"strings"
)

// protectedRoutes are the HTTP routes fronting protected gRPC methods.
var protectedRoutes = map[string]string{
	http.MethodPost + " /v1/catalog/reload": ReloadCatalogMethod,
}

// HTTPMiddleware applies the interceptor's checks to the gateway routes.
func HTTPMiddleware(next http.Handler, jwtSecret string) http.Handler {
	verifier := NewVerifier(jwtSecret)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + strings.TrimSuffix(r.URL.Path, "/")
		if _, ok := protectedRoutes[route]; !ok {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := verifier.Verify(r.Header.Get("Authorization"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), claims)))
	})
}
