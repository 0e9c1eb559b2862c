package observability

import "net/http"

// healthBody is the static liveness/readiness response. The ingest run is
// a one-shot in-memory pass, so there is no subsystem whose readiness
// could lag liveness.
const healthBody = `{"status":"ok"}`

// HealthHandler returns an [http.Handler] for liveness checks at /healthz.
// It always returns HTTP 200 with {"status":"ok"}.
func HealthHandler() http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, _ *http.Request) {
		rw.Header().Set("Content-Type", "application/json")
		rw.WriteHeader(http.StatusOK)

		_, err := rw.Write([]byte(healthBody))
		if err != nil {
			return
		}
	})
}

// ReadyHandler returns an [http.Handler] for readiness checks at /readyz.
func ReadyHandler() http.Handler {
	return HealthHandler()
}
