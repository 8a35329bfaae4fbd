// json.go — shared request decoding. Every handler that parses its body
// decodes through this so a malformed body is uniformly a 400 with no
// state mutation (spec §4.1 "Error policy"); the diagnostic sinks in
// handlers_diagnostic.go read the raw body instead and never reject it.
// Grounded on the teacher's maxPostBodySize pattern
// (internal/server/main_handlers.go) bounding request bodies.
package controlplane

import (
	"encoding/json"
	"io"
	"net/http"
)

const maxBodyBytes = 10 * 1024 * 1024

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	defer r.Body.Close()
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
