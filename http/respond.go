package http

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
}

// respondJSON encodes into a buffer first so a failed encode never writes
// a partial body after the header.
func respondJSON(w http.ResponseWriter, status int, payload interface{}) []byte {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return nil
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := buf.Bytes()
	w.Write(body)
	return body
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// cacheKey derives a stable key from the validated (coerced) document;
// Go's map marshaling sorts keys, so equal documents hash identically.
func cacheKey(prefix string, doc map[string]interface{}) string {
	canonical, err := json.Marshal(doc)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(canonical)
	return prefix + ":" + hex.EncodeToString(sum[:])
}
