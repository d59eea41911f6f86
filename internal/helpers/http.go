package helpers

import (
	"encoding/json"
	"net/http"
	"strconv"
)

type errorResponse struct {
	Error string `json:"error"`
}

// RespondError writes {"error": "<message>"} with the given status. Content-Length is set so the
// response is complete once flushed, even if the handler goroutine is unwound right after.
func RespondError(rw http.ResponseWriter, statusCode int, err error) {
	message := ""
	if err != nil {
		message = err.Error()
	}
	respBody, _ := json.Marshal(errorResponse{Error: message})

	rw.Header().Set("Content-Type", "application/json")
	rw.Header().Set("Content-Length", strconv.Itoa(len(respBody)))
	rw.WriteHeader(statusCode)
	_, _ = rw.Write(respBody)
	if f, ok := rw.(http.Flusher); ok {
		f.Flush()
	}
}
