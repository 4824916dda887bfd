// Package mock provides a stub Recraft server and image fixtures for tests.
package mock

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// ReceivedRequest is what the stub saw in one call.
type ReceivedRequest struct {
	Authorization    string
	ContentType      string
	Prompt           string
	Strength         string
	Filename         string
	ImageContentType string
	Image            []byte
}

// RecraftServer answers every POST with a fixed status and body and records
// the multipart fields it received.
type RecraftServer struct {
	*httptest.Server

	status int
	body   any

	mu       sync.Mutex
	received []ReceivedRequest
}

// NewRecraftServer starts a stub. A string body is written verbatim, any
// other value is JSON encoded.
func NewRecraftServer(status int, body any) *RecraftServer {
	s := &RecraftServer{status: status, body: body}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// NewSuccessServer returns a stub that reports url as the generated image.
func NewSuccessServer(url string) *RecraftServer {
	return NewRecraftServer(http.StatusOK, map[string]any{
		"created": 1700000000,
		"data":    []any{map[string]any{"url": url}},
	})
}

func (s *RecraftServer) Received() []ReceivedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ReceivedRequest(nil), s.received...)
}

func (s *RecraftServer) handle(w http.ResponseWriter, r *http.Request) {
	received := ReceivedRequest{
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
	}

	if err := r.ParseMultipartForm(32 << 20); err == nil {
		received.Prompt = r.FormValue("prompt")
		received.Strength = r.FormValue("strength")
		if file, header, err := r.FormFile("image"); err == nil {
			received.Filename = header.Filename
			received.ImageContentType = header.Header.Get("Content-Type")
			received.Image, _ = io.ReadAll(file)
			file.Close()
		}
	}

	s.mu.Lock()
	s.received = append(s.received, received)
	s.mu.Unlock()

	w.WriteHeader(s.status)
	switch b := s.body.(type) {
	case string:
		w.Write([]byte(b))
	case nil:
	default:
		json.NewEncoder(w).Encode(b)
	}
}
