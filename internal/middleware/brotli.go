package middleware

import (
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

// Responses below this size ship identity-coded: the brotli container
// overhead beats the savings on small envelopes.
const brotliMinBytes = 1024

// brotliResponseWriter defers the encoding decision until enough bytes
// have accumulated to be worth compressing.
type brotliResponseWriter struct {
	gin.ResponseWriter
	bw       *brotli.Writer
	pending  []byte
	encoding string // "" until decided, then "identity" or "br"
}

func (w *brotliResponseWriter) Write(p []byte) (int, error) {
	if w.encoding == "br" {
		return w.bw.Write(p)
	}
	w.pending = append(w.pending, p...)
	if len(w.pending) < brotliMinBytes {
		return len(p), nil
	}

	w.encoding = "br"
	w.Header().Set("Content-Encoding", "br")
	w.Header().Del("Content-Length")
	if _, err := w.bw.Write(w.pending); err != nil {
		return 0, err
	}
	w.pending = nil
	return len(p), nil
}

func (w *brotliResponseWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// Flush keeps streaming responses working if one slips past the skip
// list: an undecided body drops to identity coding, a compressed one
// emits a complete brotli chunk.
func (w *brotliResponseWriter) Flush() {
	if w.encoding == "br" {
		_ = w.bw.Flush()
	} else {
		w.finishIdentity()
	}
	w.ResponseWriter.Flush()
}

func (w *brotliResponseWriter) finishIdentity() {
	if w.encoding == "br" {
		return
	}
	w.encoding = "identity"
	if len(w.pending) > 0 {
		_, _ = w.ResponseWriter.Write(w.pending)
		w.pending = nil
	}
}

// Brotli compresses responses for clients that advertise br support.
// SSE and WebSocket upgrades pass through untouched since both break
// behind a buffering writer.
func Brotli() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isStreamingRequest(c) || !acceptsBrotli(c.Request) {
			c.Next()
			return
		}

		c.Header("Vary", "Accept-Encoding")

		w := &brotliResponseWriter{
			ResponseWriter: c.Writer,
			bw:             brotli.NewWriterLevel(c.Writer, brotli.DefaultCompression),
		}
		c.Writer = w

		defer func() {
			if w.encoding == "br" {
				if err := w.bw.Close(); err != nil {
					_ = c.Error(err)
				}
				return
			}
			w.finishIdentity()
		}()

		c.Next()
	}
}

func isStreamingRequest(c *gin.Context) bool {
	if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		return true
	}
	return strings.Contains(c.GetHeader("Accept"), "text/event-stream")
}

// acceptsBrotli tolerates q-values ("br;q=0.8") that a plain substring
// match on Accept-Encoding would mishandle.
func acceptsBrotli(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		name, _, _ := strings.Cut(strings.TrimSpace(enc), ";")
		if strings.EqualFold(name, "br") {
			return true
		}
	}
	return false
}
