package gzip

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
)

// GzipMiddleware распаковывает тело запроса и сжимает ответ,
// если клиент это поддерживает
func GzipMiddleware(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		// входящее тело в gzip
		if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			zr, err := gzip.NewReader(r.Body)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			defer zr.Close()
			r.Body = zr
		}

		// клиент не принимает gzip
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			h(w, r)
			return
		}

		zw := gzip.NewWriter(w)
		defer zw.Close()

		w.Header().Set("Content-Encoding", "gzip")
		h(&gzipWriter{ResponseWriter: w, zw: zw}, r)
	}
}

type gzipWriter struct {
	http.ResponseWriter
	zw io.Writer
}

func (gw *gzipWriter) Write(b []byte) (int, error) {
	return gw.zw.Write(b)
}
