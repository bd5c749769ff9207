package restapi

import (
	"fmt"
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

// precompressedContentTypes are sent as they are: PNG and xlsx bodies are already deflated.
var precompressedContentTypes = []string{"image/png", xlsxContentType}

// CompressionConfig controls gzip for JSON, page and script responses.
type CompressionConfig struct {
	// MinSize is the smallest body in bytes worth compressing.
	MinSize int
	// Level is the gzip level, 1-9.
	Level int
}

func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{MinSize: 1024, Level: 6}
}

// NewCompressionMiddleware gzips responses for clients that accept it, skipping chart
// images and workbooks.
func NewCompressionMiddleware(config CompressionConfig) (func(http.Handler) http.Handler, error) {
	wrap, err := gzhttp.NewWrapper(
		gzhttp.MinSize(config.MinSize),
		gzhttp.CompressionLevel(config.Level),
		gzhttp.ExceptContentTypes(precompressedContentTypes),
	)
	if err != nil {
		return nil, fmt.Errorf("compression middleware: %w", err)
	}
	return func(next http.Handler) http.Handler { return wrap(next) }, nil
}
