package fetcher

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var errMalformedDataURI = errors.New("malformed data URI")

// decodeDataURI decodes data:[<mediatype>][;base64],<data>. Payloads without
// ;base64 are percent-decoded.
func decodeDataURI(uri string) ([]byte, string, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, "", fmt.Errorf("%w: missing data: prefix", errMalformedDataURI)
	}

	commaIdx := strings.Index(uri, ",")
	if commaIdx < 0 {
		return nil, "", fmt.Errorf("%w: no comma found", errMalformedDataURI)
	}

	header := uri[5:commaIdx]
	encoded := uri[commaIdx+1:]

	mimeType, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		s, err := url.PathUnescape(encoded)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %w", errMalformedDataURI, err)
		}
		return []byte(s), mimeType, nil
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode base64: %w", err)
	}
	return data, mimeType, nil
}
