package orchestrator

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"fmt"
	"io"
)

// DecodeAttachments turns base64-encoded gzipped PDFs into raw PDF bytes.
// Any undecodable attachment fails the whole request; attachments are
// small and user-supplied, so a partial set would silently change the
// question being asked.
func DecodeAttachments(attachments []string) ([][]byte, error) {
	out := make([][]byte, 0, len(attachments))
	for i, att := range attachments {
		compressed, err := base64.StdEncoding.DecodeString(att)
		if err != nil {
			return nil, fmt.Errorf("attachment %d is not valid base64: %w", i, err)
		}
		zr, err := gzip.NewReader(bytes.NewReader(compressed))
		if err != nil {
			return nil, fmt.Errorf("attachment %d is not valid gzip: %w", i, err)
		}
		raw, err := io.ReadAll(zr)
		_ = zr.Close()
		if err != nil {
			return nil, fmt.Errorf("attachment %d failed to decompress: %w", i, err)
		}
		out = append(out, raw)
	}
	return out, nil
}
