package orchestrator

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeAttachment(t *testing.T, raw []byte) string {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(raw)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestDecodeAttachments(t *testing.T) {
	pdf := []byte("%PDF-1.7 fake content")
	decoded, err := DecodeAttachments([]string{encodeAttachment(t, pdf)})
	require.NoError(t, err)
	require.Len(t, decoded, 1)
	assert.Equal(t, pdf, decoded[0])
}

func TestDecodeAttachmentsEmpty(t *testing.T) {
	decoded, err := DecodeAttachments(nil)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestDecodeAttachmentsBadBase64(t *testing.T) {
	_, err := DecodeAttachments([]string{"not base64!!!"})
	assert.Error(t, err)
}

func TestDecodeAttachmentsBadGzip(t *testing.T) {
	raw := base64.StdEncoding.EncodeToString([]byte("plain, not gzipped"))
	_, err := DecodeAttachments([]string{raw})
	assert.Error(t, err)
}
