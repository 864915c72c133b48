package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/geoscore/internal/domain/geoscore"
)

func TestSanitizeEndpoint(t *testing.T) {
	require.Equal(t, "acct.r2.cloudflarestorage.com", sanitizeEndpoint("https://acct.r2.cloudflarestorage.com"))
	require.Equal(t, "localhost:9000", sanitizeEndpoint("http://localhost:9000/bucket"))
	require.Equal(t, "acct.r2.cloudflarestorage.com", sanitizeEndpoint("  acct.r2.cloudflarestorage.com/path  "))
	require.Equal(t, "minio:9000", sanitizeEndpoint("minio:9000"))
}

func TestPutOptions(t *testing.T) {
	meta := map[string]string{geoscore.MetaLocationKey: "123-main-st", geoscore.MetaRunID: "run-1"}
	opts := putOptions(geoscore.Object{Key: "k", Data: []byte("{}"), Metadata: meta})

	require.Equal(t, "application/json", opts.ContentType)
	require.Equal(t, snapshotCacheControl, opts.CacheControl)
	require.Equal(t, meta, opts.UserMetadata)
	require.True(t, opts.DisableMultipart)

	opts = putOptions(geoscore.Object{ContentType: "application/x-ndjson"})
	require.Equal(t, "application/x-ndjson", opts.ContentType)
}
