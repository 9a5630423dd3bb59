package migrate

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersions_Embedded(t *testing.T) {
	got, err := Versions()
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, "0001_alert_receivers", got[0])
	assert.IsNonDecreasing(t, got)
}

func TestVersions_SkipsNonSQL(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/0002_b.sql": {Data: []byte("SELECT 1")},
		"migrations/0001_a.sql": {Data: []byte("SELECT 1")},
		"migrations/README.md":  {Data: []byte("docs")},
		"migrations/sub/x.sql":  {Data: []byte("SELECT 1")},
	}
	got, err := versions(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_a", "0002_b"}, got)
}
