package workerscript

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSource_Embedded(t *testing.T) {
	s, err := NewSource("")
	require.NoError(t, err)

	script := string(s.Script())
	assert.Contains(t, script, "export default")
	assert.Contains(t, script, KVBindingName)
	assert.Contains(t, script, SecretName)
	assert.Contains(t, script, MarkerHeader)
}

func TestEmbeddedScript_VisitCallback(t *testing.T) {
	s, err := NewSource("")
	require.NoError(t, err)

	script := string(s.Script())

	// The site identifier travels in a header, not the JSON body.
	assert.Contains(t, script, SiteHeader)
	assert.NotContains(t, script, "site_id")

	for _, field := range []string{"path:", "userAgent:", "botType:", "variantServed:", "timestamp:"} {
		assert.Contains(t, script, field, "visit payload field %q", field)
	}
}

func TestNewSource_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker.js")
	require.NoError(t, os.WriteFile(path, []byte("export default {}"), 0600))

	s, err := NewSource(path)
	require.NoError(t, err)
	assert.Equal(t, "export default {}", string(s.Script()))
}

func TestNewSource_MissingOverride(t *testing.T) {
	_, err := NewSource(filepath.Join(t.TempDir(), "absent.js"))
	require.Error(t, err)
}

func TestWatch_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "worker.js")
	require.NoError(t, os.WriteFile(path, []byte("// v1"), 0600))

	s, err := NewSource(path)
	require.NoError(t, err)

	stop := make(chan struct{})
	defer close(stop)
	require.NoError(t, s.Watch(stop))

	require.NoError(t, os.WriteFile(path, []byte("// v2"), 0600))

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(string(s.Script()), "v2") {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("script was not reloaded after file change")
}
