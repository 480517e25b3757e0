package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resalelab/carprice/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logging.DEBUG, ParseLevel(config.Debug))
	assert.Equal(t, logging.WARNING, ParseLevel(config.Warn))
	assert.Equal(t, logging.ERROR, ParseLevel(config.Error))
	assert.Equal(t, logging.INFO, ParseLevel("verbose"))
}

func TestLoggingBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		Info("logger usable without InitLogger")
		Debugf("debug %d", 1)
	})
}

func TestFileBackendRecordsDebug(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CARPRICE_LOG_FOLDER", dir)

	InitLogger(logging.ERROR)
	t.Cleanup(CloseLogger)

	Debug("written to file only")

	data, err := os.ReadFile(filepath.Join(dir, "carprice.log"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "written to file only"))
	assert.Equal(t, filepath.Join(dir, "carprice.log"), LogFilePath())
}
