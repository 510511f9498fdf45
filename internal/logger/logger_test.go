package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		level   zapcore.Level
		wantErr bool
	}{
		{name: "defaults", cfg: Config{}, level: zapcore.InfoLevel},
		{name: "debug json", cfg: Config{Level: "debug", Encoding: "json"}, level: zapcore.DebugLevel},
		{name: "development", cfg: Config{Level: "warn", Development: true}, level: zapcore.WarnLevel},
		{name: "bad level", cfg: Config{Level: "loud"}, wantErr: true},
		{name: "bad encoding", cfg: Config{Encoding: "xml"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.True(t, log.Core().Enabled(tt.level))
			assert.False(t, log.Core().Enabled(tt.level-1))
		})
	}
}

func TestNew_OutputPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")

	log, err := New(Config{Encoding: "json", OutputPaths: []string{path}})
	require.NoError(t, err)

	log.Info("merged", zap.Int("records", 3))
	require.NoError(t, log.Sync())

	assert.FileExists(t, path)
}

func TestNop(t *testing.T) {
	assert.False(t, Nop().Core().Enabled(zapcore.FatalLevel))
}
