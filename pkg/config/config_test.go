package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_JSON(t *testing.T) {
	path := writeFile(t, "config.json", `{"university": "x", "spaceId": "s1", "token": "t", "unused": 1}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, Config{University: "x", SpaceID: "s1", Token: "t"}, cfg)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "config.yaml", "university: x\nspaceId: s1\ntoken: \" t \"\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "t", cfg.Token)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_Malformed(t *testing.T) {
	path := writeFile(t, "config.json", `{"university": `)

	_, err := Load(path)
	require.Error(t, err)

	var cfgErr *ConfigError
	assert.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, path, cfgErr.Path)
}

func TestParse_MissingFields(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{name: "no university", content: `{"spaceId": "s1", "token": "t"}`, field: "university"},
		{name: "no space", content: `{"university": "x", "token": "t"}`, field: "spaceId"},
		{name: "blank token", content: `{"university": "x", "spaceId": "s1", "token": "   "}`, field: "token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMissingField))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestParse_JSONEscapes(t *testing.T) {
	cfg, err := Parse([]byte(`{"university":"x","spaceId":"s1","token":"r:abc\/def"}`))
	require.NoError(t, err)
	assert.Equal(t, "r:abc/def", cfg.Token)
}

func TestParse_WrongType(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "array university", content: `{"university": ["x"], "spaceId": "s1", "token": "t"}`},
		{name: "numeric spaceId", content: `{"university": "x", "spaceId": 12345, "token": "t"}`},
		{name: "boolean token", content: `{"university": "x", "spaceId": "s1", "token": true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.content))
			require.Error(t, err)
			assert.False(t, errors.Is(err, ErrMissingField))
		})
	}
}
