package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/wine-cellar/internal/model"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		layoutJSON = false
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestParseLayoutArgs(t *testing.T) {
	l, err := parseLayoutArgs([]string{"5,6", "6", " 6 , 6 "})
	require.NoError(t, err)
	assert.Equal(t, model.Layout{5, 6, 6, 6, 6}, l)

	_, err = parseLayoutArgs([]string{"5,x"})
	assert.Error(t, err)
}

func TestLayoutCommand(t *testing.T) {
	out, err := run(t, "layout", "2,3")
	require.NoError(t, err)
	assert.Equal(t, "row 1: oo\nrow 2: ooo\n2 rows, 5 rack slots\n", out)

	_, err = run(t, "layout", "2,-1")
	assert.ErrorIs(t, err, model.ErrInvalidLayout)
}

func TestLayoutCommandJSON(t *testing.T) {
	out, err := run(t, "layout", "--json", "5", "6", "6", "6", "6")
	require.NoError(t, err)

	var got struct {
		Capacity int              `json:"capacity"`
		Slots    []model.Position `json:"slots"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 29, got.Capacity)
	assert.Len(t, got.Slots, 29)
}

func TestMigrateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cellar.db")
	out, err := run(t, "--db-driver", "sqlite", "--sqlite-path", path, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "ok  cellar_spaces")

	_, err = run(t, "--db-driver", "mysql", "--db-dsn", "", "migrate")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "cellarctl dev\n", out)
}
