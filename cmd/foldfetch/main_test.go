// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vaishnav14220/chem-canvas-sub005/internal/archive"
	"github.com/Vaishnav14220/chem-canvas-sub005/pkg/types"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "models", "AF-P69905-F1.pdb")

	require.NoError(t, writeFileAtomic(path, []byte("ATOM\n")))
	require.NoError(t, writeFileAtomic(path, []byte("ATOM\nEND\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ATOM\nEND\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestReadIDs(t *testing.T) {
	input := "P69905\n\n# hemoglobins\n  P68871  \n"

	ids, err := readIDs(strings.NewReader(input), "-")
	require.NoError(t, err)
	assert.Equal(t, []string{"P69905", "P68871"}, ids)

	path := filepath.Join(t.TempDir(), "ids.txt")
	require.NoError(t, os.WriteFile(path, []byte(input), 0o644))
	ids, err = readIDs(nil, path)
	require.NoError(t, err)
	assert.Equal(t, []string{"P69905", "P68871"}, ids)

	_, err = readIDs(nil, filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger("debug")
	assert.NoError(t, err)
	_, err = newLogger("chatty")
	assert.Error(t, err)
}

func TestPredictionsCommand(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/prediction/P69905" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `[{"entryId": "AF-P69905-F1", "uniprotAccession": "P69905", "latestVersion": 4}]`)
	}))
	defer ts.Close()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{
		"predictions", "P69905",
		"--base-url", ts.URL,
		"--format", "json",
		"--rate-limit", "1ms",
		"--secrets-dir", t.TempDir(),
	})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())

	var preds []types.Prediction
	require.NoError(t, json.Unmarshal(out.Bytes(), &preds))
	require.Len(t, preds, 1)
	assert.Equal(t, "AF-P69905-F1", preds[0].EntryID)
	assert.Equal(t, "4", preds[0].StructureVersion)
}

func TestArchiveGetCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "predictions.db")
	store, err := archive.Open(dbPath)
	require.NoError(t, err)
	_, err = store.Save(context.Background(), []types.Prediction{
		{EntryID: "AF-P69905-F1", AccessionID: "P69905", StructureVersion: "3"},
		{EntryID: "AF-P69905-F1", AccessionID: "P69905", StructureVersion: "4"},
	})
	require.NoError(t, err)
	require.NoError(t, store.Close())

	run := func(id string) (string, error) {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetArgs([]string{
			"archive", "get", id,
			"--archive-path", dbPath,
			"--format", "json",
			"--secrets-dir", t.TempDir(),
		})
		err := rootCmd.Execute()
		return out.String(), err
	}
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	out, err := run("AF-P69905-F1")
	require.NoError(t, err)
	var entry archive.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entry))
	assert.Equal(t, "P69905", entry.Prediction.AccessionID)
	assert.Equal(t, "4", entry.Prediction.StructureVersion)

	_, err = run("AF-Q00000-F1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AF-Q00000-F1 is not in the archive")
}

func TestClientConfig_StartsFromDefaults(t *testing.T) {
	cfg := clientConfig(rootCmd)
	defaults := types.DefaultClientConfig()
	assert.Equal(t, defaults.CacheTTL, cfg.CacheTTL)
	assert.Equal(t, defaults.MaxAttempts, cfg.MaxAttempts)
	assert.True(t, cfg.CacheEnabled)
}
