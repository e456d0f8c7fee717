package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ft "github.com/vd09-projects/relctx/internal/ftdata"
	"github.com/vd09-projects/relctx/internal/model"
	"github.com/vd09-projects/relctx/internal/notify"
	"github.com/vd09-projects/relctx/internal/stream"
)

const serviceSrc = `package com.acme.service;

import com.acme.model.Address;
import com.acme.model.User;

public class UserService {
    private Address home;

    public User load(Address a) {
        User u = find(a);
        return u;
    }

    private User find(Address a) {
        String city = a.toString();
        return null;
    }
}
`

var cliFixture = map[string]string{
	"pom.xml": "<project/>",
	"src/com/acme/model/User.java": `package com.acme.model;

public class User {
    private String name;
}
`,
	"src/com/acme/model/Address.java": `package com.acme.model;

public class Address {
    private String city;
}
`,
	"src/com/acme/service/UserService.java": serviceSrc,
}

func newRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range cliFixture {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

// execute runs the root command; flags keep their values between runs, so
// callers pass every flag they rely on.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestScanWritesRecords(t *testing.T) {
	root := newRepo(t)
	out := filepath.Join(t.TempDir(), "records.jsonl")

	_, err := execute(t, "scan", "--repo", root, "--lang", "java", "--out", out, "--no-related=false")
	require.NoError(t, err)

	r, err := stream.NewJSONLReader[model.Record](out, nil)
	require.NoError(t, err)
	defer r.Close()
	recs, err := r.ReadAll()
	require.NoError(t, err)

	bySymbol := map[string]model.Record{}
	for _, rec := range recs {
		bySymbol[rec.Symbol] = rec
	}
	load, ok := bySymbol["com.acme.service.UserService.load"]
	require.True(t, ok, "records: %v", bySymbol)
	assert.Equal(t, "java", load.Lang)
	assert.Equal(t, "method", load.Kind)
	assert.Equal(t, "com.acme.service.UserService", load.Owner)
	assert.Equal(t, filepath.Base(root), load.Repo)

	var related []string
	for _, ref := range load.Related {
		related = append(related, ref.Symbol)
	}
	assert.ElementsMatch(t, []string{"com.acme.model.Address", "com.acme.model.User"}, related)
	assert.Contains(t, load.Context, "public class Address")

	require.NotNil(t, load.CallGraph)
	assert.Equal(t, []model.Edge{{Symbol: "com.acme.service.UserService.find", Path: "src/com/acme/service/UserService.java"}}, load.CallGraph.Callees)
	require.NotNil(t, load.Selection)
	assert.Equal(t, "public", load.Selection.Visibility)

	find := bySymbol["com.acme.service.UserService.find"]
	require.NotNil(t, find.Selection)
	assert.Equal(t, 1, find.Selection.FanIn)
	require.NotEmpty(t, find.Neighbors, "lines above find")
}

func TestRelatedJSON(t *testing.T) {
	root := newRepo(t)

	got, err := execute(t, "related", "--repo", root, "--lang", "java", "--json=true", "UserService.load")
	require.NoError(t, err)

	var res relatedResult
	require.NoError(t, json.Unmarshal([]byte(got), &res))
	assert.Equal(t, "com.acme.service.UserService.load", res.Symbol)
	assert.Equal(t, "com.acme.service.UserService", res.Owner)
	assert.ElementsMatch(t, []string{"com.acme.model.Address", "com.acme.model.User"}, res.Related)
}

func TestRelatedUnknownSymbol(t *testing.T) {
	root := newRepo(t)
	_, err := execute(t, "related", "--repo", root, "--lang", "java", "--json=false", "NoSuchThing")
	assert.Error(t, err)
}

func TestCompleteInsideMethod(t *testing.T) {
	root := newRepo(t)
	off := strings.Index(serviceSrc, "User u = find")

	got, err := execute(t, "complete", "--repo", root, "--lang", "java",
		"src/com/acme/service/UserService.java", strconv.Itoa(off))
	require.NoError(t, err)
	assert.Contains(t, got, "private User find(Address a)")
	assert.Contains(t, got, "public class User")
}

func TestCompleteOutsideDecls(t *testing.T) {
	root := newRepo(t)
	_, err := execute(t, "complete", "--repo", root, "--lang", "java",
		"src/com/acme/service/UserService.java", "1:1")
	assert.Error(t, err)
}

func TestNotifyKeepsHistory(t *testing.T) {
	root := newRepo(t)

	got, err := execute(t, "notify", "--repo", root, "--type", "warning", "--url", "", "--debug=false", "--open=false", "disk", "almost", "full")
	require.NoError(t, err)
	assert.Contains(t, got, "[warning]")
	assert.Contains(t, got, "disk almost full")

	hist, err := notify.ReadHistory(filepath.Join(root, ".relctx", "notifications.jsonl"))
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, notify.Warning, hist[0].Type)

	got, err = execute(t, "notifications", "--repo", root, "--limit", "5")
	require.NoError(t, err)
	assert.Contains(t, got, "disk almost full")
}

func TestNotifyDebugIsGated(t *testing.T) {
	root := newRepo(t)

	got, err := execute(t, "notify", "--repo", root, "--type", "info", "--url", "", "--debug=true", "--open=false", "trace")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNotifyOpenPrintsToCommandOutput(t *testing.T) {
	root := newRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, ".relctx.yaml"), []byte("notification:\n  browser: print\n"), 0o644))

	got, err := execute(t, "notify", "--repo", root, "--type", "info", "--url", "https://example.com/docs", "--text", "", "--debug=false", "--open=true", "read", "the", "docs")
	require.NoError(t, err)
	assert.Contains(t, got, "read the docs")
	assert.Contains(t, got, "https://example.com/docs\n")
}

func TestVersionUpToDate(t *testing.T) {
	root := newRepo(t)

	got, err := execute(t, "version", "--repo", root, "--check", "--install=false", "--latest", "v0.0.0-dev")
	require.NoError(t, err)
	assert.Contains(t, got, "relctx v0.0.0-dev")
}

func TestDatasetFromScan(t *testing.T) {
	root := newRepo(t)
	dir := t.TempDir()
	scanned := filepath.Join(dir, "scan.jsonl")
	samples := filepath.Join(dir, "ft.jsonl")

	_, err := execute(t, "scan", "--repo", root, "--lang", "java", "--out", scanned, "--no-related=false")
	require.NoError(t, err)
	_, err = execute(t, "dataset", "--repo", root, "--in", scanned, "--out", samples, "--strategy", "completion")
	require.NoError(t, err)

	r, err := stream.NewJSONLReader[ft.FineTuneRecord](samples, nil)
	require.NoError(t, err)
	defer r.Close()
	got, err := r.ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, got)
	for _, s := range got {
		assert.Equal(t, "completion", s.Strategy)
		require.Len(t, s.Conversations, 3)
	}
}

func TestDatasetRejectsUnknownStrategy(t *testing.T) {
	root := newRepo(t)
	in := filepath.Join(t.TempDir(), "empty.jsonl")
	require.NoError(t, os.WriteFile(in, nil, 0o644))

	_, err := execute(t, "dataset", "--repo", root, "--in", in, "--strategy", "haiku")
	assert.Error(t, err)
}
