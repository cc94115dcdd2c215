package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"doctree/internal/config"
	"doctree/internal/exporter"
	"doctree/internal/logger"
	"doctree/internal/srctree"
	"doctree/internal/ui"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRoot = "../../testdata/junit4_sample"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	logger.Close()
	return out.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doctree.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestGenerateCommand(t *testing.T) {
	outDir := t.TempDir()
	overrides, err := filepath.Abs("../../testdata/overrides/thirdparty.yaml")
	require.NoError(t, err)
	cfgPath := writeConfig(t, "analysis:\n  framework: junit4\n  override_files:\n    - "+overrides+"\n")

	out, err := execute(t, "generate", "-q", "-c", cfgPath,
		"--root", sampleRoot, "--output", outDir, "--format", "json")
	require.NoError(t, err, out)

	f, err := os.Open(filepath.Join(outDir, "srctree.json"))
	require.NoError(t, err)
	defer f.Close()
	tree, err := exporter.Decode("json", f)
	require.NoError(t, err)

	login, ok := tree.RootClasses.Get("com.example.LoginTest")
	require.True(t, ok)
	assert.Equal(t, []string{
		"com.example.LoginTest.testLogin()",
		"com.example.LoginTest.loginFlow()",
	}, login.TestMethodKeys())

	bar, ok := tree.SubFuncs.Get("com.example.support.Helper.bar()")
	require.True(t, ok)
	require.NotNil(t, bar.TestDoc)
	assert.Equal(t, "clicks button", *bar.TestDoc)

	lib, ok := tree.SubFuncs.Get(srctree.OverrideKey("thirdparty.Lib.unknownCall"))
	require.True(t, ok, "override file entries are merged")
	assert.Equal(t, "calls the library", *lib.TestDoc)

	assert.FileExists(t, filepath.Join(outDir, logFileName))
	t.Logf("✅ generated %d root functions", tree.RootFuncs.Len())
}

func TestGenerateYAMLIsDefault(t *testing.T) {
	outDir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "missing.yaml")

	out, err := execute(t, "generate", "-q", "-c", cfgPath, "--root", sampleRoot, "--output", outDir)
	require.NoError(t, err, out)
	assert.FileExists(t, filepath.Join(outDir, "srctree.yaml"))
	assert.NoFileExists(t, filepath.Join(outDir, "srctree.json"))
}

func TestGenerateSeveralFormats(t *testing.T) {
	outDir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "missing.yaml")

	out, err := execute(t, "generate", "-q", "-c", cfgPath,
		"--root", sampleRoot, "--output", outDir, "--format", "yaml,xlsx,yml")
	require.NoError(t, err, out)
	assert.FileExists(t, filepath.Join(outDir, "srctree.yaml"))
	assert.FileExists(t, filepath.Join(outDir, "srctree.xlsx"))

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".doctree-", "temporary files are cleaned up")
	}
}

func TestGenerateRejectsInvalidConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "missing.yaml")

	_, err := execute(t, "generate", "-q", "-c", cfgPath,
		"--root", sampleRoot, "--output", t.TempDir(), "--format", "docx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")

	_, err = execute(t, "generate", "-q", "-c", cfgPath,
		"--root", filepath.Join(t.TempDir(), "nope"), "--output", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "root_dir")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, appName)
	assert.Contains(t, out, Version)
}

func copyTree(t *testing.T, src, dst string) {
	t.Helper()
	err := filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0644)
	})
	require.NoError(t, err)
}

func waitForFile(t *testing.T, path string) {
	t.Helper()
	require.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, 10*time.Second, 50*time.Millisecond, "waiting for %s", path)
}

func TestRunWatchRegenerates(t *testing.T) {
	logger.InitConsole(io.Discard, false)

	root := t.TempDir()
	copyTree(t, sampleRoot, root)
	outDir := t.TempDir()

	cfg, err := config.LoadWithOverrides(filepath.Join(t.TempDir(), "missing.yaml"), map[string]interface{}{
		"project.root_dir": root,
		"output.dir":       outDir,
	})
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runWatch(ctx, cfg, func() *ui.Pipeline { return newPipeline(io.Discard, true) })
	}()

	output := cfg.GetOutputPath("yaml")
	waitForFile(t, output)
	require.NoError(t, os.Remove(output))

	// Give the watcher time to register before touching sources
	time.Sleep(200 * time.Millisecond)
	extra := filepath.Join(root, "com", "example", "ExtraTest.java")
	require.NoError(t, os.WriteFile(extra, []byte(`package com.example;

import org.junit.Test;

public class ExtraTest {
    @Test
    public void extra() {
    }
}
`), 0644))

	waitForFile(t, output)
	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	tree, err := exporter.Decode("yaml", f)
	require.NoError(t, err)
	_, ok := tree.RootFuncs.Get("com.example.ExtraTest.extra()")
	assert.True(t, ok, "regenerated tree contains the new test")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
