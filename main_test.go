package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-kit/log/level"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/jsonkit/internal/config"
	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/parser"
	"github.com/mcncl/jsonkit/internal/value"
)

// newTestContext returns a context whose stdout and log lines are captured
func newTestContext(cfg *config.Config) (*Context, *bytes.Buffer, *bytes.Buffer) {
	var stdout, logs bytes.Buffer
	return &Context{
		Debug:  cfg.Dev.Debug,
		Config: cfg,
		Logger: newLogger(&logs, cfg.Dev.Debug),
		Stdout: &stdout,
	}, &stdout, &logs
}

func writeTempJSON(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_SimpleJSON(t *testing.T) {
	// Save original CLI state
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Files = []string{writeTempJSON(t, t.TempDir(), "input.json", `{name: 'John', age: 30, active: true}`)}

	ctx, stdout, _ := newTestContext(config.NewConfig())
	require.NoError(t, run(ctx))
	assert.Equal(t, "{\"name\":\"John\",\"age\":30,\"active\":true}\n", stdout.String())
}

func TestRun_Indented(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Files = []string{writeTempJSON(t, t.TempDir(), "input.json", `{"a": [1, 2], "b": {}}`)}

	cfg := config.NewConfig()
	cfg.Format.Indent = true
	cfg.Format.SoftTabs = true
	cfg.Format.TabWidth = 2
	cfg.Format.NewLine = "\r\n"

	ctx, stdout, _ := newTestContext(cfg)
	require.NoError(t, run(ctx))
	assert.Equal(t, "{\r\n  \"a\": [\r\n    1,\r\n    2\r\n  ],\r\n  \"b\": {}\r\n}\r\n", stdout.String())
}

func TestRun_WithOutputFile(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	dir := t.TempDir()
	CLI.Files = []string{writeTempJSON(t, dir, "input.json", `{"id": 1, "email": "test@example.com"}`)}
	CLI.Output = filepath.Join(dir, "output.json")

	ctx, stdout, logs := newTestContext(config.NewConfig())
	require.NoError(t, run(ctx))

	outputContent, err := os.ReadFile(CLI.Output)
	require.NoError(t, err)
	assert.Equal(t, "{\"id\":1,\"email\":\"test@example.com\"}\n", string(outputContent))
	assert.Empty(t, stdout.String())
	assert.Contains(t, logs.String(), `msg="output written"`)
}

func TestRun_MultipleFilesKeepOrder(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	dir := t.TempDir()
	var expected []string
	CLI.Files = nil
	for i := 0; i < 20; i++ {
		CLI.Files = append(CLI.Files, writeTempJSON(t, dir, fmt.Sprintf("doc%02d.json", i), fmt.Sprintf("{n: %d}", i)))
		expected = append(expected, fmt.Sprintf(`{"n":%d}`, i))
	}
	CLI.Jobs = 3

	ctx, stdout, _ := newTestContext(config.NewConfig())
	require.NoError(t, run(ctx))
	assert.Equal(t, strings.Join(expected, "\n")+"\n", stdout.String())
}

func TestRun_MasksConfiguredFields(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Files = []string{writeTempJSON(t, t.TempDir(), "creds.json", `{user: 'svc', authPass: 'secret', nested: [{auth_pass: 'x'}]}`)}

	cfg := config.NewConfig()
	cfg.Mask.Fields = []string{"authPass"}
	cfg.Mask.NormalizeNames = true

	ctx, stdout, _ := newTestContext(cfg)
	require.NoError(t, run(ctx))
	assert.Equal(t, "{\"user\":\"svc\",\"authPass\":\"*****\",\"nested\":[{\"auth_pass\":\"*****\"}]}\n", stdout.String())
}

func TestRun_Check(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	dir := t.TempDir()
	CLI.Files = []string{
		writeTempJSON(t, dir, "a.json", `[1]`),
		writeTempJSON(t, dir, "b.json", `{b: 2}`),
	}
	CLI.Check = true

	ctx, stdout, logs := newTestContext(config.NewConfig())
	require.NoError(t, run(ctx))
	assert.Empty(t, stdout.String())
	assert.Contains(t, logs.String(), "documents=2")
}

func TestRun_ParseErrorNamesFile(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	dir := t.TempDir()
	bad := writeTempJSON(t, dir, "bad.json", "{\n  a: 1,\n  b: ?\n}")
	CLI.Files = []string{writeTempJSON(t, dir, "good.json", `{}`), bad}

	ctx, stdout, logs := newTestContext(config.NewConfig())
	err := run(ctx)
	require.Error(t, err)

	var parseErr *errors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, 3, parseErr.Line)
	assert.Equal(t, 6, parseErr.Column)
	assert.Contains(t, logs.String(), "level=error")
	assert.Contains(t, logs.String(), "bad.json")
	assert.Empty(t, stdout.String(), "nothing is written when any input fails")
}

func TestRun_StrictRejectsTrailingData(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Files = []string{writeTempJSON(t, t.TempDir(), "input.json", `{"a":1} {"b":2}`)}

	ctx, stdout, _ := newTestContext(config.NewConfig())
	require.NoError(t, run(ctx))
	assert.Equal(t, "{\"a\":1}\n", stdout.String())

	cfg := config.NewConfig()
	cfg.Parse.Strict = true
	ctx, _, _ = newTestContext(cfg)
	assert.ErrorIs(t, run(ctx), errors.ErrTrailingData)
}

func TestRun_StatsLogging(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Files = []string{writeTempJSON(t, t.TempDir(), "input.json", `{a: [1, {b: 2}], id: '123e4567-e89b-12d3-a456-426614174000'}`)}

	ctx, _, logs := newTestContext(config.NewConfig())
	require.NoError(t, run(ctx))
	assert.NotContains(t, logs.String(), "parsed document", "statistics are debug-level by default")

	CLI.Stats = true
	ctx, _, logs = newTestContext(config.NewConfig())
	require.NoError(t, run(ctx))
	assert.Contains(t, logs.String(), `msg="parsed document"`)
	assert.Contains(t, logs.String(), "kind=Object")
	assert.Contains(t, logs.String(), "max_depth=3")
	assert.Contains(t, logs.String(), "members=3")
	assert.Contains(t, logs.String(), "counts=Array:1,Number:2,Object:2,String:1")
	assert.Contains(t, logs.String(), "formats=uuid:1")
	assert.Contains(t, logs.String(), "name_styles=lower:3")
}

func TestRun_DebugLogging(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Files = []string{writeTempJSON(t, t.TempDir(), "input.json", `[]`)}

	cfg := config.NewConfig()
	cfg.Dev.Debug = true
	ctx, _, logs := newTestContext(cfg)
	require.NoError(t, run(ctx))
	assert.Contains(t, logs.String(), "level=debug")
	assert.Contains(t, logs.String(), `msg="parsing file"`)
	assert.Contains(t, logs.String(), `msg="parsed document"`)
	assert.Contains(t, logs.String(), "counts=Array:1")
	assert.Contains(t, logs.String(), "formats=none")
}

func TestParseInput_FromStdin(t *testing.T) {
	// Save original CLI state and stdin
	originalCLI := CLI
	originalStdin := os.Stdin
	defer func() {
		CLI = originalCLI
		os.Stdin = originalStdin
	}()

	// Create a pipe to simulate stdin
	jsonData := `[{item: 'apple'}, {item: 'banana'}]`
	r, w, err := os.Pipe()
	require.NoError(t, err)

	go func() {
		defer func() { _ = w.Close() }()
		_, _ = w.WriteString(jsonData)
	}()

	os.Stdin = r
	defer func() { _ = r.Close() }()

	p, err := parser.NewParser()
	require.NoError(t, err)

	v, err := parseInput(p)
	require.NoError(t, err)
	assert.True(t, value.TypeIs(v, value.KindArray))
	assert.Equal(t, `[{"item":"apple"},{"item":"banana"}]`, v.String())
}

func TestParseInput_EmptyStdin(t *testing.T) {
	originalStdin := os.Stdin
	defer func() { os.Stdin = originalStdin }()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	_ = w.Close()
	os.Stdin = r
	defer func() { _ = r.Close() }()

	p, err := parser.NewParser()
	require.NoError(t, err)

	_, err = parseInput(p)
	assert.ErrorIs(t, err, errors.ErrEmptyInput)
	assert.Contains(t, errors.UserFriendlyError(err), "empty")
}

func TestRun_EmptyFile(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Files = []string{writeTempJSON(t, t.TempDir(), "empty.json", "")}

	ctx, _, _ := newTestContext(config.NewConfig())
	err := run(ctx)
	assert.ErrorIs(t, err, errors.ErrFileEmpty)
	assert.ErrorIs(t, err, errors.ErrEmptyInput)
	assert.Contains(t, errors.UserFriendlyError(err), "is empty")
}

func TestRun_NonExistentFile(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Files = []string{"/non/existent/file.json"}

	ctx, _, _ := newTestContext(config.NewConfig())
	err := run(ctx)
	assert.ErrorIs(t, err, errors.ErrFileNotFound)
}

func TestWriteOutput_ToFile(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Output = filepath.Join(t.TempDir(), "out.json")

	ctx, _, _ := newTestContext(config.NewConfig())
	require.NoError(t, writeOutput(ctx, "{\"a\":1}\n"))

	content, err := os.ReadFile(CLI.Output)
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":1}\n", string(content))
}

func TestWriteOutput_ToStdout(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Output = ""

	ctx, stdout, _ := newTestContext(config.NewConfig())
	require.NoError(t, writeOutput(ctx, "[]\n"))
	assert.Equal(t, "[]\n", stdout.String())
}

func TestWriteOutput_FileError(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	// Try to write to a directory that doesn't exist
	CLI.Output = "/non/existent/dir/output.json"

	ctx, _, _ := newTestContext(config.NewConfig())
	err := writeOutput(ctx, "null\n")
	require.Error(t, err)
	assert.Contains(t, errors.UserFriendlyError(err), "Output error")
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Config = writeTempJSON(t, t.TempDir(), "jsonkit.yml", "format:\n  indent: true\n  tab_width: 8\nmask:\n  fields: [token]\n")
	CLI.TabWidth = 2
	CLI.SoftTabs = true
	CLI.CRLF = true
	CLI.Mask = []string{"authPass"}
	CLI.Encoding = "utf-8"

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.True(t, cfg.Format.Indent)
	assert.True(t, cfg.Format.SoftTabs)
	assert.Equal(t, 2, cfg.Format.TabWidth)
	assert.Equal(t, "\r\n", cfg.Format.NewLine)
	assert.Equal(t, []string{"token", "authPass"}, cfg.Mask.Fields)
	assert.Equal(t, "utf-8", cfg.Parse.Encoding)
}

func TestLoadConfig_InvalidFlag(t *testing.T) {
	originalCLI := CLI
	defer func() { CLI = originalCLI }()

	CLI.Config = writeTempJSON(t, t.TempDir(), "jsonkit.yml", "dev:\n  debug: false\n")
	CLI.Encoding = "klingon"

	_, err := loadConfig()
	require.Error(t, err)
	assert.Contains(t, errors.UserFriendlyError(err), "Input error")
}

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, false)
	_ = level.Debug(logger).Log("msg", "hidden")
	assert.Empty(t, buf.String())

	buf.Reset()
	logger = newLogger(&buf, true)
	_ = level.Debug(logger).Log("msg", "shown")
	assert.Contains(t, buf.String(), "msg=shown")
	assert.Contains(t, buf.String(), "ts=")
}

// Note: TestReadInteractiveInput is challenging to test reliably due to
// stdin/EOF handling complexities, so we focus on testing other components
func TestReadInteractiveInput_Concept(t *testing.T) {
	assert.NotNil(t, readInteractiveInput)
}
