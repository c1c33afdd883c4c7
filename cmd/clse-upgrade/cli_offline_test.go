package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const fixture = `language,id,name,linguistic_signature,semantic_type
de,/m/01,Hund,X:a,animal
en,/m/01,dog,Y:b,animal
`

// writeFixture lays out data/clse_v1.0.csv under a temp dir and returns the dir.
func writeFixture(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "data"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "clse_v1.0.csv"), []byte(body), 0644))
	return dir
}

func TestCLI_DefaultPaths(t *testing.T) {
	dir := writeFixture(t, fixture)
	bin := filepath.Join(t.TempDir(), "clse-upgrade.bin")

	build := exec.Command("go", "build", "-o", bin, "github.com/japaniel/clse/cmd/clse-upgrade")
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		t.Fatalf("failed to build CLI: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	cmd := exec.CommandContext(ctx, bin)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if ctx.Err() == context.DeadlineExceeded {
		t.Fatalf("cli timed out, output:\n%s", out)
	}
	require.NoError(t, err, "output:\n%s", out)
	assert.Contains(t, string(out), "Finished writing data to data/clse_v1.1.csv!")

	f, err := os.Open(filepath.Join(dir, "data", "clse_v1.1.csv"))
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, []string{"language", "id", "name", "linguistic_signature", "semantic_type", "X", "Y"}, records[0])
	assert.Equal(t, []string{"a", ""}, records[1][5:])
	assert.Equal(t, []string{"", "b"}, records[2][5:])
}

func TestRunWithFlags(t *testing.T) {
	dir := writeFixture(t, fixture)
	in := filepath.Join(dir, "data", "clse_v1.0.csv")
	out := filepath.Join(dir, "clse_v1.1.xlsx")
	prom := filepath.Join(dir, "clse.prom")

	var stdout, stderr bytes.Buffer
	err := run([]string{"-i", in, "-o", out, "--metrics-out", prom, "--log-level", "debug", "--log-format", "json"}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())
	assert.Equal(t, "Finished writing data to "+out+"!\n", stdout.String())
	assert.Contains(t, stderr.String(), `"msg":"corpus upgraded"`)

	wb, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer wb.Close()
	y, err := wb.GetCellValue("clse", "G3")
	require.NoError(t, err)
	assert.Equal(t, "b", y)

	assert.FileExists(t, prom)
}

func TestRunWithConfigFile(t *testing.T) {
	dir := writeFixture(t, fixture)
	out := filepath.Join(dir, "out.db")
	cfgPath := filepath.Join(dir, "clse.yaml")
	body := "input: " + filepath.Join(dir, "data", "clse_v1.0.csv") + "\noutput: " + out + "\nlog_level: error\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0644))

	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"--config", cfgPath}, &stdout, &stderr))
	assert.True(t, strings.HasSuffix(strings.TrimSpace(stdout.String()), "out.db!"))
	assert.Empty(t, stderr.String())
	assert.FileExists(t, out)
}

func TestRunMissingInput(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	err := run([]string{"-i", filepath.Join(dir, "nope.csv"), "-o", filepath.Join(dir, "out.csv")}, &stdout, &stderr)
	require.Error(t, err)
	assert.Empty(t, stdout.String())
}

func TestRunVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	require.NoError(t, run([]string{"--version"}, &stdout, &stderr))
	assert.Equal(t, "clse-upgrade version "+Version+"\n", stdout.String())
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"--help"}, &stdout, &stderr)
	assert.ErrorIs(t, err, pflag.ErrHelp)
	assert.Contains(t, stderr.String(), "--metrics-out")
}

func TestRunRejectsPositionalArgs(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Error(t, run([]string{"extra.csv"}, &stdout, &stderr))
}

func TestRunBadFormat(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Error(t, run([]string{"--format", "parquet"}, &stdout, &stderr))
}
