package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-dashboard/models"
)

const gr86CSV = "車種名,グレード,支払総額,年式,走行距離,ミッション,修復歴,コメント\n" +
	"トヨタ GR86,RZ,298.5万円,2022(R04),1.2万km,MT,なし,禁煙車\n" +
	"トヨタ GR86,RZ,298.5万円,2022(R04),1.2万km,MT,なし,禁煙車\n" +
	"トヨタ GR86,SZ,250万円,2021,3万km,AT,あり,レンタカー上がり\n"

func setupData(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "GR86", "2025_08_06")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2025_08_06_gr86.csv"), []byte(gr86CSV), 0644))
	t.Setenv("EXCLUDE_KEYWORDS_FILE", filepath.Join(root, "exclude_keywords.txt"))
	return root
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.Execute()
	return out.String(), err
}

func TestAnalyzeJSON(t *testing.T) {
	root := setupData(t)

	out, err := run(t, "analyze", "--data", root, "--model", "GR86", "--json")
	require.NoError(t, err)

	var result models.AggregationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 2, result.TotalCount)
	assert.Equal(t, 274.3, result.AveragePrice)
	assert.Equal(t, 50.0, result.RepairHistoryPercentage)
	require.Len(t, result.PriceTrend, 1)
	assert.Equal(t, "2025/08/06", result.PriceTrend[0].Label)
}

func TestAnalyzeWithExcludeAndFilterFile(t *testing.T) {
	root := setupData(t)
	exclude := filepath.Join(root, "exclude_keywords.txt")
	require.NoError(t, os.WriteFile(exclude, []byte("レンタカー\n"), 0644))

	preset := filepath.Join(root, "mt.yaml")
	require.NoError(t, os.WriteFile(preset, []byte("transmission: MT\n"), 0644))

	out, err := run(t, "analyze", "--data", root, "--model", "GR86",
		"--exclude", exclude, "--filter", preset, "--json")
	require.NoError(t, err)

	var result models.AggregationResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 1, result.TotalCount)
	assert.Equal(t, 298.5, result.AveragePrice)
}

func TestAnalyzeReport(t *testing.T) {
	root := setupData(t)

	out, err := run(t, "analyze", "--data", root, "--model", "GR86")
	require.NoError(t, err)
	assert.Contains(t, out, "Overview")
	assert.Contains(t, out, "Average price by grade")
}

func TestAnalyzePicksOnlyModel(t *testing.T) {
	root := setupData(t)
	t.Setenv("CAR_MODEL", "")

	_, err := run(t, "analyze", "--data", root, "--json")
	assert.NoError(t, err)
}

func TestAnalyzeUnknownModel(t *testing.T) {
	root := setupData(t)

	_, err := run(t, "analyze", "--data", root, "--model", "BRZ")
	assert.Error(t, err)
}

func TestModelsCommand(t *testing.T) {
	root := setupData(t)

	out, err := run(t, "models", "--data", root)
	require.NoError(t, err)
	assert.Contains(t, out, "GR86")
}

func TestExportCSV(t *testing.T) {
	root := setupData(t)
	path := filepath.Join(root, "out", "gr86.csv")

	_, err := run(t, "export", path, "--data", root, "--model", "GR86")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 3)
}

func TestExportRejectsUnknownExtension(t *testing.T) {
	root := setupData(t)

	_, err := run(t, "export", filepath.Join(root, "gr86.json"), "--data", root, "--model", "GR86")
	assert.Error(t, err)
}

func TestStoreSQLite(t *testing.T) {
	root := setupData(t)
	t.Setenv("SQLITE_PATH", filepath.Join(root, "snapshot.db"))

	out, err := run(t, "store", "--backend", "sqlite", "--data", root, "--model", "GR86")
	require.NoError(t, err)
	assert.Contains(t, out, "Overview")
	assert.FileExists(t, filepath.Join(root, "snapshot.db"))
}

func TestStoreUnknownBackend(t *testing.T) {
	root := setupData(t)

	_, err := run(t, "store", "--backend", "mongo", "--data", root, "--model", "GR86")
	assert.Error(t, err)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := run(t, "models", "--log-level", "verbose")
	assert.Error(t, err)
}

func TestBatchPath(t *testing.T) {
	day := time.Date(2025, 8, 6, 15, 0, 0, 0, time.UTC)
	assert.Equal(t,
		filepath.Join("data", "GR86", "2025_08_06", "2025_08_06_gr86.csv"),
		batchPath("data", "GR86", day))
}
