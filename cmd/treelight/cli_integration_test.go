package main_test

import (
	"database/sql"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildBinary compiles the treelight binary and returns the path.
// The binary is placed in t.TempDir() so it's cleaned up automatically.
func buildBinary(t *testing.T) string {
	t.Helper()
	binName := "treelight"
	if runtime.GOOS == "windows" {
		binName += ".exe"
	}
	bin := filepath.Join(t.TempDir(), binName)
	cmd := exec.Command("go", "build", "-o", bin, ".")
	cmd.Dir = filepath.Join(projectRoot(t), "cmd", "treelight")
	cmd.Env = append(os.Environ(), "CGO_ENABLED=1")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "build failed: %s", string(out))
	return bin
}

// projectRoot walks up from the test file's directory to find go.mod.
func projectRoot(t *testing.T) string {
	t.Helper()
	_, filename, _, ok := runtime.Caller(0)
	require.True(t, ok, "runtime.Caller failed")
	dir := filepath.Dir(filename)
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		require.NotEqual(t, parent, dir, "could not find project root")
		dir = parent
	}
}

// createGoFixture creates a temporary directory with a .git dir and a
// Go file whose declarations the tests assert against.
func createGoFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))

	goFile := filepath.Join(dir, "main.go")
	src := `package main

import "fmt"

func main() {
	fmt.Println("hello")
}

func helper() string {
	return "world"
}
`
	require.NoError(t, os.WriteFile(goFile, []byte(src), 0o644))
	return dir
}

// runCLI executes a treelight command in dir and returns the parsed
// JSON envelope from stdout.
func runCLI(t *testing.T, bin, dir string, args ...string) map[string]any {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Dir = dir
	stdout, err := cmd.Output()
	// Error cases still print a JSON envelope, so only a silent
	// failure is fatal here.
	if err != nil && len(stdout) == 0 {
		t.Fatalf("command %v failed with no output: %v", args, err)
	}

	var result map[string]any
	require.NoError(t, json.Unmarshal(stdout, &result), "invalid JSON output: %s", string(stdout))
	return result
}

// openDB opens the SQLite database at the given path for verification.
func openDB(t *testing.T, dbPath string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func countRows(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var count int
	require.NoError(t, db.QueryRow(query, args...).Scan(&count))
	return count
}

func TestIndex_CreatesDatabase(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin := buildBinary(t)
	fixture := createGoFixture(t)

	cmd := exec.Command(bin, "index", fixture)
	cmd.Dir = fixture
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "index failed: %s", string(out))

	dbPath := filepath.Join(fixture, ".treelight", "index.db")
	require.FileExists(t, dbPath)

	db := openDB(t, dbPath)
	assert.Equal(t, 1, countRows(t, db, "SELECT COUNT(*) FROM files"))
	assert.Greater(t, countRows(t, db, "SELECT COUNT(*) FROM symbols"), 0)
}

func TestIndex_LanguagesFilter(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin := buildBinary(t)
	fixture := createGoFixture(t)

	pyFile := filepath.Join(fixture, "script.py")
	require.NoError(t, os.WriteFile(pyFile, []byte("def hello():\n    print(\"hello\")\n"), 0o644))

	cmd := exec.Command(bin, "index", "--languages", "go", fixture)
	cmd.Dir = fixture
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "index with --languages failed: %s", string(out))

	db := openDB(t, filepath.Join(fixture, ".treelight", "index.db"))
	assert.Equal(t, 1, countRows(t, db, "SELECT COUNT(*) FROM files"))
	assert.Equal(t, 0, countRows(t, db, "SELECT COUNT(*) FROM files WHERE language = ?", "python"))
}

func TestIndex_SecondRunKeepsCounts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin := buildBinary(t)
	fixture := createGoFixture(t)
	dbPath := filepath.Join(fixture, ".treelight", "index.db")

	for run := 0; run < 2; run++ {
		cmd := exec.Command(bin, "index", fixture)
		cmd.Dir = fixture
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "index run %d failed: %s", run, string(out))
	}

	// Unchanged files are skipped by hash, so counts stay stable.
	db := openDB(t, dbPath)
	assert.Equal(t, 1, countRows(t, db, "SELECT COUNT(*) FROM files"))
}

func TestIndex_NonExistentDirectory(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin := buildBinary(t)

	cmd := exec.Command(bin, "index", "/nonexistent/path/that/does/not/exist")
	out, err := cmd.CombinedOutput()
	require.Error(t, err, "should fail for non-existent directory")
	assert.Contains(t, string(out), "not found")
}

func TestIndex_StderrSummary(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin := buildBinary(t)
	fixture := createGoFixture(t)

	cmd := exec.Command(bin, "index", fixture)
	cmd.Dir = fixture
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "index failed: %s", string(out))

	output := string(out)
	assert.Contains(t, output, "Indexed")
	assert.Contains(t, output, "Database:")
}

func TestLookup_FindsIndexedSymbol(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin := buildBinary(t)
	fixture := createGoFixture(t)

	cmd := exec.Command(bin, "index", fixture)
	cmd.Dir = fixture
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "index failed: %s", string(out))

	result := runCLI(t, bin, fixture, "lookup", "helper")
	assert.Equal(t, "lookup", result["command"])
	assert.EqualValues(t, 1, result["total_count"])

	results, ok := result["results"].([]any)
	require.True(t, ok, "results should be an array")
	require.Len(t, results, 1)
	loc := results[0].(map[string]any)
	assert.Equal(t, "helper", loc["name"])
	assert.Equal(t, "function", loc["kind"])
}

func TestLookup_WithoutDatabase(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin := buildBinary(t)
	fixture := createGoFixture(t)

	result := runCLI(t, bin, fixture, "lookup", "helper")
	errMsg, _ := result["error"].(string)
	assert.Contains(t, errMsg, "treelight index")
}

func TestHighlight_EmitsClassifiedSpans(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin := buildBinary(t)
	fixture := createGoFixture(t)

	result := runCLI(t, bin, fixture, "highlight", "main.go")
	assert.Equal(t, "highlight", result["command"])
	assert.Equal(t, "go", result["language"])

	results, ok := result["results"].([]any)
	require.True(t, ok, "results should be an array")
	require.NotEmpty(t, results)

	kinds := make(map[string]bool)
	for _, r := range results {
		span := r.(map[string]any)
		kinds[span["kind"].(string)] = true
	}
	assert.True(t, kinds["keyword"], "fixture has func and return keywords")
	assert.True(t, kinds["string_literal"], "fixture has string literals")
}

func TestFolds_FunctionBodies(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin := buildBinary(t)
	fixture := createGoFixture(t)

	result := runCLI(t, bin, fixture, "folds", "main.go")
	assert.Equal(t, "folds", result["command"])

	results, ok := result["results"].([]any)
	require.True(t, ok, "results should be an array")
	assert.GreaterOrEqual(t, len(results), 2, "fixture has two multi-line function bodies")
}

func TestCheck_CleanFile(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin := buildBinary(t)
	fixture := createGoFixture(t)

	result := runCLI(t, bin, fixture, "check", "main.go")
	assert.Equal(t, "check", result["command"])
	assert.Empty(t, result["error"])

	results, ok := result["results"].([]any)
	if ok {
		assert.Empty(t, results, "well-formed file should have no diagnostics")
	}
}

func TestSymbols_TextFormat(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	bin := buildBinary(t)
	fixture := createGoFixture(t)

	cmd := exec.Command(bin, "--format", "text", "symbols", "main.go")
	cmd.Dir = fixture
	stdout, err := cmd.Output()
	require.NoError(t, err)

	assert.Contains(t, string(stdout), "function main")
	assert.Contains(t, string(stdout), "function helper")
}
