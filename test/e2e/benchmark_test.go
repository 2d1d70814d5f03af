package e2e_test

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// generateNestedJSON creates a nested JSON structure for benchmarking
func generateNestedJSON(rng *rand.Rand, depth int, width int) map[string]interface{} {
	if depth <= 0 {
		return map[string]interface{}{
			"leaf_value": "data",
			"count":      rng.Intn(100),
			"enabled":    rng.Intn(2) == 1,
		}
	}

	result := make(map[string]interface{})
	for i := 0; i < width; i++ {
		key := fmt.Sprintf("nested_%d_%d", depth, i)
		result[key] = generateNestedJSON(rng, depth-1, width)
	}
	return result
}

// generateTree writes fileCount compact JSON files spread over a few subdirectories
func generateTree(b *testing.B, root string, fileCount int) {
	b.Helper()
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < fileCount; i++ {
		dir := filepath.Join(root, fmt.Sprintf("level_%d", i%4), fmt.Sprintf("room_%d", i%7))
		require.NoError(b, os.MkdirAll(dir, 0o755))

		data, err := json.Marshal(generateNestedJSON(rng, 3, 3))
		require.NoError(b, err)
		require.NoError(b, os.WriteFile(filepath.Join(dir, fmt.Sprintf("item_%d.json", i)), data, 0o644))
	}
}

// BenchmarkFormatTree benchmarks formatting directory trees of different sizes
func BenchmarkFormatTree(b *testing.B) {
	if testing.Short() {
		b.Skip("skipping benchmark in short mode")
	}

	sizes := []struct {
		name      string
		fileCount int
	}{
		{"10Files", 10},
		{"100Files", 100},
		{"1000Files", 1000},
	}

	for _, size := range sizes {
		b.Run(size.name, func(b *testing.B) {
			root := b.TempDir()
			generateTree(b, root, size.fileCount)

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				cmd := exec.Command("go", "run", formatjsonCmd, root)
				output, err := cmd.CombinedOutput()
				require.NoError(b, err, "CLI command failed: %s", string(output))
				require.Equal(b, fmt.Sprintf("formatted %d files\n", size.fileCount), string(output))
			}
		})
	}
}

// BenchmarkFlagTable benchmarks rendering large headers
func BenchmarkFlagTable(b *testing.B) {
	if testing.Short() {
		b.Skip("skipping benchmark in short mode")
	}

	for _, count := range []int{100, 10000} {
		b.Run(fmt.Sprintf("%dDefines", count), func(b *testing.B) {
			var sb strings.Builder
			for i := 0; i < count; i++ {
				fmt.Fprintf(&sb, "#define FLAG_%d\t0x%x\t/* flag %d */\n", i, 1<<(i%31), i)
			}
			header := sb.String()

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				cmd := exec.Command("go", "run", flagtableCmd)
				cmd.Stdin = strings.NewReader(header)
				output, err := cmd.Output()
				require.NoError(b, err)
				require.Equal(b, count, strings.Count(string(output), "\n"))
			}
		})
	}
}
