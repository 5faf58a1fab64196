package materializer

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_AddFile(t *testing.T) {
	r := NewResult("orders")
	require.NotEmpty(t, r.RunID)

	r.AddFile("/a", 10)
	r.AddFile("/b", 5)
	r.AddFile("/a", 3)

	assert.Equal(t, []string{"/a", "/b"}, r.Files)
	assert.Equal(t, int64(8), r.Size)
	assert.Equal(t, 2, r.TotalFiles())
}

func TestResult_MarkSuccess(t *testing.T) {
	r := NewResult("orders")
	r.AddStep("pom", time.Millisecond)
	r.MarkSuccess()

	assert.True(t, r.Success)
	assert.Len(t, r.Steps, 1)
	assert.NotEmpty(t, r.GeneratedAt())
}

func TestResult_Rebase(t *testing.T) {
	stage := filepath.Join("repo", "apps", ".orders.staging-1234")
	final := filepath.Join("repo", "apps", "orders")
	other := filepath.Join("repo", ".github", "workflows", "orders.yml")

	r := NewResult("orders")
	r.AddFile(filepath.Join(stage, "pom.xml"), 4)
	r.AddFile(filepath.Join(stage, ChecksumsFile), 2)
	r.AddFile(other, 1)
	r.Checksums = filepath.Join(stage, ChecksumsFile)

	r.rebase(stage, final)

	assert.Equal(t, []string{
		filepath.Join(final, "pom.xml"),
		filepath.Join(final, ChecksumsFile),
		other,
	}, r.Files)
	assert.Equal(t, filepath.Join(final, ChecksumsFile), r.Checksums)

	// sizes follow the moved paths
	r.AddFile(filepath.Join(final, "pom.xml"), 6)
	assert.Equal(t, int64(9), r.Size)
}

func TestComputeChecksum(t *testing.T) {
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		ComputeChecksum(nil))
}
