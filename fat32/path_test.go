package fat32_test

import (
	"testing"

	"github.com/nqwku/fat32emu/fat32"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePathCollapsesSlashRuns(t *testing.T) {
	assert.Equal(t, "/test/path", fat32.NormalizePath("//test//path//"))
}

func TestNormalizePathResolvesDotDot(t *testing.T) {
	assert.Equal(t, "/a/c", fat32.NormalizePath("/a/./b/../c"))
}

func TestNormalizePathRootStaysRoot(t *testing.T) {
	assert.Equal(t, "/", fat32.NormalizePath("/"))
	assert.Equal(t, "/", fat32.NormalizePath("/.."))
}

func TestNormalizePathRelativeEmptyBecomesDot(t *testing.T) {
	assert.Equal(t, ".", fat32.NormalizePath("a/.."))
}

func TestCombinePathAbsoluteReplacesBase(t *testing.T) {
	assert.Equal(t, "/y", fat32.CombinePath("/x", "/y"))
}

func TestCombinePathEmptyRelativeKeepsBase(t *testing.T) {
	assert.Equal(t, "/x", fat32.CombinePath("/x", ""))
}

func TestCombinePathJoinsRelative(t *testing.T) {
	assert.Equal(t, "/x/y", fat32.CombinePath("/x", "y"))
}

func TestParentPathCases(t *testing.T) {
	assert.Equal(t, "/a/b", fat32.ParentPath("/a/b/c"))
	assert.Equal(t, "/", fat32.ParentPath("/"))
	assert.Equal(t, "/", fat32.ParentPath("/onlychild"))
}

func TestValidateFilenameRejectsBadNames(t *testing.T) {
	assert.Error(t, fat32.ValidateFilename(""))
	assert.Error(t, fat32.ValidateFilename("has/slash"))
	assert.Error(t, fat32.ValidateFilename("bad\x01char"))
	assert.NoError(t, fat32.ValidateFilename("readme.txt"))
}
