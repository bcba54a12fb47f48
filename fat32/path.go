package fat32

import (
	"strings"

	fserrors "github.com/nqwku/fat32emu/errors"
)

// NormalizePath collapses "//" runs, resolves "." and ".." components, and
// preserves a leading "/" iff the input was absolute (spec.md §4.8). A
// trailing "/" is dropped except when the whole result is the root "/".
func NormalizePath(path string) string {
	if path == "" {
		return path
	}

	path = strings.ReplaceAll(path, `\`, "/")
	absolute := strings.HasPrefix(path, "/")

	var stack []string
	for _, part := range strings.Split(path, "/") {
		switch part {
		case "", ".":
			continue
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, part)
		}
	}

	joined := strings.Join(stack, "/")
	if absolute {
		return "/" + joined
	}
	if joined == "" {
		return "."
	}
	return joined
}

// CombinePath joins base and relative (spec.md §4.8): if relative is
// absolute it replaces base entirely, an empty relative returns base
// unchanged, otherwise the two are joined with a single "/" and normalized.
func CombinePath(base, relative string) string {
	if relative == "" {
		return base
	}
	if IsAbsolutePath(relative) {
		return NormalizePath(relative)
	}

	if strings.HasSuffix(base, "/") {
		return NormalizePath(base + relative)
	}
	return NormalizePath(base + "/" + relative)
}

// ParentPath returns the parent of path: "/a/b" of "/a/b/c", "/" of "/", and
// "." for a relative bare name (spec.md §4.8).
func ParentPath(path string) string {
	normalized := NormalizePath(path)
	if normalized == "/" {
		return "/"
	}

	idx := strings.LastIndexByte(normalized, '/')
	if idx < 0 {
		return "."
	}
	if idx == 0 {
		return "/"
	}
	return normalized[:idx]
}

// IsAbsolutePath reports whether path starts with "/".
func IsAbsolutePath(path string) bool {
	return strings.HasPrefix(path, "/")
}

// invalidFilenameChars are the bytes spec.md §4.8 forbids in a filename,
// beyond control characters (< 0x20).
const invalidFilenameChars = " \\/:*?<>|"

// ValidateFilename enforces spec.md §4.8: non-empty, at most 255 bytes, no
// control characters, none of invalidFilenameChars.
func ValidateFilename(name string) error {
	if name == "" {
		return fserrors.InvalidArgument.WithMessage("filename must not be empty")
	}
	if len(name) > 255 {
		return fserrors.InvalidArgument.WithMessage("filename longer than 255 bytes")
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c < 0x20 {
			return fserrors.InvalidArgument.WithMessage("filename contains a control character")
		}
		if strings.IndexByte(invalidFilenameChars, c) >= 0 {
			return fserrors.InvalidArgument.WithMessage("filename contains an invalid character")
		}
	}
	return nil
}
