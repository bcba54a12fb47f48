package fat32

import "strings"

// ToShortName converts an ordinary filename into the 11-byte, space-padded,
// uppercase 8.3 field (spec.md §4.4). It performs no validation of its own —
// ValidateFilename is the gate for that — and simply truncates components
// that run long.
func ToShortName(name string) [11]byte {
	var out [11]byte
	for i := range out {
		out[i] = ' '
	}

	i := 0
	j := 0
	for i < len(name) && name[i] != '.' && j < 8 {
		out[j] = toUpperASCII(name[i])
		i++
		j++
	}

	for i < len(name) && name[i] != '.' {
		i++
	}

	lastDot := strings.LastIndexByte(name, '.')
	if lastDot >= 0 {
		j = 8
		k := lastDot + 1
		for k < len(name) && j < 11 {
			out[j] = toUpperASCII(name[k])
			j++
			k++
		}
	}

	return out
}

// FromShortName reconstructs a display filename from an 11-byte short-name
// field (spec.md §4.4): the name up to its first space, a dot and the
// extension up to its first space if the extension isn't blank.
func FromShortName(raw [11]byte) string {
	nameEnd := 0
	for nameEnd < 8 && raw[nameEnd] != ' ' {
		nameEnd++
	}

	var b strings.Builder
	b.Write(raw[:nameEnd])

	if raw[8] != ' ' {
		extEnd := 8
		for extEnd < 11 && raw[extEnd] != ' ' {
			extEnd++
		}
		b.WriteByte('.')
		b.Write(raw[8:extEnd])
	}

	return b.String()
}

func toUpperASCII(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
