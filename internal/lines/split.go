// Package lines turns raw byte deltas into complete lines.
package lines

import "bytes"

// Split concatenates remainder and buf and cuts the result at every '\n'.
// A '\r' directly before the terminator is stripped from the line. Bytes
// after the last terminator are returned as rest. Returned slices may alias
// buf, so callers must consume them before reusing it.
func Split(buf, remainder []byte) (complete [][]byte, rest []byte) {
	raw, rest := cut(join(remainder, buf))
	for i, r := range raw {
		raw[i] = trim(r)
	}
	return raw, rest
}

func join(remainder, buf []byte) []byte {
	if len(remainder) == 0 {
		return buf
	}
	data := make([]byte, 0, len(remainder)+len(buf))
	data = append(data, remainder...)
	return append(data, buf...)
}

// cut returns the terminated lines with their terminators still attached.
func cut(data []byte) ([][]byte, []byte) {
	var out [][]byte
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			return out, data
		}
		out = append(out, data[:i+1])
		data = data[i+1:]
	}
}

func trim(raw []byte) []byte {
	line := raw[:len(raw)-1]
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line
}
