package parse

import (
	"os"
	"strings"

	"github.com/saint0x/jello/internal/types"
)

// expandResponseFile reads path, splits on newline and space, and drops
// empty tokens.
func expandResponseFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &types.ParseError{Reason: "cannot read response file " + path}
	}
	fields := strings.FieldsFunc(string(data), func(r rune) bool {
		return r == '\n' || r == ' ' || r == '\t' || r == '\r'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out, nil
}

// expandWl splits a -Wl,a,b,c token on comma after the prefix and returns
// the fresh tokens to be prepended to the stream. -Wl,,, yields no tokens.
func expandWl(tok string) []string {
	rest := tok[len("-Wl,"):]
	parts := strings.Split(rest, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func prepend(queue []string, fresh []string) []string {
	if len(fresh) == 0 {
		return queue
	}
	return append(append([]string{}, fresh...), queue...)
}
