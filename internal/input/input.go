// Package input reads flag values that use - (stdin) or @file syntax.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Value expands a flag value. "-" reads all of stdin, "@path" reads the
// file at path, and anything else is returned unchanged. A literal leading
// @ is written as "@@".
func Value(v string, stdin io.Reader) (string, error) {
	switch {
	case v == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	case strings.HasPrefix(v, "@@"):
		return v[1:], nil
	case strings.HasPrefix(v, "@"):
		path := strings.TrimPrefix(v, "@")
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", path, err)
		}
		return string(data), nil
	}
	return v, nil
}

// FirstLine reads one line from r without its line ending, as for
// --password-stdin.
func FirstLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
