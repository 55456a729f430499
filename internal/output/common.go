package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"regexp"
	"strings"
)

// FormatFileList serializes a file list in the requested format.
func FormatFileList(files []string, format ListFormat) (string, error) {
	switch format {
	case ListLines:
		return strings.Join(files, "\n"), nil
	case ListShell:
		escaped := make([]string, len(files))
		for i, f := range files {
			escaped[i] = shellEscape(f)
		}
		return strings.Join(escaped, " "), nil
	case ListCSV:
		return csvJoin(files)
	case ListJSON:
		data, err := json.Marshal(files)
		if err != nil {
			return "", err
		}
		return string(data), nil
	default:
		return "", nil
	}
}

var shellSafe = regexp.MustCompile(`^[A-Za-z0-9,._+:@%/-]+$`)

// shellEscape single-quotes a value unless it consists solely of characters
// safe to pass to a POSIX shell unquoted.
func shellEscape(s string) string {
	if s == "" {
		return "''"
	}
	if shellSafe.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// csvJoin renders one comma-joined CSV record without a trailing newline.
func csvJoin(fields []string) (string, error) {
	if len(fields) == 0 {
		return "", nil
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(fields); err != nil {
		return "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func openOutputWriter(outputPath string) (io.Writer, *os.File, error) {
	if outputPath == "" {
		return os.Stdout, nil, nil
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}
