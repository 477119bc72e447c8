package envs

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/flanksource/phantomjs-installer/pkg/template"
)

// RenderEnvs renders environment variable values using template variables
func RenderEnvs(envs map[string]string, data map[string]interface{}) (map[string]string, error) {
	rendered := make(map[string]string, len(envs))
	for key, valueTemplate := range envs {
		value, err := template.RenderTemplate(valueTemplate, data)
		if err != nil {
			return nil, fmt.Errorf("failed to render env var %s: %w", key, err)
		}
		rendered[key] = value
	}
	return rendered, nil
}

// PrintEnvs writes environment variables in KEY=value format, sorted by key.
// With export set every line is prefixed for eval in a POSIX shell.
func PrintEnvs(w io.Writer, envs map[string]string, export bool) error {
	keys := make([]string, 0, len(envs))
	for key := range envs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		line := fmt.Sprintf("%s=%s", key, quote(envs[key]))
		if export {
			line = "export " + line
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// quote wraps values holding shell metacharacters in single quotes
func quote(value string) string {
	if value != "" && !strings.ContainsAny(value, " \t\n'\"$`\\|&;<>()*?[]#~") {
		return value
	}
	return "'" + strings.ReplaceAll(value, "'", `'\''`) + "'"
}
