package template

import (
	"fmt"

	"github.com/flanksource/gomplate/v3"
)

// RenderTemplate renders a Go template string using flanksource/gomplate
func RenderTemplate(templateStr string, data map[string]interface{}) (string, error) {
	result, err := gomplate.RunTemplate(data, gomplate.Template{
		Template: templateStr,
	})
	if err != nil {
		return "", fmt.Errorf("template execution failed: %w", err)
	}

	return result, nil
}

// TemplateString renders pattern with string-valued data
func TemplateString(pattern string, data map[string]string) (string, error) {
	interfaceData := make(map[string]interface{}, len(data))
	for k, v := range data {
		interfaceData[k] = v
	}
	return RenderTemplate(pattern, interfaceData)
}

// TemplateFilename renders an archive filename pattern for a release version and bitsize
func TemplateFilename(pattern, version, bitsize string) (string, error) {
	return TemplateString(pattern, map[string]string{
		"version": version,
		"bitsize": bitsize,
	})
}
