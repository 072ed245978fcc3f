package output

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/csvify/pkg/width"
)

func countReport() *Report {
	result := &width.Result{
		Width: 5,
		Files: []width.FileStats{
			{Name: "a.txt", Records: 2, MaxFields: 4, Bytes: 1500},
			{Name: "b.txt", Records: 1, MaxFields: 2, Bytes: 500},
		},
	}
	return NewCountReport(result, time.Now().Add(-time.Second))
}

func checkReport() *Report {
	result := &width.CheckResult{
		Result: width.Result{
			Width: 3,
			Files: []width.FileStats{{Name: "c.txt", Records: 1, MaxFields: 2, Bytes: 12}},
		},
		Issues: []width.Issue{
			{File: "c.txt", Line: 2, Column: 3, Kind: "unmatched_close", Message: "column 3: malformed line: unmatched ']'"},
		},
	}
	return NewCheckReport(result, time.Now())
}

func TestNewCountReport(t *testing.T) {
	report := countReport()

	assert.Equal(t, "count", report.Command)
	assert.Equal(t, Summary{Width: 5, Files: 2, Records: 3, Bytes: 2000}, report.Summary)
	assert.False(t, report.HasIssues())
	assert.GreaterOrEqual(t, report.Metadata.Duration, time.Second)
}

func TestNewCheckReport(t *testing.T) {
	report := checkReport()

	assert.Equal(t, "check", report.Command)
	assert.Equal(t, 1, report.Summary.Issues)
	assert.True(t, report.HasIssues())
}

func TestNewFormatter(t *testing.T) {
	for _, name := range []string{"text", "json", "yaml"} {
		f, err := NewFormatter(name, FormatOptions{})
		require.NoError(t, err)
		assert.Equal(t, name, f.Name())
	}

	f, err := NewFormatter("", FormatOptions{})
	require.NoError(t, err)
	assert.Equal(t, "text", f.Name())

	_, err = NewFormatter("xml", FormatOptions{})
	assert.Error(t, err)
}

func TestTextFormatter_Count(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter(FormatOptions{}).Format(context.Background(), countReport(), &buf))

	out := buf.String()
	assert.Contains(t, out, "FILE")
	assert.Contains(t, out, "a.txt")
	assert.Contains(t, out, "1.5 kB")
	assert.Contains(t, out, "Target width: 5 (2 files, 3 records, 2.0 kB)")
	assert.NotContains(t, out, "Issues:")
	assert.NotContains(t, out, "Duration:")
}

func TestTextFormatter_Check(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter(FormatOptions{Verbose: true}).Format(context.Background(), checkReport(), &buf))

	out := buf.String()
	assert.Contains(t, out, "unmatched_close")
	assert.Contains(t, out, "Issues: 1")
	assert.Contains(t, out, "Duration:")
}

func TestTextFormatter_CheckClean(t *testing.T) {
	report := NewCheckReport(&width.CheckResult{Result: width.Result{Files: []width.FileStats{}}}, time.Now())

	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter(FormatOptions{}).Format(context.Background(), report, &buf))
	assert.Contains(t, buf.String(), "No issues detected")
	assert.Contains(t, buf.String(), "Issues: 0")
}

func TestTextFormatter_Quiet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextFormatter(FormatOptions{Quiet: true}).Format(context.Background(), checkReport(), &buf))

	assert.Equal(t, "Target width: 3 (1 files, 1 records, 12 B)\nIssues: 1\n", buf.String())
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(FormatOptions{}).Format(context.Background(), checkReport(), &buf))

	var decoded struct {
		Command string
		Summary Summary
		Issues  []width.Issue
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "check", decoded.Command)
	assert.Equal(t, 3, decoded.Summary.Width)
	require.Len(t, decoded.Issues, 1)
	assert.Equal(t, 2, decoded.Issues[0].Line)
}

func TestJSONFormatter_Quiet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter(FormatOptions{Quiet: true}).Format(context.Background(), countReport(), &buf))

	assert.True(t, strings.HasPrefix(buf.String(), "{\n  \"width\": 5,"))
	assert.NotContains(t, buf.String(), "files\": [")
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLFormatter(FormatOptions{}).Format(context.Background(), countReport(), &buf))

	assert.Contains(t, buf.String(), "command: count")
	assert.NotContains(t, buf.String(), "issues:\n", "empty issue list is omitted")

	var decoded map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	summary, ok := decoded["summary"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 5, summary["width"])
}
