package spec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSpec(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_JSON(t *testing.T) {
	path := writeSpec(t, "browsers.json", `[
		{
			"os": "ios",
			"os_version": "10.3",
			"device": "iPhone 7",
			"browsers": [{"browser": "Mobile Safari"}]
		},
		{
			"os": "Windows",
			"os_version": "10",
			"browsers": [
				{"browser": "chrome", "browser_version": "last 2"},
				{"browser": "firefox", "browser_version": "76,77"}
			]
		}
	]`)

	groups, err := Load(path)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "iPhone 7", groups[0].Device)
	assert.Equal(t, "last 2", groups[1].Browsers[0].BrowserVersion)
	assert.Equal(t, "76,77", groups[1].Browsers[1].BrowserVersion)
}

func TestLoad_YAML(t *testing.T) {
	path := writeSpec(t, "browsers.yaml", `
- os: Windows
  os_version: "10"
  browsers:
    - browser: chrome
      browser_version: last 2
`)

	groups, err := Load(path)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Windows", groups[0].OS)
	assert.Equal(t, "last 2", groups[0].Browsers[0].BrowserVersion)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestLoad_MalformedDocument(t *testing.T) {
	path := writeSpec(t, "browsers.json", `{"not": "a list"}`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			"missing os",
			`[{"os_version": "10", "browsers": [{"browser": "chrome"}]}]`,
			"missing os",
		},
		{
			"missing os_version",
			`[{"os": "Windows", "browsers": [{"browser": "chrome"}]}]`,
			"missing os_version",
		},
		{
			"no browsers",
			`[{"os": "Windows", "os_version": "10", "browsers": []}]`,
			"no browsers declared",
		},
		{
			"unnamed browser",
			`[{"os": "Windows", "os_version": "10", "browsers": [{"browser_version": "last 1"}]}]`,
			"has no name",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSpec(t, "browsers.json", tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
