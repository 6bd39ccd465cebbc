package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"browser-matrix/internal/matcher"
)

var testTargets = []matcher.AvailableBrowser{
	{OS: "Windows", OSVersion: "10", Browser: "chrome", BrowserVersion: "83.0"},
	{OS: "ios", OSVersion: "13", Browser: "Mobile Safari", BrowserVersion: "13", Device: "iPhone 11"},
}

func shellInvoker(script string) *Invoker {
	return &Invoker{
		command: "sh",
		args:    []string{"-c", script},
		envVar:  "MATRIX_BROWSERS_FILE",
		runID:   uuid.NewString(),
	}
}

func artifactPath(iv *Invoker) string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("matrix-browsers-%s.json", iv.runID))
}

func TestRun_ArtifactVisibleToRunner(t *testing.T) {
	iv := shellInvoker(`[ -f "$MATRIX_BROWSERS_FILE" ]`)

	err := iv.Run(context.Background(), testTargets)
	require.NoError(t, err)

	_, statErr := os.Stat(artifactPath(iv))
	assert.True(t, os.IsNotExist(statErr), "artifact should be removed after the run")
}

func TestRun_RoundTrip(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "copy.json")
	iv := shellInvoker(fmt.Sprintf(`cp "$MATRIX_BROWSERS_FILE" %q`, dst))

	require.NoError(t, iv.Run(context.Background(), testTargets))

	raw, err := os.ReadFile(dst)
	require.NoError(t, err)
	var got []matcher.AvailableBrowser
	require.NoError(t, json.Unmarshal(raw, &got))

	var wantKeys, gotKeys []string
	for _, b := range testTargets {
		wantKeys = append(wantKeys, b.Key())
	}
	for _, b := range got {
		gotKeys = append(gotKeys, b.Key())
	}
	assert.ElementsMatch(t, wantKeys, gotKeys)
}

func TestRun_NonzeroExitPropagates(t *testing.T) {
	iv := shellInvoker("exit 3")

	err := iv.Run(context.Background(), testTargets)
	var xe *ExitError
	require.ErrorAs(t, err, &xe)
	assert.Equal(t, 3, xe.Code)

	_, statErr := os.Stat(artifactPath(iv))
	assert.True(t, os.IsNotExist(statErr), "artifact should be removed after a failed run")
}

func TestRun_LaunchFailure(t *testing.T) {
	iv := &Invoker{
		command: "definitely-not-a-real-runner",
		envVar:  "MATRIX_BROWSERS_FILE",
		runID:   uuid.NewString(),
	}

	err := iv.Run(context.Background(), testTargets)
	require.Error(t, err)
	var xe *ExitError
	assert.False(t, errors.As(err, &xe), "launch failure is not an ExitError")
}

func TestRun_NoCommand(t *testing.T) {
	iv := &Invoker{envVar: "MATRIX_BROWSERS_FILE", runID: uuid.NewString()}
	assert.Error(t, iv.Run(context.Background(), testTargets))
}

func TestRun_ConfigPathAppended(t *testing.T) {
	out := filepath.Join(t.TempDir(), "argv")
	iv := &Invoker{
		command: "sh",
		// sh -c SCRIPT NAME ARGS...: the appended config path arrives as $1.
		args:       []string{"-c", `printf '%s' "$1" > ` + out, "sh"},
		configPath: "runner.json",
		envVar:     "MATRIX_BROWSERS_FILE",
		runID:      uuid.NewString(),
	}

	require.NoError(t, iv.Run(context.Background(), testTargets))

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "runner.json", string(raw))
}
