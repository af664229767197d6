package runner_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/aretw0/robotstudio/pkg/runner"
	"github.com/stretchr/testify/assert"
)

func TestIsTerminal(t *testing.T) {
	assert.False(t, runner.IsTerminal(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	assert.NoError(t, err)
	defer f.Close()
	assert.False(t, runner.IsTerminal(f), "regular files are not terminals")
}
