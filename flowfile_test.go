package helpflow

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFlowFile = `
flows:
  - id: onboarding
    description: Getting started
    showInitially: true
    items:
      - target: btn-save
      - id: step-export
        target: btn-export
  - id: power-tips
    items:
      - target: btn-shortcuts
`

func TestParseFlowFile(t *testing.T) {
	f, err := ParseFlowFile([]byte(sampleFlowFile))
	require.NoError(t, err)

	require.Len(t, f.Flows, 2)
	assert.Equal(t, "onboarding", f.Flows[0].ID)
	assert.True(t, f.Flows[0].ShowInitially)
	require.Len(t, f.Flows[0].Items, 2)
	assert.Equal(t, "", f.Flows[0].Items[0].ID)
	assert.Equal(t, "step-export", f.Flows[0].Items[1].ID)
	assert.False(t, f.Flows[1].ShowInitially)
}

func TestParseFlowFileValidation(t *testing.T) {
	cases := map[string]string{
		"missing flow id": `
flows:
  - description: nameless
    items:
      - target: x
`,
		"duplicate flow": `
flows:
  - id: a
    items:
      - target: x
  - id: a
    items:
      - target: y
`,
		"no items": `
flows:
  - id: a
`,
		"item without target": `
flows:
  - id: a
    items:
      - id: only-an-id
`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseFlowFile([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFlowFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flows.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleFlowFile), 0o644))

	f, err := LoadFlowFile(path)
	require.NoError(t, err)
	assert.Len(t, f.Flows, 2)

	_, err = LoadFlowFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestFlowFileRegister(t *testing.T) {
	ctrl := NewInMemoryController()

	f, err := ParseFlowFile([]byte(sampleFlowFile))
	require.NoError(t, err)
	require.NoError(t, f.Register(ctrl))

	snap := ctrl.Snapshot()
	require.Len(t, snap.Flows, 2)

	onboarding := snap.Flows["onboarding"]
	assert.True(t, onboarding.Visible)
	require.Len(t, onboarding.Items, 2)
	// Document order defines step order; unnamed items derive their ids.
	assert.Equal(t, ItemID("onboarding/btn-save/0"), onboarding.Items[0])
	assert.Equal(t, ItemID("step-export"), onboarding.Items[1])

	assert.False(t, snap.Flows["power-tips"].Visible)
}
