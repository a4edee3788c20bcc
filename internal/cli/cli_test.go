package cli

import (
	"os"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags_DisasmOptions(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantLower  bool
		wantBytes  bool
		wantRefs   bool
		wantBlocks int
	}{
		{
			name:       "default flags",
			args:       []string{"prog", "test.bin"},
			wantLower:  true,
			wantBytes:  true,
			wantRefs:   true,
			wantBlocks: 2,
		},
		{
			name:       "upper flag",
			args:       []string{"prog", "-upper", "test.bin"},
			wantBytes:  true,
			wantRefs:   true,
			wantBlocks: 2,
		},
		{
			name:       "nobytes flag",
			args:       []string{"prog", "-nobytes", "test.bin"},
			wantLower:  true,
			wantRefs:   true,
			wantBlocks: 2,
		},
		{
			name:       "norefs and blocklines flags",
			args:       []string{"prog", "-norefs", "-blocklines", "3", "test.bin"},
			wantLower:  true,
			wantBytes:  true,
			wantBlocks: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			t.Cleanup(func() { os.Args = oldArgs })

			os.Args = tt.args

			opts, got, err := ParseFlags()
			assert.NoError(t, err)
			assert.Equal(t, "test.bin", opts.Input)
			assert.Equal(t, tt.wantLower, got.OpcodesLowerCase)
			assert.Equal(t, tt.wantBytes, got.AddOpcodeBytes)
			assert.Equal(t, tt.wantRefs, got.AddReferencesToSubroutines)
			assert.Equal(t, tt.wantRefs, got.AddReferencesToDataLabels)
			assert.Equal(t, tt.wantBlocks, got.NumberOfLinesBetweenBlocks)
		})
	}
}

func TestParseFlags_ProgramOptions(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })

	os.Args = []string{"prog", "-f", "SNA", "-o", "out.asm", "-dot", "calls.dot",
		"-org", "16384", "-e", "0,8000", "-jumptable", "4000,8", "game.sna"}

	opts, _, err := ParseFlags()
	assert.NoError(t, err)
	assert.Equal(t, "game.sna", opts.Input)
	assert.Equal(t, "out.asm", opts.Output)
	assert.Equal(t, "calls.dot", opts.DOT)
	assert.Equal(t, "sna", opts.Kind)
	assert.Equal(t, uint(16384), opts.Origin)
	assert.Equal(t, "0,8000", opts.Entries)
	assert.Equal(t, "4000,8", opts.JumpTable)
}

func TestParseFlags_InvalidKind(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })

	os.Args = []string{"prog", "-f", "tape", "test.bin"}

	_, _, err := ParseFlags()
	assert.Error(t, err)
}

func TestValidateArgs(t *testing.T) {
	assert.NoError(t, validateArgs([]string{"test.bin"}))
	assert.Error(t, validateArgs([]string{"test.bin", "-q"}))
}
