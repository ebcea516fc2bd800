package cli_test

import (
	"bytes"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debugcon/internal/cli"
	"debugcon/internal/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := cli.NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)

	err := cmd.ExecuteContext(t.Context())

	return out.String(), err
}

func TestPrint(t *testing.T) {
	tcs := map[string]struct {
		args    []string
		want    string
		wantErr string
	}{
		"text and numbers": {
			args: []string{"print", "--backend", "text", `hello %s %d %x\n`, "world", "42", "0xbeef"},
			want: "hello world 42 BEEF\n",
		},
		"negative numbers after dash": {
			args: []string{"print", "--backend", "text", "--", "%d", "-7"},
			want: "-7\n",
		},
		"escapes": {
			args: []string{"print", "--backend", "text", `a\tb\\c\q`},
			want: "a       b\\c\\q\n",
		},
		"unsupported directive keeps prior output": {
			args:    []string{"print", "--backend", "text", "ab%q"},
			want:    "ab\n",
			wantErr: "kfmt: unsupported directive at offset 2",
		},
		"missing argument": {
			args:    []string{"print", "--backend", "text", "%d%d", "1"},
			want:    "1\n",
			wantErr: "kfmt: missing argument at offset 2",
		},
		"text for integer directive": {
			args:    []string{"print", "--backend", "text", "%d", "abc"},
			wantErr: "kfmt: wrong argument type at offset 0",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			out, err := execute(t, tc.args...)
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tc.want, out)
		})
	}
}

func TestPrintInvalidBackend(t *testing.T) {
	_, err := execute(t, "print", "--backend", "vnc", "x")
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestPrintWithConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "debugcon.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
console:
  clear: false
output:
  backend: text
`), 0o600))

	out, err := execute(t, "print", "--config", path, "hi")
	require.NoError(t, err)
	assert.Equal(t, "[hal] vga_text_console(0.1.0): initialized\nhi\n", out)
}

func TestPrintPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screen.png")

	out, err := execute(t, "print", "--backend", "png", "-o", path, "boot ok")
	require.NoError(t, err)
	assert.Empty(t, out)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 80*7, img.Bounds().Dx())
	assert.Equal(t, 25*13, img.Bounds().Dy())
}

func TestRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boot.lua")
	require.NoError(t, os.WriteFile(path, []byte(`
console.color(0x1F)
for i = 1, 3 do
  console.printf("line %d\n", i)
end
print("done")
`), 0o600))

	out, err := execute(t, "run", "--backend", "text", path)
	require.NoError(t, err)
	assert.Equal(t, "line 1\nline 2\nline 3\ndone\n", out)
}

func TestRunScriptError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.lua")
	require.NoError(t, os.WriteFile(path, []byte(`
console.puts("partial")
error("boom")
`), 0o600))

	out, err := execute(t, "run", "--backend", "text", path)
	require.ErrorContains(t, err, "boom")
	assert.Equal(t, "partial\n", out)
}

func TestRunArgs(t *testing.T) {
	_, err := execute(t, "run")
	require.Error(t, err)
}
