package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	return runCLIWithInput(t, "", args...)
}

func runCLIWithInput(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := &app{stdin: strings.NewReader(stdin), stdout: &out, stderr: &errOut}
	root := a.rootCmd()
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func writeCarrier(t *testing.T, dir string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, "carrier.png")
	require.NoError(t, SaveImage(path, makeTestBuffer(w, h), FormatPNG))
	return path
}

func TestCLI_EncodeDecode(t *testing.T) {
	dir := t.TempDir()
	in := writeCarrier(t, dir, 40, 30)
	out := filepath.Join(dir, "hidden.bmp")

	stdout, _, err := runCLI(t, "encode", "-i", in, "-o", out, "-m", "  meet at noon  ", "-p", "pw")
	require.NoError(t, err)
	assert.Contains(t, stdout, out)

	stdout, _, err = runCLI(t, "decode", "-i", out, "-p", "pw")
	require.NoError(t, err)
	assert.Equal(t, "meet at noon\n", stdout)

	// the carrier itself is not modified
	orig, _, err := LoadImage(in)
	require.NoError(t, err)
	assert.Equal(t, makeTestBuffer(40, 30).Pix, orig.Pix)
}

func TestCLI_DefaultOutputAndMessageFile(t *testing.T) {
	dir := t.TempDir()
	in := writeCarrier(t, dir, 20, 20)
	note := filepath.Join(dir, "note.txt")
	require.NoError(t, os.WriteFile(note, []byte("from a file\n"), 0o644))

	_, _, err := runCLI(t, "encode", "-i", in, "-f", note, "-p", "pw")
	require.NoError(t, err)

	encoded := filepath.Join(dir, "carrier.steg.png")
	require.FileExists(t, encoded)

	msgOut := filepath.Join(dir, "recovered.txt")
	stdout, _, err := runCLI(t, "decode", "-i", encoded, "-p", "pw", "-o", msgOut)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(msgOut)
	require.NoError(t, err)
	assert.Equal(t, "from a file", string(data))
}

func TestCLI_DefaultOutputFollowsConfigFormat(t *testing.T) {
	dir := t.TempDir()
	in := writeCarrier(t, dir, 20, 20)

	for _, format := range []Format{FormatBMP, FormatQOI, FormatPXZ} {
		t.Run(string(format), func(t *testing.T) {
			cfgPath := filepath.Join(dir, string(format)+".yaml")
			require.NoError(t, os.WriteFile(cfgPath, []byte("output:\n  format: "+string(format)+"\n"), 0o600))

			_, _, err := runCLI(t, "--config", cfgPath, "encode", "-i", in, "-m", "hi", "-p", "pw")
			require.NoError(t, err)

			encoded := filepath.Join(dir, "carrier.steg."+string(format))
			require.FileExists(t, encoded)

			stdout, _, err := runCLI(t, "decode", "-i", encoded, "-p", "pw")
			require.NoError(t, err)
			assert.Equal(t, "hi\n", stdout)
		})
	}
}

func TestCLI_MessageTooLong(t *testing.T) {
	dir := t.TempDir()
	in := writeCarrier(t, dir, 4, 4)
	out := filepath.Join(dir, "out.png")

	_, stderr, err := runCLI(t, "encode", "-i", in, "-o", out, "-m", "abcdef", "-p", "pw")
	require.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Contains(t, err.Error(), "Maximum 5 characters")
	assert.Contains(t, stderr, "message rejected")
	assert.NoFileExists(t, out)

	var ce *CapacityError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 6, ce.Length)
	assert.Equal(t, 5, ce.MaxAllowed)
}

func TestCLI_FailedEncodeSavesNothing(t *testing.T) {
	dir := t.TempDir()
	in := writeCarrier(t, dir, 16, 1)
	out := filepath.Join(dir, "out.png")

	_, _, err := runCLI(t, "encode", "-i", in, "-o", out, "-m", "abc", "-p", "pw")
	require.ErrorIs(t, err, ErrBufferExhausted)
	assert.NoFileExists(t, out)

	in = writeCarrier(t, dir, 10, 10)
	_, _, err = runCLI(t, "encode", "-i", in, "-o", out, "-m", "price: 5€", "-p", "pw")
	require.ErrorIs(t, err, ErrUnsupportedCharacter)
	assert.NoFileExists(t, out)
}

func TestCLI_InputValidation(t *testing.T) {
	dir := t.TempDir()
	in := writeCarrier(t, dir, 10, 10)

	for _, tc := range []struct {
		name string
		args []string
		want string
	}{
		{name: "no_image", args: []string{"encode", "-m", "x", "-p", "pw"}, want: "select an image"},
		{name: "no_message", args: []string{"encode", "-i", in, "-p", "pw"}, want: "enter a message"},
		{name: "lossy_out", args: []string{"encode", "-i", in, "-m", "x", "-p", "pw", "-o", filepath.Join(dir, "x.jpg")}, want: "lossy"},
		{name: "missing_image", args: []string{"decode", "-i", filepath.Join(dir, "nope.png"), "-p", "pw"}, want: "could not read image"},
		{name: "decode_no_image", args: []string{"decode", "-p", "pw"}, want: "select an image"},
		{name: "bad_log_level", args: []string{"--log-level", "loud", "capacity", "-i", in}, want: "log.level"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := runCLI(t, tc.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestCLI_PasswordOptionalByConfig(t *testing.T) {
	dir := t.TempDir()
	in := writeCarrier(t, dir, 10, 10)
	out := filepath.Join(dir, "out.qoi")
	cfgPath := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("password:\n  required: false\n"), 0o600))

	_, _, err := runCLI(t, "--config", cfgPath, "encode", "-i", in, "-o", out, "-m", "no pw")
	require.NoError(t, err)

	stdout, _, err := runCLI(t, "--config", cfgPath, "decode", "-i", out)
	require.NoError(t, err)
	assert.Equal(t, "no pw\n", stdout)
}

func TestCLI_PasswordFromStdin(t *testing.T) {
	dir := t.TempDir()
	in := writeCarrier(t, dir, 10, 10)
	out := filepath.Join(dir, "out.png")

	for _, tc := range []struct {
		name    string
		stdin   string
		args    []string
		wantErr error
	}{
		{name: "encode_piped", stdin: "secret\n", args: []string{"encode", "-i", in, "-o", out, "-m", "piped"}},
		{name: "decode_piped", stdin: "secret\r\n", args: []string{"decode", "-i", out}},
		{name: "encode_empty", stdin: "", args: []string{"encode", "-i", in, "-o", out, "-m", "x"}, wantErr: ErrPasswordRequired},
		{name: "decode_blank_line", stdin: "\n", args: []string{"decode", "-i", out}, wantErr: ErrPasswordRequired},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := runCLIWithInput(t, tc.stdin, tc.args...)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCLI_Capacity(t *testing.T) {
	dir := t.TempDir()

	stdout, _, err := runCLI(t, "capacity", "-i", writeCarrier(t, dir, 10, 10))
	require.NoError(t, err)
	assert.Equal(t, "36\n", stdout)
}

func TestCLI_LogFile(t *testing.T) {
	dir := t.TempDir()
	in := writeCarrier(t, dir, 10, 10)
	logPath := filepath.Join(dir, "logs", "pixsteg.log")

	_, stderr, err := runCLI(t, "--log-file", logPath, "-v", "capacity", "-i", in)
	require.NoError(t, err)
	assert.Contains(t, stderr, "image loaded")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"image loaded"`)
}
