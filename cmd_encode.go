package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type encodeFlags struct {
	image       string
	out         string
	message     string
	messageFile string
	password    string
}

func (a *app) encodeCmd() *cobra.Command {
	var f encodeFlags
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Write a message into an image",
		Example: `  pixsteg encode -i photo.jpg -m "meet at noon" -p secret -o photo.png
  pixsteg encode -i photo.png -f note.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runEncode(f)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.image, "image", "i", "", "image to write the message into")
	fl.StringVarP(&f.out, "out", "o", "", "output image (default <image>.steg.<format>)")
	fl.StringVarP(&f.message, "message", "m", "", "message text")
	fl.StringVarP(&f.messageFile, "message-file", "f", "", "read the message from a UTF-8 text file")
	fl.StringVarP(&f.password, "password", "p", "", "password (prompted if omitted)")
	return cmd
}

func (a *app) runEncode(f encodeFlags) error {
	if f.image == "" {
		return errors.New("please select an image first")
	}
	msg, err := readMessage(f.message, f.messageFile, a.cfg.Message)
	if err != nil {
		return err
	}
	if _, err := readPassword(f.password, a.cfg.Password.Required, a.stdin, a.stderr); err != nil {
		return err
	}

	out := f.out
	if out == "" {
		out = strings.TrimSuffix(f.image, filepath.Ext(f.image)) + ".steg." + string(a.cfg.OutputFormat())
	}
	out, format, err := OutputPath(out, a.cfg.OutputFormat())
	if err != nil {
		return err
	}

	buf, srcFormat, err := LoadImage(f.image)
	if err != nil {
		return err
	}
	a.log.Debug("image loaded",
		zap.String("path", f.image),
		zap.String("format", string(srcFormat)),
		zap.Int("width", buf.Width),
		zap.Int("height", buf.Height),
		zap.Int("max_chars", MaxAllowed(buf)),
	)

	if err := Encode(buf, msg); err != nil {
		var ce *CapacityError
		if errors.As(err, &ce) {
			a.log.Warn("message rejected", zap.Int("chars", ce.Length), zap.Int("max_chars", ce.MaxAllowed))
			return fmt.Errorf("message is too long! Maximum %d characters allowed for this image: %w", ce.MaxAllowed, err)
		}
		a.log.Warn("encode failed, image discarded", zap.Error(err))
		return err
	}

	if err := SaveImage(out, buf, format); err != nil {
		return fmt.Errorf("save %s: %w", out, err)
	}
	a.log.Info("message encoded successfully",
		zap.String("out", out),
		zap.String("format", string(format)),
		zap.Int("chars", len([]rune(msg))),
	)
	fmt.Fprintf(a.stdout, "Encoded %s → %s\n", f.image, out)
	return nil
}
