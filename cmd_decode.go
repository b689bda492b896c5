package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type decodeFlags struct {
	image    string
	out      string
	password string
}

func (a *app) decodeCmd() *cobra.Command {
	var f decodeFlags
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Read the message stored in an image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDecode(f)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.image, "image", "i", "", "image holding the message")
	fl.StringVarP(&f.out, "out", "o", "", "write the message to this file instead of stdout")
	fl.StringVarP(&f.password, "password", "p", "", "password (prompted if omitted)")
	return cmd
}

func (a *app) runDecode(f decodeFlags) error {
	if f.image == "" {
		return errors.New("please select an image first")
	}
	if _, err := readPassword(f.password, a.cfg.Password.Required, a.stdin, a.stderr); err != nil {
		return err
	}

	buf, format, err := LoadImage(f.image)
	if err != nil {
		return err
	}
	a.log.Debug("image loaded", zap.String("path", f.image), zap.String("format", string(format)))

	msg, err := Decode(buf)
	if err != nil {
		return err
	}
	a.log.Info("message decoded", zap.Int("chars", len([]rune(msg))))

	if f.out != "" {
		if err := os.WriteFile(f.out, []byte(msg), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.out, err)
		}
		return nil
	}
	fmt.Fprintln(a.stdout, msg)
	return nil
}
