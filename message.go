package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var ErrEmptyMessage = errors.New("please enter a message")

// readMessage picks the message from text or, if file is set, from a UTF-8
// text file, then applies the configured clean-up.
func readMessage(text, file string, cfg MessageConfig) (string, error) {
	if text != "" && file != "" {
		return "", errors.New("use either --message or --message-file, not both")
	}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("could not read text file: %w", err)
		}
		if !utf8.Valid(data) {
			return "", fmt.Errorf("could not read text file: %s is not valid UTF-8", file)
		}
		text = string(data)
	}

	msg := prepareMessage(text, cfg)
	if msg == "" {
		return "", ErrEmptyMessage
	}
	return msg, nil
}

// prepareMessage composes decomposed accents (e + U+0301 becomes U+00E9) so
// Latin-1 text stays inside the 0..254 range the codec accepts.
func prepareMessage(text string, cfg MessageConfig) string {
	if cfg.Trim {
		text = strings.TrimSpace(text)
	}
	if cfg.Normalize {
		text = norm.NFC.String(text)
	}
	return text
}
