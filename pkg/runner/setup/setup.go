// Package setup walks the user through writing a .pods.yaml.
package setup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"tableflip.dev/pods/pkg/store"
)

// AskFunc prompts for one value. def is returned for an empty answer.
type AskFunc func(label, def string, mask bool, validate promptui.ValidateFunc) (string, error)

// Setup prompts for the server, API key and user, then saves the config.
type Setup struct {
	// Path of the config file; empty uses store.ConfigPath.
	Path     string
	Defaults store.Settings
	Ask      AskFunc
	In       io.Reader
	Out      io.Writer
}

func (s *Setup) Do(ctx context.Context) error {
	ask := s.Ask
	if ask == nil {
		ask = s.prompt
	}

	path := s.Path
	if path == "" {
		var err error
		if path, err = store.ConfigPath(""); err != nil {
			return err
		}
	}

	settings := s.Defaults
	if settings.URL == "" {
		settings.URL = "http://localhost:8040"
	}
	if settings.User == 0 {
		settings.User = 1
	}

	server, err := ask("Server URL", settings.URL, false, validateURL)
	if err != nil {
		return err
	}
	key, err := ask("API key", settings.Key, true, func(input string) error {
		if strings.TrimSpace(input) == "" && settings.Key == "" {
			return errors.New("empty")
		}
		return nil
	})
	if err != nil {
		return err
	}
	user, err := ask("User ID", strconv.Itoa(int(settings.User)), false, validateUser)
	if err != nil {
		return err
	}
	id, _ := strconv.ParseInt(user, 10, 32)

	settings.URL = strings.TrimRight(strings.TrimSpace(server), "/")
	settings.Key = strings.TrimSpace(key)
	settings.User = int32(id)

	if err := store.SaveConfig(path, &settings); err != nil {
		return err
	}
	if s.Out != nil {
		_, _ = fmt.Fprintf(s.Out, "Wrote %s\n", path)
	}
	return nil
}

func (s *Setup) prompt(label, def string, mask bool, validate promptui.ValidateFunc) (string, error) {
	templates := &promptui.PromptTemplates{
		Prompt:  "{{ . }} : ",
		Valid:   "{{ . | green }} : ",
		Invalid: "{{ . | red }} : ",
		Success: "{{ . | bold }} : ",
	}

	prompt := promptui.Prompt{
		Label:     label,
		Default:   def,
		Templates: templates,
		Validate: func(input string) error {
			if input == "" {
				input = def
			}
			return validate(input)
		},
	}
	if mask {
		prompt.Mask = '*'
		prompt.Default = ""
	}
	if s.In != nil {
		prompt.Stdin = io.NopCloser(s.In)
	}
	if s.Out != nil {
		prompt.Stdout = nopWriteCloser{s.Out}
	}

	result, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("setup: %s: %w", label, err)
	}
	if result == "" {
		result = def
	}
	return result, nil
}

func validateURL(input string) error {
	u, err := url.Parse(strings.TrimSpace(input))
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must be an http or https url")
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}

func validateUser(input string) error {
	id, err := strconv.ParseInt(strings.TrimSpace(input), 10, 32)
	if err != nil {
		return errors.New("must be a number")
	}
	if id <= 0 {
		return errors.New("must be positive")
	}
	return nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
