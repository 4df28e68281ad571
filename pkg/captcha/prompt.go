package captcha

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
)

// PromptSolver saves the image to disk and asks the user to read it.
type PromptSolver struct {
	// Dir receives the image file. Empty means the system temp directory.
	Dir string
	// Ask shows the saved image path and returns what the user typed.
	// Nil uses an interactive huh input.
	Ask func(path string) (string, error)
}

// Solve writes the image and prompts for its text.
func (p *PromptSolver) Solve(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if p.Dir != "" {
		if err := os.MkdirAll(p.Dir, 0755); err != nil {
			return "", fmt.Errorf("could not create captcha directory: %w", err)
		}
	}
	f, err := os.CreateTemp(p.Dir, "captcha-*"+extension(image))
	if err != nil {
		return "", fmt.Errorf("could not save captcha image: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.Write(image); err != nil {
		f.Close()
		return "", fmt.Errorf("could not save captcha image: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	ask := p.Ask
	if ask == nil {
		ask = askInteractive
	}
	answer, err := ask(path)
	if err != nil {
		return "", err
	}
	answer = clean(answer)
	if answer == "" {
		return "", ErrEmptyAnswer
	}
	return answer, nil
}

func extension(image []byte) string {
	switch http.DetectContentType(image) {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/jpeg":
		return ".jpg"
	}
	return ".img"
}

func askInteractive(path string) (string, error) {
	var answer string
	err := huh.NewInput().
		Title("Enter the security code").
		Description("Open " + path + " and type the characters you see.").
		Value(&answer).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("the code cannot be empty")
			}
			return nil
		}).
		Run()
	return answer, err
}
