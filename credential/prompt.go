package credential

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
)

// PromptHandler returns a select handler that asks for a key on the terminal
// with a masked huh input and stores the answer in s.
func PromptHandler(s *Store, title string) func(context.Context) error {
	return func(ctx context.Context) error {
		var key string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title(title).
					Description("Get one at https://aistudio.google.com/apikey").
					EchoMode(huh.EchoModePassword).
					Value(&key).
					Validate(func(v string) error {
						if strings.TrimSpace(v) == "" {
							return fmt.Errorf("API key is required")
						}
						return nil
					}),
			),
		)
		if err := form.RunWithContext(ctx); err != nil {
			return fmt.Errorf("key selection aborted: %w", err)
		}
		s.Select(key)
		return nil
	}
}
