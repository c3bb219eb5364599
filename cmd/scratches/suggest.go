package main

import (
	"fmt"

	"github.com/fwojciec/scratches"
)

// Run executes the suggest command.
func (c *SuggestCmd) Run(deps *Dependencies) error {
	suggestion, err := deps.Finder.SuggestSelectors(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scratches.ErrorMessage(err))
		return err
	}

	if suggestion.ContentSelector != "" {
		fmt.Fprintf(deps.Stdout, "Content:  %s\n", suggestion.ContentSelector)
	}
	for _, s := range suggestion.ElementsToRemove {
		fmt.Fprintf(deps.Stdout, "Remove:   %s\n", s)
	}

	if !c.Apply {
		return nil
	}

	loaded, err := deps.Settings.LoadSettings(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scratches.ErrorMessage(err))
		return err
	}
	return saveSettings(deps, suggestion.Apply(loaded.Settings))
}
