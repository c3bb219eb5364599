package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/fwojciec/scratches"
	"github.com/fwojciec/scratches/goquery"
)

// Run executes the settings show command.
func (c *SettingsShowCmd) Run(deps *Dependencies) error {
	loaded, err := deps.Settings.LoadSettings(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scratches.ErrorMessage(err))
		return err
	}

	data, err := scratches.MarshalSettings(loaded.Settings)
	if err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout, string(data))
	fmt.Fprintf(deps.Stderr, "source: %s\n", loaded.Source)
	return nil
}

// Run executes the settings reset command.
func (c *SettingsResetCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintln(deps.Stderr, "This replaces all settings with the defaults. Run again with --force to confirm.")
		return fmt.Errorf("reset requires --force")
	}
	return saveSettings(deps, scratches.DefaultSettings())
}

// Run executes the settings import command. Legacy documents are migrated.
func (c *SettingsImportCmd) Run(deps *Dependencies) error {
	data, err := readInput(deps, c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scratches.ErrorMessage(err))
		return err
	}

	settings, err := scratches.ParseSettings(data)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scratches.ErrorMessage(err))
		return err
	}
	return saveSettings(deps, settings)
}

// Run executes the settings preset command.
func (c *SettingsPresetCmd) Run(deps *Dependencies) error {
	if c.Name == "" {
		for _, name := range scratches.PresetNames() {
			selectors, _ := scratches.Preset(name)
			fmt.Fprintf(deps.Stdout, "%-10s %s\n", name, strings.Join(selectors, ", "))
		}
		return nil
	}

	return updateSettings(deps, func(s scratches.Settings) (scratches.Settings, error) {
		return s.WithPreset(c.Name)
	})
}

// Run executes the settings selectors add command. New selectors are tried
// before the existing ones.
func (c *SelectorAddCmd) Run(deps *Dependencies) error {
	return updateSettings(deps, func(s scratches.Settings) (scratches.Settings, error) {
		if err := validateSelectors(c.Selectors); err != nil {
			return s, err
		}
		s.ContentExtraction.Strategy = scratches.StrategyCustom
		s.ContentExtraction.CustomSelectors = append(slices.Clone(c.Selectors), s.ContentSelectors()...)
		return s, nil
	})
}

// Run executes the settings selectors rm command.
func (c *SelectorRemoveCmd) Run(deps *Dependencies) error {
	return updateSettings(deps, func(s scratches.Settings) (scratches.Settings, error) {
		kept, err := removeSelectors(s.ContentSelectors(), c.Selectors)
		if err != nil {
			return s, err
		}
		s.ContentExtraction.Strategy = scratches.StrategyCustom
		s.ContentExtraction.CustomSelectors = kept
		return s, nil
	})
}

// Run executes the settings filters add command.
func (c *FilterAddCmd) Run(deps *Dependencies) error {
	return updateSettings(deps, func(s scratches.Settings) (scratches.Settings, error) {
		if err := validateSelectors(c.Selectors); err != nil {
			return s, err
		}
		s.AdvancedFiltering.CustomFilters = append(s.AdvancedFiltering.CustomFilters, c.Selectors...)
		return s, nil
	})
}

// Run executes the settings filters rm command.
func (c *FilterRemoveCmd) Run(deps *Dependencies) error {
	return updateSettings(deps, func(s scratches.Settings) (scratches.Settings, error) {
		kept, err := removeSelectors(s.AdvancedFiltering.CustomFilters, c.Selectors)
		if err != nil {
			return s, err
		}
		s.AdvancedFiltering.CustomFilters = kept
		return s, nil
	})
}

// updateSettings loads the settings, applies fn and saves the result.
func updateSettings(deps *Dependencies, fn func(scratches.Settings) (scratches.Settings, error)) error {
	loaded, err := deps.Settings.LoadSettings(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scratches.ErrorMessage(err))
		return err
	}

	settings, err := fn(loaded.Settings)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scratches.ErrorMessage(err))
		return err
	}
	return saveSettings(deps, settings)
}

func saveSettings(deps *Dependencies, settings scratches.Settings) error {
	result, err := deps.Settings.SaveSettings(deps.Ctx, settings)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", scratches.ErrorMessage(err))
		return err
	}

	if result.SavedToCloud {
		fmt.Fprintln(deps.Stdout, "Settings saved and synced.")
	} else {
		fmt.Fprintln(deps.Stdout, "Settings saved locally.")
	}
	return nil
}

func validateSelectors(selectors []string) error {
	for _, s := range selectors {
		if !goquery.ValidSelector(s) {
			return scratches.Errorf(scratches.EINVALID, "invalid selector %q", s)
		}
	}
	return nil
}

// removeSelectors returns list without the given selectors.
// Returns ENOTFOUND if a selector is not in list.
func removeSelectors(list, remove []string) ([]string, error) {
	for _, r := range remove {
		if !slices.Contains(list, strings.TrimSpace(r)) {
			return nil, scratches.Errorf(scratches.ENOTFOUND, "selector %q not found", r)
		}
	}
	return slices.DeleteFunc(slices.Clone(list), func(s string) bool {
		return slices.ContainsFunc(remove, func(r string) bool { return strings.TrimSpace(r) == s })
	}), nil
}
