package scratches

import (
	"encoding/json"
	"strings"
)

// Legacy output flags replaced by OutputFormat.Template.
const (
	legacyIncludeSource    = "includeSource"
	legacyIncludeSeparator = "includeSeparator"
	legacyIncludeTimestamp = "includeTimestamp"
)

var legacyFlags = []string{legacyIncludeSource, legacyIncludeSeparator, legacyIncludeTimestamp}

// MigrateSettings upgrades a stored settings object to the current shape.
// When no template is stored, one is built from the legacy include* flags;
// the flags are then removed. A missing titleFormat becomes "h1".
// The input is not modified and MigrateSettings(MigrateSettings(x)) equals
// MigrateSettings(x).
func MigrateSettings(raw map[string]any) map[string]any {
	out := copyMap(raw)

	output, ok := out["outputFormat"].(map[string]any)
	if !ok {
		output = make(map[string]any)
		out["outputFormat"] = output
	}

	if _, ok := output["template"].(string); !ok {
		output["template"] = legacyTemplate(
			legacyFlag(out, output, legacyIncludeSource, true),
			legacyFlag(out, output, legacyIncludeSeparator, true),
			legacyFlag(out, output, legacyIncludeTimestamp, false),
		)
	}
	for _, k := range legacyFlags {
		delete(out, k)
		delete(output, k)
	}

	if tf, ok := output["titleFormat"].(string); !ok || tf == "" {
		output["titleFormat"] = string(TitleH1)
	}

	return out
}

// legacyFlag looks a flag up in outputFormat first, then at the top level.
func legacyFlag(top, output map[string]any, key string, def bool) bool {
	if v, ok := output[key].(bool); ok {
		return v
	}
	if v, ok := top[key].(bool); ok {
		return v
	}
	return def
}

// legacyTemplate edits DefaultTemplate line by line: {timestamp} goes on
// the line right after {url}, and the {url} and --- lines are dropped when
// their flags are off.
func legacyTemplate(includeSource, includeSeparator, includeTimestamp bool) string {
	var lines []string
	for _, line := range strings.Split(DefaultTemplate, "\n") {
		switch strings.TrimSpace(line) {
		case "{url}":
			if includeSource {
				lines = append(lines, line)
			}
			if includeTimestamp {
				lines = append(lines, "{timestamp}")
			}
			continue
		case "---":
			if !includeSeparator {
				continue
			}
		}
		lines = append(lines, line)
	}

	// Dropped lines leave runs of blank lines behind.
	var out []string
	for i, line := range lines {
		if line == "" && i > 0 && lines[i-1] == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// MergeSettings overlays stored on defaults. Objects merge recursively;
// any other stored value, arrays included, replaces the default.
func MergeSettings(defaults Settings, stored map[string]any) (Settings, error) {
	data, err := json.Marshal(defaults)
	if err != nil {
		return Settings{}, err
	}
	var base map[string]any
	if err := json.Unmarshal(data, &base); err != nil {
		return Settings{}, err
	}

	merged := mergeMaps(base, stored)

	data, err = json.Marshal(merged)
	if err != nil {
		return Settings{}, err
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, Errorf(EINVALID, "invalid settings: %v", err)
	}
	return s, nil
}

func mergeMaps(base, overlay map[string]any) map[string]any {
	out := copyMap(base)
	for k, v := range overlay {
		if v == nil {
			continue
		}
		bm, baseIsMap := out[k].(map[string]any)
		om, overlayIsMap := v.(map[string]any)
		switch {
		case baseIsMap && overlayIsMap:
			out[k] = mergeMaps(bm, om)
		case baseIsMap:
			// A scalar cannot replace a whole section.
		default:
			out[k] = copyValue(v)
		}
	}
	return out
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		return copyMap(v)
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}
