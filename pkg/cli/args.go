package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Fepozopo/rasterfx/pkg/raster"
)

// parseBoolLike accepts common truthy/falsy forms and returns "true"/"false".
func parseBoolLike(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "y", "yes", "on":
		return "true", nil
	case "0", "f", "false", "n", "no", "off":
		return "false", nil
	default:
		return "", fmt.Errorf("invalid boolean: %q", s)
	}
}

// parseNumber parses a float, tolerating a trailing "%" for arguments
// such as clip percentages.
func parseNumber(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
}

func checkRange(a raster.ArgSpec, v float64) error {
	if a.Min == 0 && a.Max == 0 {
		return nil
	}
	if v < a.Min {
		return fmt.Errorf("parameter %s: %v < min %v", a.Name, v, a.Min)
	}
	if v > a.Max {
		return fmt.Errorf("parameter %s: %v > max %v", a.Name, v, a.Max)
	}
	return nil
}

// Tooltip renders the help text for a registry command.
func Tooltip(c raster.CommandSpec) string {
	var sb strings.Builder
	sb.WriteString(c.Usage)
	if c.Description != "" {
		sb.WriteString("\n" + c.Description)
	}
	for _, a := range c.Args {
		req := "optional"
		if a.Required {
			req = "required"
		}
		fmt.Fprintf(&sb, "\n  %s (%s, %s)", a.Name, a.Type, req)
		if a.Description != "" {
			sb.WriteString(": " + a.Description)
		}
		if len(a.Choices) > 0 {
			sb.WriteString(" [" + strings.Join(a.Choices, "|") + "]")
		} else if a.Min != 0 || a.Max != 0 {
			fmt.Fprintf(&sb, " [%v..%v]", a.Min, a.Max)
		}
		if a.Default != "" {
			sb.WriteString(" (default: " + a.Default + ")")
		}
	}
	return sb.String()
}

// NormalizeArgs checks raw prompt answers against the command's argument
// metadata and returns them in canonical form. Empty answers for optional
// arguments are left empty so the engine applies its default; trailing
// empties are dropped.
func NormalizeArgs(c raster.CommandSpec, raw []string) ([]string, error) {
	if len(raw) > len(c.Args) {
		return nil, fmt.Errorf("%s takes at most %d arguments, got %d", c.Name, len(c.Args), len(raw))
	}
	out := make([]string, len(c.Args))
	last := -1
	for i, a := range c.Args {
		var v string
		if i < len(raw) {
			v = strings.TrimSpace(raw[i])
		}
		if v == "" {
			if a.Required {
				return nil, fmt.Errorf("missing required parameter: %s", a.Name)
			}
			continue
		}
		switch a.Type {
		case "int":
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: expected integer, got %q", a.Name, v)
			}
			if err := checkRange(a, float64(n)); err != nil {
				return nil, err
			}
			v = strconv.Itoa(n)
		case "float":
			f, err := parseNumber(v)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: expected number, got %q", a.Name, v)
			}
			if err := checkRange(a, f); err != nil {
				return nil, err
			}
			v = strconv.FormatFloat(f, 'f', -1, 64)
		case "bool":
			b, err := parseBoolLike(v)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: %w", a.Name, err)
			}
			v = b
		case "enum":
			match := ""
			for _, choice := range a.Choices {
				if strings.EqualFold(choice, v) {
					match = choice
					break
				}
			}
			if match == "" {
				return nil, fmt.Errorf("parameter %s: %q is not one of %s", a.Name, v, strings.Join(a.Choices, ", "))
			}
			v = match
		case "string":
		default:
			return nil, fmt.Errorf("parameter %s: unsupported param type %q", a.Name, a.Type)
		}
		out[i] = v
		last = i
	}
	return out[:last+1], nil
}

// FindCommand resolves a selection typed at the prompt: a 1-based index
// into commands, an exact name (case-insensitive) or a unique prefix.
func FindCommand(commands []raster.CommandSpec, selection string) (raster.CommandSpec, error) {
	selection = strings.TrimSpace(selection)
	if selection == "" {
		return raster.CommandSpec{}, fmt.Errorf("no command selected")
	}
	if idx, err := strconv.Atoi(selection); err == nil {
		if idx < 1 || idx > len(commands) {
			return raster.CommandSpec{}, fmt.Errorf("invalid selection %d", idx)
		}
		return commands[idx-1], nil
	}
	lower := strings.ToLower(selection)
	var matches []raster.CommandSpec
	for _, c := range commands {
		name := strings.ToLower(c.Name)
		if name == lower {
			return c, nil
		}
		if strings.HasPrefix(name, lower) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 0:
		return raster.CommandSpec{}, fmt.Errorf("unknown command: %s", selection)
	case 1:
		return matches[0], nil
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		names[i] = m.Name
	}
	return raster.CommandSpec{}, fmt.Errorf("ambiguous selection, candidates: %s", strings.Join(names, ", "))
}
