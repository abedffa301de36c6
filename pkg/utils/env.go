package utils

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// DefaultAllowedEnvVars lists the variables a config file may reference as ${VAR}
var DefaultAllowedEnvVars = []string{
	"UPSTREAM_TOKEN",
	"UPSTREAM_BASE_URL",
	"GITEA_TOKEN",
	"GITEA_URL",
	"GITEA_*",
	"*_TOKEN",
}

var envRefPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// EnvExpander substitutes ${VAR} references whose names match the allow-list.
// References to variables outside the list, or unset ones, are left as written.
type EnvExpander struct {
	allowedVars []string
}

// NewEnvExpander creates an expander; an empty list falls back to DefaultAllowedEnvVars
func NewEnvExpander(allowedVars []string) *EnvExpander {
	if len(allowedVars) == 0 {
		allowedVars = DefaultAllowedEnvVars
	}
	return &EnvExpander{allowedVars: allowedVars}
}

// ExpandString expands environment variables in a string
func (e *EnvExpander) ExpandString(s string) (string, error) {
	return envRefPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := envRefPattern.FindStringSubmatch(match)[1]
		if !e.IsAllowed(name) {
			return match
		}
		if value, ok := os.LookupEnv(name); ok && value != "" {
			return value
		}
		return match
	}), nil
}

// ExpandMap expands environment variables in all string values of a decoded YAML document
func (e *EnvExpander) ExpandMap(m map[string]interface{}) (map[string]interface{}, error) {
	result := make(map[string]interface{}, len(m))

	for key, value := range m {
		expanded, err := e.expandValue(value)
		if err != nil {
			return nil, fmt.Errorf("failed to expand value for key %s: %w", key, err)
		}
		result[key] = expanded
	}

	return result, nil
}

func (e *EnvExpander) expandValue(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case string:
		return e.ExpandString(v)
	case map[string]interface{}:
		return e.ExpandMap(v)
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			expanded, err := e.expandValue(item)
			if err != nil {
				return nil, err
			}
			result[i] = expanded
		}
		return result, nil
	default:
		return value, nil
	}
}

// IsAllowed reports whether name matches an entry of the allow-list.
// Entries support a single leading or trailing "*" wildcard.
func (e *EnvExpander) IsAllowed(name string) bool {
	for _, pattern := range e.allowedVars {
		if matchEnvPattern(pattern, name) {
			return true
		}
	}
	return false
}

// UnresolvedRefs returns the ${VAR} references still present in s after expansion
func UnresolvedRefs(s string) []string {
	var names []string
	for _, m := range envRefPattern.FindAllStringSubmatch(s, -1) {
		names = append(names, m[1])
	}
	return names
}

func matchEnvPattern(pattern, name string) bool {
	switch {
	case pattern == name:
		return true
	case strings.HasSuffix(pattern, "*"):
		return strings.HasPrefix(name, strings.TrimSuffix(pattern, "*"))
	case strings.HasPrefix(pattern, "*"):
		return strings.HasSuffix(name, strings.TrimPrefix(pattern, "*"))
	}
	return false
}


// MaskSecret hides all but the last four characters of a credential
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return "****"
	}
	return strings.Repeat("*", 8) + secret[len(secret)-4:]
}
