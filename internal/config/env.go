package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/dshills/mirror/internal/engine"
)

// EnvPrefix prefixes option environment variables.
const EnvPrefix = "MIRROR_"

// LoadEnv collects option values from environ, a list of KEY=value
// entries as returned by os.Environ. MIRROR_TAB_SIZE sets tabSize. Names
// that match no option are returned in camel case so applying them
// reports them as unknown.
func LoadEnv(prefix string, environ []string) map[string]any {
	known := make(map[string]string)
	for _, name := range engine.OptionNames() {
		known[strings.ToLower(name)] = name
	}

	values := make(map[string]any)
	for _, entry := range environ {
		key, val, ok := strings.Cut(entry, "=")
		if !ok || !strings.HasPrefix(key, prefix) {
			continue
		}
		raw := strings.TrimPrefix(key, prefix)
		if raw == "" {
			continue
		}
		name, ok := known[strings.ToLower(strings.ReplaceAll(raw, "_", ""))]
		if !ok {
			name = envToName(raw)
		}
		values[name] = parseEnvValue(val)
	}
	return values
}

// LoadProcessEnv collects option values from the process environment.
func LoadProcessEnv() map[string]any {
	return LoadEnv(EnvPrefix, os.Environ())
}

// envToName converts TAB_SIZE to tabSize.
func envToName(raw string) string {
	parts := strings.Split(strings.ToLower(raw), "_")
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i > 0 && b.Len() > 0 {
			b.WriteString(strings.ToUpper(p[:1]))
			b.WriteString(p[1:])
			continue
		}
		b.WriteString(p)
	}
	return b.String()
}

func parseEnvValue(s string) any {
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	if (strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{")) && gjson.Valid(s) {
		return gjson.Parse(s).Value()
	}
	return s
}
