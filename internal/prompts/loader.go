// Package prompts loads per-agent prompt bundles: a system instruction
// and a parameterized user template, in YAML, selected by language with
// fallback to English. A bundle directory on disk overrides the
// defaults embedded in the binary.
package prompts

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed bundles/en/*.yaml
var embeddedBundles embed.FS

// Bundle is the prompt pair for one agent in one language.
type Bundle struct {
	System       string `yaml:"system"`
	UserTemplate string `yaml:"user_template"`
}

// languageFallbacks lists the candidate languages tried for a request.
var languageFallbacks = map[string][]string{
	"en": {"en"},
	"zh": {"zh", "en"},
	"cn": {"zh", "en"},
}

type cacheKey struct {
	agent    string
	language string
}

// Loader resolves and caches prompt bundles.
type Loader struct {
	dir string // optional on-disk override directory

	mu    sync.Mutex
	cache map[cacheKey]Bundle
}

// NewLoader creates a Loader. dir may be empty, in which case only the
// embedded defaults are used.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir, cache: make(map[cacheKey]Bundle)}
}

// Load returns the bundle for the given agent and language, preferring
// on-disk files over embedded defaults and falling back through the
// language chain.
func (l *Loader) Load(agent, language string) (Bundle, error) {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" {
		lang = "en"
	}

	key := cacheKey{agent: agent, language: lang}
	l.mu.Lock()
	cached, ok := l.cache[key]
	l.mu.Unlock()
	if ok {
		return cached, nil
	}

	candidates, ok := languageFallbacks[lang]
	if !ok {
		candidates = []string{lang, "en"}
	}

	var lastErr error
	for _, candidate := range candidates {
		data, err := l.read(agent, candidate)
		if err != nil {
			lastErr = err
			continue
		}

		var bundle Bundle
		if err := yaml.Unmarshal(data, &bundle); err != nil {
			lastErr = fmt.Errorf("parse bundle %s/%s: %w", candidate, agent, err)
			continue
		}
		if bundle.System == "" || bundle.UserTemplate == "" {
			lastErr = fmt.Errorf("bundle %s/%s missing system or user_template", candidate, agent)
			continue
		}

		l.mu.Lock()
		l.cache[key] = bundle
		l.mu.Unlock()
		return bundle, nil
	}

	return Bundle{}, fmt.Errorf("no prompt bundle for agent=%s language=%s: %w", agent, language, lastErr)
}

func (l *Loader) read(agent, language string) ([]byte, error) {
	if l.dir != "" {
		path := filepath.Join(l.dir, language, agent+".yaml")
		if data, err := os.ReadFile(path); err == nil {
			return data, nil
		}
	}
	return embeddedBundles.ReadFile(fmt.Sprintf("bundles/%s/%s.yaml", language, agent))
}

// Render substitutes {name} placeholders in a user template.
// Unknown placeholders are left intact.
func Render(template string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
