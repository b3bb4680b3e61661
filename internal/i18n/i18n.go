// Package i18n localizes the request keys, labels and month names the
// listing renders. Catalogs are YAML files embedded per locale.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localesFS embed.FS

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Bundle holds every loaded locale.
type Bundle struct {
	cat     *catalog.Builder
	tags    []language.Tag
	matcher language.Matcher
}

var defaultBundle = mustLoad(localesFS)

func Default() *Bundle { return defaultBundle }

func mustLoad(fsys fs.FS) *Bundle {
	b, err := Load(fsys)
	if err != nil {
		panic(err)
	}
	return b
}

// Load reads locales/*.yaml from fsys. English must be present: it defines
// the key set and fills in keys a locale does not translate.
func Load(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	files := make([]catalogFile, 0, len(paths))
	var english map[string]string
	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", path, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", path, err)
		}
		tag, err := language.Parse(file.Locale)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: invalid locale %q: %w", path, file.Locale, err)
		}
		if tag == language.English {
			english = file.Messages
		}
		files = append(files, file)
	}
	if english == nil {
		return nil, fmt.Errorf("missing english catalog")
	}

	cat := catalog.NewBuilder(catalog.Fallback(language.English))
	tags := []language.Tag{language.English}
	for _, file := range files {
		tag := language.MustParse(file.Locale)
		for key, msg := range english {
			if v, ok := file.Messages[key]; ok {
				msg = v
			}
			if err := cat.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("catalog %s: key %q: %w", file.Locale, key, err)
			}
		}
		if tag != language.English {
			tags = append(tags, tag)
		}
	}

	return &Bundle{cat: cat, tags: tags, matcher: language.NewMatcher(tags)}, nil
}

// Translator renders messages for one locale.
type Translator struct {
	tag language.Tag
	p   *message.Printer
}

// Translator accepts BCP 47 tags as well as WordPress style locales such as
// "nl_NL". Unsupported locales fall back to English.
func (b *Bundle) Translator(locale string) *Translator {
	tag := language.English
	if parsed, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(locale), "_", "-")); err == nil {
		_, idx, conf := b.matcher.Match(parsed)
		if conf != language.No {
			tag = b.tags[idx]
		}
	}
	return &Translator{tag: tag, p: message.NewPrinter(tag, message.Catalog(b.cat))}
}

// New is shorthand for Default().Translator(locale).
func New(locale string) *Translator {
	return Default().Translator(locale)
}

func (t *Translator) Tag() language.Tag { return t.tag }

func (t *Translator) T(key string) string {
	return t.p.Sprintf(key)
}

// MonthKey is the request parameter that selects a month.
func (t *Translator) MonthKey() string { return t.T("query.month") }

// CategoryKey is the request parameter that selects a category.
func (t *Translator) CategoryKey() string { return t.T("query.category") }

func (t *Translator) MonthShort(m time.Month) string {
	return t.T(fmt.Sprintf("month.short.%d", int(m)))
}

func (t *Translator) MonthLong(m time.Month) string {
	return t.T(fmt.Sprintf("month.long.%d", int(m)))
}
