// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package i18n resolves message keys to localized text.
package i18n

import (
	"embed"
	"sync"

	"github.com/gofiber/contrib/fiberi18n/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

const (
	rootPath   = "locales"
	formatToml = "toml"
)

//go:embed locales/*.toml
var localeFS embed.FS

// Supported lists the languages shipped with the binary, default first.
var Supported = []language.Tag{language.English, language.Chinese}

var (
	bundleOnce sync.Once
	bundle     *i18n.Bundle
	matcher    = language.NewMatcher(Supported)
)

// Middleware installs fiberi18n for the request. defaultLang falls back to
// English when empty or unknown.
func Middleware(defaultLang string) fiber.Handler {
	def := parseTag(defaultLang)
	return fiberi18n.New(&fiberi18n.Config{
		RootPath:         rootPath,
		AcceptLanguages:  Supported,
		DefaultLanguage:  def,
		FormatBundleFile: formatToml,
		UnmarshalFunc:    toml.Unmarshal,
		Loader:           &fiberi18n.EmbedLoader{FS: localeFS},
		LangHandler:      langHandler,
	})
}

// langHandler prefers ?lang= and then Accept-Language, matched against Supported.
func langHandler(c *fiber.Ctx, defaultLang string) string {
	if lang := c.Query("lang"); lang != "" {
		return Match(lang)
	}
	if accept := c.Get(fiber.HeaderAcceptLanguage); accept != "" {
		return Match(accept)
	}
	return defaultLang
}

// Match returns the supported base language for an Accept-Language value.
func Match(accept string) string {
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return Supported[0].String()
	}
	tag, _, _ := matcher.Match(tags...)
	base, _ := tag.Base()
	return base.String()
}

// Message localizes key for the current request, returning key itself when
// no translation exists.
func Message(c *fiber.Ctx, key string) string {
	if msg, err := fiberi18n.Localize(c, key); err == nil && msg != "" {
		return msg
	}
	return Translate(langHandler(c, Supported[0].String()), key)
}

// Translate localizes key outside of a request.
func Translate(lang, key string) string {
	localizer := i18n.NewLocalizer(defaultBundle(), lang)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{MessageID: key})
	if err != nil || msg == "" {
		return key
	}
	return msg
}

func defaultBundle() *i18n.Bundle {
	bundleOnce.Do(func() {
		bundle = i18n.NewBundle(Supported[0])
		bundle.RegisterUnmarshalFunc(formatToml, toml.Unmarshal)
		for _, tag := range Supported {
			name := rootPath + "/" + tag.String() + "." + formatToml
			data, err := localeFS.ReadFile(name)
			if err != nil {
				continue
			}
			_, _ = bundle.ParseMessageFileBytes(data, name)
		}
	})
	return bundle
}

func parseTag(lang string) language.Tag {
	if lang == "" {
		return Supported[0]
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return Supported[0]
	}
	matched, _, _ := matcher.Match(tag)
	base, _ := matched.Base()
	out, err := language.Parse(base.String())
	if err != nil {
		return Supported[0]
	}
	return out
}
