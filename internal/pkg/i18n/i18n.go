package i18n

import (
	"embed"
	"encoding/json"
	"errors"
	"sync"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var errNotInitialized = errors.New("i18n: bundle not initialized")

var (
	mu     sync.RWMutex
	bundle *goi18n.Bundle
)

// Init creates the bundle with pt-BR as the fallback language and loads the
// embedded locale files.
func Init() error {
	b := goi18n.NewBundle(language.BrazilianPortuguese)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	for _, name := range []string{"locales/active.pt-BR.json", "locales/active.en.json"} {
		if _, err := b.LoadMessageFileFS(localeFS, name); err != nil {
			return err
		}
	}

	mu.Lock()
	bundle = b
	mu.Unlock()
	return nil
}

// Load adds an extra message file from disk, overriding embedded messages.
func Load(path string) error {
	mu.Lock()
	defer mu.Unlock()
	if bundle == nil {
		return errNotInitialized
	}
	_, err := bundle.LoadMessageFile(path)
	return err
}

// T translates messageID for the given Accept-Language values. Unknown ids
// come back unchanged.
func T(messageID string, data map[string]interface{}, langs ...string) string {
	mu.RLock()
	b := bundle
	mu.RUnlock()
	if b == nil {
		return messageID
	}

	loc := goi18n.NewLocalizer(b, langs...)
	msg, err := loc.Localize(&goi18n.LocalizeConfig{
		MessageID:    messageID,
		TemplateData: data,
	})
	if err != nil {
		return messageID
	}
	return msg
}
