// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package translate formats diagnostics for the user's locale.
package translate

import (
	"log"
	"sync"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Fallback is the locale used when the host reports none.
var Fallback = language.AmericanEnglish

var (
	printer     *message.Printer
	printerOnce sync.Once
)

func localPrinter() *message.Printer {
	printerOnce.Do(func() {
		locales, err := locale.GetLocales()
		if err != nil {
			log.Printf("isagen: locale: %v", err)
		}

		if len(locales) == 0 {
			locales = []string{Fallback.String()}
		}

		printer = message.NewPrinter(message.MatchLanguage(locales...))
	})

	return printer
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return localPrinter().Sprintf(key, args...)
}
