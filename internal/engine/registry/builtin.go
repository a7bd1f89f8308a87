package registry

import (
	"github.com/DevSymphony/codecleaner/internal/engine/cleancode"
	"github.com/DevSymphony/codecleaner/internal/engine/core"
	"github.com/DevSymphony/codecleaner/internal/engine/lexical"
)

// init registers all built-in engines.
func init() {
	MustRegister(cleancode.Name, func() (core.Engine, error) {
		return cleancode.NewEngine(), nil
	})

	MustRegister(lexical.Name, func() (core.Engine, error) {
		return lexical.NewEngine(), nil
	})
}
