package app

import (
	"github.com/go-chi/oauth"

	"github.com/mbolis/quick-brief/config"
	"github.com/mbolis/quick-brief/store"
)

// App holds what the handlers need. Nothing here is global: main builds one
// and passes it to routes.Wire.
type App struct {
	*store.Store
	*oauth.BearerServer
	config.Config
}
