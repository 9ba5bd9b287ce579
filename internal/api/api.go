package api

import (
	"pharmopera/internal/config"
	"pharmopera/internal/notify"
	"pharmopera/internal/source"
)

type API struct {
	Source source.Fetcher
	Relay  *notify.Relay
	Cfg    *config.Config
}

func NewAPI(src source.Fetcher, relay *notify.Relay, cfg *config.Config) *API {
	return &API{
		Source: src,
		Relay:  relay,
		Cfg:    cfg,
	}
}
