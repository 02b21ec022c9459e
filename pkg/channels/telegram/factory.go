package telegram

import (
	"fmt"

	"keywatch/pkg/api"
	"keywatch/pkg/channels"
	"keywatch/pkg/config"
)

// Factory builds Telegram transports from process settings.
type Factory struct{}

// Create implements channels.TransportFactory.
func (f *Factory) Create(settings *config.Settings) (api.Transport, error) {
	if settings.BotToken == "" {
		return nil, fmt.Errorf("missing telegram bot token")
	}
	return New(settings.BotToken)
}

func init() {
	channels.Register("telegram", &Factory{})
}
