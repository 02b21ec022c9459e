package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"

	"keywatch/pkg/api"
)

// Telegram caps bots around 30 messages per second; staying well under that
// avoids flood-wait errors on forward bursts.
const (
	forwardsPerSecond = 20
	forwardBurst      = 5
)

// Transport is the production implementation of api.Transport for Telegram.
// It long-polls the Bot API for updates, resolves chat usernames to chat
// identifiers, and drives the forward primitive behind a rate limiter.
type Transport struct {
	bot        *tgbotapi.BotAPI
	limiter    *rate.Limiter
	stopCtx    context.Context    // Context used to abort the long-polling HTTP request
	stopCancel context.CancelFunc // Function to trigger the abort
}

// New authorizes against the Bot API and returns a ready transport.
func New(token string) (*Transport, error) {
	ctx, cancel := context.WithCancel(context.Background())

	// Create a dedicated HTTP client for the bot so we can forcefully close
	// it on shutdown. Tying DialContext to our stopCtx means active
	// long-polling requests are aborted when Stop() is called, preventing
	// the 409 Conflict on restart.
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	botHttpClient := &http.Client{
		Timeout: 90 * time.Second,
		Transport: &http.Transport{
			DialContext: func(dialCtx context.Context, network, addr string) (net.Conn, error) {
				mergedCtx, mergedCancel := context.WithCancel(dialCtx)
				go func() {
					select {
					case <-ctx.Done():
						mergedCancel()
					case <-mergedCtx.Done():
					}
				}()
				return dialer.DialContext(mergedCtx, network, addr)
			},
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          100,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}

	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, botHttpClient)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	slog.Info("Telegram bot authorized", "username", bot.Self.UserName)

	return &Transport{
		bot:        bot,
		limiter:    rate.NewLimiter(rate.Every(time.Second/forwardsPerSecond), forwardBurst),
		stopCtx:    ctx,
		stopCancel: cancel,
	}, nil
}

// ID returns the unique platform identifier "telegram".
func (t *Transport) ID() string {
	return "telegram"
}

// Start initiates the long-polling update loop in a background goroutine,
// mapping group messages and channel posts into MessageEvents. Events for a
// given chat are delivered to the sink in arrival order.
func (t *Transport) Start(sink api.EventSink) error {
	offset := 0

	go func() {
		for {
			select {
			case <-t.stopCtx.Done():
				return // Gracefully exit on shutdown
			default:
			}

			reqConfig := tgbotapi.NewUpdate(offset)
			reqConfig.Timeout = 60

			// Native GetUpdates instead of GetUpdatesChan so we keep
			// control of the offset and can abort via our dedicated
			// HTTP client.
			updates, err := t.bot.GetUpdates(reqConfig)
			if err != nil {
				select {
				case <-t.stopCtx.Done():
					return // Ignore error if we are shutting down
				default:
					slog.Debug("Failed to get telegram updates", "error", err)
					time.Sleep(3 * time.Second)
					continue
				}
			}

			for _, update := range updates {
				if update.UpdateID >= offset {
					offset = update.UpdateID + 1

					msg := update.Message
					if msg == nil {
						msg = update.ChannelPost
					}
					if msg == nil {
						continue
					}

					text := msg.Text
					if text == "" {
						text = msg.Caption
					}

					sink.OnEvent(t.ID(), api.MessageEvent{
						Source:     msg.Chat.ID,
						SourceName: chatName(msg.Chat),
						MessageID:  msg.MessageID,
						Text:       text,
						Received:   time.Now(),
						Raw:        update,
					})
				}
			}
		}
	}()

	return nil
}

// Stop aborts the long-polling loop and clears the connection pool.
func (t *Transport) Stop() error {
	t.stopCancel()

	if httpClient, ok := t.bot.Client.(*http.Client); ok && httpClient != nil {
		if transport, ok := httpClient.Transport.(*http.Transport); ok {
			transport.CloseIdleConnections()
		}
	}

	return nil
}

// ResolveEntity maps a chat username (handle marker already stripped) or a
// raw numeric identifier to the chat ID the Bot API addresses it by.
func (t *Transport) ResolveEntity(ctx context.Context, name string) (int64, error) {
	if id, err := strconv.ParseInt(name, 10, 64); err == nil {
		return id, nil
	}

	chat, err := t.bot.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{SuperGroupUsername: "@" + name},
	})
	if err != nil {
		return 0, fmt.Errorf("get chat %q: %w", name, err)
	}
	return chat.ID, nil
}

// ForwardMessage relays the original message to the destination chat,
// waiting out the flood limiter first.
func (t *Transport) ForwardMessage(ctx context.Context, destination int64, ev api.MessageEvent) error {
	if err := t.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("forward rate limit wait: %w", err)
	}

	forward := tgbotapi.NewForward(destination, ev.Source, ev.MessageID)
	if _, err := t.bot.Send(forward); err != nil {
		return fmt.Errorf("telegram forward failed: %w", err)
	}
	return nil
}

func chatName(chat *tgbotapi.Chat) string {
	if chat == nil {
		return ""
	}
	if chat.UserName != "" {
		return "@" + chat.UserName
	}
	return chat.Title
}
