package app

import (
	"context"
	"io"
	"net/http"

	"pagure/internal/config"
	"pagure/internal/notify"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// newNotifiers builds the sinks enabled in cfg. Connections opened before a
// failing sink are closed again.
func newNotifiers(ctx context.Context, cfg config.Notify, log *zap.Logger) (notifiers []notify.Notifier, err error) {
	defer func() {
		if err == nil {
			return
		}
		for _, n := range notifiers {
			if c, ok := n.(io.Closer); ok {
				_ = c.Close()
			}
		}
	}()

	if cfg.Log {
		notifiers = append(notifiers, notify.NewLogNotifier(log))
	}

	if cfg.Webhook.URL != "" {
		notifiers = append(notifiers, notify.NewWebhookNotifier(
			cfg.Webhook.URL,
			cfg.Webhook.Secret,
			&http.Client{Timeout: cfg.Timeout},
		))
	}

	if cfg.Email.Addr != "" {
		notifiers = append(notifiers, notify.NewEmailNotifier(
			cfg.Email.Addr,
			cfg.Email.From,
			cfg.Email.To,
			cfg.Email.Username,
			cfg.Email.Password,
		))
	}

	if cfg.MQTT.Broker != "" {
		n, err := notify.DialMQTT(ctx, cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.MQTT.TopicPrefix, cfg.MQTT.QoS)
		if err != nil {
			return notifiers, err
		}
		notifiers = append(notifiers, n)
	}

	if cfg.STOMP.Addr != "" {
		n, err := notify.DialSTOMP(cfg.STOMP.Addr, cfg.STOMP.Login, cfg.STOMP.Passcode, cfg.STOMP.Destination)
		if err != nil {
			return notifiers, err
		}
		notifiers = append(notifiers, n)
	}

	names := make([]string, 0, len(notifiers))
	for _, n := range notifiers {
		names = append(names, n.Name())
	}
	log.Info("notifiers enabled", zap.Strings("notifiers", names))

	return notifiers, nil
}

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			)
			return nil
		},
	})
}
