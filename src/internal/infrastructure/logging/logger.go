package logging

import (
	"io"
	"os"

	"github.com/jackyeh168/cartquest/src/internal/infrastructure/config"
	"github.com/sirupsen/logrus"
)

// ServiceName 所有日誌都帶的 service 欄位
const ServiceName = "cartquest"

// New 依組態建立 logger（level 無法解析時使用 info）
func New(cfg config.LogConfig) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if cfg.Format == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// WithService 帶 service 欄位的 entry
func WithService(logger *logrus.Logger) *logrus.Entry {
	return logger.WithField("service", ServiceName)
}

// Discard 丟棄輸出的 logger（測試用）
func Discard() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return WithService(logger)
}
