package config

import (
	"github.com/JaimeStill/content-lab/internal/outbox"
	"github.com/JaimeStill/content-lab/pkg/auth"
	"github.com/JaimeStill/content-lab/pkg/database"
	"github.com/JaimeStill/content-lab/pkg/logging"
	"github.com/JaimeStill/content-lab/pkg/render"
	"github.com/JaimeStill/content-lab/pkg/search"
	"github.com/JaimeStill/content-lab/pkg/storage"
)

var databaseEnv = &database.Env{
	Host:            "DATABASE_HOST",
	Port:            "DATABASE_PORT",
	Name:            "DATABASE_NAME",
	User:            "DATABASE_USER",
	Password:        "DATABASE_PASSWORD",
	MaxOpenConns:    "DATABASE_MAX_OPEN_CONNS",
	MaxIdleConns:    "DATABASE_MAX_IDLE_CONNS",
	ConnMaxLifetime: "DATABASE_CONN_MAX_LIFETIME",
	ConnTimeout:     "DATABASE_CONN_TIMEOUT",
	SSLMode:         "DATABASE_SSL_MODE",
}

var loggingEnv = &logging.Env{
	Level:  "LOGGING_LEVEL",
	Format: "LOGGING_FORMAT",
	Source: "LOGGING_SOURCE",
}

var storageEnv = &storage.Env{
	BasePath:      "STORAGE_BASE_PATH",
	MaxUploadSize: "STORAGE_MAX_UPLOAD_SIZE",
	AllowedTypes:  "STORAGE_ALLOWED_TYPES",
}

var indexEnv = &search.Env{
	Path: "INDEX_PATH",
}

var renderEnv = &render.Env{
	Paper:    "RENDER_PAPER",
	Margin:   "RENDER_MARGIN",
	Font:     "RENDER_FONT",
	FontSize: "RENDER_FONT_SIZE",
}

var authEnv = &auth.Env{
	UserHeader:        "AUTH_USER_HEADER",
	AuthoritiesHeader: "AUTH_AUTHORITIES_HEADER",
}

var outboxEnv = &outbox.Env{
	PollInterval: "OUTBOX_POLL_INTERVAL",
	BatchSize:    "OUTBOX_BATCH_SIZE",
	MaxAttempts:  "OUTBOX_MAX_ATTEMPTS",
}
