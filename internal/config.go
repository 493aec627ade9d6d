package internal

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type Config struct {
	BadgerFilepath       string `env:"BADGER_FILEPATH,required=true" validate:"required"`
	BlugeFilepath        string `env:"BLUGE_FILEPATH,required=true" validate:"required"`
	LogLevel             string `env:"LOG_LEVEL,required=true" validate:"oneof=DEBUG INFO WARN ERROR"`
	ConversationPageSize int    `env:"CONVERSATION_PAGE_SIZE,default=20" validate:"min=1"`
	MessagePageSize      int    `env:"MESSAGE_PAGE_SIZE,default=50" validate:"min=1"`
	LatestMessageLimit   int    `env:"LATEST_MESSAGE_LIMIT,default=10" validate:"min=1"`
}

// Validate catches values go-env cannot reject on its own (bad log level,
// non-positive page sizes).
func (c Config) Validate() error {
	return validate.Struct(c)
}
