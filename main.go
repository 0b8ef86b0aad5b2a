package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"time"

	"imgpress/internal/adapters/archive"
	"imgpress/internal/adapters/converter"
	"imgpress/internal/adapters/file"
	"imgpress/internal/adapters/handler"
	"imgpress/internal/adapters/history"
	"imgpress/internal/adapters/sender"
	"imgpress/internal/core/domain/command"
	"imgpress/internal/core/domain/lossy"
	"imgpress/internal/core/port"
	"imgpress/internal/core/service"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func setDefaults() {
	viper.SetDefault("bot.log_level", "info")
	viper.SetDefault("handler.timeout", "2m")
	viper.SetDefault("compress.default_quality", "medium")
	viper.SetDefault("compress.max_width", 0)
	viper.SetDefault("compress.max_height", 0)
	viper.SetDefault("compress.supported_formats", lossy.DefaultFormats)
	viper.SetDefault("limits.daily_bytes", 0)
	viper.SetDefault("output.dir", "compressed")
	viper.SetDefault("history.json_path", "data/history.json")
	viper.SetDefault("history.database", "imgpress")
	viper.SetDefault("history.collection", "compressions")
}

func main() {
	log.Info().Msg("starting imgpress...")

	setDefaults()
	viper.AddConfigPath(".")
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("imgpress")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	log.Info().Msg("reading config file...")
	err := viper.ReadInConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("could not read config file")
	}

	var logLevel zerolog.Level

	switch viper.GetString("bot.log_level") {
	case "info":
		logLevel = zerolog.InfoLevel
	case "debug":
		logLevel = zerolog.DebugLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(logLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	token := viper.GetString("telegram.bot_token")

	var commandHandler *handler.Command
	opts := []bot.Option{
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if isDocumentCommand(update) {
				commandHandler.Handle(ctx, b, update)
			}
		}),
	}

	b, err := bot.New(token, opts...)
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing telegram bot")
	}

	s := sender.NewTelegram(b)

	store := newHistoryStore(ctx)
	historyService := service.NewHistory(store)

	outputDir, err := file.NewDirectory(viper.GetString("output.dir"))
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing output directory")
	}

	zstd, err := archive.NewZstd()
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing zstd encoder")
	}
	defer zstd.Close()

	formats := viper.GetStringSlice("compress.supported_formats")
	pipeline := lossy.NewPipeline(converter.NewJPEG(),
		viper.GetInt("compress.max_width"), viper.GetInt("compress.max_height"))
	compressor := service.NewCompressor(pipeline, historyService, formats)
	huffman := service.NewHuffman(outputDir, zstd, historyService)
	tracker := service.NewUsageTracker(ctx, s)
	fetcher := file.NewFetcher(nil)

	commandRegistry := &command.Registry{}
	commandRegistry.Register(command.NewCompress(fetcher, compressor, tracker, s, s,
		viper.GetString("compress.default_quality"), "/compress"))
	commandRegistry.Register(command.NewHuffman(fetcher, huffman, tracker, s, s, "/huffman"))
	commandRegistry.Register(command.NewRestore(huffman, s, s, "/restore"))
	commandRegistry.Register(command.NewHistory(historyService, s, "/history"))
	commandRegistry.Register(command.NewStats(historyService, s, "/stats"))
	commandRegistry.Register(command.NewClearHistory(historyService, s, "/clearhistory"))
	commandRegistry.Register(command.NewOptions(s, formats, "/options"))

	handlerTimeout, err := time.ParseDuration(viper.GetString("handler.timeout"))
	if err != nil {
		log.Panic().Err(err).Msg("invalid timeout for handler in config")
	}

	commandHandler = handler.NewCommand(commandRegistry, s, handlerTimeout)

	b.RegisterHandler(bot.HandlerTypeMessageText, "/", bot.MatchTypePrefix, commandHandler.Handle)
	b.RegisterHandler(bot.HandlerTypePhotoCaption, "/", bot.MatchTypePrefix, commandHandler.Handle)

	log.Info().Strs("commands", commandRegistry.ListCommands()).Msg("bot listening")
	b.Start(ctx)
}

// newHistoryStore prefers MongoDB when configured and reachable, keeping the JSON
// file as fallback.
func newHistoryStore(ctx context.Context) port.HistoryStore {
	jsonStore, err := history.NewJSONStore(viper.GetString("history.json_path"))
	if err != nil {
		log.Panic().Err(err).Msg("failed initializing history file")
	}

	uri := viper.GetString("history.mongodb_uri")
	if uri == "" {
		return jsonStore
	}

	mongoStore, err := history.NewMongoStore(ctx, uri,
		viper.GetString("history.database"), viper.GetString("history.collection"))
	if err != nil {
		log.Warn().Err(err).Msg("mongodb unavailable, using history file only")
		return jsonStore
	}

	return history.NewFallback(mongoStore, jsonStore)
}

// isDocumentCommand matches files sent as documents with a command caption.
func isDocumentCommand(update *models.Update) bool {
	return update.Message != nil && update.Message.Document != nil &&
		strings.HasPrefix(update.Message.Caption, "/")
}
