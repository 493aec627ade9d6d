// Command tester wires the full stack (config, BadgerDB, Bluge index, sinks,
// service) and runs a scripted conversation scenario against it. Useful as a
// smoke check of the persistence and indexing setup.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"

	"conversation-lab/domain"
	"conversation-lab/internal"
	"conversation-lab/repositories"
	"conversation-lab/search"
	"conversation-lab/services"
	"conversation-lab/sink"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components and centralizes error reporting, so that
// deferred cleanups (database close, index close) always execute.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Search index (Bluge)
	index, err := search.NewMessageIndex(config.BlugeFilepath, log)
	if err != nil {
		return fmt.Errorf("index opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing Bluge index...")
		_ = index.Close()
	}()

	// 4. Repository, sinks, service
	repository := repositories.NewConversationRepository(db, log)
	service := services.NewConversationService(repository, domain.SystemClock{}, log,
		sink.NewLogSink(log),
		sink.NewSearchSink(index, log),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Scripted scenario
	alice := uuid.New()
	conversation, err := service.CreateConversation(ctx, "Trip planning", alice)
	if err != nil {
		return err
	}
	color.Green.Printf("Created conversation %s (%q)\n", conversation.ID, conversation.Title)

	if _, err := service.AddMessage(ctx, conversation.ID, "Where should we go?", alice, domain.MessageTypeUser); err != nil {
		return err
	}
	if _, err := service.AddMessage(ctx, conversation.ID, "Somewhere with mountains and good coffee.", uuid.New(), domain.MessageTypeAI); err != nil {
		return err
	}

	if _, err := service.UpdateConversation(ctx, conversation.ID, alice, lo.ToPtr("Trip planning 2026")); err != nil {
		return err
	}
	if _, err := service.ArchiveConversation(ctx, conversation.ID, alice); err != nil {
		return err
	}
	if _, err := service.UnarchiveConversation(ctx, conversation.ID, alice); err != nil {
		return err
	}

	messages, err := service.GetMessages(ctx, conversation.ID, config.LatestMessageLimit, nil)
	if err != nil {
		return err
	}
	for _, m := range messages {
		fmt.Printf("  [%s] %s: %s\n", m.Type, m.SenderID, m.Content)
	}

	hits, err := index.Search(ctx, conversation.ID, "mountains", config.MessagePageSize)
	if err != nil {
		return err
	}
	color.Green.Printf("Search for %q matched %d message(s)\n", "mountains", len(hits))

	conversations, err := service.GetUserConversations(ctx, alice, config.ConversationPageSize, 0)
	if err != nil {
		return err
	}
	color.Green.Printf("User %s owns %d conversation(s)\n", alice, len(conversations))
	return nil
}
