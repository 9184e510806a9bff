package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/suspybot/suspy/internal/bot"
	"github.com/suspybot/suspy/internal/setup"
)

func main() {
	ctx := context.Background()

	app, err := setup.InitializeApp(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.CleanupApp()

	discordBot, err := bot.New(app.Config.Bot.Token, app.Service, app.Logger)
	if err != nil {
		log.Printf("Failed to create bot: %v", err)
		return
	}

	if err := discordBot.Start(ctx); err != nil {
		log.Printf("Failed to start bot: %v", err)
		return
	}

	log.Println("Bot has been started. Waiting for interrupt signal to gracefully shutdown...")

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	discordBot.Close()
}
