package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	pkg "github.com/socialconnect/feedsync/pkg/internal"
	"github.com/socialconnect/feedsync/pkg/internal/cache"
	"github.com/socialconnect/feedsync/pkg/internal/gateway"
	"github.com/socialconnect/feedsync/pkg/internal/http"
	"github.com/socialconnect/feedsync/pkg/internal/http/api"
	"github.com/socialconnect/feedsync/pkg/internal/push"
	"github.com/socialconnect/feedsync/pkg/internal/session"
	"github.com/socialconnect/feedsync/pkg/internal/store"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Booting screen
	fmt.Println(color.CyanString(" _____            _ ____\n|  ___|__  ___  __| / ___| _   _ _ __   ___\n| |_ / _ \\/ _ \\/ _` \\___ \\| | | | '_ \\ / __|\n|  _|  __/  __/ (_| |___) | |_| | | | | (__\n|_|  \\___|\\___|\\__,_|____/ \\__, |_| |_|\\___|\n                           |___/"))
	fmt.Printf("%s v%s\n", color.New(color.FgHiCyan).Add(color.Bold).Sprintf("SocialConnect.FeedSync"), pkg.AppVersion)
	fmt.Printf("The feed synchronization agent of Social Connect\n")
	color.HiBlack("=====================================================\n")

	// Configure settings
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")

	// Load settings
	if err := viper.ReadInConfig(); err != nil {
		log.Panic().Err(err).Msg("An error occurred when loading settings.")
	}

	// Prepare the in-memory cache
	if err := cache.NewStore(); err != nil {
		log.Fatal().Err(err).Msg("An error occurred when initializing cache.")
	}

	// Load the cached identity
	bootstrap, err := session.Load(viper.GetString("session.profile_path"))
	if err != nil {
		log.Fatal().Err(err).Msg("An error occurred when loading the session profile.")
	}
	if bootstrap.IsSignedIn() {
		log.Info().Str("user", bootstrap.UserID()).Msg("Resumed a cached session.")
	} else {
		log.Warn().Msg("No cached session found. Mutations are disabled until login.")
	}

	// Wire the core
	remote := gateway.NewClient(viper.GetString("gateway.base_url"))
	if len(bootstrap.Token()) > 0 {
		remote.UseToken(bootstrap.Token())
	}
	feed := store.New(remote)
	merger := store.NewMerger(feed)

	refresh := func(ctx context.Context) error {
		posts, err := remote.FetchPosts(ctx)
		if err != nil {
			return err
		}
		feed.ReplaceAll(posts)
		return nil
	}

	// Initial fetch
	if err := refresh(context.Background()); err != nil {
		log.Warn().Err(err).Msg("An error occurred when fetching the initial feed, will retry on schedule...")
	} else {
		log.Info().Int("count", feed.Count()).Msg("Initial feed loaded.")
	}

	// Push channel
	pusher := push.NewClient(viper.GetString("push.endpoint"), merger)
	if err := pusher.Connect(context.Background()); err != nil {
		log.Error().Err(err).Msg("An error occurred when connecting to the push channel. Realtime updates will be missing.")
	}

	// Configure timed tasks
	quartz := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&log.Logger)))
	quartz.AddFunc(viper.GetString("feed.refresh_interval"), func() {
		if err := refresh(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Scheduled feed refresh failed...")
		}
	})
	quartz.Start()

	// Server
	go http.NewServer(api.Deps{
		Store:   feed,
		Gateway: remote,
		Session: bootstrap,
		Refresh: refresh,
	}).Listen()

	// Messages
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	quartz.Stop()
	pusher.Close()
}
