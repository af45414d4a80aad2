package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/word-engine/internal/auth"
	"github.com/robalobadob/wordle/apps/word-engine/internal/daily"
	"github.com/robalobadob/wordle/apps/word-engine/internal/db"
	"github.com/robalobadob/wordle/apps/word-engine/internal/httpserver"
	"github.com/robalobadob/wordle/apps/word-engine/internal/play"
	"github.com/robalobadob/wordle/apps/word-engine/internal/results"
	"github.com/robalobadob/wordle/apps/word-engine/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP game service",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := db.OpenMigrated(cfg.DBPath)
		if err != nil {
			return err
		}
		defer conn.Close()
		log.Info().Str("db", cfg.DBPath).Msg("migrations applied")
		return nil
	},
}

var (
	tokenUsername string
	tokenTTL      time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token <player-id>",
	Short: "Print a signed player token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ttl := tokenTTL
		if ttl <= 0 {
			ttl = cfg.JWTExpires
		}
		tok, exp, err := auth.NewIssuer(cfg.JWTSecret, ttl).Sign(auth.Player{ID: args[0], Username: tokenUsername})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		log.Debug().Time("expires", exp).Msg("token issued")
		return nil
	},
}

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Print dictionary size per word length",
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := loadWords()
		if err != nil {
			return err
		}
		stats := repo.Stats()
		lengths := make([]int, 0, len(stats))
		for n := range stats {
			lengths = append(lengths, n)
		}
		sort.Ints(lengths)
		out := cmd.OutOrStdout()
		for _, n := range lengths {
			fmt.Fprintf(out, "%2d letters: %d\n", n, stats[n])
		}
		fmt.Fprintf(out, "total: %d\n", repo.Size())
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUsername, "username", "", "username claim")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (default JWT_EXPIRES)")
}

func runServe(cmd *cobra.Command, args []string) error {
	repo, err := loadWords()
	if err != nil {
		return err
	}
	log.Info().Int("words", repo.Size()).Msg("dictionary loaded")

	conn, err := db.OpenMigrated(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer conn.Close()

	reg := session.NewRegistry(repo,
		session.WithDailySalt(cfg.DailySalt),
		session.WithDefaultLength(cfg.WordLength),
	)
	res := results.NewStore(conn)
	dly := daily.NewStore(conn)

	srv := httpserver.New(httpserver.Deps{
		Service: play.New(reg, res, dly),
		Words:   repo,
		Users:   auth.NewUsers(conn),
		Issuer:  auth.NewIssuer(cfg.JWTSecret, cfg.JWTExpires),
		Results: res,
		Daily:   dly,
	}, httpserver.Options{
		ClientOrigin:   cfg.ClientOrigin,
		SecureCookies:  cfg.Production,
		GuessRateRPS:   cfg.GuessRateRPS,
		GuessRateBurst: cfg.GuessRateBurst,
	})

	hs := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting word-engine")
		errCh <- hs.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return hs.Shutdown(shutdownCtx)
}
