// main.go
//
// word-engine entrypoint.
// Commands:
//   - serve   : HTTP game service (default)
//   - migrate : apply SQLite migrations and exit
//   - token   : mint a player token for manual testing
//   - words   : print dictionary statistics
//
// Configuration comes from the environment (optionally a .env file).

package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/wordle/apps/word-engine/internal/config"
	"github.com/robalobadob/wordle/apps/word-engine/internal/words"
)

var (
	envFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:           "word-engine",
	Short:         "Word-guessing game service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// a missing .env is fine; real deployments set the environment directly
		_ = godotenv.Load(envFile)

		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
			zerolog.SetGlobalLevel(lvl)
		}
		if !cfg.Production {
			log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		}
		return nil
	},
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	rootCmd.AddCommand(serveCmd, migrateCmd, tokenCmd, wordsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("word-engine")
		os.Exit(1)
	}
}

// loadWords reads WORDS_FILE when set, else the embedded dictionary.
func loadWords() (*words.Repository, error) {
	if cfg.WordsFile != "" {
		repo, err := words.LoadFile(cfg.WordsFile)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", cfg.WordsFile, err)
		}
		return repo, nil
	}
	return words.LoadEmbedded()
}
