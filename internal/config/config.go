package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type TgBot struct {
	TelegramApiToken string `toml:"telegram_api_token"`
}

type Server struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	TgBotEnabled bool   `toml:"tg_bot_enabled"`
	Debug        bool   `toml:"debug_mode"`
}

type Scoreboard struct {
	BestOfSets int    `toml:"best_of_sets"`
	Tiebreak   bool   `toml:"tiebreak_at_six_all"`
	HomeName   string `toml:"home_name"`
	AwayName   string `toml:"away_name"`
	DataDir    string `toml:"data_dir"`
	ArchiveDB  string `toml:"archive_db"`
}

type Config struct {
	TgBot      TgBot
	Server     Server
	Scoreboard Scoreboard
}

func New() (Config, error) {
	var tgBotCfg TgBot
	_, err := toml.DecodeFile("configs/bot.toml", &tgBotCfg)
	if err != nil {
		return Config{}, err
	}
	token := os.Getenv("TELEGRAM_APITOKEN")
	if token != "" {
		tgBotCfg.TelegramApiToken = token
	}

	var serverCfg Server
	_, err = toml.DecodeFile("configs/server.toml", &serverCfg)
	if err != nil {
		return Config{}, err
	}

	var boardCfg Scoreboard
	_, err = toml.DecodeFile("configs/scoreboard.toml", &boardCfg)
	if err != nil {
		return Config{}, err
	}
	if dir := os.Getenv("SCOREBOARD_DATA_DIR"); dir != "" {
		boardCfg.DataDir = dir
	}

	cfg := Config{
		TgBot:      tgBotCfg,
		Server:     serverCfg,
		Scoreboard: boardCfg,
	}
	if err := cfg.Scoreboard.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var ErrInvalid = errors.New("invalid scoreboard configuration")

// Validate rejects settings the scoring engine cannot run with. A match
// is best-of-N where N is odd, so the sets-to-win threshold is well
// defined.
func (s Scoreboard) Validate() error {
	if s.BestOfSets < 1 || s.BestOfSets%2 == 0 {
		return fmt.Errorf("%w: best_of_sets must be a positive odd number, got %d", ErrInvalid, s.BestOfSets)
	}
	if s.DataDir == "" {
		return fmt.Errorf("%w: data_dir must be set", ErrInvalid)
	}
	return nil
}

// SetsToWin derives the winning threshold from best-of-N.
func (s Scoreboard) SetsToWin() int {
	return s.BestOfSets/2 + 1
}
