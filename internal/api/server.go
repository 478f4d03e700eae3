package api

import (
	"database/sql"

	"github.com/ghelleks/botany-battle-sub000/internal/services"
)

// Server holds the handler dependencies. It is the stand-in consumer for
// the game client: a thin JSON surface over GameService.
type Server struct {
	GameService      services.GameService
	DB               *sql.DB
	LeaderboardLimit int
}
