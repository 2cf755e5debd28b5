package web

import (
	"io/fs"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html"

	embedded "github.com/rsiwady29/tennis-scoreboard"
	"github.com/rsiwady29/tennis-scoreboard/internal/cache/mem"
	"github.com/rsiwady29/tennis-scoreboard/internal/config"
	"github.com/rsiwady29/tennis-scoreboard/internal/service"
	"github.com/rsiwady29/tennis-scoreboard/internal/web/webpath"
)

// Server exposes the scoreboard to browsers: an HTML score page and a
// small JSON API. It reads from the snapshot cache, never from the live
// match.
type Server struct {
	matchService *service.MatchService
	cache        *mem.Cache
	app          *fiber.App
	cfg          config.Server
}

func New(ms *service.MatchService, cache *mem.Cache, cfg config.Server) (*Server, error) {
	server := Server{
		matchService: ms,
		cache:        cache,
		cfg:          cfg,
	}

	fsFS, err := fs.Sub(embedded.Views, "views")
	if err != nil {
		return nil, err
	}
	engine := html.NewFileSystem(http.FS(fsFS), ".html")
	engine.Reload(cfg.Debug)
	engine.Debug(cfg.Debug)

	app := fiber.New(fiber.Config{
		Views: engine,
	})
	app.Get(webpath.Home, server.handleScoreboard)
	app.Get(webpath.ApiScore, server.handleScore)
	app.Get(webpath.ApiMatches, server.handleMatches)
	app.Get(webpath.ApiStorage, server.handleStorage)
	app.Post(webpath.ApiEvent, server.handleEvent)
	server.app = app
	return &server, nil
}

func (s *Server) Serve() error {
	return s.app.Listen(s.cfg.Host + ":" + strconv.Itoa(s.cfg.Port))
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleScoreboard(ctx *fiber.Ctx) error {
	snap, ok := s.cache.Latest()
	if !ok {
		return fiber.NewError(fiber.StatusServiceUnavailable, "no match yet")
	}
	score := convertSnapshot(snap)
	return ctx.Render("index", fiber.Map{
		"Title": "Scoreboard",
		"Score": score,
		"Path":  webpath.Path(),
	})
}

func (s *Server) handleScore(ctx *fiber.Ctx) error {
	snap, ok := s.cache.Latest()
	if !ok {
		return fiber.NewError(fiber.StatusServiceUnavailable, "no match yet")
	}
	return ctx.JSON(convertSnapshot(snap))
}

func (s *Server) handleMatches(ctx *fiber.Ctx) error {
	files, err := s.matchService.ListMatches()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	results, err := s.matchService.ListResults()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	finished := make([]fiber.Map, 0, len(results))
	for _, r := range results {
		finished = append(finished, fiber.Map{
			"matchId":  r.ID.String(),
			"home":     r.HomeName,
			"away":     r.AwayName,
			"sets":     formatPair(r.HomeSets, r.AwaySets),
			"winner":   r.Winner.String(),
			"finished": r.FinishedAt,
		})
	}
	return ctx.JSON(fiber.Map{
		"saved":    files,
		"finished": finished,
	})
}

func (s *Server) handleStorage(ctx *fiber.Ctx) error {
	info, err := s.matchService.StorageInfo()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	return ctx.JSON(fiber.Map{
		"matches":    info.Matches,
		"totalBytes": info.TotalBytes,
		"dir":        info.Dir,
	})
}

// handleEvent feeds a command into the same ordered queue as the HID
// device, so web input cannot reorder scoring.
func (s *Server) handleEvent(ctx *fiber.Ctx) error {
	var ev postEvent
	if err := ctx.BodyParser(&ev); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	cmd, err := ev.convertToCommand()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := s.matchService.TryDispatch(cmd); err != nil {
		return fiber.NewError(fiber.StatusTooManyRequests, err.Error())
	}
	return ctx.SendStatus(fiber.StatusAccepted)
}
