package gui

import (
	"context"
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/framesim/internal/metrics"
	"github.com/san-kum/framesim/internal/sim"
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColPanel   = rl.NewColor(0, 0, 0, 160)
)

type action int

const (
	actNone action = iota
	actQuit
	actToggle
	actReset
	actHUD
)

// keyAction maps this frame's key presses to one command. Escape is not
// raylib's exit key here, so it is handled like Q.
func keyAction(pressed func(key int32) bool) action {
	switch {
	case pressed(rl.KeyQ), pressed(rl.KeyEscape):
		return actQuit
	case pressed(rl.KeySpace):
		return actToggle
	case pressed(rl.KeyR):
		return actReset
	case pressed(rl.KeyH):
		return actHUD
	}
	return actNone
}

type App struct {
	Loop   *sim.Loop
	Metric metrics.Metric
	Title  string
	FPS    int
	Logger *slog.Logger

	win     *Window
	showHUD bool
	status  string
}

func NewApp(loop *sim.Loop, metric metrics.Metric) *App {
	return &App{
		Loop:    loop,
		Metric:  metric,
		Title:   "framesim",
		FPS:     60,
		Logger:  slog.New(slog.DiscardHandler),
		showHUD: true,
	}
}

func (a *App) initWindow() {
	w, h := a.Loop.Size()
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(w), int32(h), a.Title)
	rl.SetTargetFPS(int32(a.FPS))
	rl.SetExitKey(0)
}

// Run opens the window and drives the loop until the user quits or a frame
// fails. The loop is closed on return. It must be called from the main
// goroutine.
func (a *App) Run(ctx context.Context) error {
	a.initWindow()
	defer rl.CloseWindow()

	a.win = NewWindow()
	defer a.win.Unload()
	a.Loop.SetPresenter(a.win)
	a.win.Present(a.Loop.Snapshot())

	for !rl.WindowShouldClose() {
		if err := ctx.Err(); err != nil {
			a.Loop.Close()
			return err
		}
		if quit := a.Update(); quit {
			break
		}
		if err := a.Loop.Tick(ctx); err != nil {
			a.Logger.Error("tick failed", "err", err)
			a.Loop.Close()
			return err
		}
		a.Draw()
	}
	return a.Loop.Close()
}

// Update applies keyboard and window events. It reports whether to quit.
func (a *App) Update() bool {
	switch keyAction(func(k int32) bool { return rl.IsKeyPressed(k) }) {
	case actQuit:
		return true
	case actToggle:
		if _, err := a.Loop.Toggle(); err != nil {
			a.status = err.Error()
		}
	case actReset:
		if err := a.Loop.Reset(); err != nil {
			a.status = err.Error()
		} else if a.Metric != nil {
			a.Metric.Reset()
		}
	case actHUD:
		a.showHUD = !a.showHUD
	}

	if rl.IsWindowResized() {
		w, h := int(rl.GetScreenWidth()), int(rl.GetScreenHeight())
		if err := a.Loop.Resize(w, h); err != nil {
			a.status = "resize: " + err.Error()
			a.Logger.Warn("resize failed", "width", w, "height", h, "err", err)
		}
	}
	return false
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)
	a.win.Draw(0, 0, int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight()))
	if a.showHUD {
		a.drawHUD()
	}
	rl.EndDrawing()
}

func (a *App) drawHUD() {
	rl.DrawRectangle(10, 10, 260, 150, ColPanel)
	rl.DrawRectangleLines(10, 10, 260, 150, ColTextDim)

	state := a.Loop.State()
	stateCol := ColAccent
	if state == sim.Paused {
		stateCol = rl.Orange
	}
	w, h := a.Loop.Size()

	rl.DrawText(a.Loop.DomainName(), 20, 20, 20, ColAccent)
	rl.DrawText(state.String(), 180, 24, 14, stateCol)
	rl.DrawText(fmt.Sprintf("frame   %d", a.Loop.Frame()), 20, 48, 14, ColText)
	rl.DrawText(fmt.Sprintf("backend %s", a.Loop.BackendName()), 20, 66, 14, ColText)
	rl.DrawText(fmt.Sprintf("view    %dx%d  %d fps", w, h, rl.GetFPS()), 20, 84, 14, ColText)

	if a.Metric != nil {
		rl.DrawText(fmt.Sprintf("%-7s %.4g", a.Metric.Name(), a.Metric.Value()), 20, 102, 14, ColText)
		pts := graphPoints(a.Metric.History(), 20, 122, 240, 30)
		for i := 1; i < len(pts); i++ {
			rl.DrawLineV(pts[i-1], pts[i], ColAccent)
		}
	}

	bottom := int32(rl.GetScreenHeight())
	rl.DrawText("SPACE pause  R reseed  H hud  Q quit", 10, bottom-24, 14, ColTextDim)
	if a.status != "" {
		rl.DrawText(a.status, 10, bottom-44, 14, rl.Red)
	}
}
