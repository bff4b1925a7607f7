package preview

import rl "github.com/gen2brain/raylib-go/raylib"

// run opens a window and drives the main loop until it is closed. Each frame it calls
// update (input), then clears the screen and calls draw.
func run(o Options, update, draw func()) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(o.Width, o.Height, o.Title)
	defer rl.CloseWindow()

	rl.SetTargetFPS(o.FPS)

	for !rl.WindowShouldClose() {
		update()

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(24, 24, 28, 255))
		draw()
		rl.EndDrawing()
	}
}
