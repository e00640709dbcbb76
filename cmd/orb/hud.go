package main

import (
	"fmt"
	"time"

	"github.com/taigrr/orb/pkg/render"
)

// HUD renders an overlay with frame statistics and render settings
type HUD struct {
	title     string
	spheres   int
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a new HUD
func NewHUD(title string, spheres int) *HUD {
	return &HUD{
		title:   title,
		spheres: spheres,
		fpsTime: time.Now(),
	}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// hudState is the per-frame information shown by the HUD.
type hudState struct {
	Show       bool
	Stats      render.FrameStats
	Accumulate bool
	FrameIndex int
}

// Render draws the HUD overlay directly to the terminal
func (h *HUD) Render(width, height int, st hudState) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		dim       = "\x1b[2m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgYellow  = "\x1b[93m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)

	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// Always clear the HUD rows (so toggling off works)
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)

	if !st.Show {
		return
	}

	// Top left: FPS and frame time
	fmt.Printf("%s%s%s %.0f FPS %s%s %v %s", moveTo(1, 1), bgBlack, fgGreen, h.fps,
		dim, fgWhite, st.Stats.Duration.Round(time.Microsecond), reset)

	// Top middle: scene name
	titleCol := max((width-len(h.title)-2)/2, 1)
	fmt.Printf("%s%s%s%s %s %s", moveTo(1, titleCol), bold, bgBlack, fgWhite, h.title, reset)

	// Top right: sphere count
	spheres := fmt.Sprintf(" %d spheres ", h.spheres)
	fmt.Printf("%s%s%s%s%s%s", moveTo(1, max(width-len(spheres), 1)), bgBlack, fgCyan, bold, spheres, reset)

	// Bottom: accumulation status
	check := "[ ]"
	if st.Accumulate {
		check = "[✓]"
	}
	mode := fmt.Sprintf("%s%s %s Accumulate", bgBlack, fgWhite, check)
	if st.Accumulate {
		mode += fmt.Sprintf(" (frame %d)", max(st.FrameIndex-1, 1))
	}
	fmt.Print(moveTo(height, 1) + mode + " " + reset)

	hint := fmt.Sprintf("%s%s%s Enter: accumulate  R: reset %s", bgBlack, dim, fgYellow, reset)
	fmt.Print(moveTo(height, max(width-28, 1)) + hint)
}
