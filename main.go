// Package main provides the entry point for the Mockup Studio application.
package main

import (
	"log"
	"os"
	"time"

	"github.com/NV08hv/canvas-mockup-sub000/internal/app"
	"github.com/NV08hv/canvas-mockup-sub000/internal/version"
	"github.com/NV08hv/canvas-mockup-sub000/ui/mainwindow"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting %s v%s", version.Name, version.Version)

	fyneApp := fyneapp.NewWithID("com.nv08hv.mockupstudio")
	fyneApp.Settings().SetTheme(&app.StudioTheme{})

	appState := app.NewState()
	win := mainwindow.New(fyneApp, appState)
	win.Resize(fyne.NewSize(1280, 840))

	// A project path on the command line wins over the remembered session.
	if len(os.Args) > 1 {
		projectPath := os.Args[1]
		if err := appState.LoadProject(projectPath); err != nil {
			log.Printf("Failed to load project %s: %v", projectPath, err)
		}
	} else {
		win.RestoreLastProject()
	}

	setupHotReload(win)

	win.ShowAndRun()
}

// setupHotReload configures automatic restart detection when the binary is
// recompiled.
func setupHotReload(win *mainwindow.MainWindow) {
	reloader := app.NewHotReloader(2 * time.Second)
	if reloader == nil {
		log.Println("Hot reload: unable to determine executable path")
		return
	}

	reloader.OnNewBinary(func() {
		log.Println("Hot reload: newer binary detected")
		dialog.ShowConfirm("New Version Available",
			"The application binary has been updated.\nRestart now?",
			func(restart bool) {
				if !restart {
					reloader.ResetBaseline()
					reloader.Start()
					return
				}
				log.Println("Hot reload: restarting...")
				if err := reloader.Restart(); err != nil {
					log.Printf("Hot reload: restart failed: %v", err)
				}
			}, win)
	})

	reloader.Start()
}
