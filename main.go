package main

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2/app"

	"github.com/modelget/model-installer/internal/api"
	"github.com/modelget/model-installer/internal/config"
	"github.com/modelget/model-installer/internal/installer"
	"github.com/modelget/model-installer/internal/logging"
	"github.com/modelget/model-installer/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.modelget.model-installer"
	AppName = "Model Installer"
)

func main() {
	log := logging.NewDefault()
	log.Info().Str("version", version).Msg("starting")

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewCompactTheme())

	windowTitle := fmt.Sprintf("%s v%s", AppName, version)
	myWindow := myApp.NewWindow(windowTitle)

	settings := config.NewSettings(myApp)
	client, err := api.NewClient(settings.GetServerURL(), log)
	if err != nil {
		log.Error().Err(err).Msg("invalid server URL")
		return
	}

	service := installer.NewService(client, ui.NewAuthPrompt(myWindow), log)
	service.Progress().SetIntervals(settings.GetProgressInterval(), settings.GetRemoveDelay())

	rootUI := ui.NewRootUI(myWindow, myApp, service)
	rootUI.Activate(context.Background())

	myWindow.ShowAndRun()
}
