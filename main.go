package main

import (
	"embed"
	"log"
	"os"
	"strconv"

	"github.com/chazu/relief/pkg/kernel/kernels"
	"github.com/go-logr/stdr"
	"github.com/joho/godotenv"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	// A missing .env is fine; the process environment still applies.
	_ = godotenv.Load()

	if v, err := strconv.Atoi(os.Getenv("RELIEF_VERBOSITY")); err == nil {
		stdr.SetVerbosity(v)
	}
	logger := stdr.NewWithOptions(log.New(os.Stderr, "", log.LstdFlags), stdr.Options{LogCaller: stdr.All})

	k, err := kernels.ByName(os.Getenv("RELIEF_KERNEL"))
	if err != nil {
		log.Fatal(err)
	}
	app := NewApp(logger.WithName("relief"), k)

	err = wails.Run(&options.App{
		Title:  "relief",
		Width:  1280,
		Height: 800,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		OnStartup: app.startup,
		Bind: []interface{}{
			app,
		},
	})
	if err != nil {
		log.Fatal(err)
	}
}
