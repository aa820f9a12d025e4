package app

import (
	"io"
	"log"
	"os"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/data/binding"

	"yashubustudio/beadplot/beadplot"
)

const fyneAppID = "studio.yashubu.beadplot"

// Run loads the configuration and starts the desktop UI.
func Run(configPath string) error {
	stored, err := beadplot.ReadConfigFile(configPath)
	if err != nil {
		return err
	}
	cfg, err := beadplot.LoadConfig(configPath)
	if err != nil {
		return err
	}

	a := fyneapp.NewWithID(fyneAppID)
	logBind := binding.NewString()
	capture := newLogCapture(logBind, 300)
	logger := log.New(io.MultiWriter(os.Stdout, capture), "", log.LstdFlags)

	svc := beadplot.NewService(cfg, logger)
	u := buildUI(a, svc, configPath, stored, logBind)
	u.restore()
	u.w.ShowAndRun()
	if u.source != nil {
		_ = u.source.Close()
	}
	return nil
}
