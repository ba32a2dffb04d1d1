/*
This is an example of application that will use the
engine package to drive a camera rig around a small scene
*/
package main

import (
	"errors"
	"flag"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/textgem/engine"
	"github.com/spaghettifunk/textgem/engine/config"
	"github.com/spaghettifunk/textgem/engine/core"
	"github.com/spaghettifunk/textgem/engine/platform"
	"github.com/spaghettifunk/textgem/testbed"
)

func main() {
	configPath := flag.String("config", config.DEFAULT_CONFIG_PATH, "camera and scene configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if errors.Is(err, fs.ErrNotExist) {
		core.LogWarn("config '%s' not found, using defaults", *configPath)
		cfg, *configPath = config.Default(), ""
	} else if err != nil {
		core.LogFatal("%s", err)
	}

	tb, err := testbed.NewTestGame(cfg, *configPath)
	if err != nil {
		core.LogFatal("%s", err)
	}

	e, err := engine.New(tb.Game, platform.New())
	if err != nil {
		core.LogFatal("%s", err)
	}

	if err := e.Initialize(); err != nil {
		core.LogFatal("%s", err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	go func() {
		// capture sigterm and other system call here
		<-sigCh
		e.Quit()
	}()

	// run engine
	runErr := e.Run()
	if err := e.Shutdown(); err != nil {
		core.LogError("%s", err)
	}
	if runErr != nil {
		core.LogFatal("%s", runErr)
	}
}
