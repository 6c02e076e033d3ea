// Command nescore runs an iNES cartridge through the emulator core,
// either in a real window (ebiten) or under the interactive stepping
// monitor.
package main

import (
	"flag"
	"os"

	"github.com/golang/glog"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/bwalden/nescore/bus"
	"github.com/bwalden/nescore/display"
	"github.com/bwalden/nescore/ines"
	"github.com/bwalden/nescore/mapper"
	"github.com/bwalden/nescore/monitor"
)

var useMonitor = flag.Bool("monitor", false, "launch the interactive stepping debugger instead of the display window")

func main() {
	flag.Parse()
	defer glog.Flush()

	if flag.NArg() != 1 {
		glog.Errorf("usage: nescore [-monitor] <rom.nes>")
		glog.Flush()
		os.Exit(1)
	}

	console, err := buildConsole(flag.Arg(0))
	if err != nil {
		glog.Errorf("%v", err)
		glog.Flush()
		os.Exit(1)
	}

	if *useMonitor {
		if _, err := monitor.New(console).Run(); err != nil {
			glog.Errorf("monitor: %v", err)
			glog.Flush()
			os.Exit(1)
		}
		return
	}

	sink := display.NewEbitenSink(console, display.WallClock{})
	if err := ebiten.RunGame(sink); err != nil {
		glog.Errorf("display: %v", err)
		glog.Flush()
		os.Exit(1)
	}
}

func buildConsole(path string) (*bus.Console, error) {
	rom, err := ines.Load(path)
	if err != nil {
		return nil, err
	}
	m, err := mapper.Get(rom)
	if err != nil {
		return nil, err
	}
	return bus.New(m), nil
}
