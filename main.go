package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/gdamore/tcell/v2"
	"github.com/matt-g-everett/ledanim/api"
	"github.com/matt-g-everett/ledanim/cue"
	"github.com/matt-g-everett/ledanim/export"
	"github.com/matt-g-everett/ledanim/preview"
	"github.com/matt-g-everett/ledanim/stream"
	"github.com/matt-g-everett/ledanim/ticker"
)

const exportScale = 4

type app struct {
	Config     stream.Config
	Client     mqtt.Client
	Streamer   *stream.Streamer
	Controller *stream.Controller
}

func newApp() *app {
	a := new(app)
	return a
}

func (a *app) handleOnConnect(client mqtt.Client) {
	log.Println("Connected")
	err := a.Streamer.Subscribe(func(velocity float64) {
		if err := a.Controller.Fling(velocity); err != nil {
			log.Printf("Fling %.2f rejected: %v", velocity, err)
		}
	})
	if err != nil {
		log.Println(err)
	}
}

func (a *app) readConfig(configPath string) {
	f, err := os.Open(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			panic(err)
		}
		log.Printf("No config at %s, using defaults", configPath)
		a.Config = stream.DefaultConfig()
		return
	}
	defer f.Close()

	a.Config, err = stream.LoadConfig(f)
	if err != nil {
		panic(err)
	}
}

func (a *app) export(path string, sheets []stream.Sheet) {
	sheet := export.Render(sheets[0], exportScale)
	if err := sheet.Save(path); err != nil {
		panic(err)
	}
	log.Printf("Wrote %d frames of %q to %s", sheet.Rows(), a.Config.Sprites[0].Name, path)
}

// openPreview starts a terminal preview. The returned function restores the
// terminal.
func (a *app) openPreview(cancel context.CancelFunc) (stream.Sink, func(), error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, nil, err
	}

	// The screen owns the terminal, so logs go to a file.
	logFile, err := os.OpenFile("ledanim.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err == nil {
		log.SetOutput(logFile)
	}

	go func() {
		for {
			switch ev := screen.PollEvent().(type) {
			case nil:
				return
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
					cancel()
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		}
	}()

	return preview.New(screen), func() {
		screen.Fini()
		if logFile != nil {
			log.SetOutput(os.Stderr)
			logFile.Close()
		}
	}, nil
}

func (a *app) openChime() *cue.Chime {
	if !a.Config.Audio.Enabled {
		return nil
	}
	chime, err := cue.New(cue.Config{Frequency: a.Config.Audio.Frequency, Duration: a.Config.Audio.Duration})
	if err != nil {
		log.Printf("Running without sound: %v", err)
		return nil
	}
	return chime
}

func (a *app) run(ctx context.Context) error {
	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("connect to %s: %w", a.Config.Mqtt.URL, token.Error())
	}
	defer a.Client.Disconnect(250)

	a.Controller.Start()
	defer a.Controller.Close()

	apiServer := api.NewApi(a.Controller)
	go func() {
		if err := apiServer.Serve(a.Config.Api.Listen); err != nil {
			log.Printf("Api stopped: %v", err)
		}
	}()

	return a.Controller.Run(ctx)
}

func main() {
	// mqtt.DEBUG = log.New(os.Stdout, "", 0)
	mqtt.ERROR = log.New(os.Stdout, "", 0)

	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	previewFlag := flag.Bool("preview", false, "Mirror the strip in the terminal.")
	exportPath := flag.String("export", "", "Write the first sprite as a PNG contact sheet and exit.")
	flag.Parse()

	r := rand.New(rand.NewSource(time.Now().UTC().UnixNano()))

	// Read the config
	a := newApp()
	a.readConfig(*configPath)
	log.Printf("Config: %+v", a.Config)

	sheets, err := stream.BuildSheets(a.Config, r)
	if err != nil {
		panic(err)
	}

	if *exportPath != "" {
		a.export(*exportPath, sheets)
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	options := mqtt.NewClientOptions().
		AddBroker(a.Config.Mqtt.URL).
		SetClientID(a.Config.Mqtt.ClientID).
		SetUsername(a.Config.Mqtt.Username).
		SetPassword(a.Config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(a.handleOnConnect)
	a.Client = mqtt.NewClient(options)
	a.Streamer = stream.NewStreamer(a.Config, a.Client)

	sinks := []stream.Sink{a.Streamer}
	if *previewFlag || a.Config.Preview.Enabled {
		sink, closePreview, err := a.openPreview(cancel)
		if err != nil {
			panic(err)
		}
		defer closePreview()
		sinks = append(sinks, sink)
	}

	var opts []stream.ControllerOption
	if chime := a.openChime(); chime != nil {
		defer chime.Close()
		opts = append(opts, stream.WithChime(chime))
	}

	frameRate := ticker.NewFrameRate()
	defer frameRate.Close()

	a.Controller, err = stream.NewController(a.Config, frameRate, frameRate, sheets, sinks, opts...)
	if err != nil {
		panic(err)
	}

	if err := a.run(ctx); err != nil && err != context.Canceled {
		log.Println(err)
	}
}
