package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/kaleido/internal/analyser"
	"github.com/olivier-w/kaleido/internal/media"
	"github.com/olivier-w/kaleido/internal/player"
	"github.com/olivier-w/kaleido/internal/raster"
	"github.com/olivier-w/kaleido/internal/screen"
	"github.com/olivier-w/kaleido/internal/ui"
	"github.com/olivier-w/kaleido/internal/visualizer"
)

type options struct {
	style     string
	fftSize   int
	smoothing float64
	fps       int
	seed      int64
	beatDecay float64
	mobile    bool
	demo      bool
	mute      bool
	exportDir string
	frames    int
	size      int
	logPath   string
}

func parseFlags() (options, string) {
	var o options
	flag.StringVar(&o.style, "style", "mandala", "visual style: "+strings.Join(visualizer.StyleNames, ", "))
	flag.IntVar(&o.fftSize, "fft", 2048, "FFT size (power of two, 256-8192)")
	flag.Float64Var(&o.smoothing, "smoothing", 0.8, "spectrum smoothing in [0, 0.99]")
	flag.IntVar(&o.fps, "fps", 30, "frames per second")
	flag.Int64Var(&o.seed, "seed", 0, "random seed (0 = time based)")
	flag.Float64Var(&o.beatDecay, "beat-decay", visualizer.DefaultBeatConfig().Decay, "beat confidence lost per quiet frame; lower values let steady beats change symmetry")
	flag.BoolVar(&o.mobile, "mobile", false, "use the mobile quality profile")
	flag.BoolVar(&o.demo, "demo", false, "visualize a built-in synthetic track")
	flag.BoolVar(&o.mute, "mute", false, "do not open the audio device")
	flag.StringVar(&o.exportDir, "export", "", "render PNG frames into this directory instead of the terminal")
	flag.IntVar(&o.frames, "frames", 300, "number of frames to export")
	flag.IntVar(&o.size, "size", 512, "exported frame size in pixels")
	flag.StringVar(&o.logPath, "log", "", "write debug log to this file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: kaleido [flags] [file|playlist|directory]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	return o, flag.Arg(0)
}

func main() {
	o, arg := parseFlags()
	if err := run(o, arg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(o options, arg string) error {
	logger, closeLog, err := setupLogging(o.logPath)
	if err != nil {
		return err
	}
	defer closeLog()

	if o.fps <= 0 {
		return fmt.Errorf("fps must be positive, got %d", o.fps)
	}
	vcfg := visualizer.DefaultConfig()
	vcfg.Style = o.style
	vcfg.FPS = o.fps
	vcfg.Seed = o.seed
	if o.beatDecay < 0 || o.beatDecay > 1 {
		return fmt.Errorf("beat-decay must be in [0, 1], got %v", o.beatDecay)
	}
	vcfg.Beat.Decay = o.beatDecay
	vcfg.Device = visualizer.DeviceInfo{Cores: runtime.NumCPU(), Mobile: isMobile(o.mobile)}
	vcfg.Logger = logger

	acfg := analyser.DefaultConfig()
	acfg.FFTSize = o.fftSize
	acfg.Smoothing = o.smoothing

	var tracks []string
	if arg != "" && !o.demo {
		tracks, err = media.Resolve(arg)
		if err != nil {
			return err
		}
	}

	if o.exportDir != "" {
		return export(o, tracks, acfg, vcfg, logger)
	}
	return runTUI(o, tracks, acfg, vcfg, logger)
}

// setupLogging routes the standard logger to path, or discards it.
func setupLogging(path string) (*log.Logger, func(), error) {
	if path == "" {
		log.SetOutput(io.Discard)
		return nil, func() {}, nil
	}
	f, err := tea.LogToFile(path, "kaleido")
	if err != nil {
		return nil, nil, fmt.Errorf("opening log: %w", err)
	}
	return log.Default(), func() { f.Close() }, nil
}

// isMobile honours the flag, then KALEIDO_MOBILE, then Termux and Android
// markers in the environment.
func isMobile(flagged bool) bool {
	if flagged {
		return true
	}
	switch strings.ToLower(os.Getenv("KALEIDO_MOBILE")) {
	case "1", "true", "yes":
		return true
	case "0", "false", "no":
		return false
	}
	if os.Getenv("TERMUX_VERSION") != "" || os.Getenv("ANDROID_ROOT") != "" {
		return true
	}
	return runtime.GOOS == "android"
}

func runTUI(o options, tracks []string, acfg analyser.Config, vcfg visualizer.Config, logger *log.Logger) error {
	acfg.Channels = 2
	a, err := analyser.New(acfg)
	if err != nil {
		return err
	}

	popts := player.Options{Mute: o.mute, Tap: a, Logger: logger}
	var (
		p     *player.Player
		title string
		queue []string
	)
	if len(tracks) == 0 {
		p, err = player.New(player.NewSynth(o.seed), popts)
		title = "demo"
	} else {
		p, err = player.Open(tracks[0], popts)
		title = player.ReadMetadata(tracks[0]).Label()
		queue = tracks[1:]
	}
	if err != nil {
		return fmt.Errorf("creating player: %w", err)
	}
	defer p.Close()

	renderer := screen.NewRenderer()
	canvas := raster.New(screen.CanvasSize(80, 22))
	loop, err := visualizer.NewLoop(a, canvas, vcfg)
	if err != nil && !errors.Is(err, visualizer.ErrEngineUnavailable) {
		return err
	}

	model := ui.New(loop, canvas, renderer, p, ui.Options{
		FPS:   o.fps,
		Title: title,
		Queue: queue,
		Open: func(path string) (*player.Player, error) {
			return player.Open(path, popts)
		},
	})
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return err
	}
	return nil
}

// export renders frames headlessly, feeding the analyser exactly one frame's
// worth of PCM before each frame.
func export(o options, tracks []string, acfg analyser.Config, vcfg visualizer.Config, logger *log.Logger) error {
	if o.frames <= 0 || o.size <= 0 {
		return fmt.Errorf("frames and size must be positive")
	}
	if err := os.MkdirAll(o.exportDir, 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	var s player.Stream = player.NewSynth(o.seed)
	if len(tracks) > 0 {
		fs, closer, err := player.OpenFile(tracks[0])
		if err != nil {
			return err
		}
		defer closer.Close()
		s = fs
	}

	acfg.Channels = s.ChannelCount()
	a, err := analyser.New(acfg)
	if err != nil {
		return err
	}
	canvas := raster.New(o.size, o.size)
	loop, err := visualizer.NewLoop(a, canvas, vcfg)
	if err != nil {
		return err
	}
	defer loop.Stop()

	frameBytes := s.SampleRate() * s.ChannelCount() * 2 / o.fps
	frameBytes -= frameBytes % (s.ChannelCount() * 2)
	chunk := make([]byte, frameBytes)

	saved := 0
	for i := 0; i < o.frames; i++ {
		n, err := io.ReadFull(s, chunk)
		a.Write(chunk[:n])
		if loop.Frame() {
			path := filepath.Join(o.exportDir, fmt.Sprintf("frame_%05d.png", saved))
			if err := canvas.SavePNG(path); err != nil {
				return fmt.Errorf("saving frame: %w", err)
			}
			saved++
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return fmt.Errorf("decoding: %w", err)
		}
	}
	if logger != nil {
		logger.Printf("exported %d frames to %s", saved, o.exportDir)
	}
	fmt.Printf("Exported %d frames to %s\n", saved, o.exportDir)
	return nil
}
