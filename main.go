package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"go-melody/composer"
	"go-melody/config"
	"go-melody/debug"
	"go-melody/midi"
	"go-melody/rhythm"
	"go-melody/sequence"
	"go-melody/theme"
	"go-melody/tui"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "seed":
		err = runSeed(os.Args[2:])
	case "transform":
		err = runTransform(os.Args[2:])
	case "melody":
		err = runMelody(os.Args[2:])
	case "browse":
		err = runBrowse(os.Args[2:])
	case "config":
		err = runConfig(os.Args[2:])
	case "help", "-h", "--help":
		usage()
		return
	default:
		usage()
		os.Exit(2)
	}

	debug.Disable()
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// command holds what every subcommand shares: its flag set, the config file
// and the debug switch
type command struct {
	fs         *flag.FlagSet
	configPath string
	debug      bool
	cfg        *config.Config
}

func newCommand(name string) *command {
	c := &command{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	c.fs.StringVar(&c.configPath, "config", "", "config file (default ~/.config/go-melody/config.yaml)")
	c.fs.BoolVar(&c.debug, "debug", false, "write a debug log to ~/.config/go-melody/debug.log")
	return c
}

// parse accepts flags before and after positional arguments, loads the
// config and applies every flag that was set on top of it.
func (c *command) parse(args []string, apply func(name string)) ([]string, error) {
	var positional []string
	for {
		if err := c.fs.Parse(args); err != nil {
			return nil, err
		}
		if c.fs.NArg() == 0 {
			break
		}
		positional = append(positional, c.fs.Arg(0))
		args = c.fs.Args()[1:]
	}

	var err error
	if c.configPath != "" {
		c.cfg, err = config.LoadFile(c.configPath)
	} else {
		c.cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if apply != nil {
		c.fs.Visit(func(f *flag.Flag) { apply(f.Name) })
	}
	if err := c.cfg.Validate(); err != nil {
		return nil, err
	}

	if c.debug {
		if err := debug.Enable(debug.DefaultPath()); err != nil {
			return nil, err
		}
		logCommand(c.fs.Name(), c.configPath, positional)
	}
	return positional, nil
}

// seed returns the configured master seed, or a time-based one when unset
func (c *command) seed() uint64 {
	if c.cfg.Seed != 0 {
		return c.cfg.Seed
	}
	return uint64(time.Now().UnixNano())
}

func (c *command) outputPath(input, suffix string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	dir := c.cfg.OutputDir
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base+suffix)
}

func (c *command) composerOptions(seed uint64) composer.Options {
	opts := composer.Options{
		TicksPerBeat: c.cfg.TicksPerBeat,
		MaxSteps:     c.cfg.MaxSteps,
		Seed:         seed,
		Parallel:     c.cfg.Parallel,
	}
	if c.debug {
		opts.Observer = logStep
	}
	return opts
}

// stepLogEvery thins plain steps in the debug log; hold transitions are
// always written
const stepLogEvery = 64

func logStep(variation int, s rhythm.Step) {
	if s.From != s.To {
		debug.Log("rhythm", "v%d step %d %s->%s choice=%d %s %s",
			variation, s.Index, s.From, s.To, s.DurationChoice, s.Modifier, s.Event)
		return
	}
	debug.LogEvery(stepLogEvery, "rhythm", "v%d step %d %s", variation, s.Index, s.Event)
}

func logCommand(name, configPath string, positional []string) {
	debug.Logger().Info("command",
		slog.String("category", "main"),
		slog.String("name", name),
		slog.String("config", configPath),
		slog.String("args", strings.Join(positional, " ")))
}

// readInput loads the note starts of a file, failing when there are none
func readInput(path string, limit int) (*midi.Source, error) {
	src, err := midi.ReadFile(path, limit)
	if err != nil {
		return nil, err
	}
	if len(src.Events) == 0 {
		return nil, fmt.Errorf("%s: %w", path, midi.ErrNoNotes)
	}
	return src, nil
}

func runSeed(args []string) error {
	c := newCommand("seed")
	out := c.fs.String("o", "chromatic_seed.mid", "output file")
	base := c.fs.Int("base", sequence.DefaultBasePitch, "lowest pitch of the row")
	seed := c.fs.Uint64("seed", 0, "random seed (0 picks one)")

	if _, err := c.parse(args, func(name string) {
		switch name {
		case "base":
			c.cfg.BasePitch = *base
		case "seed":
			c.cfg.Seed = *seed
		}
	}); err != nil {
		return err
	}

	master := c.seed()
	rng := rand.New(rand.NewPCG(master, master))
	row := sequence.ChromaticSeed(c.cfg.BasePitch, uint8(c.cfg.Velocity), rng)

	path := *out
	if c.cfg.OutputDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(c.cfg.OutputDir, path)
	}
	sum, err := midi.WritePitchesFile(path, row, midi.PitchOptions(c.cfg.TicksPerBeat, float64(c.cfg.Tempo)))
	if err != nil {
		return err
	}

	printSeed(newReport(nil), path, master, row, sum)
	return nil
}

func runTransform(args []string) error {
	c := newCommand("transform")
	out := c.fs.String("o", "", "output file (default <input>_transformed.mid)")
	n := c.fs.Int("n", sequence.SeedLength, "number of note-ons to read")
	axis := c.fs.String("axis", "", `also report an axis inversion: "auto" or a pitch`)

	positional, err := c.parse(args, func(name string) {
		if name == "n" {
			c.cfg.FirstN = *n
		}
	})
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("usage: go-melody transform <input.mid> [-o file] [-n %d]", sequence.SeedLength)
	}
	input := positional[0]

	var axisValue *float64
	if *axis != "" {
		if axisValue, err = parseAxis(*axis); err != nil {
			return err
		}
	}

	src, err := readInput(input, c.cfg.FirstN)
	if err != nil {
		return err
	}

	path := *out
	if path == "" {
		path = c.outputPath(input, "_transformed.mid")
	}
	canonical := composer.Canonical(src.Events)
	sum, err := midi.WritePitchesFile(path, canonical, midi.PitchOptions(c.cfg.TicksPerBeat, float64(c.cfg.Tempo)))
	if err != nil {
		return err
	}

	parts := composer.Parts(src.Events)
	if *axis != "" {
		parts = append(parts, composer.AxisPart(src.Events, axisValue))
	}
	printParts(newReport(nil), input, parts, path, sum)
	return nil
}

func runMelody(args []string) error {
	c := newCommand("melody")
	variations := c.fs.Int("variations", 3, "number of variations")
	seed := c.fs.Uint64("seed", 0, "random seed (0 picks one)")
	maxSteps := c.fs.Int("max-steps", 0, "fail a variation after this many steps (0 = no limit)")
	parallel := c.fs.Bool("parallel", false, "generate variations concurrently")
	formats := c.fs.String("formats", "", "comma separated output formats: mid,musicxml,csv")

	positional, err := c.parse(args, func(name string) {
		switch name {
		case "variations":
			c.cfg.Variations = *variations
		case "seed":
			c.cfg.Seed = *seed
		case "max-steps":
			c.cfg.MaxSteps = *maxSteps
		case "parallel":
			c.cfg.Parallel = *parallel
		case "formats":
			c.cfg.Formats = parseFormats(*formats)
		}
	})
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return errors.New("usage: go-melody melody <input.mid> [-variations 3] [-seed n] [-max-steps n] [-parallel] [-formats mid,musicxml,csv]")
	}
	input := positional[0]

	src, err := readInput(input, 0)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	master := c.seed()
	vars, err := composer.Variations(ctx, src.Events, c.cfg.Variations, c.composerOptions(master))
	if err != nil {
		return err
	}

	th, err := theme.Load(c.cfg.UI.Palette)
	if err != nil {
		return err
	}
	r := newReport(th)
	printInput(r, input, src, master)

	ex := exporter{cfg: c.cfg, input: input, outputPath: c.outputPath}
	for _, v := range vars {
		paths, sum, err := ex.write(v)
		if err != nil {
			return err
		}
		printVariation(r, v, paths, sum, c.cfg.TicksPerBeat)
	}
	return nil
}

func runBrowse(args []string) error {
	c := newCommand("browse")
	variations := c.fs.Int("variations", 3, "number of variations")
	seed := c.fs.Uint64("seed", 0, "random seed (0 picks one)")

	positional, err := c.parse(args, func(name string) {
		switch name {
		case "variations":
			c.cfg.Variations = *variations
		case "seed":
			c.cfg.Seed = *seed
		}
	})
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return errors.New("usage: go-melody browse <input.mid> [-variations 3] [-seed n]")
	}
	input := positional[0]

	src, err := readInput(input, 0)
	if err != nil {
		return err
	}

	opts := c.composerOptions(c.seed())
	vars, err := composer.Variations(context.Background(), src.Events, c.cfg.Variations, opts)
	if err != nil {
		return err
	}

	th, err := theme.Load(c.cfg.UI.Palette)
	if err != nil {
		return err
	}

	ex := exporter{cfg: c.cfg, input: input, outputPath: c.outputPath}
	write := func(v composer.Variation) ([]string, error) {
		paths, _, err := ex.write(v)
		return paths, err
	}

	m := tui.NewModel(composer.Parts(firstN(src.Events, c.cfg.FirstN)), src.Events, vars, opts, th, write)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// runConfig writes the loaded config with every default filled in, so it can
// be edited by hand
func runConfig(args []string) error {
	c := newCommand("config")
	out := c.fs.String("o", "", "output file (default ~/.config/go-melody/config.yaml)")
	if _, err := c.parse(args, nil); err != nil {
		return err
	}

	if *out != "" {
		if err := c.cfg.SaveFile(*out); err != nil {
			return err
		}
		fmt.Println("wrote " + *out)
		return nil
	}

	if err := c.cfg.Save(); err != nil {
		return err
	}
	path, _ := config.ConfigPath()
	fmt.Println("wrote " + path)
	return nil
}

func firstN(events []sequence.PitchEvent, n int) []sequence.PitchEvent {
	if n > 0 && n < len(events) {
		return events[:n]
	}
	return events
}

// parseAxis reads "auto" as the sequence midpoint (nil) or a pitch value
func parseAxis(s string) (*float64, error) {
	if s == "auto" {
		return nil, nil
	}
	a, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(a) || math.IsInf(a, 0) {
		return nil, fmt.Errorf("axis %q: want auto or a number", s)
	}
	return sequence.Axis(a), nil
}

func parseFormats(s string) []config.Format {
	var out []config.Format
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, config.Format(f))
		}
	}
	return out
}

func usage() {
	fmt.Println(usageText())
}
