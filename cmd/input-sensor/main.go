// Command input-sensor monitors debounced digital inputs and reports
// activations to the console and optionally an MQTT broker. Sensors are
// defined over a line-based console protocol and persisted to a file-backed
// region so definitions survive restarts.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/sweeney/input-sensor/internal/command"
	"github.com/sweeney/input-sensor/internal/config"
	"github.com/sweeney/input-sensor/internal/gpio"
	"github.com/sweeney/input-sensor/internal/logic"
	"github.com/sweeney/input-sensor/internal/registry"
	"github.com/sweeney/input-sensor/internal/sink"
	"github.com/sweeney/input-sensor/internal/store"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config file")
	poll := flag.Duration("poll", 0, "Scan interval (overrides config)")
	decay := flag.Float64("decay", 0, "Debounce smoothing weight (overrides config)")
	activate := flag.Float64("activate-below", 0, "Activation threshold (overrides config)")
	release := flag.Float64("release-above", 0, "Release threshold (overrides config)")
	maxSensors := flag.Int("max-sensors", 0, "Registry capacity, 0 = unlimited (overrides config)")
	chip := flag.String("chip", "", "GPIO character device (overrides config)")
	storePath := flag.String("store", "", "Sensor definition file (overrides config)")
	broker := flag.String("broker", "", "MQTT broker address, empty disables MQTT (overrides config)")

	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		cfg, err = config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("fatal: %v", err)
		}
	}

	// Flags given on the command line win over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "poll":
			cfg.PollMs = int(poll.Milliseconds())
		case "decay":
			cfg.Decay = *decay
		case "activate-below":
			cfg.ActivateBelow = *activate
		case "release-above":
			cfg.ReleaseAbove = *release
		case "max-sensors":
			cfg.MaxSensors = *maxSensors
		case "chip":
			cfg.Chip = *chip
		case "store":
			cfg.StorePath = *storePath
		case "broker":
			cfg.Broker = *broker
		}
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("fatal: config: %v", err)
	}
	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(cfg config.Config) error {
	lines, err := gpio.NewRealLines(cfg.Chip)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer lines.Close()

	region, err := store.OpenFile(cfg.StorePath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer region.Close()

	reg := registry.New(lines, cfg.MaxSensors)
	if err := store.Load(region, region.Count(), reg); err != nil {
		// Keep whatever restored cleanly; a corrupt tail must not brick
		// the daemon.
		log.Printf("restore sensors: %v", err)
	}
	log.Printf("restored %d sensors from %s", reg.Len(), cfg.StorePath)

	notifier := sink.Notifier(sink.NewWriterSink(os.Stdout))
	if cfg.Broker != "" {
		mq, err := sink.NewMQTTSink(cfg.Broker)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		notifier = sink.NewMultiSink(notifier, mq)
	}
	defer notifier.Close()

	engine := logic.NewEngine(cfg.Filter(), lines, notifier)
	dispatcher := command.New(reg, notifier)

	ticker := time.NewTicker(cfg.Poll())
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	cmds := make(chan consoleCmd)
	go readCommands(os.Stdin, cmds)

	log.Printf("started: poll=%v decay=%v sensors=%d broker=%s",
		cfg.Poll(), cfg.Decay, reg.Len(), cfg.Broker)

	return runLoop(reg, engine, dispatcher, region, notifier, ticker.C, cmds, sigCh)
}

// runLoop is the cooperative scheduler: every scan, command and save runs on
// this goroutine, so the registry never sees concurrent access.
func runLoop(reg *registry.Registry, engine *logic.Engine, dispatcher *command.Dispatcher, region store.Region, notifier sink.Notifier, tick <-chan time.Time, cmds <-chan consoleCmd, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			if err := store.Save(reg, region); err != nil {
				log.Printf("save on shutdown: %v", err)
			}
			return nil

		case cmd, ok := <-cmds:
			if !ok {
				// Console closed; keep scanning.
				cmds = nil
				continue
			}
			switch {
			case cmd.bad:
				notifier.Fail()
			case cmd.save:
				if err := store.Save(reg, region); err != nil {
					log.Printf("save: %v", err)
					notifier.Fail()
					continue
				}
				log.Printf("saved %d sensors", reg.Len())
				notifier.OK()
			default:
				if err := dispatcher.Handle(cmd.args); err != nil {
					log.Printf("command %v: %v", cmd.args, err)
				}
			}

		case <-tick:
			if err := engine.Scan(reg); err != nil {
				log.Printf("scan: %v", err)
			}
		}
	}
}

// consoleCmd is one parsed console line.
type consoleCmd struct {
	args []int
	save bool
	bad  bool
}

// parseLine turns a console line into a command. Blank lines are skipped
// (ok=false). "save" and "list" are keywords; anything else must be all
// integers or it is a bad command answered with the failure token.
func parseLine(line string) (consoleCmd, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return consoleCmd{}, false
	}

	if len(fields) == 1 {
		switch fields[0] {
		case "save":
			return consoleCmd{save: true}, true
		case "list":
			// Enumerate is the zero-argument command.
			return consoleCmd{args: []int{}}, true
		}
	}

	args := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return consoleCmd{bad: true}, true
		}
		args = append(args, n)
	}
	return consoleCmd{args: args}, true
}

// readCommands feeds parsed console lines into cmds until EOF.
func readCommands(r io.Reader, cmds chan<- consoleCmd) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		cmd, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		cmds <- cmd
	}
	if err := scanner.Err(); err != nil {
		log.Printf("console read error: %v", err)
	}
	close(cmds)
}
