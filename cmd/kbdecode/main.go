package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/bendahl/uinput"
	evdev "github.com/holoplot/go-evdev"
	"github.com/rs/zerolog"

	"github.com/andresousadotpt/kbdecode"
	"github.com/andresousadotpt/kbdecode/xkb"
)

var version = "0.1.0"

const usage = "usage: kbdecode [init|migrate|layouts|inject <text>|version]"

// resolveIdentity merges the config over the system keyboard settings.
func resolveIdentity(cfg *Config) kbdecode.Identity {
	return cfg.Identity(kbdecode.DetectIdentity())
}

func setupLogger(cfg *Config) (zerolog.Logger, error) {
	lvl, err := cfg.Level()
	if err != nil {
		return zerolog.Nop(), err
	}
	zerolog.SetGlobalLevel(lvl)
	return newLogger(os.Stderr, cfg.LogFormat), nil
}

func run(dir string, cfg *Config, log zerolog.Logger) error {
	if cfg.ConfigVersion < latestConfigVersion {
		log.Warn().
			Int("config_version", cfg.ConfigVersion).
			Msg("config is outdated, run 'kbdecode migrate'")
	}

	mon, err := NewMonitor(resolveIdentity(cfg), log.With().Str("subsystem", "monitor").Logger())
	if err != nil {
		return fmt.Errorf("compile keymap: %w", err)
	}

	keyboards, err := FindKeyboards(cfg.MatchDevice, log)
	if err != nil {
		return fmt.Errorf("find keyboards: %w", err)
	}
	if len(keyboards) == 0 {
		return errors.New("no keyboard devices found\nMake sure you are in the 'input' group:\n  sudo usermod -aG input $USER\nThen log out and back in")
	}

	log.Info().
		Int("keyboards", len(keyboards)).
		Str("identity", mon.Identity().String()).
		Msg("monitoring")

	ch := make(chan KeyEvent, 64)
	var wg sync.WaitGroup

	for _, kb := range keyboards {
		devLog := log.With().Str("device", kb.Path).Logger()
		devLog.Info().Str("name", kb.Name).Msg("keyboard")
		if cfg.Grab {
			if err := kb.Grab(); err != nil {
				devLog.Warn().Err(err).Msg("grab failed")
			}
		}
		wg.Add(1)
		go MonitorKeyboard(kb, ch, &wg, devLog)
	}
	defer func() {
		for _, kb := range keyboards {
			kb.Close()
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	watcher, err := NewWatcher(log.With().Str("subsystem", "watch").Logger(),
		filepath.Join(dir, configFileName), kbdecode.DefaultKeyboardFile)
	if err != nil {
		return err
	}
	defer watcher.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case ev := <-ch:
			k, ok := mon.HandleEvent(ev)
			if !ok || k.Direction != kbdecode.Down {
				continue
			}
			log.Info().
				Str("device", ev.Device).
				Str("key", evdev.CodeName(evdev.EV_KEY, ev.Code)).
				Str("keysyms", keysymNames(k)).
				Str("text", k.Text()).
				Strs("modifiers", k.Modifiers().Names()).
				Msg("key")
		case <-watcher.C:
			reload(dir, mon, log)
		case <-done:
			return errors.New("all keyboards closed")
		case sig := <-sigCh:
			log.Info().Stringer("signal", sig).Msg("shutting down")
			return nil
		}
	}
}

func keysymNames(k kbdecode.Keystroke) string {
	events := k.Keysyms()
	names := make([]string, len(events))
	for i, ev := range events {
		names[i] = ev.Sym.String()
	}
	return strings.Join(names, " ")
}

// reload re-reads the config and the system keyboard settings. A broken
// config keeps everything as it was.
func reload(dir string, mon *Monitor, log zerolog.Logger) {
	cfg, err := LoadConfig(dir)
	if err != nil {
		log.Error().Err(err).Msg("reload failed, keeping previous config")
		return
	}
	if lvl, err := cfg.Level(); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if err := mon.Reload(resolveIdentity(cfg)); err != nil {
		log.Error().Err(err).Msg("reload failed, keeping previous keymap")
	}
}

func listLayouts() {
	ctx := xkb.NewContext()
	for _, layout := range ctx.Layouts() {
		desc, _ := ctx.Describe(layout, "")
		fmt.Printf("%-12s %s\n", layout, desc)
		for _, variant := range ctx.Variants(layout) {
			desc, _ := ctx.Describe(layout, variant)
			fmt.Printf("  %-10s %s\n", variant, desc)
		}
	}
	fmt.Println("\noptions:")
	for _, opt := range ctx.Options() {
		fmt.Printf("  %s\n", opt)
	}
}

func inject(cfg *Config, text string, log zerolog.Logger) error {
	layout, err := kbdecode.NewLayoutContext(resolveIdentity(cfg), kbdecode.WithLogger(log))
	if err != nil {
		return fmt.Errorf("compile keymap: %w", err)
	}

	vkbd, err := uinput.CreateKeyboard("/dev/uinput", []byte("kbdecode"))
	if err != nil {
		return fmt.Errorf("create virtual keyboard: %w", err)
	}
	defer vkbd.Close()

	// give the compositor time to pick up the new device
	time.Sleep(200 * time.Millisecond)

	return NewInjector(vkbd, layout.Keymap(), log).Type(text)
}

func main() {
	dir := configDir()

	cfg, err := LoadConfig(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kbdecode: %v\n", err)
		os.Exit(1)
	}
	log, err := setupLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "kbdecode: %v\n", err)
		os.Exit(1)
	}

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "init":
			err = initConfig(dir, log)
		case "migrate":
			err = migrateConfig(dir, log)
		case "layouts":
			listLayouts()
		case "inject":
			if len(os.Args) < 3 {
				fmt.Fprintln(os.Stderr, usage)
				os.Exit(1)
			}
			err = inject(cfg, strings.Join(os.Args[2:], " "), log)
		case "version":
			fmt.Printf("kbdecode %s\n", version)
		default:
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(1)
		}
	} else {
		err = run(dir, cfg, log)
	}

	if err != nil {
		log.Error().Err(err).Msg("kbdecode failed")
		os.Exit(1)
	}
}
