package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/1broseidon/tagwm/internal/ipc"
	"github.com/1broseidon/tagwm/internal/palette"
)

func runMenu(args []string) int {
	fs := flag.NewFlagSet("menu", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tagwm menu [--config PATH] [--program auto|rofi|dmenu]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Pick a window, tag, layout or action from a rofi/dmenu menu and run it.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	path := fs.String("config", "", "Config file path (default: ~/.config/tagwm/config.yaml)")
	program := fs.String("program", "", "Menu program (default: menu from config)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "menu takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	name := cfg.Menu
	if *program != "" {
		name = *program
	}
	backend, err := palette.NewBackend(name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	client := ipc.NewClient()
	mons, err := client.GetMonitors()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	clients, err := client.GetClients()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	choice, err := palette.NewMenu(backend, "tagwm").Pick(palette.Categories(cfg, mons.Monitors, clients.Clients))
	if errors.Is(err, palette.ErrCancelled) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := client.RunAction(choice.Action, choice.Arg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
