// Package cmd holds the daemon's Kong command tree: Serve (the actual
// daemon), Pair (store an encrypted MQTT/REST credential), and Config
// (scaffold a config file), following the teacher's thin cmd/ + fat
// internal/cmd split.
package cmd

// CLI is the Kong root. cmd/flipcore/main.go parses into this struct and
// binds the logger before running whichever subcommand matched.
type CLI struct {
	Config string `help:"Path to a config file (json/yaml/toml)" type:"path"`
	Log    Log    `embed:"" prefix:"log."`

	Serve  Serve         `cmd:"" help:"Run the flipcore daemon"`
	Pair   Pair          `cmd:"" help:"Store an encrypted MQTT/REST credential for the daemon to use"`
	Config ConfigCommand `cmd:"" help:"Config file management"`
}

// Log configures the structured logger and the optional raw HID/AT traffic
// dump, mirroring the teacher's own cli.Log embed.
type Log struct {
	Level   string `help:"Log level: trace, debug, info, warn, error" default:"info" env:"FLIPCORE_LOG_LEVEL"`
	File    string `help:"Log file path (stdout/stderr split by level when empty)" env:"FLIPCORE_LOG_FILE"`
	RawFile string `help:"Dump raw HID/AT wire traffic to this file" env:"FLIPCORE_RAW_LOG_FILE"`
}
