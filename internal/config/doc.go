// Package config loads scenesync.json and the optional YAML default
// stylesheet.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "host": "localhost",
//	    "port": 7420,
//	    "path": "/scene",
//	    "metricsPath": "/metrics"
//	  },
//	  "engine": {
//	    "unbindMode": "explicit",
//	    "styleMemo": true
//	  },
//	  "transport": {
//	    "maxFramePayload": 65535,
//	    "maxCommands": 0,
//	    "writeTimeout": "5s"
//	  },
//	  "log": {"level": "info", "json": false},
//	  "capture": {"dir": "frames"},
//	  "stylesheet": "styles.yaml"
//	}
//
// Every field is optional. Missing fields get the defaults shown above;
// relative paths are resolved against the directory holding the file.
//
// # Usage
//
//	cfg, err := config.LoadFromWorkingDir()
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//	sheet, err := config.LoadStylesheet(cfg.StylesheetPath())
package config
