// Package config loads vrouter.json, the configuration of the vrouter
// command.
//
// # Configuration File Structure
//
//	{
//	  "name": "shop",
//	  "routes": "routes.yaml",
//	  "base": "/app/",
//	  "mode": "history",
//	  "serve": {
//	    "addr": ":8080",
//	    "wsPath": "/ws",
//	    "codec": "msgpack",
//	    "allowedOrigins": ["https://shop.example.com"]
//	  },
//	  "log": {
//	    "level": "debug",
//	    "json": false
//	  },
//	  "telemetry": {
//	    "metricsPath": "/metrics",
//	    "namespace": "shop",
//	    "tracing": true
//	  }
//	}
//
// Environment variables override the file. They are read from the
// process environment first and then from a .env file next to
// vrouter.json: VROUTER_ROUTES, VROUTER_BASE, VROUTER_MODE, VROUTER_ADDR,
// VROUTER_CODEC, VROUTER_METRICS_PATH, VROUTER_TRACING and LOG_LEVEL.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.LoadEnv(); err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Routes:", cfg.RoutesLocation())
package config
