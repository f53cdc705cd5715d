package main

import (
	"flag"
	"net/http"

	"dmitryfrank.com/highlighter/server/config"
	hlserver "dmitryfrank.com/highlighter/server/server"
	"github.com/golang/glog"
	"github.com/juju/errors"
)

var (
	configFile = flag.String("config", "", "Path to the YAML config file.")
	listen     = flag.String("listen", "", "Address to listen at; overrides the config file.")
)

func main() {
	flag.Parse()

	defer glog.Flush()

	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.ReadFile(*configFile)
		if err != nil {
			glog.Fatalf("%s\n", errors.ErrorStack(err))
		}
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	hs, err := hlserver.New(cfg)
	if err != nil {
		glog.Fatalf("%s\n", errors.ErrorStack(err))
	}

	handler, err := hs.CreateHandler()
	if err != nil {
		glog.Fatalf("%s\n", errors.ErrorStack(err))
	}

	glog.Infof("Listening at %s..", cfg.Listen)
	if err := http.ListenAndServe(cfg.Listen, handler); err != nil {
		glog.Fatalf("%s\n", errors.ErrorStack(errors.Trace(err)))
	}
}
