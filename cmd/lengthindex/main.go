// Command lengthindex tabulates reading lists by word length and prints one
// JSON object on stdout, keyed by list name:
//
//	{"yomi": {"3": {"length": 3, "start": 0, "count": 1204}, ...}}
//
// Usage:
//
//	lengthindex [--config path] list.txt [list.txt ...]
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/bay-puz/kotobalist/internal/app"
	"github.com/bay-puz/kotobalist/internal/config"
	"github.com/bay-puz/kotobalist/internal/wordindex"
)

func main() {
	configFlag := flag.String("config", "", "path to YAML config file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] list [list ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := app.NewLogger(cfg.Log)

	index := make(map[string]map[int]wordindex.Bucket, flag.NArg())
	for _, path := range flag.Args() {
		name := wordindex.ListName(path)
		logger.Info("index", slog.String("list", name), slog.String("path", path))

		words, err := wordindex.LoadList(path)
		if err != nil {
			logger.Error("load list", slog.String("path", path), slog.String("error", err.Error()))
			os.Exit(1)
		}
		index[name] = wordindex.Build(words)
	}

	if err := json.NewEncoder(os.Stdout).Encode(index); err != nil {
		logger.Error("encode index", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
