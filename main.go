package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/raysh454/sentaku/internal/backend"
	"github.com/raysh454/sentaku/internal/cli"
	"github.com/raysh454/sentaku/internal/logging"
	"github.com/raysh454/sentaku/internal/parser"
	"github.com/raysh454/sentaku/internal/report"
	"github.com/raysh454/sentaku/internal/server"
)

func main() {
	args, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	backend.RegisterDefaults()

	if args.Serve {
		if err := serve(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := runOnce(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serve(args *cli.CLIArgs) error {
	logger := logging.NewStdoutLogger("Sentaku")

	cfg := server.DefaultConfig()
	cfg.ListenAddr = args.Addr
	cfg.StorageRoot = args.Storage
	cfg.BackendConfig.Backend = args.Backend
	cfg.Logger = logger

	s, err := server.NewServer(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	logger.Info("listening", logging.Field{Key: "addr", Value: cfg.ListenAddr})
	return s.HTTPServer().ListenAndServe()
}

func runOnce(args *cli.CLIArgs) error {
	// Keep stdout clean for the result JSON.
	var logger logging.Logger = logging.NewNopLogger()
	if args.Verbose {
		logger = logging.NewStdoutLogger("Sentaku")
	}

	var b backend.Backend
	if args.HTML != "" {
		cfg := backend.DefaultConfig()
		cfg.Backend = args.Backend
		var err error
		b, err = backend.New(cfg, logger)
		if err != nil {
			return err
		}
		defer b.Close()
	}

	p := parser.New(b, logger)
	res, err := p.ParseAndValidate(context.Background(), args.Selectors, args.HTML, nil)
	if err != nil {
		return err
	}

	if args.ShowDiff {
		for field, d := range report.Diffs(res) {
			fmt.Fprintf(os.Stderr, "%s:\n%s\n", field, d)
		}
	}

	var out []byte
	if args.Pretty {
		out, err = json.MarshalIndent(res, "", "  ")
	} else {
		out, err = json.Marshal(res)
	}
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Println(string(out))

	if !res.Batch.AllValid {
		os.Exit(1)
	}
	return nil
}
