package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/MichalRonowski/APApp/internal/config"
	"github.com/MichalRonowski/APApp/internal/dataset"
	"github.com/MichalRonowski/APApp/internal/render"
	"github.com/MichalRonowski/APApp/internal/report"
	"github.com/MichalRonowski/APApp/internal/snapshot"
	"github.com/MichalRonowski/APApp/internal/storage"
	"github.com/MichalRonowski/APApp/internal/web"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	paths := snapshot.Paths{
		SourceCSV:     cfg.SourceCSVPath,
		UOMLookup:     cfg.UOMLookupPath,
		CustomerNames: cfg.CustomerNamesPath,
	}

	cmd := os.Args[1]
	switch cmd {
	case "serve":
		store, err := snapshot.NewStore(paths)
		must(err)
		db, err := storage.Open(cfg.DBPath)
		must(err)
		defer db.Close()
		server := web.NewServer(cfg, store, db)
		slog.Info("serving", "addr", cfg.HTTPAddr)
		must(server.Run())
	case "sources":
		snap, err := snapshot.Build(paths)
		must(err)
		for _, src := range snap.Sources {
			fmt.Printf("%s\t%s\n", src, snap.Customers.Display(src))
		}
	case "generate":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		source := fs.String("source", "", "Nr źródła, e.g. N3222")
		doc := fs.String("doc", "", "Nr dokumentu; all documents of the source when empty")
		_ = fs.Parse(os.Args[2:])
		if strings.TrimSpace(*source) == "" {
			must(fmt.Errorf("--source is required"))
		}

		snap, err := snapshot.Build(paths)
		must(err)

		records := snap.Table.FilterBySources([]string{*source})
		if strings.TrimSpace(*doc) != "" {
			records = dataset.FilterByDocument(records, *doc)
			if len(records) == 0 {
				must(fmt.Errorf("no rows for document %s", *doc))
			}
		}

		renderer := render.New(config.LoadReportConfig(cfg.ReportConfigPath), cfg.FontDir)
		docs, groups := dataset.GroupByDocument(records)
		for _, docNo := range docs {
			docRecords := groups[docNo]
			rows := report.BuildRows(docRecords, snap.Table.HasDocType)
			header := report.InferHeader(docRecords)
			header.DocumentNo = docNo
			if name, ok := snap.Customers[docRecords[0].SourceNo]; ok {
				header.CustomerName = name
			}

			out := filepath.Join(cfg.OutputDir, render.OutputFileName(docNo))
			must(renderer.Render(out, header, rows))
			fmt.Printf("generated %s rows=%d\n", out, len(rows))
		}
		fmt.Printf("documents total: %d\n", len(docs))
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage: apapp <command>")
	fmt.Println("commands:")
	fmt.Println("  serve")
	fmt.Println("  sources")
	fmt.Println("  generate --source=N3222 [--doc=WD/25/31995]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
