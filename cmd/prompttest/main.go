// Command prompttest runs the document analysis pipeline against a local file and prints the outcome.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"finance-backend/internal/documents"
	"finance-backend/internal/llm"
	"finance-backend/internal/llm/openai"
	"finance-backend/internal/shared/config"
	"finance-backend/internal/shared/storage/object/local"
)

type syncDispatcher struct {
	processor documents.Processor
}

func (d syncDispatcher) Dispatch(ctx context.Context, job documents.Job) error {
	return d.processor.Process(ctx, job.DocumentID)
}

type outcome struct {
	File     string   `json:"file"`
	FileType string   `json:"file_type"`
	Status   string   `json:"status"`
	Summary  string   `json:"summary,omitempty"`
	Insights []string `json:"insights,omitempty"`
	Error    string   `json:"error,omitempty"`
}

func main() {
	cfg := config.Load()

	filePath := flag.String("file", "", "Path to a pdf, xlsx or csv document")
	model := flag.String("model", cfg.AIModel, "Chat model")
	outPath := flag.String("out", "", "Path to write JSON output (optional)")
	flag.Parse()

	if strings.TrimSpace(*filePath) == "" {
		exitErr("file path is required")
	}
	f, err := os.Open(*filePath)
	if err != nil {
		exitErr(fmt.Sprintf("open file: %v", err))
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		exitErr(fmt.Sprintf("stat file: %v", err))
	}

	scratch, err := os.MkdirTemp("", "prompttest-*")
	if err != nil {
		exitErr(fmt.Sprintf("scratch dir: %v", err))
	}
	defer os.RemoveAll(scratch)

	var client llm.Client = llm.Unconfigured{}
	if c, err := openai.NewClient(openai.Config{APIKey: cfg.AIAPIKey, Model: *model, BaseURL: cfg.AIBaseURL, Timeout: cfg.ProviderTimeout}); err == nil {
		client = c
	} else {
		fmt.Fprintf(os.Stderr, "provider unconfigured (%v); expect a degraded result\n", err)
	}

	store := local.New(scratch)
	repo := documents.NewMemoryRepo()
	analyzer := documents.NewAnalyzer(repo, store, client)
	svc := documents.NewService(store, repo, syncDispatcher{processor: analyzer}, info.Size()+1)

	ctx := context.Background()
	doc, err := svc.Upload(ctx, "prompttest", filepath.Base(*filePath), info.Size(), f)
	if err != nil {
		exitErr(fmt.Sprintf("upload: %v", err))
	}
	doc, err = svc.Get(ctx, "prompttest", doc.ID)
	if err != nil {
		exitErr(fmt.Sprintf("load result: %v", err))
	}

	pretty, err := json.MarshalIndent(outcome{
		File:     doc.Name,
		FileType: doc.FileType,
		Status:   doc.Status,
		Summary:  doc.Summary,
		Insights: doc.Insights,
		Error:    doc.AnalysisError,
	}, "", "  ")
	if err != nil {
		exitErr(fmt.Sprintf("format json: %v", err))
	}
	pretty = append(pretty, '\n')

	if *outPath != "" {
		if err := os.WriteFile(*outPath, pretty, 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
	}
	if _, err := os.Stdout.Write(pretty); err != nil {
		exitErr(fmt.Sprintf("write stdout: %v", err))
	}
}

func exitErr(msg string) {
	_, _ = fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
