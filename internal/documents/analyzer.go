package documents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"finance-backend/internal/extract"
	"finance-backend/internal/llm"
	"finance-backend/internal/shared/metrics"
	"finance-backend/internal/shared/storage/object"
	"finance-backend/internal/shared/telemetry"
)

const (
	maxPromptChars     = 10000
	truncationMarker   = "...[truncated]"
	degradedSummary    = "Document analysis is not available at this time."
	fallbackSummaryLen = 2
	fallbackInsightMax = 5
)

const analysisSystemPrompt = "You are a financial analyst. Analyze financial documents and reply with JSON only."

// Analyzer extracts text from a pending document, summarizes it and records the outcome.
type Analyzer struct {
	Repo  DocumentsRepo
	Store object.ObjectStore
	LLM   llm.Client
	Now   func() time.Time
}

// NewAnalyzer constructs an analyzer. A nil client behaves as an unconfigured provider.
func NewAnalyzer(repo DocumentsRepo, store object.ObjectStore, client llm.Client) *Analyzer {
	if client == nil {
		client = llm.Unconfigured{}
	}
	return &Analyzer{Repo: repo, Store: store, LLM: client, Now: time.Now}
}

type analysisReply struct {
	Summary  string   `json:"summary"`
	Insights []string `json:"insights"`
}

// Process runs one analysis. Extraction failures are recorded on the document, not returned.
// Documents that are no longer pending are skipped.
func (a *Analyzer) Process(ctx context.Context, documentID string) error {
	doc, err := a.Repo.Get(ctx, documentID)
	if err != nil {
		return err
	}
	if doc.Status != StatusPending {
		telemetry.Info("document.analysis.skipped", map[string]any{
			"request_id":  RequestIDFromContext(ctx),
			"document_id": documentID,
			"status":      doc.Status,
		})
		return nil
	}

	start := time.Now()
	metrics.IncAnalysisStarted()
	a.logStatus(ctx, doc.ID, "pending->processing", nil)

	text, err := extract.ExtractText(ctx, a.Store, doc.StorageKey, doc.FileType)
	if err != nil {
		return a.fail(ctx, doc.ID, start, "text extraction failed", err)
	}

	summary, insights, err := a.summarize(ctx, doc, text)
	if err != nil {
		if !errors.Is(err, llm.ErrUnavailable) {
			return a.fail(ctx, doc.ID, start, "analysis failed", err)
		}
		metrics.IncProviderDegraded("llm")
		telemetry.Warn("document.analysis.degraded", map[string]any{
			"request_id":  RequestIDFromContext(ctx),
			"document_id": doc.ID,
			"error":       err.Error(),
		})
		summary, insights = degradedSummary, []string{}
	}

	if err := a.Repo.CompleteAnalysis(ctx, doc.ID, summary, insights, a.now()); err != nil {
		if errors.Is(err, ErrNotFound) {
			// deleted or finished elsewhere while we were working
			return nil
		}
		return fmt.Errorf("complete analysis: %w", err)
	}
	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(float64(time.Since(start).Milliseconds()))
	a.logStatus(ctx, doc.ID, "processing->completed", map[string]any{"insights": len(insights)})
	return nil
}

func (a *Analyzer) summarize(ctx context.Context, doc Document, text string) (string, []string, error) {
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars] + truncationMarker
	}
	prompt := fmt.Sprintf(`Analyze this financial document named %q and return a JSON object with:
- "summary": a concise summary of the document (2-3 sentences)
- "insights": an array of 3 to 5 key financial insights or recommendations

Document content:
%s`, doc.Name, text)

	reply, err := a.LLM.Chat(ctx, llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: analysisSystemPrompt},
			{Role: llm.RoleUser, Content: prompt},
		},
		JSON:        true,
		Temperature: llm.Float32(0.3),
	})
	if err != nil {
		return "", nil, err
	}
	summary, insights := ParseAnalysisReply(reply)
	if summary == "" {
		return "", nil, fmt.Errorf("%w: empty analysis reply", llm.ErrUnavailable)
	}
	return summary, insights, nil
}

// ParseAnalysisReply reads {summary, insights} from a model reply. Non-JSON replies use the first
// two lines as the summary and the next lines as insights.
func ParseAnalysisReply(reply string) (string, []string) {
	var parsed analysisReply
	if err := json.Unmarshal([]byte(llm.ExtractJSON(reply)), &parsed); err == nil && strings.TrimSpace(parsed.Summary) != "" {
		insights := make([]string, 0, len(parsed.Insights))
		for _, in := range parsed.Insights {
			if in = strings.TrimSpace(in); in != "" {
				insights = append(insights, in)
			}
		}
		return strings.TrimSpace(parsed.Summary), insights
	}

	var lines []string
	for _, line := range strings.Split(reply, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return "", nil
	}
	n := min(fallbackSummaryLen, len(lines))
	summary := strings.Join(lines[:n], " ")
	rest := lines[n:]
	if len(rest) > fallbackInsightMax {
		rest = rest[:fallbackInsightMax]
	}
	insights := make([]string, 0, len(rest))
	for _, line := range rest {
		insights = append(insights, strings.TrimLeft(line, "-*• "))
	}
	return summary, insights
}

func (a *Analyzer) fail(ctx context.Context, documentID string, start time.Time, reason string, cause error) error {
	metrics.IncAnalysisFailed()
	metrics.ObserveAnalysisDurationMs(float64(time.Since(start).Milliseconds()))
	if err := a.Repo.FailAnalysis(ctx, documentID, reason, a.now()); err != nil && !errors.Is(err, ErrNotFound) {
		telemetry.Error("document.analysis.persist_failed", map[string]any{
			"request_id":  RequestIDFromContext(ctx),
			"document_id": documentID,
			"error":       err.Error(),
		})
	}
	a.logStatus(ctx, documentID, "processing->failed", map[string]any{"error": cause.Error()})
	return nil
}

func (a *Analyzer) logStatus(ctx context.Context, documentID, transition string, extra map[string]any) {
	fields := map[string]any{
		"request_id":        RequestIDFromContext(ctx),
		"document_id":       documentID,
		"status_transition": transition,
	}
	for k, v := range extra {
		fields[k] = v
	}
	telemetry.Info("document.analysis.status", fields)
}

func (a *Analyzer) now() time.Time {
	if a.Now != nil {
		return a.Now().UTC()
	}
	return time.Now().UTC()
}
