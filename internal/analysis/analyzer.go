// Package analysis orchestrates resume analysis: heuristic scoring, prompt
// construction, narrative generation, and per-session memoization.
package analysis

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/pratham/resumeats/internal/llm"
	"github.com/pratham/resumeats/internal/prompts"
	"github.com/pratham/resumeats/internal/scoring"
)

// Depth selects how thorough the generated critique is.
type Depth string

// Analysis depths, in increasing order of model capability used.
const (
	DepthQuickScan    Depth = "quick_scan"
	DepthDetailed     Depth = "detailed"
	DepthOptimization Depth = "optimization"
)

// ParseDepth validates a depth string from a request.
func ParseDepth(s string) (Depth, error) {
	switch Depth(s) {
	case DepthQuickScan, DepthDetailed, DepthOptimization:
		return Depth(s), nil
	case "":
		return DepthQuickScan, nil
	default:
		return "", fmt.Errorf("unknown analysis type: %q", s)
	}
}

// tier maps an analysis depth to a model tier.
func (d Depth) tier() llm.ModelTier {
	switch d {
	case DepthDetailed:
		return llm.TierStandard
	case DepthOptimization:
		return llm.TierAdvanced
	default:
		return llm.TierLite
	}
}

// promptKey returns the prompt template key for a depth, with or without a
// job-description section.
func (d Depth) promptKey(withJob bool) string {
	key := string(d)
	if withJob {
		key += "_with_job"
	}
	return key
}

// Result carries everything a caller needs to display one analysis. The
// breakdown is always valid; Narrative is empty when generation failed, with
// the failure reported in NarrativeError.
type Result struct {
	Breakdown  scoring.Breakdown  `json:"breakdown"`
	Components scoring.Components `json:"components"`
	Narrative  string             `json:"narrative,omitempty"`
	// NarrativeError reports a failed generation; the scores remain usable.
	NarrativeError string `json:"narrative_error,omitempty"`
	Cached         bool   `json:"cached"`
}

// Analyzer runs analyses against a text-generation client. Concurrent
// requests for the same content share a single generation via singleflight.
type Analyzer struct {
	client llm.Client
	group  singleflight.Group
}

// New creates an Analyzer backed by the given client.
func New(client llm.Client) *Analyzer {
	return &Analyzer{client: client}
}

// Analyze scores the resume and produces the enhanced narrative. resumeText
// must be non-empty: extraction failures are the caller's to surface before
// scoring. cache holds the session's memoized narratives and may not be nil.
func (a *Analyzer) Analyze(ctx context.Context, cache *Cache, resumeText, jobDescription string, depth Depth) (*Result, error) {
	if resumeText == "" {
		return nil, fmt.Errorf("resume text is empty")
	}

	breakdown := scoring.Score(resumeText, jobDescription)
	withJob := jobDescription != ""

	result := &Result{
		Breakdown:  breakdown,
		Components: scoring.NormalizedComponents(breakdown, withJob),
	}

	prompt, err := a.buildPrompt(resumeText, jobDescription, depth)
	if err != nil {
		return nil, err
	}

	// Keyed by the rendered prompt, so each depth and job description gets
	// its own narrative rather than sharing one entry per resume.
	if narrative, ok := cache.Get(resumeText, prompt); ok {
		result.Narrative = narrative
		result.Cached = true
		return result, nil
	}

	narrative, err := a.generate(ctx, Key(resumeText, prompt), prompt, depth.tier(), breakdown.TotalScore)
	if err != nil {
		// Recoverable: the score breakdown is still valid and displayable
		result.NarrativeError = err.Error()
		return result, nil
	}

	cache.Put(resumeText, prompt, narrative)
	result.Narrative = narrative
	return result, nil
}

// Chat answers a follow-up question about a previously generated analysis.
// Responses are memoized in the session cache keyed by resume and question.
func (a *Analyzer) Chat(ctx context.Context, cache *Cache, resumeText, previousAnalysis, question string) (string, error) {
	if resumeText == "" {
		return "", fmt.Errorf("resume text is empty")
	}
	if question == "" {
		return "", fmt.Errorf("question is empty")
	}

	template, err := prompts.Get("chat.json", "followup")
	if err != nil {
		return "", err
	}
	prompt := prompts.Format(template, map[string]string{
		"Question":         question,
		"ResumeText":       resumeText,
		"PreviousAnalysis": previousAnalysis,
	})

	if answer, ok := cache.Get(resumeText, prompt); ok {
		return answer, nil
	}

	answer, err := a.client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return "", fmt.Errorf("failed to generate chat response: %w", err)
	}

	cache.Put(resumeText, prompt, answer)
	return answer, nil
}

// buildPrompt renders the analysis prompt template for the requested depth.
func (a *Analyzer) buildPrompt(resumeText, jobDescription string, depth Depth) (string, error) {
	withJob := jobDescription != ""
	template, err := prompts.Get("analysis.json", depth.promptKey(withJob))
	if err != nil {
		return "", err
	}
	return prompts.Format(template, map[string]string{
		"ResumeText":     resumeText,
		"JobDescription": jobDescription,
	}), nil
}

// generate calls the LLM once per content key even under concurrent requests,
// and prepends the score summary to the critique.
func (a *Analyzer) generate(ctx context.Context, key, prompt string, tier llm.ModelTier, totalScore float64) (string, error) {
	v, err, _ := a.group.Do(key, func() (any, error) {
		text, err := a.client.GenerateContent(ctx, prompt, tier)
		if err != nil {
			return nil, err
		}
		return fmt.Sprintf("Score Summary:\nATS Compatibility Score: %.1f/100\n\nDetailed Analysis:\n%s", totalScore, text), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate narrative: %w", err)
	}
	return v.(string), nil
}
