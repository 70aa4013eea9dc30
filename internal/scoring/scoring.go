// Package scoring implements the heuristic ATS compatibility score for resume text.
// Scoring is pure string matching and arithmetic: identical inputs always produce
// identical breakdowns, with no I/O and no randomness.
package scoring

import (
	"regexp"
	"strings"
)

// sectionNames are the structural sections an ATS expects to find.
// Each case-insensitive hit is worth 10 points of format score.
var sectionNames = []string{"experience", "education", "skills"}

// actionVerbs is the fixed keyword vocabulary. Keyword score is the
// percentage of these found in the resume, each counted at most once.
var actionVerbs = []string{"achieved", "implemented", "developed", "managed", "created", "increased"}

var (
	nonASCIIRe    = regexp.MustCompile(`[^\x00-\x7F]`)
	brokenSpaceRe = regexp.MustCompile(`[^\S\n]{2,}`)
	wordRe        = regexp.MustCompile(`\b\w+\b`)
)

// longResumeWords is the whitespace-separated word-count threshold separating
// the long-resume content bonus (30) from the short-resume one (15) when no
// job description is supplied.
const longResumeWords = 200

// Breakdown holds the component scores of a single resume evaluation.
// FormatScore is intentionally not clamped on its own; only TotalScore is
// normalized into [0,100], so over-counting in the components is absorbed
// at the end.
type Breakdown struct {
	FormatScore  float64 `json:"format_score"`
	KeywordScore float64 `json:"keyword_score"`
	ContentScore float64 `json:"content_score"`
	MatchScore   float64 `json:"match_score"`
	TotalScore   float64 `json:"total_score"`
}

// Score evaluates resume text against the structural, keyword, and
// job-description heuristics. jobDescription may be empty, in which case a
// resume-length heuristic substitutes for the job match.
func Score(resumeText, jobDescription string) Breakdown {
	var b Breakdown

	lower := strings.ToLower(resumeText)

	// Basic resume structure
	for _, section := range sectionNames {
		if strings.Contains(lower, section) {
			b.FormatScore += 10
		}
	}

	// Clean formatting: no non-ASCII artifacts, no runs of stray whitespace
	if !nonASCIIRe.MatchString(resumeText) {
		b.FormatScore += 5
	}
	if !brokenSpaceRe.MatchString(resumeText) {
		b.FormatScore += 5
	}

	// Content quality from action-verb coverage
	b.KeywordScore = keywordMatch(lower, actionVerbs)
	b.ContentScore = b.KeywordScore * 0.2

	if jobDescription != "" {
		jobTerms := tokenSet(jobDescription)
		resumeTerms := tokenSet(resumeText)
		if len(jobTerms) > 0 {
			common := 0
			for term := range jobTerms {
				if resumeTerms[term] {
					common++
				}
			}
			b.MatchScore = float64(common) / float64(len(jobTerms)) * 30
		}
		b.ContentScore += b.MatchScore
	} else {
		// Whitespace-separated words, so "well-known" counts once
		if len(strings.Fields(resumeText)) > longResumeWords {
			b.ContentScore += 30
		} else {
			b.ContentScore += 15
		}
	}

	b.TotalScore = Normalize(b.FormatScore + b.ContentScore)
	return b
}

// Normalize clamps a score into [0,100].
func Normalize(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// keywordMatch returns the percentage of keywords present as substrings of
// the (already lowercased) text. Repeats of the same keyword do not count.
func keywordMatch(lowerText string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	found := 0
	for _, kw := range keywords {
		if strings.Contains(lowerText, kw) {
			found++
		}
	}
	return float64(found) / float64(len(keywords)) * 100
}

// tokenSet extracts the set of lowercase word tokens from text.
func tokenSet(text string) map[string]bool {
	words := wordRe.FindAllString(strings.ToLower(text), -1)
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// Components is the normalized per-category view of a breakdown used for
// display, each value scaled into [0,100]. HasJobMatch distinguishes a
// legitimate zero job match from no job description supplied.
type Components struct {
	Structure      float64 `json:"structure"`
	ContentQuality float64 `json:"content_quality"`
	KeywordMatch   float64 `json:"keyword_match"`
	JobMatch       float64 `json:"job_match"`
	HasJobMatch    bool    `json:"has_job_match"`
}

// NormalizedComponents scales the raw breakdown into displayable 0-100
// categories. The job-match category is only populated when a job
// description contributed to the score.
func NormalizedComponents(b Breakdown, withJob bool) Components {
	c := Components{
		Structure:      Normalize(b.FormatScore * 2.5),
		ContentQuality: Normalize(b.ContentScore * 1.67),
		KeywordMatch:   b.KeywordScore,
	}
	if withJob {
		c.JobMatch = Normalize(b.MatchScore * 3.33)
		c.HasJobMatch = true
	}
	return c
}
