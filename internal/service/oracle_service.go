package service

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Dubey-IITB/resume-tracker/internal/config"
	"github.com/Dubey-IITB/resume-tracker/internal/logger"
	"github.com/Dubey-IITB/resume-tracker/internal/model"
	"github.com/Dubey-IITB/resume-tracker/internal/util"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultScore is returned for any comparison the oracle could not answer.
const DefaultScore = 0.5

const (
	extractionTextLimit = 4000
	groupResumeLimit    = 1000
	analysisTextLimit   = 2000
	defaultMaxLogLength = 200
	noEmailSentinel     = "no email found"
)

var (
	//go:embed prompts/extract_email.md
	extractEmailPrompt string
	//go:embed prompts/extract_details.md
	extractDetailsPrompt string
	//go:embed prompts/score_job.md
	scoreJobPrompt string
	//go:embed prompts/score_group.md
	scoreGroupPrompt string
	//go:embed prompts/analyze_resumes.md
	analyzeResumesPrompt string
)

// OracleServiceInterface never returns errors: every failure resolves to a
// documented default.
type OracleServiceInterface interface {
	ExtractEmail(ctx context.Context, text string) string
	ExtractDetails(ctx context.Context, text string) map[string]any
	ScoreAgainstJob(ctx context.Context, candidate model.Candidate, job model.Job) float64
	ScoreGroup(ctx context.Context, candidates []model.Candidate, job model.Job) map[string]float64
	AnalyzeResumes(ctx context.Context, jobDescription string, resumes []string) map[string]any
}

type OracleService struct {
	transport Completer
	timeout   time.Duration
	limiter   *rate.Limiter
	log       *zap.Logger
	maxLogLen int
}

func NewOracleService(transport Completer, cfg *config.OracleConfig, log *zap.Logger) *OracleService {
	s := &OracleService{
		transport: transport,
		timeout:   30 * time.Second,
		log:       logger.OrNop(log),
		maxLogLen: defaultMaxLogLength,
	}
	if cfg != nil {
		if cfg.Timeout > 0 {
			s.timeout = cfg.Timeout
		}
		if cfg.RPS > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(cfg.RPS), max(1, cfg.Concurrency))
		}
	}
	return s
}

func (s *OracleService) ExtractEmail(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	prompt := fill(extractEmailPrompt, "RESUME_TEXT", util.Truncate(text, extractionTextLimit))
	raw, err := s.call(ctx, "extract_email", prompt)
	if err != nil {
		return ""
	}

	content := strings.TrimSpace(raw)
	if strings.EqualFold(strings.Trim(content, `."`), noEmailSentinel) {
		return ""
	}
	if res := ParseOracleResponse(content); res.Kind == ParsedObject {
		content = coerceString(res.Object["email"])
	}
	if email := util.FindEmail(content); IsEmailShaped(email) {
		return email
	}
	return ""
}

func (s *OracleService) ExtractDetails(ctx context.Context, text string) map[string]any {
	if strings.TrimSpace(text) == "" {
		return map[string]any{}
	}
	prompt := fill(extractDetailsPrompt, "RESUME_TEXT", util.Truncate(text, extractionTextLimit))
	raw, err := s.call(ctx, "extract_details", prompt)
	if err != nil {
		return map[string]any{}
	}
	res := ParseOracleResponse(raw)
	if res.Kind != ParsedObject {
		s.log.Warn("oracle details not an object", zap.Stringer("kind", res.Kind))
		return map[string]any{}
	}
	return res.Object
}

func (s *OracleService) ScoreAgainstJob(ctx context.Context, candidate model.Candidate, job model.Job) float64 {
	prompt := fill(scoreJobPrompt,
		"JOB_TITLE", job.Title,
		"MIN_BUDGET", formatAmount(job.MinBudget),
		"MAX_BUDGET", formatAmount(job.MaxBudget),
		"JOB_DESCRIPTION", job.Requirements(),
		"CANDIDATE_NAME", candidate.Name,
		"CURRENT_CTC", formatAmount(candidate.CurrentCTC),
		"EXPECTED_CTC", formatAmount(candidate.ExpectedCTC),
		"ADDITIONAL_INFO", additionalInfo(candidate),
		"RESUME_TEXT", candidate.ResumeText,
	)
	raw, err := s.call(ctx, "score_job", prompt)
	if err != nil {
		return DefaultScore
	}

	res := ParseOracleResponse(raw)
	switch res.Kind {
	case ParsedScore:
		return clampScore(res.Score)
	case ParsedObject:
		return clampScore(coerceFloat(res.Object["score"]))
	}
	s.log.Warn("oracle score unparseable",
		zap.String("candidate", candidate.Email),
		zap.String("response_preview", logger.TruncateForLog(raw, s.maxLogLen)))
	return DefaultScore
}

type groupEntry struct {
	Slot           string  `json:"slot"`
	Name           string  `json:"name"`
	Resume         string  `json:"resume"`
	CurrentCTC     float64 `json:"current_ctc"`
	ExpectedCTC    float64 `json:"expected_ctc"`
	AdditionalInfo any     `json:"additional_info,omitempty"`
}

// ScoreGroup sends the pool under slot keys "1".."n" and maps the answer back
// through the same table. Emails never reach the prompt as keys.
func (s *OracleService) ScoreGroup(ctx context.Context, candidates []model.Candidate, job model.Job) map[string]float64 {
	scores := make(map[string]float64, len(candidates))
	if len(candidates) <= 1 {
		for _, c := range candidates {
			scores[c.Email] = DefaultScore
		}
		return scores
	}

	slots := make([]string, len(candidates))
	entries := make([]groupEntry, len(candidates))
	for i, c := range candidates {
		slot := strconv.Itoa(i + 1)
		slots[i] = slot
		resume := c.ResumeText
		if utf8.RuneCountInString(resume) > groupResumeLimit {
			resume = util.Truncate(resume, groupResumeLimit) + "..."
		}
		entries[i] = groupEntry{
			Slot:        slot,
			Name:        c.Name,
			Resume:      resume,
			CurrentCTC:  c.CurrentCTC,
			ExpectedCTC: c.ExpectedCTC,
		}
		if len(c.AdditionalInfo) > 0 {
			entries[i].AdditionalInfo = json.RawMessage(c.AdditionalInfo)
		}
		scores[c.Email] = DefaultScore
	}

	payload, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		s.log.Warn("marshal group payload", zap.Error(err))
		return scores
	}
	prompt := fill(scoreGroupPrompt,
		"JOB_TITLE", job.Title,
		"MIN_BUDGET", formatAmount(job.MinBudget),
		"MAX_BUDGET", formatAmount(job.MaxBudget),
		"JOB_DESCRIPTION", job.Requirements(),
		"CANDIDATES_JSON", string(payload),
	)
	raw, err := s.call(ctx, "score_group", prompt)
	if err != nil {
		return scores
	}

	res := ParseOracleResponse(raw)
	if res.Kind != ParsedObject {
		s.log.Warn("oracle group scores not an object", zap.Stringer("kind", res.Kind))
		return scores
	}
	for i, c := range candidates {
		v, ok := res.Object[slots[i]]
		if !ok {
			continue
		}
		if f := coerceFloat(v); !math.IsNaN(f) {
			scores[c.Email] = clampScore(f)
		}
	}
	return scores
}

// AnalyzeResumes asks for a written comparison of the resumes. Rankings in
// the answer refer to resumes by their 1-based position in resumes. Any
// failure yields an empty object.
func (s *OracleService) AnalyzeResumes(ctx context.Context, jobDescription string, resumes []string) map[string]any {
	if strings.TrimSpace(jobDescription) == "" || len(resumes) == 0 {
		return map[string]any{}
	}

	var b strings.Builder
	for i, r := range resumes {
		if utf8.RuneCountInString(r) > analysisTextLimit {
			r = util.Truncate(r, analysisTextLimit) + "..."
		}
		fmt.Fprintf(&b, "RESUME %d:\n%s\n\n", i+1, r)
	}
	prompt := fill(analyzeResumesPrompt,
		"RESUME_COUNT", strconv.Itoa(len(resumes)),
		"JOB_DESCRIPTION", util.Truncate(jobDescription, analysisTextLimit),
		"RESUMES", b.String(),
	)
	raw, err := s.call(ctx, "analyze_resumes", prompt)
	if err != nil {
		return map[string]any{}
	}
	res := ParseOracleResponse(raw)
	if res.Kind != ParsedObject {
		s.log.Warn("oracle analysis not an object",
			zap.Stringer("kind", res.Kind),
			zap.String("response_preview", logger.TruncateForLog(raw, s.maxLogLen)))
		return map[string]any{}
	}
	return res.Object
}

// call bounds one transport round-trip by the oracle timeout, waits on the
// limiter when pacing is configured and turns panics into errors.
func (s *OracleService) call(ctx context.Context, op, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			s.log.Warn("oracle rate limit wait", zap.String("op", op), zap.Error(err))
			return "", err
		}
	}

	s.log.Debug("oracle request",
		zap.String("op", op),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, s.maxLogLen)))

	type reply struct {
		text string
		err  error
	}
	done := make(chan reply, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- reply{err: fmt.Errorf("oracle transport panic: %v", r)}
			}
		}()
		text, err := s.transport.Complete(ctx, prompt)
		done <- reply{text: text, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			s.log.Warn("oracle call failed", zap.String("op", op), zap.Error(r.err))
			return "", r.err
		}
		s.log.Debug("oracle response",
			zap.String("op", op),
			zap.Int("response_length", utf8.RuneCountInString(r.text)),
			zap.String("response_preview", logger.TruncateForLog(r.text, s.maxLogLen)))
		return r.text, nil
	case <-ctx.Done():
		s.log.Warn("oracle call timed out", zap.String("op", op), zap.Duration("timeout", s.timeout), zap.Error(ctx.Err()))
		return "", ctx.Err()
	}
}

// IsEmailShaped reports whether s has an "@" followed later by a ".".
func IsEmailShaped(s string) bool {
	at := strings.IndexByte(s, '@')
	return at > 0 && strings.Contains(s[at+1:], ".")
}

func fill(template string, kv ...string) string {
	pairs := make([]string, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		pairs = append(pairs, "{{"+kv[i]+"}}", kv[i+1])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func additionalInfo(c model.Candidate) string {
	if len(c.AdditionalInfo) == 0 {
		return "{}"
	}
	return string(c.AdditionalInfo)
}
