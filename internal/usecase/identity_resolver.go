package usecase

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/Dubey-IITB/resume-tracker/internal/logger"
	"github.com/Dubey-IITB/resume-tracker/internal/service"
	"github.com/Dubey-IITB/resume-tracker/internal/util"
	"go.uber.org/zap"
)

const syntheticDomain = "example.com"

type IdentitySource string

const (
	SourceOracle    IdentitySource = "oracle"
	SourceRegex     IdentitySource = "regex"
	SourceSupplied  IdentitySource = "supplied"
	SourceSynthetic IdentitySource = "synthetic"
)

type Identity struct {
	Email     string
	Synthetic bool
	Source    IdentitySource
	// OracleAnswer is what the oracle returned, whether or not it was used.
	OracleAnswer string
}

type emailExtractor interface {
	ExtractEmail(ctx context.Context, text string) string
}

// IdentityResolver picks the candidate email for a resume. The first of
// oracle, regex scan, caller-supplied address and filename-derived synthetic
// address that yields something wins.
type IdentityResolver struct {
	oracle emailExtractor
	log    *zap.Logger
}

func NewIdentityResolver(oracle emailExtractor, log *zap.Logger) *IdentityResolver {
	return &IdentityResolver{oracle: oracle, log: logger.OrNop(log)}
}

// Resolve asks the oracle at most once. The returned Identity carries the
// oracle's answer even when resolution fails.
func (r *IdentityResolver) Resolve(ctx context.Context, text, fileName, supplied string) (Identity, error) {
	answer := r.askOracle(ctx, text)
	id := Identity{OracleAnswer: answer}
	switch {
	case canonicalEmail(answer) != "":
		id.Email, id.Source = canonicalEmail(answer), SourceOracle
	case canonicalEmail(util.FindEmail(text)) != "":
		id.Email, id.Source = canonicalEmail(util.FindEmail(text)), SourceRegex
	case canonicalEmail(supplied) != "":
		id.Email, id.Source = canonicalEmail(supplied), SourceSupplied
	case FileStem(fileName) != "":
		id.Email = strings.ToLower(FileStem(fileName)) + "@" + syntheticDomain
		id.Synthetic, id.Source = true, SourceSynthetic
		r.log.Info("using synthetic email", zap.String("file", fileName), zap.String("email", id.Email))
	default:
		resErr := &IdentityResolutionError{FileName: fileName}
		if strings.TrimSpace(text) == "" {
			resErr.Err = ErrExtractionFailure
		}
		return id, resErr
	}
	return id, nil
}

func (r *IdentityResolver) askOracle(ctx context.Context, text string) (email string) {
	if r.oracle == nil || strings.TrimSpace(text) == "" {
		return ""
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Warn("oracle email extraction panicked", zap.Any("panic", rec))
			email = ""
		}
	}()
	return r.oracle.ExtractEmail(ctx, text)
}

func canonicalEmail(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if !service.IsEmailShaped(s) || strings.ContainsAny(s, " \t\n") {
		return ""
	}
	return s
}

// FileStem is the base name without extension, with whitespace runs joined
// by underscores so it can serve as an email local part.
func FileStem(fileName string) string {
	base := filepath.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if base == "." || base == "/" {
		return ""
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return strings.Join(strings.Fields(stem), "_")
}
