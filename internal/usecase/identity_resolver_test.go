package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixedEmailOracle struct {
	email string
	panic bool
	calls int
}

func (o *fixedEmailOracle) ExtractEmail(context.Context, string) string {
	o.calls++
	if o.panic {
		panic("oracle down")
	}
	return o.email
}

func TestResolvePriority(t *testing.T) {
	text := "Jane Doe\nContact: jane.regex@corp.io"
	tests := []struct {
		name     string
		oracle   *fixedEmailOracle
		text     string
		supplied string
		want     Identity
	}{
		{name: "oracle wins", oracle: &fixedEmailOracle{email: " Jane@Corp.IO "}, text: text,
			want: Identity{Email: "jane@corp.io", Source: SourceOracle, OracleAnswer: " Jane@Corp.IO "}},
		{name: "oracle miss falls to regex", oracle: &fixedEmailOracle{}, text: text,
			want: Identity{Email: "jane.regex@corp.io", Source: SourceRegex}},
		{name: "malformed oracle answer ignored", oracle: &fixedEmailOracle{email: "jane@localhost"}, text: text,
			want: Identity{Email: "jane.regex@corp.io", Source: SourceRegex, OracleAnswer: "jane@localhost"}},
		{name: "oracle panic falls to regex", oracle: &fixedEmailOracle{panic: true}, text: text,
			want: Identity{Email: "jane.regex@corp.io", Source: SourceRegex}},
		{name: "supplied before synthetic", oracle: &fixedEmailOracle{}, text: "no address", supplied: "HR@Corp.io",
			want: Identity{Email: "hr@corp.io", Source: SourceSupplied}},
		{name: "synthetic last", oracle: &fixedEmailOracle{}, text: "no address",
			want: Identity{Email: "candidate_42@example.com", Synthetic: true, Source: SourceSynthetic}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewIdentityResolver(tt.oracle, zap.NewNop())
			got, err := r.Resolve(context.Background(), tt.text, "candidate_42.pdf", tt.supplied)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1, tt.oracle.calls)
		})
	}
}

func TestResolveSyntheticFromFilename(t *testing.T) {
	r := NewIdentityResolver(&fixedEmailOracle{}, zap.NewNop())
	got, err := r.Resolve(context.Background(), "", "uploads/Candidate_42.PDF", "")
	require.NoError(t, err)
	assert.Equal(t, "candidate_42@example.com", got.Email)
	assert.True(t, got.Synthetic)
}

func TestResolveSkipsOracleForEmptyText(t *testing.T) {
	oracle := &fixedEmailOracle{email: "x@y.io"}
	_, err := NewIdentityResolver(oracle, zap.NewNop()).Resolve(context.Background(), "  ", "a.pdf", "")
	require.NoError(t, err)
	assert.Zero(t, oracle.calls)
}

func TestResolveFailsWithoutAnySource(t *testing.T) {
	r := NewIdentityResolver(&fixedEmailOracle{}, zap.NewNop())
	_, err := r.Resolve(context.Background(), "", ".pdf", "")

	var resErr *IdentityResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.ErrorIs(t, err, ErrIdentityResolution)
	assert.ErrorIs(t, err, ErrExtractionFailure)

	_, err = r.Resolve(context.Background(), "some text", "", "")
	require.ErrorIs(t, err, ErrIdentityResolution)
	assert.NotErrorIs(t, err, ErrExtractionFailure)
}

func TestFileStem(t *testing.T) {
	assert.Equal(t, "candidate_42", FileStem("candidate_42.pdf"))
	assert.Equal(t, "My_Resume", FileStem("C:\\docs\\My  Resume.pdf"))
	assert.Equal(t, "", FileStem(""))
	assert.Equal(t, "", FileStem(".pdf"))
}
