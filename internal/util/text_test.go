package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "blank lines only", in: "  \n\t\n", want: ""},
		{name: "camel case", in: "JohnDoe", want: "John Doe"},
		{name: "acronym kept", in: "ABCDeveloper", want: "ABC Developer"},
		{name: "glyphs and colon", in: "Skills:Go|Python•Rust", want: "Skills: Go | Python • Rust"},
		{name: "digits", in: "5years with Go1", want: "5 years with Go 1"},
		{name: "dashes", in: "Full-stack", want: "Full - stack"},
		{name: "punctuation", in: "Hello.World,again;yes", want: "Hello. World, again; yes"},
		{name: "space before period", in: "Done   .", want: "Done."},
		{name: "email untouched", in: "Contact:john.doeSmith@mail.com", want: "Contact: john.doeSmith@mail.com"},
		{name: "url untouched", in: "Portfolio https://github.com/johnDoe-2", want: "Portfolio https://github.com/johnDoe-2"},
		{name: "phone untouched", in: "Phone:+91-98765-43210", want: "Phone: +91-98765-43210"},
		{name: "drops empty lines", in: "a\n\n   \r\nb", want: "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.in))
		})
	}
}

func TestNormalizeTextIdempotent(t *testing.T) {
	inputs := []string{
		"SeniorEngineer|ACMECorp\nEmail:jane@corp.io  Phone:+1 415 555 0100",
		"Built REST APIs.Led5 engineers-remote",
	}
	for _, in := range inputs {
		once := NormalizeText(in)
		assert.Equal(t, once, NormalizeText(once))
	}
}

func TestNormalizeTextStripsPrivateUseRunes(t *testing.T) {
	assert.Equal(t, "ab", NormalizeText("ab"))
}

func TestFindEmail(t *testing.T) {
	assert.Equal(t, "jane.doe@corp.io", FindEmail("reach me at jane.doe@corp.io or later"))
	assert.Equal(t, "", FindEmail("no address here @ all"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héllo", Truncate("héllo wörld", 5))
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "", Truncate("x", 0))
}
