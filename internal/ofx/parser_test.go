package ofx

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreprocessOFXFixesSeverityCase(t *testing.T) {
	p := NewParser()

	got := p.preprocessOFX("<SEVERITY>Info</SEVERITY>")

	assert.Equal(t, "<SEVERITY>INFO</SEVERITY>", got)
}

func TestPreprocessOFXClosesDanglingTags(t *testing.T) {
	p := NewParser()

	input := "<STMTTRN\n<TRNTYPE>CREDIT</TRNTYPE>\n"
	got := p.preprocessOFX(input)

	assert.Contains(t, got, "<STMTTRN>")
}

func TestPreprocessOFXTrimsLeadingBlankLines(t *testing.T) {
	p := NewParser()

	got := p.preprocessOFX("\r\n\r\nOFXHEADER:100\r\n")

	assert.True(t, strings.HasPrefix(got, "OFXHEADER:100"))
}
