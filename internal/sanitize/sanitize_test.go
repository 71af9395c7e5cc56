package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"  met at the conference  ", "met at the conference"},
		{"<b>VIP</b> client", "VIP client"},
		{`<script>alert("x")</script>call back`, "call back"},
		{"R&D lead", "R&D lead"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Text(tt.in), "input %q", tt.in)
	}
}

func TestTextPtr(t *testing.T) {
	assert.Nil(t, TextPtr(nil))

	in := "<i>hi</i>"
	out := TextPtr(&in)
	if assert.NotNil(t, out) {
		assert.Equal(t, "hi", *out)
	}
}
