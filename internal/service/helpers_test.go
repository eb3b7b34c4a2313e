package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAPIError(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "string error field",
			body: `{"error": "rate limited"}`,
			want: "rate limited",
		},
		{
			name: "graph style error object",
			body: `{"error": {"message": "Invalid OAuth access token", "code": 190}}`,
			want: "Invalid OAuth access token",
		},
		{
			name: "message field",
			body: `{"message": "location not verified"}`,
			want: "location not verified",
		},
		{
			name: "plain text body",
			body: "Bad Gateway",
			want: "Bad Gateway",
		},
		{
			name: "empty body",
			body: "",
			want: "empty response body",
		},
		{
			name: "json without known fields",
			body: `{"status": 500}`,
			want: `{"status": 500}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractAPIError([]byte(tt.body)))
		})
	}
}
