package response

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvelopes(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want string
	}{
		{
			name: "error",
			v:    Error("Short URL not found"),
			want: `{"error":"Short URL not found"}`,
		},
		{
			name: "shorten",
			v: ShortenResponse{
				ShortURL:  "https://sho.rt/abc123",
				Path:      "abc123",
				TargetURL: "https://example.com",
			},
			want: `{"shortUrl":"https://sho.rt/abc123","path":"abc123","targetUrl":"https://example.com"}`,
		},
		{
			name: "update",
			v:    UpdateResponse{Success: true, Path: "abc123", NewURL: "https://example.com"},
			want: `{"success":true,"path":"abc123","newUrl":"https://example.com"}`,
		},
		{
			name: "delete",
			v:    DeleteResponse{Success: true, DeletedPath: "abc123"},
			want: `{"success":true,"deletedPath":"abc123"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.v)

			assert.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}
