package serverutils

import (
	"strings"
	"testing"

	"smartdraft-be/pkg/errs"
)

type sampleRequest struct {
	Prompt     string `json:"prompt" validate:"required"`
	ChunkCount int    `json:"chunk_count" validate:"omitempty,min=1,max=10"`
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     sampleRequest
		wantErr bool
	}{
		{"valid", sampleRequest{Prompt: "p", ChunkCount: 3}, false},
		{"zero chunk count allowed", sampleRequest{Prompt: "p"}, false},
		{"missing prompt", sampleRequest{ChunkCount: 3}, true},
		{"chunk count too high", sampleRequest{Prompt: "p", ChunkCount: 11}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.req)
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if err != nil && errs.KindOf(err) != errs.KindMalformedRequest {
				t.Errorf("kind = %v, want MalformedRequest", errs.KindOf(err))
			}
		})
	}
}

func TestValidateRequestReportsAllViolations(t *testing.T) {
	err := ValidateRequest(sampleRequest{ChunkCount: 99})
	if err == nil {
		t.Fatal("expected error")
	}
	msg := errs.Message(err)
	if !strings.Contains(msg, "Prompt") || !strings.Contains(msg, "ChunkCount") {
		t.Errorf("message should name every failed field: %q", msg)
	}
}
