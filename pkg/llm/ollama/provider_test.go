package ollama

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"smartdraft-be/pkg/errs"
	"smartdraft-be/pkg/llm"
)

func TestCompleteSendsOptionsAndTrimsResponse(t *testing.T) {
	var got ollamaGenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(ollamaGenerateResponse{Response: "  generated text \n", Done: true})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "phi")
	out, err := p.Complete(context.Background(), "the prompt",
		llm.WithModel("mistral"),
		llm.WithTemperature(0.3),
		llm.WithMaxTokens(256),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out != "generated text" {
		t.Errorf("response = %q, want trimmed text", out)
	}
	if got.Model != "mistral" {
		t.Errorf("model = %q, option must override the default", got.Model)
	}
	if got.Stream {
		t.Error("stream must be disabled")
	}
	if got.Options == nil || got.Options.Temperature != 0.3 || got.Options.NumPredict != 256 {
		t.Errorf("options = %+v", got.Options)
	}
}

func TestCompleteClassifiesMemoryExhaustion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"model requires more system memory than is available"}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3.2")
	_, err := p.Complete(context.Background(), "prompt")

	if errs.KindOf(err) != errs.KindGenerationMemoryExhausted {
		t.Errorf("kind = %v, want GenerationMemoryExhausted", errs.KindOf(err))
	}
}

func TestCompleteClassifiesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream broke"))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "phi")
	_, err := p.Complete(context.Background(), "prompt")

	if errs.KindOf(err) != errs.KindGenerationUnavailable {
		t.Errorf("kind = %v, want GenerationUnavailable", errs.KindOf(err))
	}
}

func TestCompleteClassifiesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server's background read can observe the
		// client disconnect and cancel the request context; otherwise this
		// handler never unblocks and srv.Close deadlocks.
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	p := NewOllamaProvider(srv.URL, "phi")
	_, err := p.Complete(ctx, "prompt")

	if errs.KindOf(err) != errs.KindTimeout {
		t.Errorf("kind = %v, want Timeout", errs.KindOf(err))
	}
}

func TestCompleteUnreachableDaemon(t *testing.T) {
	p := NewOllamaProvider("http://127.0.0.1:1", "phi")
	_, err := p.Complete(context.Background(), "prompt")

	if errs.KindOf(err) != errs.KindGenerationUnavailable {
		t.Errorf("kind = %v, want GenerationUnavailable", errs.KindOf(err))
	}
}
