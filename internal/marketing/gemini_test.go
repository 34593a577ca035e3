package marketing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*GeminiClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	client := NewGeminiClient("test-key", "gemini-1.5-flash")
	client.baseURL = srv.URL
	return client, srv
}

func TestGeminiGenerate(t *testing.T) {
	var gotPath string
	var gotBody geminiRequest

	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]string{{"text": "✨ Capinha nova chegou!"}},
				}},
			},
		})
	})
	defer srv.Close()

	out, err := client.Generate(context.Background(), "escreva um post")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "✨ Capinha nova chegou!" {
		t.Errorf("texto errado: %q", out)
	}
	if gotPath != "/models/gemini-1.5-flash:generateContent" {
		t.Errorf("path errado: %q", gotPath)
	}
	if len(gotBody.Contents) != 1 || gotBody.Contents[0].Parts[0].Text != "escreva um post" {
		t.Errorf("prompt não chegou no corpo: %+v", gotBody)
	}
}

func TestGeminiGenerateServiceError(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"code": 429, "message": "quota excedida"},
		})
	})
	defer srv.Close()

	_, err := client.Generate(context.Background(), "qualquer coisa")
	if err == nil {
		t.Fatal("esperava erro do serviço")
	}
	if !strings.Contains(err.Error(), "quota excedida") {
		t.Errorf("erro deveria carregar a mensagem do serviço: %v", err)
	}
}

func TestGeminiGenerateEmptyCandidates(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates": []}`))
	})
	defer srv.Close()

	if _, err := client.Generate(context.Background(), "x"); err == nil {
		t.Fatal("esperava erro para resposta sem candidatos")
	}
}

func TestGeminiGenerateWithoutKey(t *testing.T) {
	client := NewGeminiClient("", "gemini-1.5-flash")
	if _, err := client.Generate(context.Background(), "x"); err == nil {
		t.Fatal("esperava erro sem chave configurada")
	}
}
