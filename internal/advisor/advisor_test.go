package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	prompts []string
	text    string
	err     error
}

func (s *stubGenerator) Generate(_ context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.text, s.err
}

func TestTipUsesDefaultPromptAndFallback(t *testing.T) {
	gen := &stubGenerator{text: "   "}
	tip, err := New(gen).Tip(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, FallbackTip, tip)
	require.Equal(t, []string{DefaultTipPrompt}, gen.prompts)

	gen.text = " Line dry your clothes. "
	tip, err = New(gen).Tip(context.Background(), "laundry")
	require.NoError(t, err)
	require.Equal(t, "Line dry your clothes.", tip)
	require.Equal(t, "laundry", gen.prompts[1])
}

func TestUnavailable(t *testing.T) {
	_, err := New(nil).Tip(context.Background(), "x")
	require.ErrorIs(t, err, ErrUnavailable)

	_, err = New(&stubGenerator{err: errors.New("quota")}).Advice(context.Background(), 3)
	require.ErrorIs(t, err, ErrUnavailable)
	require.ErrorContains(t, err, "quota")
}

func TestAdvicePromptCarriesFootprint(t *testing.T) {
	gen := &stubGenerator{text: "EcoSangam suggests you to..."}
	out, err := New(gen).Advice(context.Background(), 4.25)
	require.NoError(t, err)
	require.Equal(t, "EcoSangam suggests you to...", out)
	require.Contains(t, gen.prompts[0], "approximately **4.25 tons of CO₂ per year**")
}

func TestAdviceIsCachedInRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	gen := &stubGenerator{text: "plant trees"}
	adv := New(gen, WithCache(NewRedisCache(client, "ecosangam:"), time.Hour))

	hits := testutil.ToFloat64(cacheLookups.WithLabelValues("hit"))
	for i := 0; i < 3; i++ {
		out, err := adv.Advice(context.Background(), 2)
		require.NoError(t, err)
		require.Equal(t, "plant trees", out)
	}
	require.Len(t, gen.prompts, 1)
	require.Equal(t, hits+2, testutil.ToFloat64(cacheLookups.WithLabelValues("hit")))
	require.True(t, mr.Exists("ecosangam:advice:2"))

	mr.FastForward(2 * time.Hour)
	_, err := adv.Advice(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, gen.prompts, 2)
}

func TestAdviceQuotesCachedValue(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	gen := &stubGenerator{text: "cycle more"}
	adv := New(gen, WithCache(NewRedisCache(client, "ecosangam:"), time.Hour))

	cases := []struct {
		name string
		tons float64
	}{
		{name: "first", tons: 1.23456789},
		{name: "differs past fourth decimal", tons: 1.23459999},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := adv.Advice(context.Background(), tc.tons)
			require.NoError(t, err)
			require.Equal(t, "cycle more", out)
		})
	}
	require.Len(t, gen.prompts, 1)
	require.Contains(t, gen.prompts[0], "approximately **1.2346 tons of CO₂ per year**")
	require.NotContains(t, gen.prompts[0], "1.23456789")
	require.True(t, mr.Exists("ecosangam:advice:1.2346"))
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), mr.Addr())
	require.NoError(t, err)
	require.NoError(t, client.Close())

	mr.Close()
	_, err = NewRedisClient(context.Background(), "redis://"+mr.Addr())
	require.Error(t, err)
}

func TestGeminiClientGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1beta/models/gemini-1.5-flash:generateContent", r.URL.Path)
		require.Equal(t, "k", r.Header.Get("x-goog-api-key"))
		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "hello", req.Contents[0].Parts[0].Text)
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Hi "},{"text":"there"}]}}]}`))
	}))
	defer srv.Close()

	client, err := NewGeminiClient(GeminiConfig{APIKey: "k", BaseURL: srv.URL + "/v1beta/"})
	require.NoError(t, err)
	text, err := client.Generate(context.Background(), "hello")
	require.NoError(t, err)
	require.Equal(t, "Hi there", text)
}

func TestGeminiClientErrors(t *testing.T) {
	_, err := NewGeminiClient(GeminiConfig{})
	require.Error(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("slow down"))
	}))
	defer srv.Close()

	client, err := NewGeminiClient(GeminiConfig{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = client.Generate(context.Background(), "hello")
	require.ErrorContains(t, err, "status 429")
}
