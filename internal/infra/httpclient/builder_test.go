package httpclient

import (
	"context"
	"net/http"
	"testing"

	"github.com/fastestraces/fastestraces/internal/domain"
)

func TestRankingURL(t *testing.T) {
	got, err := RankingURL("https://www.thepowerof10.info/", domain.GenderMale, domain.Distance10K, 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "https://www.thepowerof10.info/rankings/rankinglist.aspx?event=10K&agegroup=ALL&sex=M&year=2024"
	if got != want {
		t.Fatalf("RankingURL = %q, want %q", got, want)
	}
}

func TestRankingURLRequiresBase(t *testing.T) {
	_, err := RankingURL("  ", domain.GenderFemale, domain.DistanceHalf, 2023)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.KindInvalidConfig) {
		t.Fatalf("expected invalid_config, got %v", err)
	}
}

func TestBuildRankingRequestSetsHeaders(t *testing.T) {
	req, err := BuildRankingRequest(context.Background(), "http://example.test/x", "ua-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Method != http.MethodGet {
		t.Fatalf("expected GET, got %s", req.Method)
	}
	if req.Header.Get("User-Agent") != "ua-test" {
		t.Fatalf("expected user agent header")
	}
	if req.Header.Get("Accept") == "" {
		t.Fatalf("expected accept header")
	}
}
