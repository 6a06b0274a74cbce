package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/git-bubble/api/internal/domain"
	"github.com/git-bubble/api/internal/services"
)

type stubVillageService struct {
	renderFunc func(ctx context.Context, cmd services.VillageRenderCommand) (services.VillageRenderResult, error)
}

func (s *stubVillageService) Render(ctx context.Context, cmd services.VillageRenderCommand) (services.VillageRenderResult, error) {
	return s.renderFunc(ctx, cmd)
}

func TestVillageHandlersRenderSuccess(t *testing.T) {
	var captured services.VillageRenderCommand
	service := &stubVillageService{
		renderFunc: func(_ context.Context, cmd services.VillageRenderCommand) (services.VillageRenderResult, error) {
			captured = cmd
			return services.VillageRenderResult{SVG: "<svg/>", TotalCommits: 25, Visitors: 3}, nil
		},
	}
	usage := &stubUsageService{}

	handler := NewVillageHandlers(service, usage)
	router := NewRouter(WithVillageRoutes(handler.Routes))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/village?username=octocat&theme=dark&lang=en", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if captured.Username != "octocat" {
		t.Fatalf("expected username forwarded, got %q", captured.Username)
	}
	if captured.Width != villageDefaultWidth || captured.Height != villageDefaultHeight {
		t.Fatalf("unexpected default dimensions: %v x %v", captured.Width, captured.Height)
	}
	if captured.Theme != domain.ThemeDark || captured.Lang != domain.LangEn {
		t.Fatalf("unexpected theme/lang: %s/%s", captured.Theme, captured.Lang)
	}

	if len(usage.samples) != 1 {
		t.Fatalf("expected one usage sample, got %d", len(usage.samples))
	}
	if usage.samples[0].Feature != domain.FeatureVillage || usage.samples[0].Username != "octocat" {
		t.Fatalf("unexpected sample %+v", usage.samples[0])
	}
}

func TestVillageHandlersClampsDimensions(t *testing.T) {
	var captured services.VillageRenderCommand
	service := &stubVillageService{
		renderFunc: func(_ context.Context, cmd services.VillageRenderCommand) (services.VillageRenderResult, error) {
			captured = cmd
			return services.VillageRenderResult{SVG: "<svg/>"}, nil
		},
	}

	handler := NewVillageHandlers(service, nil)
	router := NewRouter(WithVillageRoutes(handler.Routes))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/village?username=octocat&width=5000&height=10", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if captured.Width != villageMaxWidth {
		t.Fatalf("expected width clamped to %v, got %v", villageMaxWidth, captured.Width)
	}
	if captured.Height != villageMinHeight {
		t.Fatalf("expected height clamped to %v, got %v", villageMinHeight, captured.Height)
	}
}

func TestVillageHandlersMissingUsername(t *testing.T) {
	handler := NewVillageHandlers(&stubVillageService{
		renderFunc: func(context.Context, services.VillageRenderCommand) (services.VillageRenderResult, error) {
			t.Fatal("render should not be called")
			return services.VillageRenderResult{}, nil
		},
	}, nil)
	router := NewRouter(WithVillageRoutes(handler.Routes))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/village", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
	if body := rr.Body.String(); body != "Missing required parameter: username" {
		t.Fatalf("unexpected body %q", body)
	}
}
